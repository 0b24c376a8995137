package weather

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/brightsky/go-activity-planner/internal/types"
)

// Ensure decorator satisfies the interface
var _ WeatherService = (*CachedService)(nil)

// CachedService decorates a WeatherService with a TTL cache keyed by rounded
// coordinates. singleflight guarantees at most one in-flight upstream fetch
// per key when identical requests arrive concurrently.
type CachedService struct {
	logger *slog.Logger
	inner  WeatherService
	cache  *cache.Cache
	group  singleflight.Group
}

// NewCachedService wraps a weather service with caching.
func NewCachedService(inner WeatherService, ttl, cleanupInterval time.Duration, logger *slog.Logger) *CachedService {
	return &CachedService{
		logger: logger,
		inner:  inner,
		cache:  cache.New(ttl, cleanupInterval),
	}
}

func currentKey(loc *types.ResolvedLocation) string {
	// Four decimals ≈ 11m, close enough to treat as the same observation point.
	return fmt.Sprintf("current:%.4f:%.4f", loc.Latitude, loc.Longitude)
}

func forecastKey(loc *types.ResolvedLocation, days int) string {
	return fmt.Sprintf("forecast:%.4f:%.4f:%d", loc.Latitude, loc.Longitude, days)
}

// FetchCurrent returns a cached snapshot when fresh, otherwise delegates to
// the inner service with concurrent identical fetches collapsed into one.
func (s *CachedService) FetchCurrent(ctx context.Context, loc *types.ResolvedLocation) (*types.WeatherSnapshot, error) {
	key := currentKey(loc)
	if v, ok := s.cache.Get(key); ok {
		s.logger.DebugContext(ctx, "Weather cache hit", slog.String("key", key))
		return v.(*types.WeatherSnapshot), nil
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		snapshot, err := s.inner.FetchCurrent(ctx, loc)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, snapshot, cache.DefaultExpiration)
		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.DebugContext(ctx, "Weather fetch shared across concurrent callers", slog.String("key", key))
	}
	return v.(*types.WeatherSnapshot), nil
}

// FetchForecast behaves like FetchCurrent for the daily window.
func (s *CachedService) FetchForecast(ctx context.Context, loc *types.ResolvedLocation, days int) (types.ForecastWindow, error) {
	key := forecastKey(loc, days)
	if v, ok := s.cache.Get(key); ok {
		s.logger.DebugContext(ctx, "Forecast cache hit", slog.String("key", key))
		return v.(types.ForecastWindow), nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		window, err := s.inner.FetchForecast(ctx, loc, days)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, window, cache.DefaultExpiration)
		return window, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(types.ForecastWindow), nil
}
