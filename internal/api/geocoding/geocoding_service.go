package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/brightsky/go-activity-planner/app/observability/metrics"
	"github.com/brightsky/go-activity-planner/internal/types"
)

// Ensure implementation satisfies the interface
var _ GeocodingService = (*ServiceImpl)(nil)

// GeocodingService resolves a free-text place name to coordinates and a
// canonical display name.
type GeocodingService interface {
	Resolve(ctx context.Context, query string) (*types.ResolvedLocation, error)
}

// ServiceImpl provides the implementation for GeocodingService, backed by the
// Open-Meteo geocoding API.
type ServiceImpl struct {
	logger     *slog.Logger
	baseURL    string
	httpClient *http.Client
}

// NewGeocodingService creates a new geocoding service instance.
func NewGeocodingService(baseURL string, timeout time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// geocodingResponse mirrors the upstream search payload. The first candidate
// is authoritative; ranking ambiguity is the upstream service's problem.
type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
	} `json:"results"`
}

// Resolve geocodes a free-text query. An empty query fails before any network
// call; zero upstream results fail with the query echoed in the message.
func (s *ServiceImpl) Resolve(ctx context.Context, query string) (*types.ResolvedLocation, error) {
	ctx, span := otel.Tracer("GeocodingService").Start(ctx, "Resolve", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Resolve"), slog.String("query", query))

	query = strings.TrimSpace(query)
	if query == "" {
		err := fmt.Errorf("location query must not be empty: %w", types.ErrInvalidInput)
		l.WarnContext(ctx, "Rejected empty location query")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty query")
		return nil, err
	}

	params := url.Values{}
	params.Add("name", query)
	params.Add("count", "1")
	params.Add("language", "en")
	params.Add("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to build request")
		return nil, fmt.Errorf("failed to create geocoding request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		l.ErrorContext(ctx, "Geocoding request failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Geocoding request failed")
		recordUpstreamError(ctx)
		return nil, fmt.Errorf("geocoding request for %q failed: %w", query, types.ErrUpstreamService)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.ErrorContext(ctx, "Geocoding service returned non-OK status", slog.Int("status", resp.StatusCode))
		span.SetStatus(codes.Error, "Geocoding service returned non-OK status")
		recordUpstreamError(ctx)
		return nil, fmt.Errorf("geocoding service returned status %d for %q: %w", resp.StatusCode, query, types.ErrUpstreamService)
	}

	var payload geocodingResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		l.ErrorContext(ctx, "Failed to decode geocoding response", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode geocoding response")
		return nil, fmt.Errorf("failed to decode geocoding response for %q: %w", query, types.ErrMalformedResponse)
	}

	if len(payload.Results) == 0 {
		err := fmt.Errorf("no geocoding results for %q: %w", query, types.ErrLocationNotFound)
		l.WarnContext(ctx, "No geocoding results")
		span.SetStatus(codes.Error, "No geocoding results")
		return nil, err
	}

	best := payload.Results[0]
	if best.Name == "" {
		return nil, fmt.Errorf("geocoding result for %q is missing a name: %w", query, types.ErrMalformedResponse)
	}

	loc := &types.ResolvedLocation{
		Latitude:    best.Latitude,
		Longitude:   best.Longitude,
		DisplayName: best.Name,
	}

	l.InfoContext(ctx, "Location resolved",
		slog.String("display_name", loc.DisplayName),
		slog.Float64("latitude", loc.Latitude),
		slog.Float64("longitude", loc.Longitude))
	span.SetStatus(codes.Ok, "Location resolved")
	return loc, nil
}

func recordUpstreamError(ctx context.Context) {
	if m := metrics.Get(); m != nil {
		m.UpstreamErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("service", "geocoding")))
	}
}
