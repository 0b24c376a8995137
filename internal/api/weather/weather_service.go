package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/brightsky/go-activity-planner/app/observability/metrics"
	"github.com/brightsky/go-activity-planner/internal/types"
)

// maxForecastDays bounds the forecast window the upstream is asked for.
const maxForecastDays = 7

// Ensure implementation satisfies the interface
var _ WeatherService = (*ServiceImpl)(nil)

// WeatherService retrieves current observations and daily forecasts for
// resolved coordinates, normalized to °C and m/s.
type WeatherService interface {
	FetchCurrent(ctx context.Context, loc *types.ResolvedLocation) (*types.WeatherSnapshot, error)
	FetchForecast(ctx context.Context, loc *types.ResolvedLocation, days int) (types.ForecastWindow, error)
}

// ServiceImpl provides the implementation for WeatherService, backed by the
// Open-Meteo forecast API.
type ServiceImpl struct {
	logger     *slog.Logger
	baseURL    string
	httpClient *http.Client
}

// NewWeatherService creates a new weather service instance.
func NewWeatherService(baseURL string, timeout time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// forecastResponse mirrors the upstream payload. Pointer fields distinguish
// absent keys from zero values so contract drift is detected.
type forecastResponse struct {
	Current *struct {
		Temperature *float64 `json:"temperature_2m"`
		FeelsLike   *float64 `json:"apparent_temperature"`
		Humidity    *float64 `json:"relative_humidity_2m"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		WindGust    *float64 `json:"wind_gusts_10m"`
		WeatherCode *int     `json:"weather_code"`
	} `json:"current"`
	Daily *struct {
		Time        []string  `json:"time"`
		MaxTemp     []float64 `json:"temperature_2m_max"`
		MinTemp     []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
}

// FetchCurrent retrieves and normalizes the current observations for a
// location. No retry here: the caller owns retry policy.
func (s *ServiceImpl) FetchCurrent(ctx context.Context, loc *types.ResolvedLocation) (*types.WeatherSnapshot, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "FetchCurrent", trace.WithAttributes(
		attribute.Float64("latitude", loc.Latitude),
		attribute.Float64("longitude", loc.Longitude),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "FetchCurrent"), slog.String("location", loc.DisplayName))

	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(loc.Latitude, 'f', 4, 64))
	params.Add("longitude", strconv.FormatFloat(loc.Longitude, 'f', 4, 64))
	params.Add("current", "temperature_2m,apparent_temperature,relative_humidity_2m,wind_speed_10m,wind_gusts_10m,weather_code")

	payload, err := s.get(ctx, l, params, loc.DisplayName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Fetch failed")
		return nil, err
	}

	cur := payload.Current
	if cur == nil || cur.Temperature == nil || cur.FeelsLike == nil || cur.Humidity == nil ||
		cur.WindSpeed == nil || cur.WindGust == nil || cur.WeatherCode == nil {
		err := fmt.Errorf("current weather block for %q is incomplete: %w", loc.DisplayName, types.ErrMalformedResponse)
		l.ErrorContext(ctx, "Incomplete current weather payload", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Incomplete current weather payload")
		return nil, err
	}

	// Upstream reports wind in km/h; the canonical schema is m/s. Conversions
	// happen here, never in callers.
	windSpeed := kmhToMs(*cur.WindSpeed)
	windGust := kmhToMs(*cur.WindGust)
	if windGust < windSpeed {
		windGust = windSpeed
	}

	humidity := *cur.Humidity
	if humidity < 0 {
		humidity = 0
	} else if humidity > 100 {
		humidity = 100
	}

	snapshot := &types.WeatherSnapshot{
		Temperature:   *cur.Temperature,
		FeelsLike:     *cur.FeelsLike,
		Humidity:      humidity,
		WindSpeed:     windSpeed,
		WindGust:      windGust,
		ConditionCode: *cur.WeatherCode,
		Conditions:    ClassifyWeatherCode(*cur.WeatherCode),
		Location:      loc.DisplayName,
	}

	l.InfoContext(ctx, "Current weather fetched",
		slog.String("conditions", snapshot.Conditions),
		slog.Float64("temperature", snapshot.Temperature))
	span.SetStatus(codes.Ok, "Current weather fetched")
	return snapshot, nil
}

// FetchForecast retrieves the daily forecast window for a location. The day
// count is clamped to 1..7 before the upstream call.
func (s *ServiceImpl) FetchForecast(ctx context.Context, loc *types.ResolvedLocation, days int) (types.ForecastWindow, error) {
	ctx, span := otel.Tracer("WeatherService").Start(ctx, "FetchForecast", trace.WithAttributes(
		attribute.Float64("latitude", loc.Latitude),
		attribute.Float64("longitude", loc.Longitude),
		attribute.Int("days", days),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "FetchForecast"), slog.String("location", loc.DisplayName))

	if days < 1 {
		days = 1
	} else if days > maxForecastDays {
		days = maxForecastDays
	}

	params := url.Values{}
	params.Add("latitude", strconv.FormatFloat(loc.Latitude, 'f', 4, 64))
	params.Add("longitude", strconv.FormatFloat(loc.Longitude, 'f', 4, 64))
	params.Add("daily", "temperature_2m_max,temperature_2m_min,weather_code")
	params.Add("forecast_days", strconv.Itoa(days))
	params.Add("timezone", "auto")

	payload, err := s.get(ctx, l, params, loc.DisplayName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Fetch failed")
		return nil, err
	}

	daily := payload.Daily
	if daily == nil || len(daily.Time) == 0 ||
		len(daily.MaxTemp) != len(daily.Time) ||
		len(daily.MinTemp) != len(daily.Time) ||
		len(daily.WeatherCode) != len(daily.Time) {
		err := fmt.Errorf("daily forecast block for %q is incomplete: %w", loc.DisplayName, types.ErrMalformedResponse)
		l.ErrorContext(ctx, "Incomplete daily forecast payload", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Incomplete daily forecast payload")
		return nil, err
	}

	window := make(types.ForecastWindow, 0, len(daily.Time))
	for i, day := range daily.Time {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("unparseable forecast date %q for %q: %w", day, loc.DisplayName, types.ErrMalformedResponse)
		}
		window = append(window, types.ForecastDay{
			Date:          date,
			MaxTemp:       daily.MaxTemp[i],
			MinTemp:       daily.MinTemp[i],
			ConditionCode: daily.WeatherCode[i],
			Conditions:    ClassifyWeatherCode(daily.WeatherCode[i]),
		})
	}
	if len(window) > maxForecastDays {
		window = window[:maxForecastDays]
	}

	l.InfoContext(ctx, "Forecast fetched", slog.Int("days", len(window)))
	span.SetStatus(codes.Ok, "Forecast fetched")
	return window, nil
}

func (s *ServiceImpl) get(ctx context.Context, l *slog.Logger, params url.Values, location string) (*forecastResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		l.ErrorContext(ctx, "Weather request failed", slog.Any("error", err))
		recordUpstreamError(ctx)
		return nil, fmt.Errorf("weather request for %q failed: %w", location, types.ErrUpstreamService)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		l.ErrorContext(ctx, "Weather service returned non-OK status", slog.Int("status", resp.StatusCode))
		recordUpstreamError(ctx)
		return nil, fmt.Errorf("weather service returned status %d for %q: %w", resp.StatusCode, location, types.ErrUpstreamService)
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		l.ErrorContext(ctx, "Failed to decode weather response", slog.Any("error", err))
		return nil, fmt.Errorf("failed to decode weather response for %q: %w", location, types.ErrMalformedResponse)
	}
	return &payload, nil
}

func kmhToMs(v float64) float64 {
	return v / 3.6
}

func recordUpstreamError(ctx context.Context) {
	if m := metrics.Get(); m != nil {
		m.UpstreamErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("service", "weather")))
	}
}
