package weather

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightsky/go-activity-planner/internal/types"
)

var testLocation = &types.ResolvedLocation{
	Latitude:    35.6895,
	Longitude:   139.6917,
	DisplayName: "Tokyo",
}

const currentPayload = `{
	"current": {
		"temperature_2m": 21.4,
		"apparent_temperature": 22.1,
		"relative_humidity_2m": 63.0,
		"wind_speed_10m": 18.0,
		"wind_gusts_10m": 36.0,
		"weather_code": 2
	}
}`

func newTestService(t *testing.T, handler http.HandlerFunc) (*ServiceImpl, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	service := NewWeatherService(server.URL, 5*time.Second, slog.Default())
	return service, server.Close
}

func TestFetchCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success normalizes units", func(t *testing.T) {
		service, closeFn := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, r.URL.Query().Get("latitude"))
			assert.NotEmpty(t, r.URL.Query().Get("longitude"))
			w.Write([]byte(currentPayload))
		})
		defer closeFn()

		snapshot, err := service.FetchCurrent(ctx, testLocation)
		require.NoError(t, err)

		assert.InDelta(t, 21.4, snapshot.Temperature, 0.001)
		assert.InDelta(t, 22.1, snapshot.FeelsLike, 0.001)
		assert.InDelta(t, 63.0, snapshot.Humidity, 0.001)
		// 18 km/h -> 5 m/s, 36 km/h -> 10 m/s
		assert.InDelta(t, 5.0, snapshot.WindSpeed, 0.001)
		assert.InDelta(t, 10.0, snapshot.WindGust, 0.001)
		assert.Equal(t, 2, snapshot.ConditionCode)
		assert.Equal(t, "Partly cloudy", snapshot.Conditions)
		assert.Equal(t, "Tokyo", snapshot.Location)
	})

	t.Run("Gust clamped to wind speed", func(t *testing.T) {
		service, closeFn := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"current":{"temperature_2m":10,"apparent_temperature":9,"relative_humidity_2m":50,"wind_speed_10m":20.0,"wind_gusts_10m":12.0,"weather_code":0}}`))
		})
		defer closeFn()

		snapshot, err := service.FetchCurrent(ctx, testLocation)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, snapshot.WindGust, snapshot.WindSpeed)
	})

	t.Run("Humidity clamped to range", func(t *testing.T) {
		service, closeFn := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"current":{"temperature_2m":10,"apparent_temperature":9,"relative_humidity_2m":104.2,"wind_speed_10m":4,"wind_gusts_10m":5,"weather_code":0}}`))
		})
		defer closeFn()

		snapshot, err := service.FetchCurrent(ctx, testLocation)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, snapshot.Humidity, 0.0)
		assert.LessOrEqual(t, snapshot.Humidity, 100.0)
	})

	t.Run("Unknown code falls back", func(t *testing.T) {
		service, closeFn := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"current":{"temperature_2m":10,"apparent_temperature":9,"relative_humidity_2m":50,"wind_speed_10m":4,"wind_gusts_10m":5,"weather_code":42}}`))
		})
		defer closeFn()

		snapshot, err := service.FetchCurrent(ctx, testLocation)
		require.NoError(t, err)
		assert.Equal(t, "Unknown", snapshot.Conditions)
		assert.NotEmpty(t, snapshot.Conditions)
	})

	t.Run("Missing fields", func(t *testing.T) {
		service, closeFn := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"current":{"temperature_2m":10,"weather_code":0}}`))
		})
		defer closeFn()

		snapshot, err := service.FetchCurrent(ctx, testLocation)
		assert.ErrorIs(t, err, types.ErrMalformedResponse)
		assert.Nil(t, snapshot)
	})

	t.Run("Missing current block", func(t *testing.T) {
		service, closeFn := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"latitude":35.7}`))
		})
		defer closeFn()

		_, err := service.FetchCurrent(ctx, testLocation)
		assert.ErrorIs(t, err, types.ErrMalformedResponse)
	})

	t.Run("Upstream error", func(t *testing.T) {
		service, closeFn := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal", http.StatusInternalServerError)
		})
		defer closeFn()

		_, err := service.FetchCurrent(ctx, testLocation)
		assert.ErrorIs(t, err, types.ErrUpstreamService)
	})
}

func TestFetchForecast(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		service, closeFn := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "3", r.URL.Query().Get("forecast_days"))
			w.Write([]byte(`{"daily":{
				"time":["2026-08-23","2026-08-24","2026-08-25"],
				"temperature_2m_max":[24.1,25.0,22.3],
				"temperature_2m_min":[17.0,18.2,16.5],
				"weather_code":[1,61,95]
			}}`))
		})
		defer closeFn()

		window, err := service.FetchForecast(ctx, testLocation, 3)
		require.NoError(t, err)
		require.Len(t, window, 3)

		assert.Equal(t, "Mainly clear", window[0].Conditions)
		assert.Equal(t, "Slight rain", window[1].Conditions)
		assert.Equal(t, "Thunderstorm", window[2].Conditions)
		// Chronological order
		assert.True(t, window[0].Date.Before(window[1].Date))
		assert.True(t, window[1].Date.Before(window[2].Date))
	})

	t.Run("Day count clamped", func(t *testing.T) {
		var requestedDays string
		service, closeFn := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			requestedDays = r.URL.Query().Get("forecast_days")
			w.Write([]byte(`{"daily":{"time":["2026-08-23"],"temperature_2m_max":[24.1],"temperature_2m_min":[17.0],"weather_code":[1]}}`))
		})
		defer closeFn()

		_, err := service.FetchForecast(ctx, testLocation, 30)
		require.NoError(t, err)
		assert.Equal(t, "7", requestedDays)

		_, err = service.FetchForecast(ctx, testLocation, 0)
		require.NoError(t, err)
		assert.Equal(t, "1", requestedDays)
	})

	t.Run("Ragged arrays are malformed", func(t *testing.T) {
		service, closeFn := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"daily":{"time":["2026-08-23","2026-08-24"],"temperature_2m_max":[24.1],"temperature_2m_min":[17.0,18.0],"weather_code":[1,2]}}`))
		})
		defer closeFn()

		_, err := service.FetchForecast(ctx, testLocation, 2)
		assert.ErrorIs(t, err, types.ErrMalformedResponse)
	})
}
