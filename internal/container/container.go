package container

import (
	"context"
	"log/slog"

	"github.com/brightsky/go-activity-planner/app/observability/metrics"
	"github.com/brightsky/go-activity-planner/config"
	"github.com/brightsky/go-activity-planner/internal/api/geocoding"
	generativeAI "github.com/brightsky/go-activity-planner/internal/api/generative_ai"
	"github.com/brightsky/go-activity-planner/internal/api/planner"
	"github.com/brightsky/go-activity-planner/internal/api/weather"
	"github.com/brightsky/go-activity-planner/internal/pipeline"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *slog.Logger
	Pipeline       *pipeline.Pipeline
	WeatherHandler *weather.Handler
	PlannerHandler *planner.Handler
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	metrics.InitAppMetrics()

	// Stage services
	geocodingService := geocoding.NewGeocodingService(
		cfg.Upstream.Geocoding.BaseURL, cfg.Upstream.Geocoding.Timeout, logger)

	weatherService := weather.NewWeatherService(
		cfg.Upstream.Weather.BaseURL, cfg.Upstream.Weather.Timeout, logger)
	cachedWeather := weather.NewCachedService(
		weatherService, cfg.Cache.TTL, cfg.Cache.CleanupInterval, logger)

	aiClient, err := generativeAI.NewAIClient(ctx, cfg.LLM.Model)
	if err != nil {
		logger.Error("Failed to initialize AI client", slog.Any("error", err))
		return nil, err
	}
	plannerService := planner.NewPlannerService(
		aiClient, cfg.Planner.WindGustWarning, cfg.LLM.Temperature, logger)

	// Orchestrator
	p := pipeline.NewPipeline(
		geocodingService, cachedWeather, plannerService, cfg.Planner.ForecastDays, logger)

	// Handlers
	weatherHandler := weather.NewHandler(p, logger)
	plannerHandler := planner.NewHandler(p, logger)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Pipeline:       p,
		WeatherHandler: weatherHandler,
		PlannerHandler: plannerHandler,
	}, nil
}
