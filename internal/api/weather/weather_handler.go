package weather

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/brightsky/go-activity-planner/internal/api"
	"github.com/brightsky/go-activity-planner/internal/types"
)

// Runner runs the resolve-and-fetch portion of the pipeline. Satisfied by
// pipeline.Pipeline; kept as a local interface so the handler stays testable.
type Runner interface {
	CurrentWeather(ctx context.Context, query string) (*types.WeatherSnapshot, error)
}

// Handler exposes the weather tool contract over HTTP.
type Handler struct {
	runner Runner
	logger *slog.Logger
}

// NewHandler creates a new weather handler instance.
func NewHandler(runner Runner, logger *slog.Logger) *Handler {
	return &Handler{
		runner: runner,
		logger: logger,
	}
}

// GetCurrentWeather godoc
// @Summary      Get Current Weather
// @Description  Resolves a free-text location and returns normalized current observations.
// @Tags         Weather
// @Accept       json
// @Produce      json
// @Param        body body types.WeatherRequest true "Location query"
// @Success      200 {object} types.WeatherSnapshot "Current Weather"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      404 {object} types.Response "Location Not Found"
// @Failure      502 {object} types.Response "Upstream Failure"
// @Router       /weather [post]
func (h *Handler) GetCurrentWeather(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("WeatherHandler").Start(r.Context(), "GetCurrentWeather", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/weather"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetCurrentWeather"))

	var req types.WeatherRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, err := h.runner.CurrentWeather(ctx, req.Location)
	if err != nil {
		l.ErrorContext(ctx, "Failed to get current weather", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get current weather")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Current weather retrieved successfully")
	api.WriteJSONResponse(w, r, http.StatusOK, snapshot)
}
