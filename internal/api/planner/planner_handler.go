package planner

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

// Runner runs the full geocode -> fetch -> synthesize pipeline. Satisfied by
// pipeline.Pipeline.
type Runner interface {
	PlanActivities(ctx context.Context, city string) (*types.ActivityPlan, error)
}

// Handler exposes the workflow invocation contract over HTTP.
type Handler struct {
	runner Runner
	logger *slog.Logger
}

// NewHandler creates a new planner handler instance.
func NewHandler(runner Runner, logger *slog.Logger) *Handler {
	return &Handler{
		runner: runner,
		logger: logger,
	}
}

// CreatePlan godoc
// @Summary      Create Activity Plan
// @Description  Runs the full pipeline for a city and returns a structured activity plan.
// @Tags         Planner
// @Accept       json
// @Produce      json
// @Param        body body types.PlanRequest true "City"
// @Success      200 {object} types.ActivityPlan "Activity Plan"
// @Failure      400 {object} types.Response "Invalid Input"
// @Failure      404 {object} types.Response "Location Not Found"
// @Failure      502 {object} types.Response "Upstream Failure"
// @Router       /plans [post]
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "CreatePlan", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/plans"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "CreatePlan"))

	var req types.PlanRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.runner.PlanActivities(ctx, req.City)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create activity plan", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create activity plan")
		api.ErrorResponse(w, r, api.StatusFromError(err), err.Error())
		return
	}

	span.SetStatus(codes.Ok, "Activity plan created successfully")
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}
