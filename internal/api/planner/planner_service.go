package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/brightsky/go-activity-planner/app/observability/metrics"
	"github.com/brightsky/go-activity-planner/internal/types"
)

const (
	// minPrecipCode is the first WMO code of the drizzle/rain/snow/storm
	// families; anything at or above it makes indoor alternatives mandatory.
	minPrecipCode = 51
	// minStormCode is the first thunderstorm code.
	minStormCode = 95
	// extremeHumidityPct triggers a humidity warning.
	extremeHumidityPct = 95.0
)

// Ensure implementation satisfies the interface
var _ PlannerService = (*ServiceImpl)(nil)

// Generator is the language-generation capability the synthesizer delegates
// to. Swapping model providers means swapping the implementation, not the
// pipeline.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

// PlannerService turns a weather snapshot plus a forecast window into a
// validated activity plan.
type PlannerService interface {
	Synthesize(ctx context.Context, snapshot *types.WeatherSnapshot, window types.ForecastWindow) (*types.ActivityPlan, error)
}

// ServiceImpl provides the implementation for PlannerService. It owns the
// prompt contract and the structural validation of the model's output; venue
// and activity naming stay with the model.
type ServiceImpl struct {
	logger          *slog.Logger
	generator       Generator
	temperature     float32
	windGustWarning float64
}

// NewPlannerService creates a new planner service instance.
func NewPlannerService(generator Generator, windGustWarning float64, temperature float32, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:          logger,
		generator:       generator,
		temperature:     temperature,
		windGustWarning: windGustWarning,
	}
}

// Synthesize builds the prompt context, calls the generator and validates the
// structured output. A response that fails schema validation is never
// returned; it fails with types.ErrPlanFormat.
func (s *ServiceImpl) Synthesize(ctx context.Context, snapshot *types.WeatherSnapshot, window types.ForecastWindow) (*types.ActivityPlan, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "Synthesize", trace.WithAttributes(
		attribute.String("location", snapshot.Location),
		attribute.Int("condition_code", snapshot.ConditionCode),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Synthesize"), slog.String("location", snapshot.Location))
	l.DebugContext(ctx, "Synthesizing activity plan")

	prompt := buildActivityPlanPrompt(snapshot, window)
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](s.temperature),
		ResponseMIMEType: "application/json",
	}

	raw, err := s.generator.GenerateContent(ctx, prompt, config)
	if err != nil {
		l.ErrorContext(ctx, "Plan generation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Plan generation failed")
		return nil, fmt.Errorf("plan generation for %q failed: %w", snapshot.Location, types.ErrUpstreamService)
	}

	plan, err := parseActivityPlan(cleanJSONResponse(raw))
	if err != nil {
		l.ErrorContext(ctx, "Failed to parse plan response", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to parse plan response")
		if m := metrics.Get(); m != nil {
			m.PlanValidationErrorsTotal.Add(ctx, 1)
		}
		return nil, fmt.Errorf("unparseable plan response for %q: %w", snapshot.Location, types.ErrPlanFormat)
	}

	plan.ID = uuid.New()
	plan.GeneratedAt = time.Now().UTC()
	s.applyPolicy(plan, snapshot)

	if err := validatePlan(plan, snapshot); err != nil {
		l.ErrorContext(ctx, "Plan failed schema validation", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Plan failed schema validation")
		if m := metrics.Get(); m != nil {
			m.PlanValidationErrorsTotal.Add(ctx, 1)
		}
		return nil, err
	}

	l.InfoContext(ctx, "Activity plan synthesized",
		slog.String("plan_id", plan.ID.String()),
		slog.Int("morning", len(plan.Morning)),
		slog.Int("afternoon", len(plan.Afternoon)),
		slog.Int("indoor", len(plan.Indoor)),
		slog.Int("warnings", len(plan.Warnings)))
	span.SetStatus(codes.Ok, "Activity plan synthesized")
	return plan, nil
}

// applyPolicy appends the deterministic, weather-driven parts of the plan:
// warnings the model is not trusted to produce and summary fields it may have
// omitted. Venue content is never fabricated here.
func (s *ServiceImpl) applyPolicy(plan *types.ActivityPlan, snapshot *types.WeatherSnapshot) {
	if snapshot.WindGust > s.windGustWarning {
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("Strong wind gusts up to %.1f m/s expected; avoid exposed viewpoints and secure loose items.", snapshot.WindGust))
	}
	if snapshot.ConditionCode >= minStormCode {
		plan.Warnings = append(plan.Warnings,
			"Thunderstorms in the area; move indoors at the first sign of lightning.")
	}
	if snapshot.Humidity >= extremeHumidityPct {
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("Very high humidity (%.0f%%); plan frequent breaks and stay hydrated.", snapshot.Humidity))
	}

	if plan.Summary.TempRangeC == "" {
		plan.Summary.TempRangeC = fmt.Sprintf("%.0f°C", snapshot.Temperature)
	}
	if plan.Summary.TempRangeF == "" {
		plan.Summary.TempRangeF = fmt.Sprintf("%.0f°F", snapshot.Temperature*9/5+32)
	}
	if plan.Warnings == nil {
		plan.Warnings = []string{}
	}
}

// requiresIndoor reports whether the condition code makes indoor
// alternatives mandatory.
func requiresIndoor(code int) bool {
	return code >= minPrecipCode
}

func validatePlan(plan *types.ActivityPlan, snapshot *types.WeatherSnapshot) error {
	if plan.Summary.Conditions == "" {
		return fmt.Errorf("plan summary is missing conditions: %w", types.ErrPlanFormat)
	}
	if len(plan.Morning) == 0 {
		return fmt.Errorf("plan has no morning activities: %w", types.ErrPlanFormat)
	}
	if len(plan.Afternoon) == 0 {
		return fmt.Errorf("plan has no afternoon activities: %w", types.ErrPlanFormat)
	}
	if requiresIndoor(snapshot.ConditionCode) && len(plan.Indoor) == 0 {
		return fmt.Errorf("conditions %q require indoor alternatives but the plan has none: %w",
			snapshot.Conditions, types.ErrPlanFormat)
	}
	for _, section := range [][]types.ActivityItem{plan.Morning, plan.Afternoon, plan.Indoor} {
		for _, item := range section {
			if item.Name == "" || item.Description == "" {
				return fmt.Errorf("plan contains an activity without name or description: %w", types.ErrPlanFormat)
			}
		}
	}
	return nil
}
