package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/brightsky/go-activity-planner/app/observability/metrics"
	"github.com/brightsky/go-activity-planner/internal/types"
)

// State is the orchestrator's position in a single pipeline invocation.
type State string

const (
	StateIdle         State = "idle"
	StateResolving    State = "resolving"
	StateFetching     State = "fetching"
	StateSynthesizing State = "synthesizing"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Stage interfaces are defined on the consumer side so the orchestrator
// depends only on typed contracts, not on concrete services.

// Geocoder resolves a free-text query to coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (*types.ResolvedLocation, error)
}

// WeatherFetcher retrieves normalized observations for coordinates.
type WeatherFetcher interface {
	FetchCurrent(ctx context.Context, loc *types.ResolvedLocation) (*types.WeatherSnapshot, error)
	FetchForecast(ctx context.Context, loc *types.ResolvedLocation, days int) (types.ForecastWindow, error)
}

// Synthesizer turns weather data into a validated activity plan.
type Synthesizer interface {
	Synthesize(ctx context.Context, snapshot *types.WeatherSnapshot, window types.ForecastWindow) (*types.ActivityPlan, error)
}

// Result carries the typed outputs of a single invocation plus the terminal
// state. On failure, Err holds the originating error and FailedStage names
// the stage that produced it.
type Result struct {
	State       State
	FailedStage string
	Location    *types.ResolvedLocation
	Snapshot    *types.WeatherSnapshot
	Window      types.ForecastWindow
	Plan        *types.ActivityPlan
	Err         error
}

// Pipeline sequences geocode -> fetch -> synthesize with fail-fast semantics.
// It performs no data transformation itself and never retries a stage; retry
// is a caller-level policy over the whole invocation. Every invocation is
// stateless and self-contained, so concurrent runs share nothing.
type Pipeline struct {
	logger       *slog.Logger
	geocoder     Geocoder
	weather      WeatherFetcher
	synthesizer  Synthesizer
	forecastDays int
}

// NewPipeline creates a new pipeline instance.
func NewPipeline(geocoder Geocoder, weather WeatherFetcher, synthesizer Synthesizer, forecastDays int, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger:       logger,
		geocoder:     geocoder,
		weather:      weather,
		synthesizer:  synthesizer,
		forecastDays: forecastDays,
	}
}

// Execute runs the full pipeline for a location query. The returned Result is
// always non-nil; on failure its State is StateFailed and the error is also
// returned, wrapped with the failing stage and the original query.
func (p *Pipeline) Execute(ctx context.Context, query string) (*Result, error) {
	ctx, span := otel.Tracer("Pipeline").Start(ctx, "Execute", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	l := p.logger.With(slog.String("method", "Execute"), slog.String("query", query))
	start := time.Now()
	res := &Result{State: StateIdle}

	// Resolving
	if err := canceled(ctx); err != nil {
		return p.fail(ctx, span, l, res, query, "resolve", err, start)
	}
	res.State = StateResolving
	loc, err := p.geocoder.Resolve(ctx, query)
	if err != nil {
		return p.fail(ctx, span, l, res, query, "resolve", err, start)
	}
	res.Location = loc

	// Fetching
	if err := canceled(ctx); err != nil {
		return p.fail(ctx, span, l, res, query, "fetch", err, start)
	}
	res.State = StateFetching
	snapshot, err := p.weather.FetchCurrent(ctx, loc)
	if err != nil {
		return p.fail(ctx, span, l, res, query, "fetch", err, start)
	}
	res.Snapshot = snapshot

	window, err := p.weather.FetchForecast(ctx, loc, p.forecastDays)
	if err != nil {
		return p.fail(ctx, span, l, res, query, "fetch", err, start)
	}
	res.Window = window

	// Synthesizing
	if err := canceled(ctx); err != nil {
		return p.fail(ctx, span, l, res, query, "synthesize", err, start)
	}
	res.State = StateSynthesizing
	plan, err := p.synthesizer.Synthesize(ctx, snapshot, window)
	if err != nil {
		return p.fail(ctx, span, l, res, query, "synthesize", err, start)
	}
	res.Plan = plan

	res.State = StateDone
	p.record(ctx, "done", time.Since(start))
	l.InfoContext(ctx, "Pipeline completed",
		slog.String("location", loc.DisplayName),
		slog.Duration("duration", time.Since(start)))
	span.SetStatus(codes.Ok, "Pipeline completed")
	return res, nil
}

// PlanActivities runs the full pipeline and returns only the plan. This is
// the workflow invocation contract.
func (p *Pipeline) PlanActivities(ctx context.Context, city string) (*types.ActivityPlan, error) {
	res, err := p.Execute(ctx, city)
	if err != nil {
		return nil, err
	}
	return res.Plan, nil
}

// CurrentWeather runs only the resolve and fetch stages. This is the weather
// tool contract: the synthesizer is never invoked.
func (p *Pipeline) CurrentWeather(ctx context.Context, query string) (*types.WeatherSnapshot, error) {
	ctx, span := otel.Tracer("Pipeline").Start(ctx, "CurrentWeather", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	l := p.logger.With(slog.String("method", "CurrentWeather"), slog.String("query", query))
	start := time.Now()
	res := &Result{State: StateIdle}

	if err := canceled(ctx); err != nil {
		_, err = p.fail(ctx, span, l, res, query, "resolve", err, start)
		return nil, err
	}
	res.State = StateResolving
	loc, err := p.geocoder.Resolve(ctx, query)
	if err != nil {
		_, err = p.fail(ctx, span, l, res, query, "resolve", err, start)
		return nil, err
	}

	if err := canceled(ctx); err != nil {
		_, err = p.fail(ctx, span, l, res, query, "fetch", err, start)
		return nil, err
	}
	res.State = StateFetching
	snapshot, err := p.weather.FetchCurrent(ctx, loc)
	if err != nil {
		_, err = p.fail(ctx, span, l, res, query, "fetch", err, start)
		return nil, err
	}

	res.State = StateDone
	p.record(ctx, "done", time.Since(start))
	span.SetStatus(codes.Ok, "Weather retrieved")
	return snapshot, nil
}

func (p *Pipeline) fail(ctx context.Context, span trace.Span, l *slog.Logger, res *Result, query, stage string, err error, start time.Time) (*Result, error) {
	wrapped := fmt.Errorf("pipeline failed at %s stage for %q: %w", stage, query, err)
	res.State = StateFailed
	res.FailedStage = stage
	res.Err = wrapped

	p.record(ctx, "failed", time.Since(start))
	l.ErrorContext(ctx, "Pipeline failed",
		slog.String("stage", stage),
		slog.Any("error", err))
	span.RecordError(wrapped)
	span.SetStatus(codes.Error, "Pipeline failed at "+stage)
	return res, wrapped
}

func (p *Pipeline) record(ctx context.Context, outcome string, elapsed time.Duration) {
	m := metrics.Get()
	if m == nil {
		return
	}
	m.PipelineRunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	m.PipelineDurationSeconds.Record(ctx, elapsed.Seconds())
}

// canceled translates context cancellation into the pipeline taxonomy so a
// canceled invocation lands in StateFailed without partial results applied.
func canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%v: %w", err, types.ErrCanceled)
	}
	return nil
}
