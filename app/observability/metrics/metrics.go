package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	PipelineRunsTotal         metric.Int64Counter
	PipelineDurationSeconds   metric.Float64Histogram
	UpstreamErrorsTotal       metric.Int64Counter
	PlanValidationErrorsTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("activity-planner")
		var err error
		m := &AppMetrics{}

		m.PipelineRunsTotal, err = meter.Int64Counter(
			"pipeline_runs_total",
			metric.WithDescription("Total number of pipeline invocations completed"),
			metric.WithUnit("{run}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create pipeline_runs_total: %v", err)
		}

		m.PipelineDurationSeconds, err = meter.Float64Histogram(
			"pipeline_duration_seconds",
			metric.WithDescription("Duration of full pipeline invocations in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create pipeline_duration_seconds: %v", err)
		}

		m.UpstreamErrorsTotal, err = meter.Int64Counter(
			"upstream_errors_total",
			metric.WithDescription("Total number of geocoding/weather upstream failures"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_errors_total: %v", err)
		}

		m.PlanValidationErrorsTotal, err = meter.Int64Counter(
			"plan_validation_errors_total",
			metric.WithDescription("Total number of LLM plan responses that failed schema validation"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create plan_validation_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, or nil if
// InitAppMetrics was never called (tests construct components without it).
func Get() *AppMetrics {
	return appMetrics
}
