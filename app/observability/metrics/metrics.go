package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	AnalysisRequestsTotal  metric.Int64Counter
	AnalysisFailuresTotal  metric.Int64Counter
	ChatRequestsTotal      metric.Int64Counter
	ChatUnavailableTotal   metric.Int64Counter
	ToolCallsTotal         metric.Int64Counter
	SafetyChecksTotal      metric.Int64Counter
	SafetyCorrectionsTotal metric.Int64Counter
	SafetyDisclaimersTotal metric.Int64Counter
	SearchDurationSeconds  metric.Float64Histogram
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider, so it must run after
// the provider is installed to export anything.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-diet-assistant")
		m := &AppMetrics{}

		m.AnalysisRequestsTotal = int64Counter(meter, "analysis_requests_total", "Total number of nutrition analyses requested", "{request}")
		m.AnalysisFailuresTotal = int64Counter(meter, "analysis_failures_total", "Analyses that degraded to the sentinel result", "{request}")
		m.ChatRequestsTotal = int64Counter(meter, "chat_requests_total", "Total number of assistant conversations handled", "{request}")
		m.ChatUnavailableTotal = int64Counter(meter, "chat_unavailable_total", "Conversations answered with the unavailable reply", "{request}")
		m.ToolCallsTotal = int64Counter(meter, "tool_calls_total", "Tool calls executed on behalf of the model", "{call}")
		m.SafetyChecksTotal = int64Counter(meter, "safety_checks_total", "Safety classifier invocations", "{check}")
		m.SafetyCorrectionsTotal = int64Counter(meter, "safety_corrections_total", "Answers regenerated after a DANGER verdict", "{correction}")
		m.SafetyDisclaimersTotal = int64Counter(meter, "safety_disclaimers_total", "Answers returned with a safety disclaimer", "{reply}")
		m.DbQueryErrorsTotal = int64Counter(meter, "db_query_errors_total", "Total number of database query errors", "{error}")

		var err error
		m.SearchDurationSeconds, err = meter.Float64Histogram(
			"search_duration_seconds",
			metric.WithDescription("Duration of restaurant search calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create search_duration_seconds: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

func int64Counter(meter metric.Meter, name, description, unit string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		log.Fatalf("Metrics: Failed to create %s: %v", name, err)
	}
	return c
}

// Get returns the global AppMetrics instance, initializing it on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

// RecordQuery observes the duration of a repository call and counts it as an error when err is non-nil.
func (m *AppMetrics) RecordQuery(ctx context.Context, op string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("db.operation", op))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}
