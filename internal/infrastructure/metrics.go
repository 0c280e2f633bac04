package infrastructure

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// PipelineMetrics holds the instruments of the HTTP layer and the report
// pipeline. Every Record method is safe on a nil receiver.
type PipelineMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	FilesLoaded   metric.Int64Counter
	RowsLoaded    metric.Int64Counter
	CacheHits     metric.Int64Counter
	CacheMisses   metric.Int64Counter
	StageDuration metric.Float64Histogram
	Exports       metric.Int64Counter
	LoginAttempts metric.Int64Counter

	meter metric.Meter
}

// NewPipelineMetrics registers the instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{meter: meter}
	var errs []error

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		errs = append(errs, err)
		return c
	}
	seconds := func(name, desc string) metric.Float64Histogram {
		h, err := meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("s"))
		errs = append(errs, err)
		return h
	}

	m.HTTPRequestsTotal = counter("http_requests_total", "HTTP requests by route and status")
	m.HTTPRequestDuration = seconds("http_request_duration_seconds", "HTTP request latency")
	m.FilesLoaded = counter("report_files_loaded_total", "Delivery sheets loaded, by format and outcome")
	m.RowsLoaded = counter("report_rows_loaded_total", "Rows kept after preprocessing")
	m.CacheHits = counter("report_load_cache_hits_total", "Load cache hits")
	m.CacheMisses = counter("report_load_cache_misses_total", "Load cache misses")
	m.StageDuration = seconds("report_stage_duration_seconds", "Duration of a pipeline stage")
	m.Exports = counter("report_exports_total", "Exports by format and outcome")
	m.LoginAttempts = counter("auth_login_attempts_total", "Login attempts by outcome")

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// NoopPipelineMetrics returns instruments that record nothing, for tests
// and CLI runs.
func NoopPipelineMetrics() *PipelineMetrics {
	m, _ := NewPipelineMetrics(noop.NewMeterProvider().Meter(InstrumentationName))
	return m
}

// ObserveGauge registers an asynchronous gauge read from value at every
// collection, e.g. open sessions or load cache entries.
func (m *PipelineMetrics) ObserveGauge(name, desc string, value func() int) error {
	if m == nil || m.meter == nil {
		return nil
	}
	_, err := m.meter.Int64ObservableGauge(name,
		metric.WithDescription(desc),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(value()))
			return nil
		}))
	return err
}

// RecordHTTP counts one served request and its latency by route
func (m *PipelineMetrics) RecordHTTP(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordStage records the duration of a named stage with its outcome
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.StageDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("stage", stage), outcome(err)))
}

// RecordLoad counts a load attempt, the rows it produced and whether the
// cache answered it.
func (m *PipelineMetrics) RecordLoad(ctx context.Context, format string, rows int, cached bool, err error) {
	if m == nil {
		return
	}
	f := attribute.String("format", format)
	m.FilesLoaded.Add(ctx, 1, metric.WithAttributes(f, outcome(err)))
	if err == nil {
		m.RowsLoaded.Add(ctx, int64(rows), metric.WithAttributes(f))
	}
	if cached {
		m.CacheHits.Add(ctx, 1)
	} else {
		m.CacheMisses.Add(ctx, 1)
	}
}

// RecordExport counts one export attempt
func (m *PipelineMetrics) RecordExport(ctx context.Context, format string, err error) {
	if m == nil {
		return
	}
	m.Exports.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format), outcome(err)))
}

// RecordLogin counts one authentication attempt
func (m *PipelineMetrics) RecordLogin(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	var err error
	if !success {
		err = errLoginFailed
	}
	m.LoginAttempts.Add(ctx, 1, metric.WithAttributes(outcome(err)))
}

var errLoginFailed = errors.New("login failed")

func outcome(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "failure")
	}
	return attribute.String("status", "success")
}
