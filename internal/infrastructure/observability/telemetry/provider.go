package telemetry

import (
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-checkout/internal/observability"
)

// MetricSet registers the application's well-known instruments and resolves
// them by metric key. Unknown keys resolve to no-op instruments.
type MetricSet struct {
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram
}

func NewMetricSet(reg prometrics.Registry) *MetricSet {
	m := &MetricSet{
		counters:   make(map[observability.MetricKey]observability.Counter),
		histograms: make(map[observability.MetricKey]observability.Histogram),
	}
	m.counters[observability.MUsecaseRequests] = reg.Counter(
		string(observability.MUsecaseRequests),
		"Total number of use case invocations.",
		"use_case", "outcome",
	)
	m.histograms[observability.MUsecaseDuration] = reg.Histogram(
		string(observability.MUsecaseDuration),
		"Duration of use case execution in seconds.",
		nil,
		"use_case",
	)
	m.counters[observability.MExternalRequests] = reg.Counter(
		string(observability.MExternalRequests),
		"Total number of calls to external peers.",
		"peer", "endpoint", "outcome",
	)
	m.histograms[observability.MExternalRequestDuration] = reg.Histogram(
		string(observability.MExternalRequestDuration),
		"Duration of external calls in seconds.",
		nil,
		"peer", "endpoint",
	)
	return m
}

func (m *MetricSet) Counter(name observability.MetricKey) observability.Counter {
	if c, ok := m.counters[name]; ok {
		return c
	}
	return observability.NopMetrics().Counter(name)
}

func (m *MetricSet) Histogram(name observability.MetricKey) observability.Histogram {
	if h, ok := m.histograms[name]; ok {
		return h
	}
	return observability.NopMetrics().Histogram(name)
}

type provider struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics observability.Metrics
}

// New assembles an Observability provider from the supplied ports. Nil ports
// fall back to no-ops.
func New(tracer observability.Tracer, logger observability.Logger, metrics observability.Metrics) observability.Observability {
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	if metrics == nil {
		metrics = observability.NopMetrics()
	}
	return &provider{tracer: tracer, logger: logger, metrics: metrics}
}

func (p *provider) Tracer() observability.Tracer   { return p.tracer }
func (p *provider) Logger() observability.Logger   { return p.logger }
func (p *provider) Metrics() observability.Metrics { return p.metrics }
