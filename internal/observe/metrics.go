// Package observe holds the OpenTelemetry metric instruments of the tutor.
//
// Tests should build a [Metrics] with [NewMetrics] over their own
// [metric.MeterProvider]; [DefaultMetrics] uses the global provider.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// meterName is the instrumentation scope of every instrument.
const meterName = "github.com/abhisek/didi"

// Metrics holds the instruments. All fields are safe for concurrent use.
type Metrics struct {
	// TurnDuration is the latency of a whole turn, phrasing included.
	TurnDuration metric.Float64Histogram

	// PhraseDuration is the latency of phrasing and enforcement.
	PhraseDuration metric.Float64Histogram

	// HTTPRequestDuration uses attributes method and route.
	HTTPRequestDuration metric.Float64Histogram

	// Turns counts turns by from, to and category.
	Turns metric.Int64Counter

	// Verdicts counts evaluated answers by correctness and diagnostic.
	Verdicts metric.Int64Counter

	// Violations counts enforcement hits by rule and fixed.
	Violations metric.Int64Counter

	// Replies counts replies by source.
	Replies metric.Int64Counter

	// Fallbacks counts replies that fell back to the state line, by state.
	Fallbacks metric.Int64Counter

	// Sessions counts started sessions by language.
	Sessions metric.Int64Counter

	// ActiveTurns is the number of turns in flight.
	ActiveTurns metric.Int64UpDownCounter
}

// latencyBuckets are in seconds, sized for a voice turn budget.
var latencyBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8,
}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.TurnDuration, err = m.Float64Histogram("didi.turn.duration",
		metric.WithDescription("Latency of a tutoring turn."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.PhraseDuration, err = m.Float64Histogram("didi.phrase.duration",
		metric.WithDescription("Latency of phrasing and enforcement."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("didi.http.request.duration",
		metric.WithDescription("HTTP request latency by method and route."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if met.Turns, err = m.Int64Counter("didi.turns",
		metric.WithDescription("Turns by state transition and input category."),
	); err != nil {
		return nil, err
	}
	if met.Verdicts, err = m.Int64Counter("didi.verdicts",
		metric.WithDescription("Evaluated answers by correctness and diagnostic."),
	); err != nil {
		return nil, err
	}
	if met.Violations, err = m.Int64Counter("didi.enforcer.violations",
		metric.WithDescription("Response rule violations by rule."),
	); err != nil {
		return nil, err
	}
	if met.Replies, err = m.Int64Counter("didi.replies",
		metric.WithDescription("Replies by source."),
	); err != nil {
		return nil, err
	}
	if met.Fallbacks, err = m.Int64Counter("didi.fallbacks",
		metric.WithDescription("Replies that used the state fallback, by state."),
	); err != nil {
		return nil, err
	}
	if met.Sessions, err = m.Int64Counter("didi.sessions",
		metric.WithDescription("Started sessions by language."),
	); err != nil {
		return nil, err
	}

	if met.ActiveTurns, err = m.Int64UpDownCounter("didi.active_turns",
		metric.WithDescription("Turns currently being processed."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level instance on the global meter
// provider. It panics if instrument creation fails.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Nop returns instruments that record nothing.
func Nop() *Metrics {
	m, err := NewMetrics(noop.NewMeterProvider())
	if err != nil {
		panic("observe: noop metrics: " + err.Error())
	}
	return m
}

// RecordTurn counts one turn.
func (m *Metrics) RecordTurn(ctx context.Context, from, to, category string) {
	m.Turns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
		attribute.String("category", category),
	))
}

// RecordVerdict counts one evaluated answer.
func (m *Metrics) RecordVerdict(ctx context.Context, correctness, diagnostic string) {
	m.Verdicts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("correctness", correctness),
		attribute.String("diagnostic", diagnostic),
	))
}

// RecordViolation counts one rule hit.
func (m *Metrics) RecordViolation(ctx context.Context, rule string, fixed bool) {
	m.Violations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("rule", rule),
		attribute.Bool("fixed", fixed),
	))
}

// RecordReply counts one reply, and a fallback when source is "fallback".
func (m *Metrics) RecordReply(ctx context.Context, source, state string) {
	m.Replies.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
	if source == "fallback" {
		m.Fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("state", state)))
	}
}
