package http

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// outcome classifies how a connection ended.
type outcome string

const (
	outcomeClosed    outcome = "closed"
	outcomeRoute     outcome = "route"
	outcomeStatic    outcome = "static"
	outcomeNotFound  outcome = "not_found"
	outcomeForbidden outcome = "forbidden"
	outcomeUnhandled outcome = "unhandled"
	outcomeMalformed outcome = "malformed"
	outcomeError     outcome = "error"
)

func staticOutcome(res *Response) outcome {
	switch res.Status {
	case StatusNotFound:
		return outcomeNotFound
	case StatusForbidden:
		return outcomeForbidden
	}
	return outcomeStatic
}

type serverMetrics struct {
	connections metric.Int64Counter
	duration    metric.Float64Histogram
}

func newServerMetrics(meter metric.Meter, pool *WorkerPool) (serverMetrics, error) {
	var (
		m   serverMetrics
		err error
	)

	m.connections, err = meter.Int64Counter("webroute.connections",
		metric.WithDescription("Connections handled, by outcome"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return m, err
	}

	m.duration, err = meter.Float64Histogram("webroute.request.duration",
		metric.WithDescription("Time from accept hand-off to connection close"),
		metric.WithUnit("s"))
	if err != nil {
		return m, err
	}

	_, err = meter.Int64ObservableGauge("webroute.queue.depth",
		metric.WithDescription("Accepted connections waiting for a worker"),
		metric.WithUnit("{connection}"),
		metric.WithInt64Callback(func(_ context.Context, observer metric.Int64Observer) error {
			observer.Observe(int64(pool.Backlog()))
			return nil
		}))
	if err != nil {
		return m, err
	}

	return m, nil
}

func (m serverMetrics) record(ctx context.Context, method string, result outcome, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("webroute.outcome", string(result)),
	)

	m.connections.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
