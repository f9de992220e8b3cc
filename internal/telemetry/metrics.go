package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	RequestCounter      metric.Int64Counter
	RequestDuration     metric.Float64Histogram
	PostsPublished      metric.Int64Counter
	RepliesSent         metric.Int64Counter
	GenerationFallbacks metric.Int64Counter
	CircuitBreakerState metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics(serviceName string) (*Metrics, error) {
	meter := otel.Meter(serviceName)

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	postsPublished, err := meter.Int64Counter(
		"instagram.posts.total",
		metric.WithDescription("Post attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	repliesSent, err := meter.Int64Counter(
		"instagram.replies.total",
		metric.WithDescription("Message reply attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	generationFallbacks, err := meter.Int64Counter(
		"content.generation.fallbacks",
		metric.WithDescription("Text generations served from canned fallback content"),
	)
	if err != nil {
		return nil, err
	}

	circuitBreakerState, err := meter.Int64Counter(
		"circuit_breaker.state_changes",
		metric.WithDescription("Circuit breaker state changes"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCounter:      requestCounter,
		RequestDuration:     requestDuration,
		PostsPublished:      postsPublished,
		RepliesSent:         repliesSent,
		GenerationFallbacks: generationFallbacks,
		CircuitBreakerState: circuitBreakerState,
	}, nil
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordPost records the outcome of a post attempt
func (m *Metrics) RecordPost(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.PostsPublished.Add(ctx, 1, metric.WithAttributes(outcome(success)))
}

// RecordReply records the outcome of a reply attempt
func (m *Metrics) RecordReply(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	m.RepliesSent.Add(ctx, 1, metric.WithAttributes(outcome(success)))
}

// RecordFallback records a canned-content fallback for caption or reply generation
func (m *Metrics) RecordFallback(ctx context.Context, purpose string) {
	if m == nil {
		return
	}
	m.GenerationFallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("purpose", purpose)))
}

// RecordCircuitBreakerState records circuit breaker state changes
func (m *Metrics) RecordCircuitBreakerState(service, state string) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("service", service),
		attribute.String("state", state),
	}

	m.CircuitBreakerState.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

func outcome(success bool) attribute.KeyValue {
	if success {
		return attribute.String("status", "success")
	}
	return attribute.String("status", "failure")
}
