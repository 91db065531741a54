package opentelemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/hatchgrid/go-dispatch/opentelemetry"

type config struct {
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	attributes     []attribute.KeyValue
}

func (c config) meter() metric.Meter {
	return c.meterProvider.Meter(instrumentationName)
}

func (c config) tracer() trace.Tracer {
	return c.tracerProvider.Tracer(instrumentationName)
}

// Option specifies instrumentation configuration options.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (fn optionFunc) apply(c *config) { fn(c) }

// WithMeterProvider specifies the metric.MeterProvider instance to use for the instrumentation.
// By default, the global metric.MeterProvider is used.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return optionFunc(func(c *config) {
		c.meterProvider = provider
	})
}

// WithTracerProvider specifies the trace.TracerProvider instance to use for the instrumentation.
// By default, the global trace.TracerProvider is used.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return optionFunc(func(c *config) {
		c.tracerProvider = provider
	})
}

// WithAttributes adds the specified attributes to every span and
// metric recorded by the instrumentation, e.g. the name of the
// bounded context owning the Mediator.
func WithAttributes(attributes ...attribute.KeyValue) Option {
	return optionFunc(func(c *config) {
		c.attributes = append(c.attributes, attributes...)
	})
}

func newConfig(opts ...Option) config {
	c := config{
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}

	for _, opt := range opts {
		opt.apply(&c)
	}

	return c
}
