package opentelemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type instruments struct {
	tracer     trace.Tracer
	duration   metric.Int64Histogram
	count      metric.Int64Counter
	attributes []attribute.KeyValue
}

func newInstruments(cfg config, prefix, description string) (instruments, error) {
	var (
		err    error
		result = instruments{tracer: cfg.tracer(), attributes: cfg.attributes}
		meter  = cfg.meter()
	)

	if result.duration, err = meter.Int64Histogram(
		prefix+".duration.milliseconds",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of "+description+"."),
	); err != nil {
		return instruments{}, fmt.Errorf("opentelemetry: failed to register metric: %w", err)
	}

	if result.count, err = meter.Int64Counter(
		prefix+".total",
		metric.WithDescription("Number of "+description+"."),
	); err != nil {
		return instruments{}, fmt.Errorf("opentelemetry: failed to register metric: %w", err)
	}

	return result, nil
}

// observe runs fn inside a new span, recording its duration and outcome.
func (i instruments) observe(
	ctx context.Context,
	spanName string,
	attributes []attribute.KeyValue,
	fn func(ctx context.Context) error,
) (err error) {
	attributes = append(append([]attribute.KeyValue{}, i.attributes...), attributes...)

	ctx, span := i.tracer.Start(ctx, spanName, trace.WithAttributes(attributes...))
	start := time.Now()

	defer func() {
		options := metric.WithAttributes(append(attributes, ErrorAttribute.Bool(err != nil))...)

		i.duration.Record(ctx, time.Since(start).Milliseconds(), options)
		i.count.Add(ctx, 1, options)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}()

	err = fn(ctx)

	return
}
