package opentelemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/hatchgrid/go-dispatch/event"
	"github.com/hatchgrid/go-dispatch/message"
)

// InstrumentedConsumer is a wrapper type over an event.Consumer
// to provide instrumentation, in the form of metrics and traces
// using OpenTelemetry.
//
// Use InstrumentConsumer for constructing a new instance of this type.
type InstrumentedConsumer[T event.Event] struct {
	name     string
	consumer event.Consumer[T]
	inst     instruments
}

// InstrumentConsumer wraps the event.Consumer, reporting its name
// as the consumer.name attribute.
//
// An error is returned if metrics could not be registered.
func InstrumentConsumer[T event.Event](
	name string,
	consumer event.Consumer[T],
	options ...Option,
) (*InstrumentedConsumer[T], error) {
	inst, err := newInstruments(newConfig(options...),
		"dispatch.consumer",
		"Events consumed",
	)
	if err != nil {
		return nil, err
	}

	return &InstrumentedConsumer[T]{
		name:     name,
		consumer: consumer,
		inst:     inst,
	}, nil
}

// Consume calls the wrapped event.Consumer and records metrics
// and traces around it.
func (ic *InstrumentedConsumer[T]) Consume(ctx context.Context, evt T) error {
	attributes := []attribute.KeyValue{
		MessageKindAttribute.String(message.KindEvent.String()),
		MessageNameAttribute.String(evt.Name()),
		ConsumerNameAttribute.String(ic.name),
	}

	return ic.inst.observe(ctx, "event.Consumer "+ic.name, attributes, func(ctx context.Context) error {
		return ic.consumer.Consume(ctx, evt)
	})
}
