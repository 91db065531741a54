package opentelemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/hatchgrid/go-dispatch/mediator"
)

// NewBehavior returns a mediator.Behavior recording a span, the duration
// and the outcome of every Message dispatched through the Mediator.
//
// Register it before mediator.RecoverBehavior, so that recovered panics
// are recorded as failures.
//
// An error is returned if metrics could not be registered.
func NewBehavior(options ...Option) (mediator.Behavior, error) {
	inst, err := newInstruments(newConfig(options...),
		"dispatch.mediator",
		"Messages dispatched by the Mediator",
	)
	if err != nil {
		return nil, err
	}

	return mediator.BehaviorFunc(func(ctx context.Context, req mediator.Request, next mediator.Next) (result any, err error) {
		spanName := "mediator." + req.Kind.String() + " " + req.Message.Name()

		err = inst.observe(ctx, spanName, messageAttributes(req), func(ctx context.Context) error {
			var nextErr error
			result, nextErr = next(ctx, req)

			return nextErr
		})

		return result, err
	}), nil
}

func messageAttributes(req mediator.Request) []attribute.KeyValue {
	return []attribute.KeyValue{
		MessageKindAttribute.String(req.Kind.String()),
		MessageNameAttribute.String(req.Message.Name()),
	}
}
