package mediator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hatchgrid/go-dispatch/command"
	"github.com/hatchgrid/go-dispatch/logger"
	"github.com/hatchgrid/go-dispatch/message"
	"github.com/hatchgrid/go-dispatch/query"
)

// ErrHandlerPanicked is wrapped in the execution error returned by
// RecoverBehavior when the Handler panics.
var ErrHandlerPanicked = errors.New("mediator: handler panicked")

// Request is the Message being dispatched through the Behaviors pipeline.
type Request struct {
	Kind    message.Kind
	Message message.Message
}

// Next invokes the rest of the pipeline, down to the Handler.
type Next func(ctx context.Context, req Request) (any, error)

// Behavior is a middleware wrapped around every dispatch performed by
// the Mediator. Behaviors are applied in registration order: the first
// one registered is the outermost.
//
// A Behavior may short-circuit the dispatch by not calling next.
type Behavior interface {
	Handle(ctx context.Context, req Request, next Next) (any, error)
}

// BehaviorFunc is a functional Behavior implementation.
type BehaviorFunc func(ctx context.Context, req Request, next Next) (any, error)

// Handle executes the function.
func (fn BehaviorFunc) Handle(ctx context.Context, req Request, next Next) (any, error) {
	return fn(ctx, req, next)
}

func chain(behaviors []Behavior, last Next) Next {
	next := last

	for i := len(behaviors) - 1; i >= 0; i-- {
		behavior, inner := behaviors[i], next
		next = func(ctx context.Context, req Request) (any, error) {
			return behavior.Handle(ctx, req, inner)
		}
	}

	return next
}

// LoggingBehavior logs every dispatch at debug level, and its failure
// at error level.
func LoggingBehavior(l logger.Logger) Behavior {
	return BehaviorFunc(func(ctx context.Context, req Request, next Next) (any, error) {
		fields := []logger.Field{
			logger.With("message.kind", req.Kind.String()),
			logger.With("message.name", req.Message.Name()),
		}

		logger.Debug(l, "Dispatching message", fields...)

		start := time.Now()
		result, err := next(ctx, req)
		fields = append(fields, logger.With("duration", time.Since(start)))

		if err != nil {
			logger.Error(l, "Message dispatch failed", append(fields, logger.Err(err))...)
			return result, err
		}

		logger.Debug(l, "Message dispatched", fields...)

		return result, nil
	})
}

// RecoverBehavior turns a panic raised down the pipeline into the
// execution error of the dispatched Message, wrapping ErrHandlerPanicked.
func RecoverBehavior() Behavior {
	return BehaviorFunc(func(ctx context.Context, req Request, next Next) (result any, err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			cause := fmt.Errorf("%w: %v", ErrHandlerPanicked, r)
			result = nil

			switch req.Kind {
			case message.KindCommand, message.KindCommandWithResult:
				err = command.NewExecutionError(req.Message, cause)
			case message.KindQuery:
				err = query.NewExecutionError(req.Message, cause)
			default:
				err = cause
			}
		}()

		return next(ctx, req)
	})
}
