// Package query provides support and utilities to handle and implement
// Domain Queries in your application.
package query

import (
	"context"

	"github.com/hatchgrid/go-dispatch/message"
)

// Query represents a Domain Query, a request for information.
// Queries should be phrased in the present, imperative tense, such as "ListUsers".
//
// The shape of the answer, the Response, is the R type parameter of the
// Handler bound to the Query: it is fixed once, when the Handler is bound.
type Query message.Message

// Handler is the interface that defines a Query Handler.
//
// Handler accepts a specific kind of Query, evaluates it
// and returns the desired Response.
type Handler[T Query, R any] interface {
	Handle(ctx context.Context, query T) (R, error)
}

// HandlerFunc is a functional type that implements the Handler interface.
// Useful for testing and stateless Handlers.
type HandlerFunc[T Query, R any] func(ctx context.Context, query T) (R, error)

// Handle implements query.Handler.
func (f HandlerFunc[T, R]) Handle(ctx context.Context, query T) (R, error) {
	return f(ctx, query)
}
