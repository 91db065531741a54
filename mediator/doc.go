// Package mediator contains the single entry point the application services
// use to dispatch Commands and Queries to their unique Handler, and
// Events to the event bus.
//
// A Mediator is created once, at startup, through a Builder: the Builder
// collects every Handler Binding, rejects ambiguous ones and produces
// an immutable routing table. The Mediator never mutates it afterwards,
// so dispatching requires no locking.
//
// Dispatch failures come in two flavors:
//
//   - configuration errors, such as ErrHandlerNotFound, when the dispatch
//     itself is broken;
//   - execution errors, *command.ExecutionError and *query.ExecutionError,
//     when the Handler has run and failed.
//
// No error is ever retried or suppressed by the Mediator.
package mediator
