// Package command contains types and interfaces for implementing Command Handlers,
// necessary for producing side effects in your Aggregates and system,
// and implement your Domain's business logic.
//
// Commands are routed to their Handler by a mediator.Mediator: every Command type
// must be bound to exactly one Handler.
package command
