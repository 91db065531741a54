// Package dispatch contains the in-process dispatch core of an application:
// a Mediator routing Commands and Queries to their unique Handler, and an
// event bus broadcasting Domain Events to their Consumers with pluggable
// delivery strategies.
//
// The library contains multiple packages, you might want to start from `mediator`
// to bind your Command and Query Handlers, and `eventbus` to subscribe
// your Event Consumers.
//
// `aggregate` helps recording the Domain Events of a mutation, so that they can
// be published through an `event.Broadcaster` once the mutation has completed.
package dispatch
