// Package message exposes the generic Message type, used to represent
// a message in a system (e.g. Event, Command, Query).
package message

// Message is a Message payload.
//
// Each payload should have a unique name identifier, that is used
// to route a message to its handlers without inspecting its Go type.
//
// Name is called on the zero value of the Message type when binding
// handlers, so it must not depend on the state of the receiver.
type Message interface {
	Name() string
}

// Kind tells which dispatch path a Message is travelling through.
type Kind string

// All the Message kinds known to the dispatch core.
const (
	KindCommand           Kind = "command"
	KindCommandWithResult Kind = "command_with_result"
	KindQuery             Kind = "query"
	KindEvent             Kind = "event"
)

func (k Kind) String() string { return string(k) }
