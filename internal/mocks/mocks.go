// Package mocks contains gomock mocks of the dispatch interfaces,
// to be used in tests.
package mocks

import "github.com/hatchgrid/go-dispatch/event"

//go:generate mockgen -destination=consumer.go -package=mocks github.com/hatchgrid/go-dispatch/internal/mocks Consumer

// Consumer is the event.Consumer instantiation receiving every Event,
// as mockgen only mocks non-generic interfaces.
type Consumer interface {
	event.Consumer[event.Event]
}

var _ Consumer = (*MockConsumer)(nil)
