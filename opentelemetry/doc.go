// Package opentelemetry provides OpenTelemetry instrumentation for the
// dispatch core: a mediator.Behavior tracing and measuring every Command,
// Query and Event dispatched, and a wrapper for event.Consumer implementations.
//
// Both use the global OpenTelemetry providers, unless specified otherwise
// through WithTracerProvider and WithMeterProvider.
package opentelemetry
