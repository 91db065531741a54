package opentelemetry

import "go.opentelemetry.io/otel/attribute"

// Attribute keys used by the instrumentation.
const (
	ErrorAttribute        attribute.Key = "error"
	MessageNameAttribute  attribute.Key = "message.name"
	MessageKindAttribute  attribute.Key = "message.kind"
	ConsumerNameAttribute attribute.Key = "consumer.name"
)
