// Package events publishes usage events to RabbitMQ for the downstream
// metering and billing pipeline.
//
// Events are emitted after an operation has fully succeeded; they are
// observational, never part of the request's success criteria. A publish
// failure is something to log and alert on, not a reason to fail a request
// that already committed.
//
// The publisher is nil-safe: when no broker is configured (EVENTS_AMQP_URL
// unset) construction returns a disabled publisher whose Publish is a
// no-op, so callers never branch on configuration.
package events
