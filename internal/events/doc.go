// Package events carries in-process notifications from the micro-case
// service to observers such as the metrics collector.
//
// The service emits an Event after it records an attempt or serves a case.
// Handlers registered on an InMemoryEventEmitter receive every event
// synchronously in registration order.
package events
