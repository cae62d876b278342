// Package notify implements the real-time notification channel to the
// flight-operations service.
//
// # Overview
//
// The channel holds one persistent SSE connection while the user is
// authenticated and feeds a bounded, newest-first notification queue.
// Delivery is at-most-once from the client's perspective: there is no
// acknowledgement protocol, and a missed event is only recovered by the
// next periodic poll elsewhere.
//
// # State machine
//
//	disconnected -> connecting -> connected <-> reconnecting -> disconnected
//
// Transitions:
//
//   - authentication becoming true: disconnected -> connecting
//   - transport loss: connected -> reconnecting
//   - reconnect attempts exhausted: reconnecting -> disconnected,
//     silently; polling remains the fallback data path
//   - logout or teardown: any state -> disconnected
//
// # Queue
//
// Incoming events are prepended: index 0 is always the newest
// notification. The queue holds at most 50 entries; inserting beyond
// that drops the oldest. Consumers remove one notification by position
// or clear all; nothing is persisted.
//
// # Events
//
// The service emits one event type today:
//
//   - new_flight: a flight was submitted for approval; payload carries
//     at least the flight name
//
// Duplicate events replayed across reconnects are suppressed by a small
// TTL cache keyed on the raw event payload.
package notify
