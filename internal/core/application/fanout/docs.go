// Package fanout delivers order lifecycle events to everything downstream of the store.
//
// Dispatcher publishes domain events to the bus, parking them in the outbox when the
// bus is unavailable, and drives the fulfillment workflow: it starts an execution per
// order, resumes the parked delivery step on completion and sends the arrival
// notification. Broadcaster pushes events to live subscriptions with bounded
// parallelism, collecting one result per connection. EventRouter is the entry point
// for events read back from the bus.
//
// Fan-out never fails the operation that triggered it. The order has already been
// committed by the time any of this runs, so failures are logged with the order's
// tenant and id and swallowed.
package fanout
