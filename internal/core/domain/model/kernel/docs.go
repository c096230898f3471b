// Package kernel provides the shared value objects of the order lifecycle domain.
//
// The package includes:
//   - UUID: identifier value object for orders and events
//   - Role: the closed set of pipeline roles (client, cook, dispatcher, driver, admin)
//   - Actor: an immutable snapshot of an authenticated user
//
// All values are immutable once constructed and safe for concurrent use.
package kernel
