// Package services provides the pure domain services of the order lifecycle.
//
// The package includes:
//   - TransitionEngine: decides whether an actor may move an order to a target status
//   - StatisticsAggregator: folds a tenant's orders into an operational metrics snapshot
//
// Neither service performs I/O. Callers load orders through the ports and hand
// them over, which keeps both services trivially testable.
package services
