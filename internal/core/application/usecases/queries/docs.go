// Package queries contains the read side of the CQRS architecture. Query handlers
// read through the order store without a transaction and never modify state.
package queries
