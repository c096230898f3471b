// Package order contains the Order aggregate of the lifecycle domain, its pipeline
// status enumeration, item and product snapshots, history entries, and the composite
// sort keys that back the store's access paths.
package order
