// Package uuid generates identifiers for ledger records.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a time-ordered UUIDv7 string. Ordering by ID therefore follows
// creation order, which keeps persisted collections stable across reloads.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to a random UUIDv4 if the clock sequence cannot be read.
		return googleuuid.New().String()
	}
	return id.String()
}
