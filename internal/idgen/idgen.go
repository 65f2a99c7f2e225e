// Package idgen generates the unique identifiers the runtime needs
// (actor addresses, message ids) without the core package hand-rolling
// one. Wraps google/uuid, the assumed-available generator spec.md treats
// as an external collaborator.
package idgen

import "github.com/google/uuid"

// New returns a fresh random identifier suitable for an address segment
// or a message id.
func New() string {
	return uuid.NewString()
}
