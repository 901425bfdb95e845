// Package repository defines error types that are reused across multiple
// repositories and storage drivers. These sentinel values let the service
// layer distinguish a missing record from an infrastructure failure without
// knowing which driver produced the error.
package repository

import "errors"

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a unique constraint would be violated, for
// example a second account with the same email or a second review of the
// same movie by the same user.
var ErrDuplicate = errors.New("duplicate")

// ErrInsufficientFunds is returned by wallet debits when the balance is
// lower than the requested amount. The balance is left unchanged.
var ErrInsufficientFunds = errors.New("insufficient funds")
