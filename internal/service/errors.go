package service

import (
	"errors"
	"strings"
)

// Domain errors. Handlers translate them into HTTP statuses; wrap them with
// fmt.Errorf("...: %w") to add context.
var (
	ErrNotFound                 = errors.New("not found")
	ErrSeatConflict             = errors.New("seats already locked or booked")
	ErrCapacityExceeded         = errors.New("requested seats exceed screen capacity")
	ErrInvalidState             = errors.New("booking is not in a valid state for this operation")
	ErrExpired                  = errors.New("booking expired, seats released")
	ErrUnauthorized             = errors.New("booking does not belong to the current user")
	ErrCancellationWindowClosed = errors.New("cancellation not allowed within the cancellation window")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrPaymentFailed            = errors.New("payment failed")
	ErrAlreadyReviewed          = errors.New("you have already reviewed this movie")
	ErrInvalidInput             = errors.New("invalid input")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrEmailExists              = errors.New("user already exists")
	ErrInvalidToken             = errors.New("invalid or expired token")

	// ErrReconciliation means money moved but the booking or ledger could
	// not be finalized. It needs manual follow-up.
	ErrReconciliation = errors.New("payment captured but booking could not be finalized")
)

// SeatConflictError lists the requested seats that were already taken.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return "seats already locked or booked: " + strings.Join(e.Seats, ", ")
}

func (e *SeatConflictError) Unwrap() error { return ErrSeatConflict }
