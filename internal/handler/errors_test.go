package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("booking x: %w", service.ErrNotFound), http.StatusNotFound},
		{repository.ErrNotFound, http.StatusNotFound},
		{&service.SeatConflictError{Seats: []string{"A1"}}, http.StatusConflict},
		{service.ErrCapacityExceeded, http.StatusConflict},
		{service.ErrInvalidState, http.StatusBadRequest},
		{service.ErrInvalidAmount, http.StatusBadRequest},
		{service.ErrCancellationWindowClosed, http.StatusBadRequest},
		{service.ErrExpired, http.StatusGone},
		{service.ErrUnauthorized, http.StatusForbidden},
		{fmt.Errorf("%w: declined", service.ErrPaymentFailed), http.StatusPaymentRequired},
		{service.ErrAlreadyReviewed, http.StatusConflict},
		{service.ErrInvalidToken, http.StatusUnauthorized},
		{fmt.Errorf("%w: save booking: %w", service.ErrReconciliation, repository.ErrNotFound), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		got, _ := statusFor(tc.err)
		assert.Equal(t, tc.want, got, tc.err.Error())
	}

	_, msg := statusFor(errors.New("dial tcp 10.0.0.5:3306: refused"))
	assert.Equal(t, "internal server error", msg)
}

func TestPaymentMethodAliases(t *testing.T) {
	assert.EqualValues(t, "gateway", paymentMethod("Stripe"))
	assert.EqualValues(t, "wallet", paymentMethod(" wallet "))
	assert.EqualValues(t, "bitcoin", paymentMethod("bitcoin"))
}
