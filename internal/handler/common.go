package handler // handler defines http handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-ticket-booking/internal/repository"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

// requestTimeout bounds the store and gateway work of a single request.
const requestTimeout = 10 * time.Second

// Validator adapts validator/v10 to echo.Validator. Failures are reported
// as service.ErrInvalidInput so they map to 400.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

func (cv *Validator) Validate(i interface{}) error {
	err := cv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", service.ErrInvalidInput, strings.Join(msgs, "; "))
}

// base carries what every handler needs to answer errors.
type base struct {
	prod bool
	log  zerolog.Logger
}

func newBase(prod bool, log zerolog.Logger, component string) base {
	return base{prod: prod, log: log.With().Str("component", component).Logger()}
}

// bind decodes the body into req and validates it.
func (b base) bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid body", service.ErrInvalidInput)
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// fail writes err as {"error": ...} with the status it maps to. The
// wrapped chain is exposed as "detail" outside production.
func (b base) fail(c echo.Context, err error) error {
	status, msg := statusFor(err)
	body := echo.Map{"error": msg}
	var conflict *service.SeatConflictError
	if errors.As(err, &conflict) {
		body["unavailable"] = conflict.Seats
	}
	if !b.prod && err.Error() != msg {
		body["detail"] = err.Error()
	}
	if status >= http.StatusInternalServerError {
		b.log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("request failed")
	}
	return c.JSON(status, body)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrReconciliation):
		return http.StatusInternalServerError, service.ErrReconciliation.Error()
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrSeatConflict):
		return http.StatusConflict, service.ErrSeatConflict.Error()
	case errors.Is(err, service.ErrCapacityExceeded):
		return http.StatusConflict, service.ErrCapacityExceeded.Error()
	case errors.Is(err, service.ErrAlreadyReviewed):
		return http.StatusConflict, service.ErrAlreadyReviewed.Error()
	case errors.Is(err, service.ErrEmailExists):
		return http.StatusConflict, service.ErrEmailExists.Error()
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusBadRequest, service.ErrInvalidState.Error()
	case errors.Is(err, service.ErrInvalidAmount):
		return http.StatusBadRequest, service.ErrInvalidAmount.Error()
	case errors.Is(err, service.ErrCancellationWindowClosed):
		return http.StatusBadRequest, service.ErrCancellationWindowClosed.Error()
	case errors.Is(err, service.ErrInvalidInput):
		// the wrapped message says which field was wrong
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrExpired):
		return http.StatusGone, service.ErrExpired.Error()
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden, service.ErrUnauthorized.Error()
	case errors.Is(err, service.ErrPaymentFailed):
		return http.StatusPaymentRequired, service.ErrPaymentFailed.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, service.ErrInvalidCredentials.Error()
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, service.ErrInvalidToken.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// userID extracts the authenticated user id set by middleware.JWTAuth.
func userID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, service.ErrInvalidToken
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}
