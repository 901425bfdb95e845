package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/service"
)

// BookingHandler serves the seat lock, checkout, cancel and wallet routes.
type BookingHandler struct {
	base
	Engine *service.Engine
	Wallet *service.WalletService
}

func NewBookingHandler(engine *service.Engine, wallet *service.WalletService, prod bool, log zerolog.Logger) *BookingHandler {
	if engine == nil || wallet == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{base: newBase(prod, log, "booking-handler"), Engine: engine, Wallet: wallet}
}

type lockReq struct {
	MovieID    string   `json:"movieId" validate:"required"`
	ShowtimeID string   `json:"showtimeId" validate:"required"`
	Seats      []string `json:"seatsToLock" validate:"required,min=1,dive,required"`
}

type confirmReq struct {
	PendingBookingID string  `json:"pendingBookingId" validate:"required"`
	TotalPrice       float64 `json:"totalPrice" validate:"gte=0"`
	PaymentMethod    string  `json:"paymentMethod" validate:"required"`
	StripeToken      string  `json:"stripeToken"`
}

type releaseReq struct {
	MovieID    string   `json:"movieId" validate:"required"`
	ShowtimeID string   `json:"showtimeId" validate:"required"`
	Seats      []string `json:"seatsToRelease"`
}

type cancelReq struct {
	BookingID string `json:"bookingId" validate:"required"`
}

type createBookingReq struct {
	MovieID    string   `json:"movieId" validate:"required"`
	ShowtimeID string   `json:"showtimeId" validate:"required"`
	Seats      []string `json:"seatsBooked" validate:"required,min=1,dive,required"`
	TotalPrice float64  `json:"totalPrice" validate:"gt=0"`
}

type topUpReq struct {
	Amount      float64 `json:"amount"`
	StripeToken string  `json:"stripeToken"`
}

// paymentMethod accepts the stored names plus the card aliases older
// clients send.
func paymentMethod(s string) model.PaymentMethod {
	switch m := strings.ToLower(strings.TrimSpace(s)); m {
	case "stripe", "card", "online":
		return model.PaymentGateway
	default:
		return model.PaymentMethod(m)
	}
}

// LockSeats handles POST /api/bookings/lock-seats.
func (h *BookingHandler) LockSeats(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req lockReq
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Engine.LockSeats(ctx, req.MovieID, req.ShowtimeID, uid, req.Seats)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":          "Seats locked successfully.",
		"pendingBookingId": b.ID,
		"expiry":           b.BookingExpiry,
	})
}

// ConfirmBooking handles POST /api/bookings/confirm-booking.
func (h *BookingHandler) ConfirmBooking(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req confirmReq
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Engine.ConfirmBooking(ctx, service.ConfirmRequest{
		BookingID:  req.PendingBookingID,
		UserID:     uid,
		TotalPrice: req.TotalPrice,
		Method:     paymentMethod(req.PaymentMethod),
		Token:      req.StripeToken,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Booking confirmed! QR code generated.",
		"booking":   b,
		"qrCodeUrl": b.QRCodeURL,
	})
}

// ReleaseSeats handles DELETE /api/bookings/release-seats.
func (h *BookingHandler) ReleaseSeats(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req releaseReq
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	released, err := h.Engine.ReleaseSeats(ctx, req.MovieID, req.ShowtimeID, uid, req.Seats)
	if err != nil {
		return h.fail(c, err)
	}
	if released == nil {
		released = []string{}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Seats released.", "released": released})
}

// CancelBooking handles POST /api/bookings/cancel.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req cancelReq
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Engine.CancelBooking(ctx, req.BookingID, uid)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking canceled and refunded.", "booking": b})
}

// CreateBooking handles the immediate POST /api/bookings.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req createBookingReq
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Engine.CreateBooking(ctx, service.CreateBookingRequest{
		MovieID:    req.MovieID,
		ShowtimeID: req.ShowtimeID,
		UserID:     uid,
		Seats:      req.Seats,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":   "Booking successful! Confirmation email sent.",
		"bookingId": b.ID,
		"booking":   b,
	})
}

// MyBookings handles GET /api/bookings/mybookings.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	views, err := h.Engine.ListUserBookings(ctx, uid)
	if err != nil {
		return h.fail(c, err)
	}
	if views == nil {
		views = []model.BookingView{}
	}
	return c.JSON(http.StatusOK, views)
}

func (h *BookingHandler) WalletBalance(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	w, err := h.Wallet.Balance(ctx, uid)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, w)
}

// AddToWallet handles POST /api/bookings/add-to-wallet. The amount is
// checked by the wallet service so a missing or negative value reports
// "invalid amount".
func (h *BookingHandler) AddToWallet(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req topUpReq
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	w, p, err := h.Wallet.AddToWallet(ctx, uid, req.Amount, req.StripeToken)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Wallet topped up successfully.",
		"newBalance":    w.Balance,
		"loyaltyPoints": w.LoyaltyPoints,
		"payment":       p,
	})
}
