package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

const (
	DefaultLockTTL      = 10 * time.Minute
	DefaultCancelWindow = 24 * time.Hour
)

// EngineConfig tunes the seat inventory engine.
type EngineConfig struct {
	LockTTL      time.Duration // lifetime of a Pending lock
	CancelWindow time.Duration // minimum lead time before the showtime for a cancellation
	// Serialize guards every seat mutation of a showtime with an in-process
	// mutex. Off by default: the movie document is then updated with a plain
	// read-modify-write and concurrent writers of one showtime can overwrite
	// each other's seat changes.
	Serialize bool
}

// EngineDeps are the collaborators of the engine. Stores are required;
// Gateway, Mailer, Codes and Events may be nil.
type EngineDeps struct {
	Movies   MovieStore
	Bookings BookingStore
	Payments PaymentStore
	Users    UserStore
	Notifier Notifier
	Gateway  PaymentGateway
	Mailer   Mailer
	Codes    CodeGenerator
	Events   EventPublisher
	Clock    func() time.Time
	Logger   zerolog.Logger
}

// Engine owns every transition of a showtime's seats between free, pending
// and booked, together with the booking and payment records that go with
// them.
type Engine struct {
	movies   MovieStore
	bookings BookingStore
	payments PaymentStore
	users    UserStore
	notifier Notifier
	gateway  PaymentGateway
	mailer   Mailer
	codes    CodeGenerator
	events   EventPublisher
	now      func() time.Time
	log      zerolog.Logger

	lockTTL      time.Duration
	cancelWindow time.Duration
	locks        *showtimeLocks
}

func NewEngine(d EngineDeps, cfg EngineConfig) *Engine {
	if d.Movies == nil || d.Bookings == nil || d.Payments == nil || d.Users == nil {
		panic("nil store passed to NewEngine")
	}
	e := &Engine{
		movies:       d.Movies,
		bookings:     d.Bookings,
		payments:     d.Payments,
		users:        d.Users,
		notifier:     d.Notifier,
		gateway:      d.Gateway,
		mailer:       d.Mailer,
		codes:        d.Codes,
		events:       d.Events,
		now:          d.Clock,
		log:          d.Logger.With().Str("component", "engine").Logger(),
		lockTTL:      cfg.LockTTL,
		cancelWindow: cfg.CancelWindow,
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	if e.now == nil {
		e.now = func() time.Time { return time.Now().UTC() }
	}
	if e.lockTTL <= 0 {
		e.lockTTL = DefaultLockTTL
	}
	if e.cancelWindow <= 0 {
		e.cancelWindow = DefaultCancelWindow
	}
	if cfg.Serialize {
		e.locks = newShowtimeLocks()
	}
	return e
}

// LockSeats moves free seats to pending and records a Pending booking that
// expires after the lock TTL. There is no capacity check here; capacity is
// enforced when the booking is confirmed.
func (e *Engine) LockSeats(ctx context.Context, movieID, showtimeID string, userID uint64, seats []string) (*model.Booking, error) {
	seats = model.NormalizeSeats(seats)
	if len(seats) == 0 {
		return nil, fmt.Errorf("%w: at least one seat is required", ErrInvalidInput)
	}
	unlock := e.serialize(showtimeID)
	defer unlock()

	movie, st, err := e.loadShowtime(ctx, movieID, showtimeID)
	if err != nil {
		return nil, err
	}
	if taken := st.Unavailable(seats); len(taken) > 0 {
		return nil, &SeatConflictError{Seats: taken}
	}
	st.PendingSeats = append(st.PendingSeats, seats...)
	if err := e.movies.Save(ctx, movie); err != nil {
		return nil, fmt.Errorf("save movie: %w", err)
	}

	now := e.now()
	exp := now.Add(e.lockTTL)
	b := &model.Booking{
		ID:            uuid.NewString(),
		UserID:        userID,
		MovieID:       movieID,
		ShowtimeID:    showtimeID,
		SeatsBooked:   seats,
		Status:        model.BookingPending,
		BookingExpiry: &exp,
		RefundStatus:  model.RefundNone,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := e.bookings.Create(ctx, b); err != nil {
		e.log.Error().Err(err).Str("showtime_id", showtimeID).Strs("seats", seats).
			Msg("create pending booking failed, releasing locked seats")
		st.PendingSeats, _ = model.RemoveSeats(st.PendingSeats, seats)
		if serr := e.movies.Save(ctx, movie); serr != nil {
			e.log.Error().Err(serr).Str("showtime_id", showtimeID).Msg("seats left pending without a booking")
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	e.broadcast(ctx, showtimeID, st)
	return b, nil
}

// ConfirmRequest carries the checkout data for a Pending booking.
type ConfirmRequest struct {
	BookingID  string
	UserID     uint64
	TotalPrice float64
	Method     model.PaymentMethod
	Token      string // gateway card token; optional
}

// ConfirmBooking charges the user and turns a Pending booking into a
// Confirmed one. An expired booking is cleaned up (seats released, record
// deleted) and ErrExpired is returned. Once money has moved, any failure is
// reported as ErrReconciliation and left for manual follow-up; the charge
// is never rolled back automatically.
func (e *Engine) ConfirmBooking(ctx context.Context, req ConfirmRequest) (*model.Booking, error) {
	b, unlock, err := e.ownedBooking(ctx, req.BookingID, req.UserID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if b.Status != model.BookingPending {
		return nil, fmt.Errorf("%w: booking is %s, not Pending", ErrInvalidState, b.Status)
	}
	if req.TotalPrice < 0 {
		return nil, ErrInvalidAmount
	}
	if !req.Method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, req.Method)
	}
	if b.Expired(e.now()) {
		if err := e.expire(ctx, b); err != nil {
			return nil, fmt.Errorf("release expired booking: %w", err)
		}
		return nil, ErrExpired
	}

	_, st, err := e.loadShowtime(ctx, b.MovieID, b.ShowtimeID)
	if err != nil {
		return nil, err
	}
	if st.Occupied() > st.ScreenDetails.TotalCapacity {
		return nil, ErrCapacityExceeded
	}
	// The seats must still be held: another caller may have released them,
	// and a later lock may already have been confirmed.
	if taken := model.NewSeatSet(st.BookedSeats).Intersect(b.SeatsBooked); len(taken) > 0 {
		return nil, &SeatConflictError{Seats: taken}
	}
	if lost := model.NewSeatSet(st.PendingSeats).Missing(b.SeatsBooked); len(lost) > 0 {
		return nil, &SeatConflictError{Seats: lost}
	}

	payment, err := e.charge(ctx, b, req)
	if err != nil {
		return nil, err
	}
	if err := e.payments.Create(ctx, payment); err != nil {
		return nil, e.reconcile(b, payment, "record payment", err)
	}

	// Re-read the movie: the charge may have taken a while.
	movie, st, err := e.loadShowtime(ctx, b.MovieID, b.ShowtimeID)
	if err != nil {
		return nil, e.reconcile(b, payment, "reload movie", err)
	}
	user, uerr := e.users.GetByID(ctx, b.UserID)
	if uerr != nil {
		e.log.Warn().Err(uerr).Uint64("user_id", b.UserID).Msg("load user for receipt failed")
	}
	receipt := buildReceipt(b, movie, st, user, req.TotalPrice)

	if taken := model.NewSeatSet(st.BookedSeats).Intersect(b.SeatsBooked); len(taken) > 0 {
		return nil, e.reconcile(b, payment, "seats booked during checkout", &SeatConflictError{Seats: taken})
	}
	st.PendingSeats, _ = model.RemoveSeats(st.PendingSeats, b.SeatsBooked)
	st.BookedSeats = append(st.BookedSeats, b.SeatsBooked...)
	if err := e.movies.Save(ctx, movie); err != nil {
		return nil, e.reconcile(b, payment, "save movie", err)
	}

	b.Status = model.BookingConfirmed
	b.TotalPrice = req.TotalPrice
	b.BookingExpiry = nil
	b.PaymentID = payment.ID
	if e.codes != nil {
		code, err := e.codes.Generate(receipt)
		if err != nil {
			e.log.Error().Err(err).Str("booking_id", b.ID).Msg("generate ticket code failed")
		}
		b.QRCodeURL = code
	}
	if err := e.bookings.Save(ctx, b); err != nil {
		return nil, e.reconcile(b, payment, "save booking", err)
	}

	if uerr == nil {
		e.sendConfirmation(ctx, receipt)
	}
	e.broadcast(ctx, b.ShowtimeID, st)
	e.publish(ctx, queue.BookingConfirmedQueue, b, movie, st, payment.Method)
	return b, nil
}

// ReleaseSeats drops the requested seats from pending and deletes the
// caller's Pending bookings that claim any of them. Seats that are not
// pending are ignored, so releasing twice or releasing nothing is harmless.
// Any authenticated caller may release pending seats of a showtime; only the
// booking cleanup is scoped to the caller.
func (e *Engine) ReleaseSeats(ctx context.Context, movieID, showtimeID string, userID uint64, seats []string) ([]string, error) {
	seats = model.NormalizeSeats(seats)
	if len(seats) == 0 {
		return []string{}, nil
	}
	unlock := e.serialize(showtimeID)
	defer unlock()

	movie, st, err := e.loadShowtime(ctx, movieID, showtimeID)
	if err != nil {
		return nil, err
	}
	released := model.NewSeatSet(st.PendingSeats).Intersect(seats)
	if len(released) > 0 {
		st.PendingSeats, _ = model.RemoveSeats(st.PendingSeats, released)
		if err := e.movies.Save(ctx, movie); err != nil {
			return nil, fmt.Errorf("save movie: %w", err)
		}
	}
	n, err := e.bookings.DeletePendingOverlapping(ctx, userID, movieID, showtimeID, seats)
	if err != nil {
		return nil, fmt.Errorf("delete pending bookings: %w", err)
	}
	e.log.Debug().Str("showtime_id", showtimeID).Strs("released", released).Int64("bookings_deleted", n).Msg("seats released")
	e.broadcast(ctx, showtimeID, st)
	return released, nil
}

// CancelBooking refunds and cancels a Confirmed booking and frees its seats.
// A refund failure leaves the booking Confirmed and the payment Completed.
func (e *Engine) CancelBooking(ctx context.Context, bookingID string, userID uint64) (*model.Booking, error) {
	b, unlock, err := e.ownedBooking(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if b.Status != model.BookingConfirmed {
		return nil, fmt.Errorf("%w: only confirmed bookings can be canceled", ErrInvalidState)
	}
	movie, st, err := e.loadShowtime(ctx, b.MovieID, b.ShowtimeID)
	if err != nil {
		return nil, err
	}
	startsAt, err := st.StartsAt()
	if err != nil {
		return nil, err
	}
	if startsAt.Sub(e.now()) < e.cancelWindow {
		return nil, ErrCancellationWindowClosed
	}

	refunded, err := e.refund(ctx, b)
	if err != nil {
		return nil, err
	}

	b.Status = model.BookingCanceled
	b.RefundStatus = model.RefundProcessed
	if err := e.bookings.Save(ctx, b); err != nil {
		if refunded != nil {
			return nil, e.reconcile(b, refunded, "save canceled booking", err)
		}
		return nil, fmt.Errorf("save booking: %w", err)
	}

	st.BookedSeats, _ = model.RemoveSeats(st.BookedSeats, b.SeatsBooked)
	if err := e.movies.Save(ctx, movie); err != nil {
		e.log.Error().Err(err).Str("booking_id", b.ID).Strs("seats", b.SeatsBooked).
			Msg("booking canceled but seats still marked booked")
		return nil, fmt.Errorf("save movie: %w", err)
	}

	e.broadcast(ctx, b.ShowtimeID, st)
	method := model.PaymentMethod("")
	if refunded != nil {
		method = refunded.Method
	}
	e.publish(ctx, queue.BookingCanceledQueue, b, movie, st, method)
	return b, nil
}

// CreateBookingRequest is the legacy immediate booking.
type CreateBookingRequest struct {
	MovieID    string
	ShowtimeID string
	UserID     uint64
	Seats      []string
	TotalPrice float64
}

// CreateBooking books seats directly, without a pending lock.
//
// This path checks the requested seats against booked seats only and its
// capacity check ignores pending seats, so it can book a seat another user
// has locked. It neither broadcasts a seat update nor publishes a booking
// event.
func (e *Engine) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	seats := model.NormalizeSeats(req.Seats)
	if len(seats) == 0 {
		return nil, fmt.Errorf("%w: at least one seat is required", ErrInvalidInput)
	}
	if req.TotalPrice <= 0 {
		return nil, ErrInvalidAmount
	}
	unlock := e.serialize(req.ShowtimeID)
	defer unlock()

	movie, st, err := e.loadShowtime(ctx, req.MovieID, req.ShowtimeID)
	if err != nil {
		return nil, err
	}
	if taken := model.NewSeatSet(st.BookedSeats).Intersect(seats); len(taken) > 0 {
		return nil, &SeatConflictError{Seats: taken}
	}
	if len(st.BookedSeats)+len(seats) > st.ScreenDetails.TotalCapacity {
		return nil, ErrCapacityExceeded
	}
	st.BookedSeats = append(st.BookedSeats, seats...)
	if err := e.movies.Save(ctx, movie); err != nil {
		return nil, fmt.Errorf("save movie: %w", err)
	}

	now := e.now()
	b := &model.Booking{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		MovieID:      req.MovieID,
		ShowtimeID:   req.ShowtimeID,
		SeatsBooked:  seats,
		TotalPrice:   req.TotalPrice,
		Status:       model.BookingConfirmed,
		RefundStatus: model.RefundNone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.bookings.Create(ctx, b); err != nil {
		e.log.Error().Err(err).Str("showtime_id", req.ShowtimeID).Strs("seats", seats).
			Msg("seats booked without a booking record")
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if user, err := e.users.GetByID(ctx, req.UserID); err == nil {
		e.sendConfirmation(ctx, buildReceipt(b, movie, st, user, req.TotalPrice))
	} else {
		e.log.Warn().Err(err).Uint64("user_id", req.UserID).Msg("load user for confirmation email failed")
	}
	return b, nil
}

// ListUserBookings returns the user's bookings newest first, joined with
// the movie title and poster.
func (e *Engine) ListUserBookings(ctx context.Context, userID uint64) ([]model.BookingView, error) {
	bookings, err := e.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	movies := map[string]*model.Movie{}
	out := make([]model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		v := model.BookingView{Booking: b}
		m, seen := movies[b.MovieID]
		if !seen {
			m, err = e.movies.Get(ctx, b.MovieID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			movies[b.MovieID] = m
		}
		if m != nil {
			v.MovieTitle = m.Title
			v.PosterURL = m.PosterURL
		}
		out = append(out, v)
	}
	return out, nil
}

// SweepExpired releases every Pending booking whose lock has lapsed. It is
// the same cleanup a confirm attempt performs, run ahead of time.
func (e *Engine) SweepExpired(ctx context.Context) (int, error) {
	expired, err := e.bookings.ListExpiredPending(ctx, e.now())
	if err != nil {
		return 0, err
	}
	n := 0
	for _, candidate := range expired {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		ok, err := e.sweepOne(ctx, candidate)
		if err != nil {
			e.log.Warn().Err(err).Str("booking_id", candidate.ID).Msg("sweep booking failed")
			continue
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (e *Engine) sweepOne(ctx context.Context, candidate model.Booking) (bool, error) {
	unlock := e.serialize(candidate.ShowtimeID)
	defer unlock()
	b, err := e.bookings.Get(ctx, candidate.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if b.Status != model.BookingPending || !b.Expired(e.now()) {
		return false, nil
	}
	return true, e.expire(ctx, b)
}

// expire frees a Pending booking's seats and deletes the booking.
func (e *Engine) expire(ctx context.Context, b *model.Booking) error {
	movie, st, err := e.loadShowtime(ctx, b.MovieID, b.ShowtimeID)
	switch {
	case err == nil:
		var removed int
		st.PendingSeats, removed = model.RemoveSeats(st.PendingSeats, b.SeatsBooked)
		if removed > 0 {
			if err := e.movies.Save(ctx, movie); err != nil {
				return fmt.Errorf("save movie: %w", err)
			}
		}
		e.broadcast(ctx, b.ShowtimeID, st)
	case !errors.Is(err, ErrNotFound):
		return err
	}
	if err := e.bookings.Delete(ctx, b.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete booking: %w", err)
	}
	e.log.Info().Str("booking_id", b.ID).Strs("seats", b.SeatsBooked).Msg("expired booking released")
	return nil
}

func (e *Engine) charge(ctx context.Context, b *model.Booking, req ConfirmRequest) (*model.Payment, error) {
	now := e.now()
	p := &model.Payment{
		ID:        uuid.NewString(),
		UserID:    b.UserID,
		BookingID: b.ID,
		Amount:    req.TotalPrice,
		Status:    model.PaymentCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch {
	case req.Token != "" && e.gateway != nil:
		txID, err := e.gateway.Charge(ctx, req.TotalPrice, req.Token, "Booking for "+b.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		p.Method = model.PaymentGateway
		p.TransactionID = txID
	case req.Method == model.PaymentWallet:
		if err := e.users.DebitWallet(ctx, b.UserID, req.TotalPrice); err != nil {
			if errors.Is(err, repository.ErrInsufficientFunds) {
				return nil, fmt.Errorf("%w: insufficient wallet balance", ErrPaymentFailed)
			}
			return nil, fmt.Errorf("debit wallet: %w", err)
		}
		p.Method = model.PaymentWallet
	default:
		p.Method = model.PaymentDemo
	}
	return p, nil
}

// refund reverses the booking's payment if it is Completed and returns the
// payment it marked Refunded, or nil when there was nothing to refund.
func (e *Engine) refund(ctx context.Context, b *model.Booking) (*model.Payment, error) {
	if b.PaymentID == "" {
		return nil, nil
	}
	p, err := e.payments.Get(ctx, b.PaymentID)
	if errors.Is(err, repository.ErrNotFound) {
		e.log.Warn().Str("booking_id", b.ID).Str("payment_id", b.PaymentID).Msg("payment record missing, nothing to refund")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load payment: %w", err)
	}
	if p.Status != model.PaymentCompleted {
		return nil, nil
	}
	switch p.Method {
	case model.PaymentGateway:
		if e.gateway == nil {
			return nil, fmt.Errorf("%w: payment gateway not configured", ErrPaymentFailed)
		}
		refundID, err := e.gateway.Refund(ctx, p.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
		}
		p.TransactionID = refundID
	case model.PaymentWallet:
		if err := e.users.AdjustWallet(ctx, b.UserID, b.TotalPrice, 0); err != nil {
			return nil, fmt.Errorf("credit wallet: %w", err)
		}
	}
	p.Status = model.PaymentRefunded
	if err := e.payments.Save(ctx, p); err != nil {
		return nil, e.reconcile(b, p, "mark payment refunded", err)
	}
	return p, nil
}

func (e *Engine) reconcile(b *model.Booking, p *model.Payment, step string, err error) error {
	e.log.Error().Err(err).
		Str("step", step).
		Str("booking_id", b.ID).
		Uint64("user_id", b.UserID).
		Str("payment_id", p.ID).
		Str("payment_method", string(p.Method)).
		Str("transaction_id", p.TransactionID).
		Float64("amount", p.Amount).
		Msg("payment needs manual reconciliation")
	return fmt.Errorf("%w: %s: %w", ErrReconciliation, step, err)
}

// ownedBooking loads a booking the caller owns and takes the showtime lock.
// The returned unlock is never nil.
func (e *Engine) ownedBooking(ctx context.Context, id string, userID uint64) (*model.Booking, func(), error) {
	b, err := e.getBooking(ctx, id, userID)
	if err != nil {
		return nil, func() {}, err
	}
	if e.locks == nil {
		return b, func() {}, nil
	}
	unlock := e.serialize(b.ShowtimeID)
	// Re-read under the lock so a concurrent confirm or cancel is observed.
	b, err = e.getBooking(ctx, id, userID)
	if err != nil {
		unlock()
		return nil, func() {}, err
	}
	return b, unlock, nil
}

func (e *Engine) getBooking(ctx context.Context, id string, userID uint64) (*model.Booking, error) {
	b, err := e.bookings.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrUnauthorized
	}
	return b, nil
}

func (e *Engine) loadShowtime(ctx context.Context, movieID, showtimeID string) (*model.Movie, *model.Showtime, error) {
	movie, err := e.movies.Get(ctx, movieID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("movie %s: %w", movieID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	st := movie.Showtime(showtimeID)
	if st == nil {
		return nil, nil, fmt.Errorf("showtime %s: %w", showtimeID, ErrNotFound)
	}
	return movie, st, nil
}

func (e *Engine) serialize(showtimeID string) func() {
	if e.locks == nil {
		return func() {}
	}
	return e.locks.lock(showtimeID)
}

func (e *Engine) broadcast(ctx context.Context, showtimeID string, st *model.Showtime) {
	e.notifier.BroadcastSeats(ctx, showtimeID, st.State())
}

func (e *Engine) sendConfirmation(ctx context.Context, r model.BookingReceipt) {
	if e.mailer == nil {
		return
	}
	if err := e.mailer.SendBookingConfirmation(ctx, r); err != nil {
		e.log.Warn().Err(err).Str("booking_id", r.BookingID).Msg("confirmation email failed")
	}
}

func (e *Engine) publish(ctx context.Context, name string, b *model.Booking, m *model.Movie, st *model.Showtime, method model.PaymentMethod) {
	if e.events == nil {
		return
	}
	startsAt := ""
	if t, err := st.StartsAt(); err == nil {
		startsAt = t.Format(time.RFC3339)
	}
	ev := queue.BookingEvent{
		Event:         name,
		BookingID:     b.ID,
		UserID:        b.UserID,
		MovieID:       b.MovieID,
		MovieTitle:    m.Title,
		ShowtimeID:    b.ShowtimeID,
		ScreenName:    st.ScreenDetails.ScreenName,
		StartsAt:      startsAt,
		Seats:         b.SeatsBooked,
		TotalPrice:    b.TotalPrice,
		PaymentMethod: string(method),
		OccurredAt:    e.now().Format(time.RFC3339),
	}
	if err := e.events.Publish(ctx, ev); err != nil {
		e.log.Warn().Err(err).Str("event", name).Str("booking_id", b.ID).Msg("publish booking event failed")
	}
}

func buildReceipt(b *model.Booking, m *model.Movie, st *model.Showtime, u model.User, total float64) model.BookingReceipt {
	return model.BookingReceipt{
		BookingID:  b.ID,
		UserName:   u.Name,
		UserEmail:  u.Email,
		MovieTitle: m.Title,
		ShowTime:   st.Label(),
		Seats:      append([]string{}, b.SeatsBooked...),
		TotalPrice: fmt.Sprintf("%.2f", total),
	}
}
