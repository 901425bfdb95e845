package service

import (
	"context"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
)

// MovieStore persists movie documents. Save replaces the whole document.
type MovieStore interface {
	Create(ctx context.Context, m *model.Movie) error
	Get(ctx context.Context, id string) (*model.Movie, error)
	List(ctx context.Context) ([]model.Movie, error)
	Save(ctx context.Context, m *model.Movie) error
	Delete(ctx context.Context, id string) error
	UpdateAverageRating(ctx context.Context, id string, avg float64) error
	Count(ctx context.Context) (int64, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	Get(ctx context.Context, id string) (*model.Booking, error)
	Save(ctx context.Context, b *model.Booking) error
	Delete(ctx context.Context, id string) error
	DeletePendingOverlapping(ctx context.Context, userID uint64, movieID, showtimeID string, seats []string) (int64, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListExpiredPending(ctx context.Context, now time.Time) ([]model.Booking, error)
	Latest(ctx context.Context, n int) ([]model.Booking, error)
	Count(ctx context.Context) (int64, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	Get(ctx context.Context, id string) (*model.Payment, error)
	Save(ctx context.Context, p *model.Payment) error
}

type ReviewStore interface {
	Create(ctx context.Context, r *model.Review) error
	ListByMovie(ctx context.Context, movieID string) ([]model.Review, error)
}

// UserStore is the account ledger. AdjustWallet and DebitWallet must be
// atomic on the row.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByResetToken(ctx context.Context, hash string, now time.Time) (model.User, error)
	AdjustWallet(ctx context.Context, id uint64, delta float64, points int) error
	DebitWallet(ctx context.Context, id uint64, amount float64) error
	SetResetToken(ctx context.Context, id uint64, hash string, exp time.Time) error
	ClearResetToken(ctx context.Context, id uint64) error
	UpdatePassword(ctx context.Context, id uint64, hash string) error
	CountByRole(ctx context.Context, role string) (int64, error) // "" counts all
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// Notifier broadcasts a showtime's seat lists to realtime subscribers.
type Notifier interface {
	BroadcastSeats(ctx context.Context, showtimeID string, state model.SeatState)
}

// PaymentGateway charges a tokenized card and refunds a charge.
type PaymentGateway interface {
	Charge(ctx context.Context, amount float64, token, description string) (transactionID string, err error)
	Refund(ctx context.Context, transactionID string) (refundID string, err error)
}

// Mailer sends transactional email. Callers treat failures as best-effort
// unless stated otherwise.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, r model.BookingReceipt) error
	SendWelcome(ctx context.Context, to, name string) error
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// CodeGenerator turns a receipt into the ticket code payload (a data URL).
type CodeGenerator interface {
	Generate(r model.BookingReceipt) (string, error)
}

// EventPublisher emits booking lifecycle events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

type nopNotifier struct{}

func (nopNotifier) BroadcastSeats(context.Context, string, model.SeatState) {}
