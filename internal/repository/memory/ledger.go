package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// BookingRepo is the in-memory booking store.
type BookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]model.Booking
}

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{bookings: map[string]model.Booking{}}
}

func (r *BookingRepo) Create(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; ok {
		return repository.ErrDuplicate
	}
	r.bookings[b.ID] = cloneBooking(*b)
	return nil
}

func (r *BookingRepo) Get(_ context.Context, id string) (*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneBooking(b)
	return &out, nil
}

func (r *BookingRepo) Save(_ context.Context, b *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return repository.ErrNotFound
	}
	b.UpdatedAt = time.Now().UTC()
	r.bookings[b.ID] = cloneBooking(*b)
	return nil
}

func (r *BookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *BookingRepo) DeletePendingOverlapping(_ context.Context, userID uint64, movieID, showtimeID string, seats []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := model.NewSeatSet(seats)
	var n int64
	for id, b := range r.bookings {
		if b.UserID != userID || b.MovieID != movieID || b.ShowtimeID != showtimeID || b.Status != model.BookingPending {
			continue
		}
		if len(want.Intersect(b.SeatsBooked)) > 0 {
			delete(r.bookings, id)
			n++
		}
	}
	return n, nil
}

func (r *BookingRepo) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	out := r.filter(func(b model.Booking) bool { return b.UserID == userID })
	sortNewestFirst(out)
	return out, nil
}

func (r *BookingRepo) ListExpiredPending(_ context.Context, now time.Time) ([]model.Booking, error) {
	out := r.filter(func(b model.Booking) bool {
		return b.Status == model.BookingPending && b.BookingExpiry != nil && b.BookingExpiry.Before(now)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].BookingExpiry.Before(*out[j].BookingExpiry) })
	return out, nil
}

func (r *BookingRepo) Latest(_ context.Context, n int) ([]model.Booking, error) {
	out := r.filter(func(model.Booking) bool { return true })
	sortNewestFirst(out)
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (r *BookingRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.bookings)), nil
}

func (r *BookingRepo) filter(keep func(model.Booking) bool) []model.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Booking{}
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, cloneBooking(b))
		}
	}
	return out
}

func sortNewestFirst(bs []model.Booking) {
	sort.SliceStable(bs, func(i, j int) bool { return bs[i].CreatedAt.After(bs[j].CreatedAt) })
}

func cloneBooking(b model.Booking) model.Booking {
	out := b
	out.SeatsBooked = append([]string{}, b.SeatsBooked...)
	if b.BookingExpiry != nil {
		e := *b.BookingExpiry
		out.BookingExpiry = &e
	}
	return out
}

// PaymentRepo is the in-memory payment store.
type PaymentRepo struct {
	mu       sync.RWMutex
	payments map[string]model.Payment
}

func NewPaymentRepo() *PaymentRepo {
	return &PaymentRepo{payments: map[string]model.Payment{}}
}

func (r *PaymentRepo) Create(_ context.Context, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.ID]; ok {
		return repository.ErrDuplicate
	}
	r.payments[p.ID] = *p
	return nil
}

func (r *PaymentRepo) Get(_ context.Context, id string) (*model.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *PaymentRepo) Save(_ context.Context, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[p.ID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	r.payments[p.ID] = *p
	return nil
}

// ListByUser is not part of the service contract; tests use it to inspect
// the ledger.
func (r *PaymentRepo) ListByUser(userID uint64) []model.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []model.Payment
	for _, p := range r.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}
