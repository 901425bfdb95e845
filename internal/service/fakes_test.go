package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/queue"
	"github.com/iliyamo/movie-ticket-booking/internal/repository/memory"
)

type broadcast struct {
	showtimeID string
	state      model.SeatState
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []broadcast
}

func (n *recordingNotifier) BroadcastSeats(_ context.Context, id string, st model.SeatState) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, broadcast{showtimeID: id, state: st})
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakeGateway struct {
	onCharge  func()
	chargeErr error
	refundErr error
	charges   []float64
	refunds   []string
}

func (g *fakeGateway) Charge(_ context.Context, amount float64, _, _ string) (string, error) {
	if g.onCharge != nil {
		g.onCharge()
	}
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	g.charges = append(g.charges, amount)
	return "ch_test", nil
}

func (g *fakeGateway) Refund(_ context.Context, txID string) (string, error) {
	if g.refundErr != nil {
		return "", g.refundErr
	}
	g.refunds = append(g.refunds, txID)
	return "re_test", nil
}

type fakeMailer struct {
	err      error
	receipts []model.BookingReceipt
	welcomes []string
	resets   []string
}

func (m *fakeMailer) SendBookingConfirmation(_ context.Context, r model.BookingReceipt) error {
	m.receipts = append(m.receipts, r)
	return m.err
}

func (m *fakeMailer) SendWelcome(_ context.Context, to, _ string) error {
	m.welcomes = append(m.welcomes, to)
	return m.err
}

func (m *fakeMailer) SendPasswordReset(_ context.Context, _, url string) error {
	m.resets = append(m.resets, url)
	return m.err
}

type fakeCodes struct{}

func (fakeCodes) Generate(r model.BookingReceipt) (string, error) {
	return "data:image/png;base64," + r.BookingID, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []queue.BookingEvent
}

func (f *fakeEvents) Publish(_ context.Context, ev queue.BookingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return errors.New("broker down")
}

// faults arms store failures for the engine under test. A nil error lets
// the call through to the memory store.
type faults struct {
	paymentCreate error
	movieSave     error
	bookingSave   error
	walletAdjust  error
}

type faultyMovies struct {
	*memory.MovieRepo
	f *faults
}

func (m faultyMovies) Save(ctx context.Context, mv *model.Movie) error {
	if m.f.movieSave != nil {
		return m.f.movieSave
	}
	return m.MovieRepo.Save(ctx, mv)
}

type faultyBookings struct {
	*memory.BookingRepo
	f *faults
}

func (b faultyBookings) Save(ctx context.Context, bk *model.Booking) error {
	if b.f.bookingSave != nil {
		return b.f.bookingSave
	}
	return b.BookingRepo.Save(ctx, bk)
}

type faultyPayments struct {
	*memory.PaymentRepo
	f *faults
}

func (p faultyPayments) Create(ctx context.Context, pm *model.Payment) error {
	if p.f.paymentCreate != nil {
		return p.f.paymentCreate
	}
	return p.PaymentRepo.Create(ctx, pm)
}

type faultyUsers struct {
	*memory.UserRepo
	f *faults
}

func (u faultyUsers) AdjustWallet(ctx context.Context, id uint64, delta float64, points int) error {
	if u.f.walletAdjust != nil {
		return u.f.walletAdjust
	}
	return u.UserRepo.AdjustWallet(ctx, id, delta, points)
}

// fixture wires an Engine over the in-memory store with a controllable
// clock.
type fixture struct {
	engine   *Engine
	movies   *memory.MovieRepo
	bookings *memory.BookingRepo
	payments *memory.PaymentRepo
	users    *memory.UserRepo
	notifier *recordingNotifier
	gateway  *fakeGateway
	mailer   *fakeMailer
	events   *fakeEvents
	fail     *faults
	now      time.Time

	movieID    string
	showtimeID string
	userID     uint64
	otherID    uint64
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixtureOpt func(*EngineConfig, *model.Showtime)

func serialized() fixtureOpt {
	return func(c *EngineConfig, _ *model.Showtime) { c.Serialize = true }
}

func startsIn(d time.Duration) fixtureOpt {
	return func(_ *EngineConfig, st *model.Showtime) {
		at := baseTime.Add(d)
		st.Date = time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
		st.Time = at.Format("15:04")
	}
}

func withSeats(capacity int, booked ...string) fixtureOpt {
	return func(_ *EngineConfig, st *model.Showtime) {
		st.ScreenDetails.TotalCapacity = capacity
		st.BookedSeats = booked
	}
}

func newFixture(t *testing.T, opts ...fixtureOpt) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		movies:     memory.NewMovieRepo(),
		bookings:   memory.NewBookingRepo(),
		payments:   memory.NewPaymentRepo(),
		users:      memory.NewUserRepo(),
		notifier:   &recordingNotifier{},
		gateway:    &fakeGateway{},
		mailer:     &fakeMailer{},
		events:     &fakeEvents{},
		fail:       &faults{},
		now:        baseTime,
		movieID:    "movie-1",
		showtimeID: "show-1",
	}

	cfg := EngineConfig{}
	st := model.Showtime{
		ID:            f.showtimeID,
		ScreenDetails: model.ScreenDetails{ScreenName: "Screen 3 - Standard", Rows: 8, Cols: 10, TotalCapacity: 80},
		BookedSeats:   []string{"A1", "A2", "B5"},
		PendingSeats:  []string{},
	}
	startsIn(72 * time.Hour)(&cfg, &st)
	for _, o := range opts {
		o(&cfg, &st)
	}
	require.NoError(t, f.movies.Create(ctx, &model.Movie{
		ID:        f.movieID,
		Title:     "Inception",
		PosterURL: "https://example.test/inception.png",
		Showtimes: []model.Showtime{st},
		CreatedAt: baseTime,
	}))

	alice := &model.User{Name: "Alice", Email: "alice@example.test", Role: model.RoleCustomer}
	bob := &model.User{Name: "Bob", Email: "bob@example.test", Role: model.RoleCustomer}
	require.NoError(t, f.users.Create(ctx, alice))
	require.NoError(t, f.users.Create(ctx, bob))
	f.userID, f.otherID = alice.ID, bob.ID

	f.engine = NewEngine(EngineDeps{
		Movies:   faultyMovies{f.movies, f.fail},
		Bookings: faultyBookings{f.bookings, f.fail},
		Payments: faultyPayments{f.payments, f.fail},
		Users:    faultyUsers{f.users, f.fail},
		Notifier: f.notifier,
		Gateway:  f.gateway,
		Mailer:   f.mailer,
		Codes:    fakeCodes{},
		Events:   f.events,
		Clock:    func() time.Time { return f.now },
		Logger:   zerolog.Nop(),
	}, cfg)
	return f
}

func (f *fixture) showtime(t *testing.T) model.Showtime {
	t.Helper()
	m, err := f.movies.Get(context.Background(), f.movieID)
	require.NoError(t, err)
	st := m.Showtime(f.showtimeID)
	require.NotNil(t, st)
	return *st
}

func (f *fixture) lock(t *testing.T, user uint64, seats ...string) *model.Booking {
	t.Helper()
	b, err := f.engine.LockSeats(context.Background(), f.movieID, f.showtimeID, user, seats)
	require.NoError(t, err)
	return b
}

func (f *fixture) confirm(t *testing.T, b *model.Booking, method model.PaymentMethod, price float64) *model.Booking {
	t.Helper()
	out, err := f.engine.ConfirmBooking(context.Background(), ConfirmRequest{
		BookingID: b.ID, UserID: b.UserID, TotalPrice: price, Method: method,
	})
	require.NoError(t, err)
	return out
}

// assertInvariants checks disjointness and capacity of the fixture's
// showtime.
func (f *fixture) assertInvariants(t *testing.T) {
	t.Helper()
	st := f.showtime(t)
	require.Empty(t, model.NewSeatSet(st.BookedSeats).Intersect(st.PendingSeats), "booked and pending overlap")
	require.LessOrEqual(t, st.Occupied(), st.ScreenDetails.TotalCapacity)
}
