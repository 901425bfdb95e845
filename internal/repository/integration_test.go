package repository_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/movie-ticket-booking/internal/database"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

func startContainer(t *testing.T, req testcontainers.ContainerRequest) (string, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, nat.Port(req.ExposedPorts[0]))
	require.NoError(t, err)
	return host, port.Port()
}

func startMongo(t *testing.T) *mongo.Database {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(time.Minute),
	})
	ctx := context.Background()
	client, db, err := database.OpenMongo(ctx, fmt.Sprintf("mongodb://%s:%s", host, port), "tickets_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	require.NoError(t, repository.EnsureIndexes(ctx, db))
	return db
}

func startMySQL(t *testing.T) *sql.DB {
	host, port := startContainer(t, testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env:          map[string]string{"MYSQL_ROOT_PASSWORD": "secret", "MYSQL_DATABASE": "tickets"},
		WaitingFor:   wait.ForLog("ready for connections").WithOccurrence(2).WithStartupTimeout(2 * time.Minute),
	})
	ctx := context.Background()
	var db *sql.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Open(ctx, database.DSN("root", "secret", host, port, "tickets"))
		return err == nil
	}, 30*time.Second, time.Second)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db))
	require.NoError(t, database.Migrate(ctx, db), "migrations must be repeatable")
	return db
}

func TestMongoRepositories(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	movies := repository.NewMovieRepo(db)
	m := &model.Movie{
		ID: uuid.NewString(), Title: "Inception", Slug: "inception", CreatedAt: now, UpdatedAt: now,
		Showtimes: []model.Showtime{{
			ID: "s1", Time: "14:30", Date: now,
			ScreenDetails: model.ScreenDetails{ScreenName: "Screen 3", TotalCapacity: 80},
			BookedSeats:   []string{"A1"}, PendingSeats: []string{},
		}},
	}
	require.NoError(t, movies.Create(ctx, m))

	got, err := movies.Get(ctx, m.ID)
	require.NoError(t, err)
	got.Showtime("s1").PendingSeats = append(got.Showtime("s1").PendingSeats, "A3")
	require.NoError(t, movies.Save(ctx, got))
	require.NoError(t, movies.UpdateAverageRating(ctx, m.ID, 4.5))

	got, err = movies.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A3"}, got.Showtime("s1").PendingSeats)
	assert.Equal(t, 4.5, got.AverageRating)

	_, err = movies.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	bookings := repository.NewBookingRepo(db)
	past := now.Add(-time.Minute)
	pending := &model.Booking{
		ID: uuid.NewString(), UserID: 7, MovieID: m.ID, ShowtimeID: "s1",
		SeatsBooked: []string{"A3"}, Status: model.BookingPending, BookingExpiry: &past,
		RefundStatus: model.RefundNone, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, bookings.Create(ctx, pending))

	expired, err := bookings.ListExpiredPending(ctx, now)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, pending.ID, expired[0].ID)

	n, err := bookings.DeletePendingOverlapping(ctx, 8, m.ID, "s1", []string{"A3"})
	require.NoError(t, err)
	assert.Zero(t, n, "other users' bookings are untouched")
	n, err = bookings.DeletePendingOverlapping(ctx, 7, m.ID, "s1", []string{"A3", "A4"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	reviews := repository.NewReviewRepo(db)
	r := &model.Review{ID: uuid.NewString(), UserID: 7, MovieID: m.ID, Rating: 4, Comment: "good", CreatedAt: now}
	require.NoError(t, reviews.Create(ctx, r))
	dup := *r
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, reviews.Create(ctx, &dup), repository.ErrDuplicate)
}

func TestMySQLRepositories(t *testing.T) {
	db := startMySQL(t)
	ctx := context.Background()

	users := repository.NewUserRepo(db)
	u := &model.User{Name: "Alice", Email: " Alice@Example.com ", PasswordHash: "x", Role: model.RoleCustomer}
	require.NoError(t, users.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.ErrorIs(t, users.Create(ctx, &model.User{Name: "A", Email: "alice@example.com", PasswordHash: "x", Role: model.RoleCustomer}),
		repository.ErrDuplicate)

	require.NoError(t, users.AdjustWallet(ctx, u.ID, 100, 10))
	require.NoError(t, users.AdjustWallet(ctx, u.ID, 0, 0), "a no-op update still matches the row")
	assert.ErrorIs(t, users.DebitWallet(ctx, u.ID, 150), repository.ErrInsufficientFunds)
	require.NoError(t, users.DebitWallet(ctx, u.ID, 40))

	got, err := users.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.InDelta(t, 60, got.WalletBalance, 0.001)
	assert.Equal(t, 10, got.LoyaltyPoints)
	assert.Equal(t, model.TierBasic, got.MembershipTier)

	require.NoError(t, users.Create(ctx, &model.User{Name: "Root", Email: "root@example.com", PasswordHash: "x", Role: model.RoleAdmin}))
	all, err := users.CountByRole(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, all, "admins are counted too")
	admins, err := users.CountByRole(ctx, model.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, admins)

	tokens := repository.NewTokenRepo(db)
	require.NoError(t, tokens.StoreRefresh(ctx, u.ID, "hash-1", time.Now().UTC().Add(time.Hour)))
	uid, err := tokens.ValidateRefresh(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, uid)
	require.NoError(t, tokens.RevokeByHash(ctx, "hash-1"))
	_, err = tokens.ValidateRefresh(ctx, "hash-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
