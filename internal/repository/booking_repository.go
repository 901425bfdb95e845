package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// BookingRepo stores booking documents.
type BookingRepo struct {
	col *mongo.Collection
}

func NewBookingRepo(db *mongo.Database) *BookingRepo {
	return &BookingRepo{col: db.Collection(BookingsCollection)}
}

func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	_, err := r.col.InsertOne(ctx, b)
	return mapMongoErr(err)
}

func (r *BookingRepo) Get(ctx context.Context, id string) (*model.Booking, error) {
	var b model.Booking
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, mapMongoErr(err)
	}
	return &b, nil
}

// Save replaces the booking. A nil BookingExpiry is omitted from the
// document, so replacing clears the field.
func (r *BookingRepo) Save(ctx context.Context, b *model.Booking) error {
	b.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": b.ID}, b)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePendingOverlapping removes the user's Pending bookings for a
// showtime that claim at least one of seats.
func (r *BookingRepo) DeletePendingOverlapping(ctx context.Context, userID uint64, movieID, showtimeID string, seats []string) (int64, error) {
	if len(seats) == 0 {
		return 0, nil
	}
	res, err := r.col.DeleteMany(ctx, bson.M{
		"userId":      userID,
		"movieId":     movieID,
		"showtimeId":  showtimeID,
		"status":      model.BookingPending,
		"seatsBooked": bson.M{"$in": seats},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// ListExpiredPending returns Pending bookings whose expiry is before now.
func (r *BookingRepo) ListExpiredPending(ctx context.Context, now time.Time) ([]model.Booking, error) {
	return r.find(ctx, bson.M{
		"status":        model.BookingPending,
		"bookingExpiry": bson.M{"$lt": now.UTC()},
	}, options.Find().SetSort(bson.D{{Key: "bookingExpiry", Value: 1}}))
}

// Latest returns the n most recently created bookings.
func (r *BookingRepo) Latest(ctx context.Context, n int) ([]model.Booking, error) {
	return r.find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(n)))
}

func (r *BookingRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *BookingRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Booking, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []model.Booking{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
