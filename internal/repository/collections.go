package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names in the document database.
const (
	MoviesCollection   = "movies"
	BookingsCollection = "bookings"
	PaymentsCollection = "payments"
	ReviewsCollection  = "reviews"
)

// EnsureIndexes creates the indexes the repositories rely on. It is safe to
// call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		BookingsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "bookingExpiry", Value: 1}}},
			{Keys: bson.D{{Key: "movieId", Value: 1}, {Key: "showtimeId", Value: 1}}},
		},
		PaymentsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}}},
		},
		ReviewsCollection: {
			{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "movieId", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		MoviesCollection: {
			{Keys: bson.D{{Key: "slug", Value: 1}}},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

func mapMongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	}
	return err
}
