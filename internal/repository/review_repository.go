package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// ReviewRepo stores reviews. The unique (userId, movieId) index created by
// EnsureIndexes turns a second review into ErrDuplicate.
type ReviewRepo struct {
	col *mongo.Collection
}

func NewReviewRepo(db *mongo.Database) *ReviewRepo {
	return &ReviewRepo{col: db.Collection(ReviewsCollection)}
}

func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	_, err := r.col.InsertOne(ctx, rv)
	return mapMongoErr(err)
}

// ListByMovie returns a movie's reviews, newest first.
func (r *ReviewRepo) ListByMovie(ctx context.Context, movieID string) ([]model.Review, error) {
	cur, err := r.col.Find(ctx, bson.M{"movieId": movieID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := []model.Review{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
