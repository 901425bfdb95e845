package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// MovieRepo stores movie documents with their embedded showtimes. A save
// replaces the whole document, which is the only atomic unit the seat
// inventory relies on.
type MovieRepo struct {
	col *mongo.Collection
}

func NewMovieRepo(db *mongo.Database) *MovieRepo {
	return &MovieRepo{col: db.Collection(MoviesCollection)}
}

func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	_, err := r.col.InsertOne(ctx, m)
	return mapMongoErr(err)
}

func (r *MovieRepo) Get(ctx context.Context, id string) (*model.Movie, error) {
	var m model.Movie
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, mapMongoErr(err)
	}
	return &m, nil
}

func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []model.Movie{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Save replaces the stored document with m. Concurrent savers of the same
// movie overwrite each other (last writer wins).
func (r *MovieRepo) Save(ctx context.Context, m *model.Movie) error {
	m.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MovieRepo) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAverageRating sets only averageRating, leaving the seat lists alone.
func (r *MovieRepo) UpdateAverageRating(ctx context.Context, id string, avg float64) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"averageRating": avg, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MovieRepo) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}
