package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// PaymentRepo stores payment documents.
type PaymentRepo struct {
	col *mongo.Collection
}

func NewPaymentRepo(db *mongo.Database) *PaymentRepo {
	return &PaymentRepo{col: db.Collection(PaymentsCollection)}
}

func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	_, err := r.col.InsertOne(ctx, p)
	return mapMongoErr(err)
}

func (r *PaymentRepo) Get(ctx context.Context, id string) (*model.Payment, error) {
	var p model.Payment
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapMongoErr(err)
	}
	return &p, nil
}

func (r *PaymentRepo) Save(ctx context.Context, p *model.Payment) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
