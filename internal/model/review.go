package model

import "time"

// Review is one user's rating of a movie. (UserID, MovieID) is unique.
type Review struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    uint64    `json:"userId" bson:"userId"`
	UserName  string    `json:"userName" bson:"userName"`
	MovieID   string    `json:"movieId" bson:"movieId"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
