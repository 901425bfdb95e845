package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

type ReviewService struct {
	reviews ReviewStore
	movies  MovieStore
	users   UserStore
	now     func() time.Time
	log     zerolog.Logger
}

func NewReviewService(reviews ReviewStore, movies MovieStore, users UserStore, log zerolog.Logger) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		movies:  movies,
		users:   users,
		now:     func() time.Time { return time.Now().UTC() },
		log:     log.With().Str("component", "reviews").Logger(),
	}
}

// Create stores a review and refreshes the movie's average rating. Each
// user may review a movie once.
func (s *ReviewService) Create(ctx context.Context, userID uint64, movieID string, rating int, comment string) (*model.Review, error) {
	comment = strings.TrimSpace(comment)
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}
	if _, err := s.movies.Get(ctx, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("movie %s: %w", movieID, ErrNotFound)
		}
		return nil, err
	}
	name := ""
	if u, err := s.users.GetByID(ctx, userID); err == nil {
		name = u.Name
	} else {
		s.log.Warn().Err(err).Uint64("user_id", userID).Msg("review author lookup failed")
	}

	r := &model.Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserName:  name,
		MovieID:   movieID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: s.now(),
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	all, err := s.reviews.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if err := s.movies.UpdateAverageRating(ctx, movieID, AverageRating(all)); err != nil {
		return nil, fmt.Errorf("update average rating: %w", err)
	}
	return r, nil
}

func (s *ReviewService) List(ctx context.Context, movieID string) ([]model.Review, error) {
	return s.reviews.ListByMovie(ctx, movieID)
}

// AverageRating is the mean rating rounded to one decimal, 0 with no reviews.
func AverageRating(reviews []model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}
