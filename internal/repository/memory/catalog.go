// Package memory is an in-process storage driver with the same contract as
// the MySQL and Mongo repositories. It backs STORE_DRIVER=memory and the
// service and handler tests. Every read and write copies the record so
// callers never share state with the store, mirroring a real database
// round trip.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// MovieRepo is the in-memory movie store.
type MovieRepo struct {
	mu     sync.RWMutex
	movies map[string]model.Movie
}

func NewMovieRepo() *MovieRepo {
	return &MovieRepo{movies: map[string]model.Movie{}}
}

func (r *MovieRepo) Create(_ context.Context, m *model.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[m.ID]; ok {
		return repository.ErrDuplicate
	}
	r.movies[m.ID] = cloneMovie(*m)
	return nil
}

func (r *MovieRepo) Get(_ context.Context, id string) (*model.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.movies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneMovie(m)
	return &out, nil
}

func (r *MovieRepo) List(_ context.Context) ([]model.Movie, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Movie, 0, len(r.movies))
	for _, m := range r.movies {
		out = append(out, cloneMovie(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MovieRepo) Save(_ context.Context, m *model.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[m.ID]; !ok {
		return repository.ErrNotFound
	}
	m.UpdatedAt = time.Now().UTC()
	r.movies[m.ID] = cloneMovie(*m)
	return nil
}

func (r *MovieRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.movies, id)
	return nil
}

func (r *MovieRepo) UpdateAverageRating(_ context.Context, id string, avg float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.movies[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.AverageRating = avg
	m.UpdatedAt = time.Now().UTC()
	r.movies[id] = m
	return nil
}

func (r *MovieRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.movies)), nil
}

func cloneMovie(m model.Movie) model.Movie {
	out := m
	if m.ReleaseDate != nil {
		d := *m.ReleaseDate
		out.ReleaseDate = &d
	}
	out.Showtimes = make([]model.Showtime, len(m.Showtimes))
	for i, st := range m.Showtimes {
		st.BookedSeats = append([]string{}, st.BookedSeats...)
		st.PendingSeats = append([]string{}, st.PendingSeats...)
		out.Showtimes[i] = st
	}
	return out
}

// ReviewRepo is the in-memory review store.
type ReviewRepo struct {
	mu      sync.RWMutex
	reviews []model.Review
}

func NewReviewRepo() *ReviewRepo { return &ReviewRepo{} }

func (r *ReviewRepo) Create(_ context.Context, rv *model.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.UserID == rv.UserID && existing.MovieID == rv.MovieID {
			return repository.ErrDuplicate
		}
	}
	r.reviews = append(r.reviews, *rv)
	return nil
}

func (r *ReviewRepo) ListByMovie(_ context.Context, movieID string) ([]model.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Review{}
	for _, rv := range r.reviews {
		if rv.MovieID == movieID {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
