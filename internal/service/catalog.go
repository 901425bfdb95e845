package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// ShowtimeInput is a showtime as submitted by an admin. Seat lists are not
// accepted from clients except through the demo seed.
type ShowtimeInput struct {
	ID            string              `json:"id"`
	Time          string              `json:"time" validate:"required"`
	Date          time.Time           `json:"date" validate:"required"`
	ScreenDetails model.ScreenDetails `json:"screenDetails" validate:"required"`
	BookedSeats   []string            `json:"-"`
}

// MovieInput is the create/update payload. On update, zero values leave the
// stored field unchanged; a non-nil Schedule replaces every showtime.
type MovieInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Genre       string          `json:"genre"`
	Duration    int             `json:"duration" validate:"gte=0"`
	PosterURL   string          `json:"posterUrl"`
	ReleaseDate *time.Time      `json:"releaseDate"`
	Schedule    []ShowtimeInput `json:"showtimes" validate:"omitempty,dive"`
}

type CatalogService struct {
	movies MovieStore
	now    func() time.Time
	log    zerolog.Logger
}

func NewCatalogService(movies MovieStore, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		movies: movies,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log.With().Str("component", "catalog").Logger(),
	}
}

func (s *CatalogService) List(ctx context.Context) ([]model.Movie, error) {
	return s.movies.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id string) (*model.Movie, error) {
	m, err := s.movies.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("movie %s: %w", id, ErrNotFound)
	}
	return m, err
}

// Create inserts a movie. Title, description and poster URL are required.
func (s *CatalogService) Create(ctx context.Context, in MovieInput) (*model.Movie, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" || strings.TrimSpace(in.PosterURL) == "" {
		return nil, fmt.Errorf("%w: title, description and posterUrl are required", ErrInvalidInput)
	}
	showtimes, err := buildShowtimes(in.Schedule)
	if err != nil {
		return nil, err
	}
	now := s.now()
	m := &model.Movie{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := copier.Copy(m, &in); err != nil {
		return nil, fmt.Errorf("copy movie input: %w", err)
	}
	m.Title = strings.TrimSpace(m.Title)
	m.Slug = slug.Make(m.Title)
	m.Showtimes = showtimes
	if err := s.movies.Create(ctx, m); err != nil {
		return nil, err
	}
	s.log.Info().Str("movie_id", m.ID).Str("title", m.Title).Int("showtimes", len(m.Showtimes)).Msg("movie created")
	return m, nil
}

// Update applies the non-empty fields of in to the stored movie.
func (s *CatalogService) Update(ctx context.Context, id string, in MovieInput) (*model.Movie, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(m, &in, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, fmt.Errorf("copy movie input: %w", err)
	}
	if in.Title != "" {
		m.Title = strings.TrimSpace(in.Title)
		m.Slug = slug.Make(m.Title)
	}
	if in.Schedule != nil {
		// A showtime that keeps its id keeps its seat lists. Bookings that
		// point at a removed showtime keep their ids and will fail with
		// NotFound.
		showtimes, err := buildShowtimes(in.Schedule)
		if err != nil {
			return nil, err
		}
		for i := range showtimes {
			sh := &showtimes[i]
			prev := m.Showtime(sh.ID)
			if prev == nil {
				continue
			}
			sh.BookedSeats = prev.BookedSeats
			sh.PendingSeats = prev.PendingSeats
			if sh.Occupied() > sh.ScreenDetails.TotalCapacity {
				return nil, fmt.Errorf("%w: showtime %s: totalCapacity %d is below its %d held seats",
					ErrInvalidInput, sh.ID, sh.ScreenDetails.TotalCapacity, sh.Occupied())
			}
		}
		m.Showtimes = showtimes
	}
	m.UpdatedAt = s.now()
	if err := s.movies.Save(ctx, m); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("movie %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	err := s.movies.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("movie %s: %w", id, ErrNotFound)
	}
	return err
}

// Seed inserts the demo movies when the catalog is empty and reports
// whether it did.
func (s *CatalogService) Seed(ctx context.Context) (bool, error) {
	n, err := s.movies.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	day := s.now().Truncate(24 * time.Hour)
	for _, in := range demoMovies(day) {
		if _, err := s.Create(ctx, in); err != nil {
			return false, fmt.Errorf("seed %q: %w", in.Title, err)
		}
	}
	s.log.Info().Msg("catalog was empty, demo movies inserted")
	return true, nil
}

func buildShowtimes(in []ShowtimeInput) ([]model.Showtime, error) {
	out := make([]model.Showtime, 0, len(in))
	for i, st := range in {
		sh := model.Showtime{
			ID:            st.ID,
			Time:          strings.TrimSpace(st.Time),
			Date:          st.Date.UTC(),
			ScreenDetails: st.ScreenDetails,
			BookedSeats:   model.NormalizeSeats(st.BookedSeats),
			PendingSeats:  []string{},
		}
		if sh.ID == "" {
			sh.ID = uuid.NewString()
		}
		if _, err := sh.StartsAt(); err != nil {
			return nil, fmt.Errorf("%w: showtime %d: %v", ErrInvalidInput, i, err)
		}
		if sh.ScreenDetails.TotalCapacity <= 0 {
			return nil, fmt.Errorf("%w: showtime %d: totalCapacity must be positive", ErrInvalidInput, i)
		}
		if len(sh.BookedSeats) > sh.ScreenDetails.TotalCapacity {
			return nil, fmt.Errorf("%w: showtime %d: more booked seats than capacity", ErrInvalidInput, i)
		}
		out = append(out, sh)
	}
	return out, nil
}

func demoMovies(today time.Time) []MovieInput {
	tomorrow := today.Add(24 * time.Hour)
	dayAfter := today.Add(48 * time.Hour)
	return []MovieInput{
		{
			Title:       "Inception",
			Description: "A thief who steals corporate secrets through the use of dream-sharing technology. His latest target is a businessman's mind, but the job is complicated by his own past.",
			Genre:       "Sci-Fi, Thriller",
			Duration:    148,
			PosterURL:   "https://via.placeholder.com/300x450?text=Inception",
			Schedule: []ShowtimeInput{
				{
					Time: "14:30", Date: tomorrow,
					ScreenDetails: model.ScreenDetails{ScreenName: "Screen 3 - Standard", Rows: 8, Cols: 10, TotalCapacity: 80},
					BookedSeats:   []string{"A1", "A2", "B5"},
				},
				{
					Time: "19:00", Date: tomorrow,
					ScreenDetails: model.ScreenDetails{ScreenName: "Screen 5 - Premium", Rows: 10, Cols: 15, TotalCapacity: 150},
					BookedSeats:   []string{"C1", "C2", "C3", "H15"},
				},
			},
		},
		{
			Title:       "Dune: Part Two",
			Description: "Paul Atreides unites with Chani and the Fremen while seeking revenge against the conspirators who destroyed his family.",
			Genre:       "Sci-Fi, Adventure",
			Duration:    166,
			PosterURL:   "https://via.placeholder.com/300x450?text=Dune+Part+Two",
			Schedule: []ShowtimeInput{
				{
					Time: "16:00", Date: dayAfter,
					ScreenDetails: model.ScreenDetails{ScreenName: "Screen 7 - Standard", Rows: 12, Cols: 12, TotalCapacity: 144},
					BookedSeats:   []string{"A1", "B1", "C1", "D1", "E1"},
				},
				{
					Time: "21:00", Date: dayAfter,
					ScreenDetails: model.ScreenDetails{ScreenName: "Screen 1 - 4DX", Rows: 6, Cols: 10, TotalCapacity: 60},
					BookedSeats:   []string{"A5", "A6"},
				},
			},
		},
	}
}
