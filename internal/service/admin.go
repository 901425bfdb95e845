package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// LatestBooking is a dashboard row: a booking with its movie title and the
// booking user's contact.
type LatestBooking struct {
	model.Booking
	MovieTitle string `json:"movieTitle"`
	UserName   string `json:"userName"`
	UserEmail  string `json:"userEmail"`
}

type Metrics struct {
	TotalUsers     int64           `json:"totalUsers"`
	TotalAdmins    int64           `json:"totalAdmins"`
	TotalMovies    int64           `json:"totalMovies"`
	TotalBookings  int64           `json:"totalBookings"`
	LatestBookings []LatestBooking `json:"latestBookings"`
}

type AdminService struct {
	users    UserStore
	movies   MovieStore
	bookings BookingStore
}

func NewAdminService(users UserStore, movies MovieStore, bookings BookingStore) *AdminService {
	return &AdminService{users: users, movies: movies, bookings: bookings}
}

// Metrics gathers the dashboard counts concurrently. TotalUsers counts every
// account, admins included.
func (s *AdminService) Metrics(ctx context.Context) (Metrics, error) {
	var m Metrics
	var latest []model.Booking
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { m.TotalUsers, err = s.users.CountByRole(gctx, ""); return })
	g.Go(func() (err error) { m.TotalAdmins, err = s.users.CountByRole(gctx, model.RoleAdmin); return })
	g.Go(func() (err error) { m.TotalMovies, err = s.movies.Count(gctx); return })
	g.Go(func() (err error) { m.TotalBookings, err = s.bookings.Count(gctx); return })
	g.Go(func() (err error) { latest, err = s.bookings.Latest(gctx, 5); return })
	if err := g.Wait(); err != nil {
		return Metrics{}, err
	}

	m.LatestBookings = make([]LatestBooking, 0, len(latest))
	titles := map[string]string{}
	for _, b := range latest {
		row := LatestBooking{Booking: b}
		title, ok := titles[b.MovieID]
		if !ok {
			if mv, err := s.movies.Get(ctx, b.MovieID); err == nil {
				title = mv.Title
			}
			titles[b.MovieID] = title
		}
		row.MovieTitle = title
		if u, err := s.users.GetByID(ctx, b.UserID); err == nil {
			row.UserName, row.UserEmail = u.Name, u.Email
		}
		m.LatestBookings = append(m.LatestBookings, row)
	}
	return m, nil
}
