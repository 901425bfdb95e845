package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScreenDetails describes the auditorium a showtime plays in.
type ScreenDetails struct {
	ScreenName    string `json:"screenName" bson:"screenName" validate:"required"`
	Rows          int    `json:"rows" bson:"rows" validate:"gte=0"`
	Cols          int    `json:"cols" bson:"cols" validate:"gte=0"`
	TotalCapacity int    `json:"totalCapacity" bson:"totalCapacity" validate:"gt=0"`
}

// Showtime is a screening embedded in its Movie. It has no lifecycle of its
// own: every change to the seat lists is persisted by saving the movie.
type Showtime struct {
	ID            string        `json:"id" bson:"id"`
	Time          string        `json:"time" bson:"time" validate:"required"` // HH:MM
	Date          time.Time     `json:"date" bson:"date" validate:"required"`
	ScreenDetails ScreenDetails `json:"screenDetails" bson:"screenDetails"`
	BookedSeats   []string      `json:"bookedSeats" bson:"bookedSeats"`
	PendingSeats  []string      `json:"pendingSeats" bson:"pendingSeats"`
}

// Movie is the catalog document. Showtimes are owned by the movie.
type Movie struct {
	ID            string     `json:"id" bson:"_id"`
	Title         string     `json:"title" bson:"title"`
	Slug          string     `json:"slug" bson:"slug"`
	Description   string     `json:"description" bson:"description"`
	Genre         string     `json:"genre,omitempty" bson:"genre,omitempty"`
	Duration      int        `json:"duration,omitempty" bson:"duration,omitempty"`
	PosterURL     string     `json:"posterUrl" bson:"posterUrl"`
	ReleaseDate   *time.Time `json:"releaseDate,omitempty" bson:"releaseDate,omitempty"`
	Showtimes     []Showtime `json:"showtimes" bson:"showtimes"`
	AverageRating float64    `json:"averageRating" bson:"averageRating"`
	CreatedAt     time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Showtime returns a pointer into m.Showtimes so callers can mutate the seat
// lists in place before saving the movie. It returns nil when id is unknown.
func (m *Movie) Showtime(id string) *Showtime {
	for i := range m.Showtimes {
		if m.Showtimes[i].ID == id {
			return &m.Showtimes[i]
		}
	}
	return nil
}

// StartsAt combines the calendar day of Date with the HH:MM in Time (UTC).
func (s *Showtime) StartsAt() (time.Time, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s.Time), ":")
	if !ok {
		return time.Time{}, fmt.Errorf("invalid showtime time %q", s.Time)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return time.Time{}, fmt.Errorf("invalid showtime hour %q", s.Time)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return time.Time{}, fmt.Errorf("invalid showtime minute %q", s.Time)
	}
	d := s.Date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, time.UTC), nil
}

// Label renders the showtime the way it appears in emails and QR payloads.
func (s *Showtime) Label() string {
	return fmt.Sprintf("%s on %s", s.Time, s.Date.UTC().Format("2006-01-02"))
}

// Unavailable returns the requested seats already present in booked or
// pending, in request order.
func (s *Showtime) Unavailable(seats []string) []string {
	taken := NewSeatSet(s.BookedSeats)
	taken.Add(s.PendingSeats...)
	return taken.Intersect(seats)
}

// Occupied is |booked| + |pending|.
func (s *Showtime) Occupied() int {
	return len(s.BookedSeats) + len(s.PendingSeats)
}

// SeatState is the payload broadcast to realtime subscribers.
type SeatState struct {
	PendingSeats []string `json:"pendingSeats"`
	BookedSeats  []string `json:"bookedSeats"`
}

// State copies the seat lists so a broadcast never aliases the document.
func (s *Showtime) State() SeatState {
	return SeatState{
		PendingSeats: append([]string{}, s.PendingSeats...),
		BookedSeats:  append([]string{}, s.BookedSeats...),
	}
}
