package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowtimeStartsAt(t *testing.T) {
	st := Showtime{Time: "19:05", Date: time.Date(2026, 3, 14, 22, 30, 0, 0, time.UTC)}
	at, err := st.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 19, 5, 0, 0, time.UTC), at)

	for _, bad := range []string{"", "7pm", "25:00", "10:61", "aa:10"} {
		st.Time = bad
		_, err := st.StartsAt()
		assert.Error(t, err, bad)
	}
}

func TestShowtimeUnavailable(t *testing.T) {
	st := Showtime{BookedSeats: []string{"A1", "A2"}, PendingSeats: []string{"B1"}}
	assert.Equal(t, []string{"A2", "B1"}, st.Unavailable([]string{"C1", "A2", "B1"}))
	assert.Empty(t, st.Unavailable([]string{"C1"}))
	assert.Equal(t, 3, st.Occupied())
}

func TestMovieShowtimeLookupIsAddressable(t *testing.T) {
	m := Movie{Showtimes: []Showtime{{ID: "s1"}, {ID: "s2"}}}
	st := m.Showtime("s2")
	require.NotNil(t, st)
	st.PendingSeats = append(st.PendingSeats, "A1")
	assert.Equal(t, []string{"A1"}, m.Showtimes[1].PendingSeats)
	assert.Nil(t, m.Showtime("nope"))
}

func TestStateDoesNotAlias(t *testing.T) {
	st := Showtime{PendingSeats: []string{"A1"}}
	s := st.State()
	st.PendingSeats[0] = "Z9"
	assert.Equal(t, []string{"A1"}, s.PendingSeats)
	assert.NotNil(t, s.BookedSeats)
}

func TestNormalizeAndRemoveSeats(t *testing.T) {
	assert.Equal(t, []string{"A1", "B2"}, NormalizeSeats([]string{" A1", "", "B2", "A1 "}))

	out, n := RemoveSeats([]string{"A1", "A2", "A3"}, []string{"A2", "Q9"})
	assert.Equal(t, []string{"A1", "A3"}, out)
	assert.Equal(t, 1, n)
}

func TestBookingExpired(t *testing.T) {
	now := time.Now()
	b := Booking{}
	assert.False(t, b.Expired(now))
	exp := now.Add(-time.Second)
	b.BookingExpiry = &exp
	assert.True(t, b.Expired(now))
}
