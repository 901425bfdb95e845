package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/realtime"
)

// SeatUpdates upgrades to the realtime websocket. On /ws/showtimes/:id the
// client joins that showtime's room immediately; on /ws it sends
// join-showtime messages itself.
func SeatUpdates(hub *realtime.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		room := c.Param("id")
		srv := hub.Server(func(*http.Request) string { return room })
		srv.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}
