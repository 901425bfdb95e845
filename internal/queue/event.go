// Package queue defines message payloads exchanged over the message broker,
// the publisher that emits them and the consumer that records them.
package queue

// Queue names. Each event type has its own durable queue on the default
// exchange, so the queue name doubles as the routing key.
const (
	BookingConfirmedQueue = "booking.confirmed"
	BookingCanceledQueue  = "booking.canceled"
)

// BookingEvent is published when a booking is confirmed or canceled. It
// carries enough information for downstream consumers to log, notify or
// run analytics without reading the primary database.
type BookingEvent struct {
	Event         string   `json:"event"` // one of the queue names above
	BookingID     string   `json:"booking_id"`
	UserID        uint64   `json:"user_id"`
	MovieID       string   `json:"movie_id"`
	MovieTitle    string   `json:"movie_title"`
	ShowtimeID    string   `json:"showtime_id"`
	ScreenName    string   `json:"screen_name"`
	StartsAt      string   `json:"starts_at"`
	Seats         []string `json:"seats"`
	TotalPrice    float64  `json:"total_price"`
	PaymentMethod string   `json:"payment_method,omitempty"`
	OccurredAt    string   `json:"occurred_at"`
}
