package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCanceled  BookingStatus = "Canceled"
)

type RefundStatus string

const (
	RefundNone      RefundStatus = "None"
	RefundPending   RefundStatus = "Pending"
	RefundProcessed RefundStatus = "Processed"
	RefundRejected  RefundStatus = "Rejected"
)

// Booking is a user's claim on a set of seats for one showtime.
//
// A lock creates it Pending with a zero price and an expiry; confirmation
// moves it to Confirmed and clears the expiry; cancellation moves a
// Confirmed booking to Canceled. Pending bookings that expire or are
// released are deleted rather than transitioned.
type Booking struct {
	ID            string        `json:"id" bson:"_id"`
	UserID        uint64        `json:"userId" bson:"userId"`
	MovieID       string        `json:"movieId" bson:"movieId"`
	ShowtimeID    string        `json:"showtimeId" bson:"showtimeId"`
	SeatsBooked   []string      `json:"seatsBooked" bson:"seatsBooked"`
	TotalPrice    float64       `json:"totalPrice" bson:"totalPrice"`
	Status        BookingStatus `json:"status" bson:"status"`
	BookingExpiry *time.Time    `json:"bookingExpiry,omitempty" bson:"bookingExpiry,omitempty"`
	QRCodeURL     string        `json:"qrCodeUrl,omitempty" bson:"qrCodeUrl,omitempty"`
	PaymentID     string        `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	RefundStatus  RefundStatus  `json:"refundStatus" bson:"refundStatus"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// Expired reports whether a Pending booking's lock has lapsed at now.
func (b *Booking) Expired(now time.Time) bool {
	return b.BookingExpiry != nil && now.After(*b.BookingExpiry)
}

// BookingView is a booking joined with the movie fields the booking list
// shows.
type BookingView struct {
	Booking
	MovieTitle string `json:"movieTitle,omitempty"`
	PosterURL  string `json:"posterUrl,omitempty"`
}
