package model

// BookingReceipt is the summary of a confirmed booking that goes into the
// confirmation email and the ticket QR code.
type BookingReceipt struct {
	BookingID  string   `json:"bookingId"`
	UserName   string   `json:"-"`
	UserEmail  string   `json:"-"`
	MovieTitle string   `json:"movie"`
	ShowTime   string   `json:"showtime"`
	Seats      []string `json:"seats"`
	TotalPrice string   `json:"totalPrice"`
}
