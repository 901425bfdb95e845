package model

import "time"

type PaymentMethod string

const (
	PaymentGateway PaymentMethod = "gateway"
	PaymentWallet  PaymentMethod = "wallet"
	PaymentDemo    PaymentMethod = "demo"
)

// Valid reports whether m is a known method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentGateway, PaymentWallet, PaymentDemo:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
)

// Payment records one money movement. BookingID is empty for wallet top-ups.
// The only mutation after creation is Completed -> Refunded.
type Payment struct {
	ID            string        `json:"id" bson:"_id"`
	UserID        uint64        `json:"userId" bson:"userId"`
	BookingID     string        `json:"bookingId,omitempty" bson:"bookingId,omitempty"`
	Amount        float64       `json:"amount" bson:"amount"`
	Method        PaymentMethod `json:"method" bson:"method"`
	Status        PaymentStatus `json:"status" bson:"status"`
	TransactionID string        `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	CreatedAt     time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}
