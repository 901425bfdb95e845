// Package payment adapts card processors to the booking engine's gateway
// contract.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway charges tokenized cards through the Stripe Charges API.
type StripeGateway struct {
	api      *client.API
	currency string
}

// NewStripeGateway returns nil when secretKey is empty. Check for nil before
// storing the result in an interface.
func NewStripeGateway(secretKey, currency string) *StripeGateway {
	if strings.TrimSpace(secretKey) == "" {
		return nil
	}
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, currency: strings.ToLower(currency)}
}

// Charge charges amount (in major units) to the card token and returns the
// charge id.
func (g *StripeGateway) Charge(ctx context.Context, amount float64, token, description string) (string, error) {
	cents, err := ToMinorUnits(amount)
	if err != nil {
		return "", err
	}
	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(cents),
		Currency:    stripe.String(g.currency),
		Description: stripe.String(description),
	}
	params.Context = ctx
	if err := params.SetSource(token); err != nil {
		return "", fmt.Errorf("charge source: %w", err)
	}
	ch, err := g.api.Charges.New(params)
	if err != nil {
		return "", describe(err)
	}
	return ch.ID, nil
}

// Refund refunds the whole charge and returns the refund id.
func (g *StripeGateway) Refund(ctx context.Context, chargeID string) (string, error) {
	if chargeID == "" {
		return "", errors.New("refund: missing charge id")
	}
	params := &stripe.RefundParams{Charge: stripe.String(chargeID)}
	params.Context = ctx
	r, err := g.api.Refunds.New(params)
	if err != nil {
		return "", describe(err)
	}
	return r.ID, nil
}

// ToMinorUnits converts an amount to cents, rounding to the nearest cent.
func ToMinorUnits(amount float64) (int64, error) {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("invalid charge amount %v", amount)
	}
	return int64(math.Round(amount * 100)), nil
}

func describe(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		return fmt.Errorf("stripe %s (%s): %s", se.Type, se.Code, se.Msg)
	}
	return err
}
