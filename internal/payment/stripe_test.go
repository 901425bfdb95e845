package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	cases := map[float64]int64{12: 1200, 19.99: 1999, 0.5: 50, 100.004: 10000}
	for in, want := range cases {
		got, err := ToMinorUnits(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "amount %v", in)
	}
	for _, bad := range []float64{0, -1} {
		_, err := ToMinorUnits(bad)
		assert.Error(t, err)
	}
}

func TestNewStripeGatewayDisabledWithoutKey(t *testing.T) {
	assert.Nil(t, NewStripeGateway("  ", "usd"))
	g := NewStripeGateway("sk_test_123", "EUR")
	require.NotNil(t, g)
	assert.Equal(t, "eur", g.currency)
}

func TestRefundRequiresChargeID(t *testing.T) {
	g := NewStripeGateway("sk_test_123", "")
	_, err := g.Refund(context.Background(), "")
	assert.Error(t, err)
}
