package qrcode

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

func TestGenerateProducesPNGDataURL(t *testing.T) {
	url, err := NewGenerator().Generate(model.BookingReceipt{
		BookingID:  "b-1",
		UserEmail:  "not-in-payload@example.test",
		MovieTitle: "Inception",
		ShowTime:   "14:30 on 2026-03-02",
		Seats:      []string{"A3", "A4"},
		TotalPrice: "24.00",
	})
	require.NoError(t, err)
	assert.True(t, len(url) > len(dataURLPrefix))

	raw, err := DecodePNG(url)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	_, err = DecodePNG("data:text/plain;base64,aGk=")
	assert.Error(t, err)
}
