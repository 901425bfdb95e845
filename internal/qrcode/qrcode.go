// Package qrcode renders booking receipts as ticket QR codes.
package qrcode

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	qr "github.com/skip2/go-qrcode"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

const dataURLPrefix = "data:image/png;base64,"

// Generator encodes the JSON receipt into a PNG and returns it as a data
// URL that can be stored on the booking and embedded in an <img>.
type Generator struct {
	Size  int
	Level qr.RecoveryLevel
}

func NewGenerator() *Generator {
	return &Generator{Size: 256, Level: qr.Medium}
}

func (g *Generator) Generate(r model.BookingReceipt) (string, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("marshal receipt: %w", err)
	}
	png, err := qr.Encode(string(payload), g.Level, g.Size)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// DecodePNG extracts the PNG bytes from a data URL produced by Generate.
func DecodePNG(dataURL string) ([]byte, error) {
	if len(dataURL) < len(dataURLPrefix) || dataURL[:len(dataURLPrefix)] != dataURLPrefix {
		return nil, fmt.Errorf("not a png data url")
	}
	return base64.StdEncoding.DecodeString(dataURL[len(dataURLPrefix):])
}
