// Package qr renders share links as QR PNGs so students can scan
// instead of pasting.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the rendered PNG edge length in pixels.
const DefaultSize = 512

// Encode renders the given link as a PNG QR code.
func Encode(link string, size int) ([]byte, error) {
	if link == "" {
		return nil, fmt.Errorf("cannot encode an empty link")
	}
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
