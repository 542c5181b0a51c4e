// Package qr renders "join on phone" QR codes.
package qr

import (
	"errors"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	defaultSizePx = 256
	minSizePx     = 128
	maxSizePx     = 1024
)

// ErrEmptyPayload is returned when there is nothing to encode.
var ErrEmptyPayload = errors.New("empty qr payload")

// PNG returns a PNG-encoded QR code for the given payload. sizePx <= 0 uses
// the default; out-of-range values are clamped.
func PNG(payload string, sizePx int) ([]byte, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	switch {
	case sizePx <= 0:
		sizePx = defaultSizePx
	case sizePx < minSizePx:
		sizePx = minSizePx
	case sizePx > maxSizePx:
		sizePx = maxSizePx
	}
	return qrcode.Encode(payload, qrcode.Medium, sizePx)
}
