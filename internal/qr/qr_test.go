package qr

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
)

func TestPNG(t *testing.T) {
	data, err := PNG("https://demo.acme.test/", 0)
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got := img.Bounds().Dx(); got != 256 {
		t.Errorf("got default size %d, want 256", got)
	}
}

func TestPNGSizeClamping(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{16, 128},
		{512, 512},
		{9000, 1024},
	}
	for _, tt := range tests {
		data, err := PNG("https://demo.acme.test/", tt.in)
		if err != nil {
			t.Fatalf("PNG(%d): %v", tt.in, err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got := img.Bounds().Dx(); got != tt.want {
			t.Errorf("PNG(%d): got size %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPNGEmptyPayload(t *testing.T) {
	if _, err := PNG("", 256); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("got %v, want ErrEmptyPayload", err)
	}
}
