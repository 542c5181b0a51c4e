package og

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestRenderer() *Renderer {
	return NewRenderer(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode rendered PNG: %v", err)
	}
	return img
}

func TestRenderPNGDimensions(t *testing.T) {
	r := newTestRenderer()

	var buf bytes.Buffer
	err := r.RenderPNG(context.Background(), Branding{
		CompanyName:     "Acme",
		PageTitle:       "Voice Agent",
		PageDescription: "Talk to an AI voice agent, right from your browser.",
		AccentColor:     "#ff5500",
	}, &buf)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}

	img := decodePNG(t, buf.Bytes())
	b := img.Bounds()
	if b.Dx() != Width || b.Dy() != Height {
		t.Errorf("got %dx%d, want %dx%d", b.Dx(), b.Dy(), Width, Height)
	}
}

func TestRenderEmptyBranding(t *testing.T) {
	// Even a fully empty branding must produce a valid image.
	r := newTestRenderer()

	var buf bytes.Buffer
	if err := r.RenderPNG(context.Background(), Branding{}, &buf); err != nil {
		t.Fatalf("RenderPNG with empty branding: %v", err)
	}
	decodePNG(t, buf.Bytes())
}

func TestRenderAccentBar(t *testing.T) {
	r := newTestRenderer()

	img := r.Render(context.Background(), Branding{AccentColor: "#ff5500"})

	got := img.RGBAAt(Width/2, Height-6)
	want := color.RGBA{R: 0xff, G: 0x55, B: 0x00, A: 255}
	if got != want {
		t.Errorf("accent bar pixel = %v, want %v", got, want)
	}
}

func TestRenderRemoteAssets(t *testing.T) {
	// One-pixel-each remote background and logo. Success means the fetch
	// path ran and the render still produced a full-size canvas.
	var logoRequested, bgRequested bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		img := image.NewRGBA(image.Rect(0, 0, 40, 20))
		switch req.URL.Path {
		case "/logo.png":
			logoRequested = true
		case "/bg.png":
			bgRequested = true
		default:
			http.NotFound(w, req)
			return
		}
		png.Encode(w, img)
	}))
	t.Cleanup(srv.Close)

	r := newTestRenderer()
	img := r.Render(context.Background(), Branding{
		CompanyName:   "Acme",
		LogoURL:       srv.URL + "/logo.png",
		BackgroundURL: srv.URL + "/bg.png",
	})

	if !logoRequested {
		t.Error("logo URL was never fetched")
	}
	if !bgRequested {
		t.Error("background URL was never fetched")
	}
	if b := img.Bounds(); b.Dx() != Width || b.Dy() != Height {
		t.Errorf("got %dx%d canvas", b.Dx(), b.Dy())
	}
}

func TestRenderUnreachableAssetsFallBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.NotFound(w, req)
	}))
	t.Cleanup(srv.Close)

	r := newTestRenderer()
	img := r.Render(context.Background(), Branding{
		CompanyName:   "Acme",
		PageTitle:     "Voice Agent",
		LogoURL:       srv.URL + "/missing-logo.png",
		BackgroundURL: srv.URL + "/missing-bg.jpg",
		FontURL:       srv.URL + "/missing-font.ttf",
		AccentColor:   "#002cf2",
	})

	if b := img.Bounds(); b.Dx() != Width || b.Dy() != Height {
		t.Errorf("got %dx%d canvas after fallbacks", b.Dx(), b.Dy())
	}
	// Gradient fallback: top of canvas should be near-black, not zero-value.
	if got := img.RGBAAt(0, 0); got.A != 255 {
		t.Errorf("top-left pixel %v not painted", got)
	}
}

func TestFitHeight(t *testing.T) {
	tall := image.NewRGBA(image.Rect(0, 0, 100, 200))
	rect := fitHeight(tall, 96, 80, 72)
	if rect.Dy() != 96 {
		t.Errorf("got height %d, want capped at 96", rect.Dy())
	}
	if rect.Dx() != 48 {
		t.Errorf("got width %d, want 48 (aspect preserved)", rect.Dx())
	}

	small := image.NewRGBA(image.Rect(0, 0, 30, 20))
	rect = fitHeight(small, 96, 0, 0)
	if rect.Dx() != 30 || rect.Dy() != 20 {
		t.Errorf("small image resized: got %dx%d", rect.Dx(), rect.Dy())
	}
}
