// Package og renders Open Graph social-preview images on demand. Each render
// is a single-shot pass compositing a background, logo, wordmark, and title
// text; every remote asset has a local fallback and only the final fallback
// failing surfaces an error.
package og

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"

	xdraw "golang.org/x/image/draw"
)

// Canvas dimensions follow the standard Open Graph preview size.
const (
	Width  = 1200
	Height = 630
)

// Layout constants. The canvas is fixed-size, so these are absolute pixels.
const (
	marginX       = 80
	logoTop       = 72
	logoMaxHeight = 96
	titleSize     = 64
	wordmarkSize  = 40
	descSize      = 28
)

// Branding is the subset of the resolved configuration the renderer needs.
type Branding struct {
	CompanyName     string
	PageTitle       string
	PageDescription string
	LogoURL         string
	AccentColor     string
	BackgroundURL   string
	FontURL         string
}

// Renderer composes Open Graph preview images.
type Renderer struct {
	fetcher *assetFetcher
	builtin fontSet
	logger  *slog.Logger
}

// NewRenderer creates a Renderer with the compiled-in fonts parsed once.
func NewRenderer(logger *slog.Logger) *Renderer {
	return &Renderer{
		fetcher: newAssetFetcher(),
		builtin: builtinFonts(),
		logger:  logger,
	}
}

// RenderPNG renders the preview image for b and writes it as PNG to w.
func (r *Renderer) RenderPNG(ctx context.Context, b Branding, w io.Writer) error {
	img := r.Render(ctx, b)
	return png.Encode(w, img)
}

// Render composes the preview image for b. It never fails: every asset in
// the composition degrades to a drawn fallback.
func (r *Renderer) Render(ctx context.Context, b Branding) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, Width, Height))
	accent := parseHexColor(b.AccentColor, color.RGBA{R: 0, G: 44, B: 242, A: 255})

	r.drawBackground(ctx, canvas, b.BackgroundURL, accent)

	fonts := r.loadFonts(ctx, b.FontURL)
	logoRight := r.drawLogo(ctx, canvas, b, accent, fonts)
	r.drawWordmark(canvas, b.CompanyName, logoRight, fonts)
	r.drawTitle(canvas, b, fonts)

	// Accent bar along the bottom edge.
	bar := image.Rect(0, Height-12, Width, Height)
	draw.Draw(canvas, bar, &image.Uniform{C: accent}, image.Point{}, draw.Src)

	return canvas
}

// drawBackground fills the canvas: a remote background image scaled to cover
// when configured and loadable, else a vertical gradient from near-black into
// a dimmed accent.
func (r *Renderer) drawBackground(ctx context.Context, canvas *image.RGBA, url string, accent color.RGBA) {
	if url != "" {
		img, err := r.fetcher.fetchImage(ctx, url)
		if err == nil {
			scaleCover(canvas, img)
			r.dimForText(canvas)
			return
		}
		r.logger.Debug("background fetch failed, using gradient", "url", url, "error", err)
	}

	top := color.RGBA{R: 10, G: 10, B: 14, A: 255}
	bottom := color.RGBA{
		R: uint8(int(accent.R) * 2 / 5),
		G: uint8(int(accent.G) * 2 / 5),
		B: uint8(int(accent.B) * 2 / 5),
		A: 255,
	}
	for y := 0; y < Height; y++ {
		t := float64(y) / float64(Height-1)
		c := lerpRGBA(top, bottom, t)
		for x := 0; x < Width; x++ {
			canvas.SetRGBA(x, y, c)
		}
	}
}

// dimForText multiplies every pixel toward black so light backgrounds keep
// the white text legible.
func (r *Renderer) dimForText(canvas *image.RGBA) {
	draw.Draw(canvas, canvas.Bounds(),
		&image.Uniform{C: color.NRGBA{A: 115}}, image.Point{}, draw.Over)
}

// drawLogo places the logo in the top-left corner and returns the x position
// just right of it (for the wordmark). Fallback chain: remote logo image,
// then a drawn monogram tile. A missing company name skips the monogram too.
func (r *Renderer) drawLogo(ctx context.Context, canvas *image.RGBA, b Branding, accent color.RGBA, fonts fontSet) int {
	if b.LogoURL != "" {
		img, err := r.fetcher.fetchImage(ctx, b.LogoURL)
		if err == nil {
			rect := fitHeight(img, logoMaxHeight, marginX, logoTop)
			scaled := image.NewRGBA(rect)
			xdraw.CatmullRom.Scale(scaled, rect, img, img.Bounds(), xdraw.Over, nil)
			draw.Draw(canvas, rect, scaled, rect.Min, draw.Over)
			return rect.Max.X + 28
		}
		r.logger.Debug("logo fetch failed, using monogram", "url", b.LogoURL, "error", err)
	}

	if b.CompanyName == "" {
		return marginX
	}

	// Monogram tile: accent square with the company initial.
	tile := image.Rect(marginX, logoTop, marginX+logoMaxHeight, logoTop+logoMaxHeight)
	draw.Draw(canvas, tile, &image.Uniform{C: accent}, image.Point{}, draw.Over)

	if f := face(fonts.bold, 56); f != nil {
		initial := string([]rune(b.CompanyName)[0:1])
		w := measure(f, initial)
		m := f.Metrics()
		x := tile.Min.X + (tile.Dx()-w)/2
		y := tile.Min.Y + (tile.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2
		drawString(canvas, f, initial, x, y, color.White)
	}
	return tile.Max.X + 28
}

func (r *Renderer) drawWordmark(canvas *image.RGBA, name string, x int, fonts fontSet) {
	if name == "" {
		return
	}
	f := face(fonts.bold, wordmarkSize)
	if f == nil {
		return
	}
	m := f.Metrics()
	y := logoTop + (logoMaxHeight+m.Ascent.Ceil()-m.Descent.Ceil())/2
	drawString(canvas, f, name, x, y, color.White)
}

func (r *Renderer) drawTitle(canvas *image.RGBA, b Branding, fonts fontSet) {
	title := b.PageTitle
	if title == "" {
		title = b.CompanyName
	}
	if title == "" {
		return
	}

	titleFace := face(fonts.bold, titleSize)
	if titleFace == nil {
		return
	}

	maxWidth := Width - 2*marginX
	lines := wrapLines(titleFace, title, maxWidth, 2)
	lineHeight := titleFace.Metrics().Height.Ceil()

	descFace := face(fonts.regular, descSize)
	descHeight := 0
	if b.PageDescription != "" && descFace != nil {
		descHeight = descFace.Metrics().Height.Ceil() + 16
	}

	baseline := Height - 72 - descHeight - (len(lines)-1)*lineHeight
	for _, line := range lines {
		drawString(canvas, titleFace, line, marginX, baseline, color.White)
		baseline += lineHeight
	}

	if descHeight > 0 {
		desc := ellipsize(descFace, b.PageDescription, maxWidth)
		drawString(canvas, descFace, desc, marginX, Height-72,
			color.RGBA{R: 220, G: 220, B: 228, A: 255})
	}
}

// scaleCover scales src onto dst covering the whole canvas, cropping the
// overflow dimension around the center.
func scaleCover(dst *image.RGBA, src image.Image) {
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return
	}
	scale := float64(Width) / float64(sb.Dx())
	if s := float64(Height) / float64(sb.Dy()); s > scale {
		scale = s
	}
	w := int(float64(sb.Dx()) * scale)
	h := int(float64(sb.Dy()) * scale)
	offX := (Width - w) / 2
	offY := (Height - h) / 2
	rect := image.Rect(offX, offY, offX+w, offY+h)
	xdraw.ApproxBiLinear.Scale(dst, rect, src, sb, xdraw.Src, nil)
}

// fitHeight returns the destination rectangle for src scaled to at most
// maxH tall, anchored at (x, y), preserving aspect ratio.
func fitHeight(src image.Image, maxH, x, y int) image.Rectangle {
	sb := src.Bounds()
	h := sb.Dy()
	w := sb.Dx()
	if h > maxH {
		w = w * maxH / h
		h = maxH
	}
	if w < 1 {
		w = 1
	}
	return image.Rect(x, y, x+w, y+h)
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t)
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}
