package og

import (
	"context"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// fontSet holds the parsed fonts for one render. A configured remote font
// replaces both weights; any load or parse failure falls back silently to
// the compiled-in Go fonts.
type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
}

// builtinFonts parses the compiled-in Go fonts. The byte slices are part of
// the binary, so parsing cannot realistically fail; if it somehow does, the
// caller gets nil faces and text drawing is skipped.
func builtinFonts() fontSet {
	var fs fontSet
	if f, err := truetype.Parse(goregular.TTF); err == nil {
		fs.regular = f
	}
	if f, err := truetype.Parse(gobold.TTF); err == nil {
		fs.bold = f
	}
	return fs
}

// loadFonts resolves the font set for a render pass: the remote font URL when
// one is configured and loadable, otherwise the builtin fonts.
func (r *Renderer) loadFonts(ctx context.Context, fontURL string) fontSet {
	if fontURL == "" {
		return r.builtin
	}

	data, err := r.fetcher.fetchBytes(ctx, fontURL)
	if err != nil {
		r.logger.Debug("font fetch failed, using builtin fonts", "url", fontURL, "error", err)
		return r.builtin
	}
	f, err := truetype.Parse(data)
	if err != nil {
		r.logger.Debug("font parse failed, using builtin fonts", "url", fontURL, "error", err)
		return r.builtin
	}
	return fontSet{regular: f, bold: f}
}

// face builds a font.Face at the given point size. Returns nil when the font
// is unavailable.
func face(f *truetype.Font, size float64) font.Face {
	if f == nil {
		return nil
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
