package og

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"
)

const (
	fetchTimeout = 3 * time.Second
	maxAssetSize = 8 << 20 // 8MB
	maxAssetDim  = 8192    // reject absurd dimensions before decoding
)

// assetFetcher retrieves remote images and font files. Every failure is
// returned to the caller, which always has a local fallback.
type assetFetcher struct {
	httpClient *http.Client
}

func newAssetFetcher() *assetFetcher {
	return &assetFetcher{
		httpClient: &http.Client{Timeout: fetchTimeout},
	}
}

func (f *assetFetcher) fetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build asset request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch asset %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	return data, nil
}

// fetchImage downloads and decodes a remote JPEG or PNG. The image header is
// probed first so oversized dimensions are rejected without a full decode.
func (f *assetFetcher) fetchImage(ctx context.Context, url string) (image.Image, error) {
	data, err := f.fetchBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("probe image %s: %w", url, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > maxAssetDim || cfg.Height > maxAssetDim {
		return nil, fmt.Errorf("image %s: unusable dimensions %dx%d (%s)", url, cfg.Width, cfg.Height, format)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", url, err)
	}
	return img, nil
}
