package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// fetchClient downloads generated assets from CDN URLs. Separate from the
// API client: no auth, different timeout profile.
var fetchClient = &http.Client{Timeout: 60 * time.Second}

// maxAssetSize bounds a single downloaded asset (64 MiB).
const maxAssetSize = 64 << 20

// FetchImage downloads an image URL and decodes it.
func FetchImage(ctx context.Context, url string) (*Image, error) {
	data, err := FetchAsset(ctx, url)
	if err != nil {
		return nil, err
	}
	return DecodeImage(data)
}

// FetchAsset downloads a URL and returns the raw bytes.
func FetchAsset(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid asset url: %w", err)
	}

	resp, err := fetchClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download asset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read asset body: %w", err)
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("asset exceeds %d byte limit", maxAssetSize)
	}
	return data, nil
}
