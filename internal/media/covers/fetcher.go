// Package covers fetches cover images from remote URLs, so admins can set
// catalog art by link instead of re-uploading files.
package covers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainerrors "github.com/playdeckapp/playdeck-server/internal/errors"
)

const (
	// maxFetchSize caps remote cover downloads.
	maxFetchSize = 10 << 20

	// fetchTimeout bounds a single download.
	fetchTimeout = 30 * time.Second
)

// Fetcher downloads cover images over HTTP. The bytes it returns go
// through the same processing pipeline as a direct upload.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a cover fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Fetch downloads the image at rawURL. Bad URLs, non-200 responses, and
// oversized or empty bodies come back as validation errors so handlers
// report them as client mistakes rather than server failures.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, domainerrors.Validation("cover URL must be http or https")
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build cover request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, domainerrors.Validation("cover URL is unreachable").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.Validationf("cover URL returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize+1))
	if err != nil {
		return nil, fmt.Errorf("read cover body: %w", err)
	}
	if len(data) > maxFetchSize {
		return nil, domainerrors.Validation("remote cover exceeds size limit")
	}
	if len(data) == 0 {
		return nil, domainerrors.Validation("remote cover is empty")
	}

	return data, nil
}

// Source names the store a cover URL points at, for logging.
func Source(rawURL string) string {
	switch {
	case strings.Contains(rawURL, "steamstatic.com"), strings.Contains(rawURL, "steampowered.com"):
		return "steam"
	case strings.Contains(rawURL, "igdb.com"):
		return "igdb"
	default:
		return "direct"
	}
}
