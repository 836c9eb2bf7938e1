package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/restorer/internal/upload"
)

var ErrTooLarge = errors.New("image exceeds size limit")

// Fetcher retrieves photos from remote URLs
type Fetcher struct {
	HTTPClient *http.Client
	MaxBytes   int64
}

// NewFetcher creates a fetcher that refuses images larger than maxBytes
func NewFetcher(maxBytes int64) *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		MaxBytes: maxBytes,
	}
}

// IsURL reports whether s is an http or https URL
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads the image at rawURL. The file name comes from the last
// path segment and the MIME type from the response, sniffed when absent.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (upload.Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return upload.Image{}, fmt.Errorf("invalid image URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return upload.Image{}, fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return upload.Image{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return upload.Image{}, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return upload.Image{}, fmt.Errorf("image URL returned status %d", resp.StatusCode)
	}

	body := io.Reader(resp.Body)
	if f.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return upload.Image{}, fmt.Errorf("failed to read image data: %w", err)
	}
	if f.MaxBytes > 0 && int64(len(data)) > f.MaxBytes {
		return upload.Image{}, ErrTooLarge
	}

	name := path.Base(u.Path)
	if name == "/" || name == "." {
		name = ""
	}

	slog.Debug("Fetched image", "url", u.String(), "bytes", len(data), "content_type", resp.Header.Get("Content-Type"))
	return upload.FromBytes(name, resp.Header.Get("Content-Type"), data), nil
}
