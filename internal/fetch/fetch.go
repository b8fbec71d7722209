// Package fetch retrieves the raw spreadsheet bytes from a remote URL or
// a local file. It is the pipeline's only blocking collaborator; the
// whole body is buffered, no streaming.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Browser UA: OneDrive share links refuse the Go default client.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// DefaultTimeout bounds one download.
const DefaultTimeout = 30 * time.Second

var (
	ErrEmptyBody   = errors.New("downloaded file is empty")
	ErrHTMLContent = errors.New("server returned a web page instead of a workbook")
)

// Fetcher retrieves spreadsheet bytes.
type Fetcher struct {
	client *http.Client
}

// New builds a Fetcher. A zero timeout uses DefaultTimeout.
func New(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch returns the bytes at location: an HTTP(S) download for URLs, a
// filesystem read for anything else.
func (f *Fetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return f.download(ctx, location)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read local file: %w", err)
	}
	return data, nil
}

func (f *Fetcher) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, DirectDownloadURL(url), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download workbook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download workbook: unexpected status %s", resp.Status)
	}
	if ct := strings.ToLower(resp.Header.Get("Content-Type")); strings.Contains(ct, "text/html") {
		return nil, ErrHTMLContent
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyBody
	}
	return data, nil
}

// DirectDownloadURL rewrites OneDrive share links into direct-download
// form. Other URLs pass through unchanged.
func DirectDownloadURL(url string) string {
	if !strings.Contains(url, "1drv.ms") && !strings.Contains(url, "onedrive.live.com") {
		return url
	}
	if strings.Contains(url, "?e=") {
		return strings.Replace(url, "?e=", "?download=1&e=", 1)
	}
	if strings.Contains(url, "?") {
		return url + "&download=1"
	}
	return url + "?download=1"
}
