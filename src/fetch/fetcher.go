// Package fetch provides an HTTP fetcher with a content-addressed response
// cache on disk.
//
// Every API-relative path maps to a stable cache file named after the sha1
// of the path. A cache hit returns the stored body without touching the
// network; a miss performs an authenticated GET and stores the raw body
// verbatim before it is parsed. Entries are never expired or refreshed —
// staleness is controlled only by deleting the cache directory.
package fetch

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/tomzx/drone-stats/src/logger"
)

// Fetcher performs authenticated GET requests against a Drone server,
// caching raw response bodies on disk.
type Fetcher struct {
	baseURL    string
	token      string
	cacheDir   string
	httpClient *http.Client
	log        logger.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// New creates a Fetcher rooted at cacheDir, creating the directory if needed.
func New(baseURL, token, cacheDir string, log logger.Logger, opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		baseURL:  baseURL,
		token:    token,
		cacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}

	for _, opt := range opts {
		opt(f)
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", cacheDir, err)
	}

	return f, nil
}

// CachePath returns the on-disk cache file for an API-relative path.
func (f *Fetcher) CachePath(path string) string {
	sum := sha1.Sum([]byte(path))
	return filepath.Join(f.cacheDir, hex.EncodeToString(sum[:])+".json")
}

// Get returns the raw response body for an API-relative path, from the cache
// when a matching entry exists and from the network otherwise. On a miss the
// body is written to the cache unconditionally, whatever the HTTP status.
func (f *Fetcher) Get(ctx context.Context, path string) ([]byte, error) {
	f.log.Debug("Querying %s", path)

	cacheFile := f.CachePath(path)
	if body, err := os.ReadFile(cacheFile); err == nil {
		f.log.Debug("Cache hit @ %s", cacheFile)
		return body, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read cache entry %s: %w", cacheFile, err)
	}

	f.log.Debug("Querying API")

	url := fmt.Sprintf("%s/api/%s", f.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", f.token))

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Written before parsing: an invalid body still lands in the cache.
	if err := os.WriteFile(cacheFile, body, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write cache entry %s: %w", cacheFile, err)
	}

	return body, nil
}

// GetJSON fetches an API-relative path and unmarshals the body into v.
// A body that is not valid JSON is still cached before the error returns.
func (f *Fetcher) GetJSON(ctx context.Context, path string, v interface{}) error {
	body, err := f.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", path, err)
	}
	return nil
}
