// Package fetch provides the cached HTTP fetcher used by the roster
// loaders. Responses are cached on disk
// keyed by a sanitized form of the URL; the cache has no expiry, which
// makes reruns idempotent and free of network traffic.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// DefaultUserAgent is sent on every request. Some official sites block
// requests without a browser user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher fetches URLs through an on-disk cache.
type Fetcher struct {
	client    *http.Client
	cacheDir  string
	userAgent string
	log       *slog.Logger
}

// New creates a Fetcher. The client is shared and read-only after init.
func New(client *http.Client, cacheDir, userAgent string, log *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fetcher{client: client, cacheDir: cacheDir, userAgent: userAgent, log: log}
}

// SanitizeURL converts a URL to a safe cache file name: the "https://"
// prefix is stripped and every non-alphanumeric byte becomes '_'.
func SanitizeURL(url string) string {
	const httpsPrefix = "https://"
	if len(url) > len(httpsPrefix) && url[:len(httpsPrefix)] == httpsPrefix {
		url = url[len(httpsPrefix):]
	}
	b := []byte(url)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			b[i] = '_'
		}
	}
	return string(b)
}

// CachePath returns the cache file path for a URL.
func (f *Fetcher) CachePath(url string) string {
	return filepath.Join(f.cacheDir, SanitizeURL(url))
}

// Fetch returns the body for a URL, from cache when present, fetching and
// caching it otherwise. The cache write is atomic so a crash never leaves
// a truncated entry.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	pth := f.CachePath(url)
	if body, err := os.ReadFile(pth); err == nil {
		f.log.Debug("cache hit", slog.String("url", url), slog.String("file", pth))
		return body, nil
	}

	f.log.Info("fetching", slog.String("url", url))
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := f.writeCache(pth, body); err != nil {
		return nil, err
	}
	return body, nil
}

// FetchFile ensures the URL body is cached and returns the cache path,
// for binary payloads that are read from disk rather than from memory.
func (f *Fetcher) FetchFile(ctx context.Context, url string) (string, error) {
	pth := f.CachePath(url)
	if _, err := os.Stat(pth); err == nil {
		return pth, nil
	}
	f.log.Info("fetching", slog.String("url", url))
	body, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}
	if err := f.writeCache(pth, body); err != nil {
		return "", err
	}
	return pth, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	return body, nil
}

func (f *Fetcher) writeCache(pth string, body []byte) error {
	if err := os.MkdirAll(f.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(f.cacheDir, ".fetch-*")
	if err != nil {
		return fmt.Errorf("failed to create cache temp file: %w", err)
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), pth); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to commit cache file: %w", err)
	}
	return nil
}
