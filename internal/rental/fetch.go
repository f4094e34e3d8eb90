package rental

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/blackwell-systems/delaywatch/internal/logging"
)

// ErrFetchFailed wraps non-2xx responses from the dataset host.
var ErrFetchFailed = errors.New("dataset download failed")

// Fetcher downloads remote datasets into a local cache directory. The dataset
// is fetched at most once per cache lifetime; later calls reuse the file.
type Fetcher struct {
	client   *http.Client
	cb       *gobreaker.CircuitBreaker[[]byte]
	cacheDir string
}

// NewFetcher creates a Fetcher caching into cacheDir. A zero timeout means
// the HTTP client never times out on its own; ctx still applies.
func NewFetcher(cacheDir string, timeout time.Duration) *Fetcher {
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "dataset-fetch",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state change")
		},
	})

	return &Fetcher{
		client:   &http.Client{Timeout: timeout},
		cb:       cb,
		cacheDir: cacheDir,
	}
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// CachePath returns where the dataset at rawURL is cached.
func (f *Fetcher) CachePath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing dataset url: %w", err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "/" || name == "." {
		return "", fmt.Errorf("dataset url %q has no file name", rawURL)
	}
	return filepath.Join(f.cacheDir, name), nil
}

// Fetch returns the local path of the dataset at rawURL, downloading it when
// it is not cached yet or when force is set.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, force bool) (string, error) {
	dest, err := f.CachePath(rawURL)
	if err != nil {
		return "", err
	}

	if !force {
		if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
			logging.Debug().Str("path", dest).Msg("Using cached dataset")
			return dest, nil
		}
	}

	body, err := f.cb.Execute(func() ([]byte, error) {
		return f.download(ctx, rawURL)
	})
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return "", err
	}

	// Write to a temp file first so an interrupted download never leaves a
	// truncated dataset in the cache.
	tmp, err := os.CreateTemp(f.cacheDir, ".download-*")
	if err != nil {
		return "", err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return "", err
	}

	logging.Info().Str("url", rawURL).Str("path", dest).Int("bytes", len(body)).Msg("Downloaded dataset")
	return dest, nil
}

// Resolve turns a dataset source (path or URL) into a local file path.
func (f *Fetcher) Resolve(ctx context.Context, source string) (string, error) {
	if IsRemote(source) {
		return f.Fetch(ctx, source, false)
	}
	return source, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetchFailed, rawURL, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
