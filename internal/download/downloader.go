package download

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/GLH08/TuneBot/internal/logging"
)

const (
	chunkSize         = 64 * 1024
	defaultMaxRetries = 3
	defaultTimeout    = 180 * time.Second
	retryBackoff      = 2 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// refererRules maps host substrings to the Referer some origins require.
var refererRules = []struct {
	hostPattern string
	referer     string
}{
	{"kuwo", "https://www.kuwo.cn/"},
	{"kugou", "https://www.kugou.com/"},
}

// Progress receives chunk-level updates while a download runs. It may be
// called zero or many times per second; implementations should throttle
// their own side effects. A panicking observer never aborts the download.
type Progress func(downloaded, total int64)

// Downloader streams binary payloads in bounded chunks with retry. It keeps
// its own transport so a slow download cannot starve metadata traffic.
type Downloader struct {
	http       *http.Client
	logger     *slog.Logger
	maxRetries int
	backoff    time.Duration
	sleeper    func(time.Duration)
}

// Option customizes the downloader.
type Option func(*Downloader)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Downloader) {
		if client != nil {
			d.http = client
		}
	}
}

// WithMaxRetries overrides the attempt bound (defaults to 3).
func WithMaxRetries(retries int) Option {
	return func(d *Downloader) {
		if retries > 0 {
			d.maxRetries = retries
		}
	}
}

// WithTimeout overrides the per-attempt timeout (defaults to 180s).
func WithTimeout(timeout time.Duration) Option {
	return func(d *Downloader) {
		if timeout > 0 {
			d.http.Timeout = timeout
		}
	}
}

// WithBackoff overrides the fixed delay between attempts.
func WithBackoff(backoff time.Duration) Option {
	return func(d *Downloader) {
		if backoff >= 0 {
			d.backoff = backoff
		}
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(d *Downloader) {
		if sleeper != nil {
			d.sleeper = sleeper
		}
	}
}

// New constructs a Downloader.
func New(logger *slog.Logger, opts ...Option) *Downloader {
	d := &Downloader{
		http:       &http.Client{Timeout: defaultTimeout},
		logger:     logging.NewComponentLogger(logger, "download"),
		maxRetries: defaultMaxRetries,
		backoff:    retryBackoff,
		sleeper:    time.Sleep,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch downloads url in 64 KiB chunks, retrying transient failures up to the
// configured attempt bound. An empty result signals failure; there is no
// separate error channel.
func (d *Downloader) Fetch(ctx context.Context, url string, progress Progress) []byte {
	return d.fetch(ctx, url, progress, d.maxRetries)
}

// FetchOnce downloads url with a single attempt and no progress reporting,
// used for covers and other small assets.
func (d *Downloader) FetchOnce(ctx context.Context, url string) []byte {
	return d.fetch(ctx, url, nil, 1)
}

func (d *Downloader) fetch(ctx context.Context, url string, progress Progress, attempts int) []byte {
	for attempt := 1; attempt <= attempts; attempt++ {
		payload, retryable := d.attempt(ctx, url, progress, attempt, attempts)
		if payload != nil {
			return payload
		}
		if !retryable || attempt == attempts {
			return nil
		}
		d.sleeper(d.backoff)
	}
	return nil
}

func (d *Downloader) attempt(ctx context.Context, url string, progress Progress, attempt, attempts int) (payload []byte, retryable bool) {
	logger := d.logger.With(slog.Int("attempt", attempt), slog.Int("attempts", attempts))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		logger.Warn("download request invalid", logging.Error(err))
		return nil, false
	}
	req.Header.Set("User-Agent", userAgent)
	if referer := refererFor(url); referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		logger.Warn("download attempt failed", logging.Error(err))
		return nil, ctx.Err() == nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("download rejected", slog.Int("status", resp.StatusCode))
		return nil, true
	}

	total := resp.ContentLength
	var buf bytes.Buffer
	if total > 0 {
		buf.Grow(int(total))
	}
	chunk := make([]byte, chunkSize)
	var downloaded int64
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			downloaded += int64(n)
			if progress != nil && total > 0 {
				notify(progress, downloaded, total)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			logger.Warn("download stream interrupted", logging.Error(err))
			return nil, ctx.Err() == nil
		}
	}

	logger.Debug("download complete", slog.Int("bytes", buf.Len()))
	return buf.Bytes(), false
}

func notify(progress Progress, downloaded, total int64) {
	defer func() { _ = recover() }()
	progress(downloaded, total)
}

func refererFor(url string) string {
	lowered := strings.ToLower(url)
	for _, rule := range refererRules {
		if strings.Contains(lowered, rule.hostPattern) {
			return rule.referer
		}
	}
	return ""
}
