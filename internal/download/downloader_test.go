package download

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchReturnsFullPayloadWithProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("abcd1234"), 32*1024) // 256 KiB, several chunks
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a user agent header")
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	var calls atomic.Int64
	var lastDownloaded, lastTotal int64
	d := New(nil, WithSleeper(func(time.Duration) {}))
	got := d.Fetch(context.Background(), server.URL, func(downloaded, total int64) {
		calls.Add(1)
		lastDownloaded = downloaded
		lastTotal = total
	})

	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: got %d bytes, want %d", len(got), len(payload))
	}
	if calls.Load() == 0 {
		t.Fatal("expected progress callbacks")
	}
	if lastDownloaded != int64(len(payload)) || lastTotal != int64(len(payload)) {
		t.Fatalf("final progress %d/%d, want %d/%d", lastDownloaded, lastTotal, len(payload), len(payload))
	}
}

func TestFetchRetriesExactlyMaxAttempts(t *testing.T) {
	var attempts atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var sleeps []time.Duration
	d := New(nil, WithMaxRetries(3), WithSleeper(func(delay time.Duration) {
		sleeps = append(sleeps, delay)
	}))

	if got := d.Fetch(context.Background(), server.URL, nil); got != nil {
		t.Fatalf("expected nil payload, got %d bytes", len(got))
	}
	if attempts.Load() != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", attempts.Load())
	}
	if len(sleeps) != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %d", len(sleeps))
	}
	for _, delay := range sleeps {
		if delay != retryBackoff {
			t.Fatalf("expected fixed %v backoff, got %v", retryBackoff, delay)
		}
	}
}

func TestFetchRecoversAfterSingleFailure(t *testing.T) {
	payload := []byte("audio-bytes")
	var attempts atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	d := New(nil, WithSleeper(func(time.Duration) {}))
	got := d.Fetch(context.Background(), server.URL, nil)
	if !bytes.Equal(got, payload) {
		t.Fatalf("expected payload after retry, got %q", got)
	}
	if attempts.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts.Load())
	}
}

func TestFetchOnceDoesNotRetry(t *testing.T) {
	var attempts atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	d := New(nil, WithSleeper(func(time.Duration) {}))
	if got := d.FetchOnce(context.Background(), server.URL); got != nil {
		t.Fatalf("expected nil payload, got %d bytes", len(got))
	}
	if attempts.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts.Load())
	}
}

func TestFetchSurvivesPanickingObserver(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 128*1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	d := New(nil, WithSleeper(func(time.Duration) {}))
	got := d.Fetch(context.Background(), server.URL, func(int64, int64) {
		panic("observer bug")
	})
	if !bytes.Equal(got, payload) {
		t.Fatal("panicking observer must not abort the download")
	}
}

func TestFetchStopsRetryingOnCanceledContext(t *testing.T) {
	var attempts atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	d := New(nil, WithMaxRetries(5), WithSleeper(func(time.Duration) { cancel() }))
	if got := d.Fetch(ctx, server.URL, nil); got != nil {
		t.Fatal("expected nil payload")
	}
	if attempts.Load() >= 5 {
		t.Fatalf("expected early stop after cancellation, got %d attempts", attempts.Load())
	}
}

func TestRefererRules(t *testing.T) {
	cases := map[string]string{
		"https://audio.kuwo.cn/song.flac":     "https://www.kuwo.cn/",
		"https://fs.KUGOU.com/track.mp3":      "https://www.kugou.com/",
		"https://cdn.example.com/plain.mp3":   "",
		"https://music.163.com/song.mp3?x=kw": "",
	}
	for url, want := range cases {
		if got := refererFor(url); got != want {
			t.Fatalf("refererFor(%q) = %q, want %q", url, got, want)
		}
	}
}
