package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"FilmBlend/internal/domain"
)

func TestDocumentRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`<html><body><p class="ok">fine</p></body></html>`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), WithRetryDelay(time.Millisecond))

	doc, err := client.Document(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Document returned error: %v", err)
	}
	if got := doc.Find("p.ok").Text(); got != "fine" {
		t.Fatalf("unexpected document content: %q", got)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestDocumentNotFoundIsTerminal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.Client(), WithRetryDelay(time.Millisecond))

	_, err := client.Document(context.Background(), server.URL)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("404 must not be retried, got %d attempts", calls.Load())
	}
}

func TestDocumentExhaustionReturnsScrapeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.Client(), WithAttempts(2), WithRetryDelay(time.Millisecond))

	_, err := client.Document(context.Background(), server.URL)

	var scrapeErr *domain.ScrapeError
	if !errors.As(err, &scrapeErr) {
		t.Fatalf("expected ScrapeError, got %v", err)
	}
	if scrapeErr.URL != server.URL {
		t.Fatalf("unexpected URL in error: %s", scrapeErr.URL)
	}
}

func TestDocumentSendsConstantHeaders(t *testing.T) {
	t.Parallel()

	var gotAgent, gotLanguage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotLanguage = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	client := NewClient(server.Client())
	if _, err := client.Document(context.Background(), server.URL); err != nil {
		t.Fatalf("Document returned error: %v", err)
	}

	if gotAgent != userAgent {
		t.Fatalf("unexpected user agent: %q", gotAgent)
	}
	if gotLanguage != acceptLanguage {
		t.Fatalf("unexpected accept-language: %q", gotLanguage)
	}
}
