package fetch

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"FilmBlend/internal/domain"
)

const (
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
	userAgent       = "FilmBlend/1.0"
	acceptLanguage  = "en-US,en;q=0.9"
)

// Client is a retrying page fetcher. All requests go through one
// persistent http.Client and carry the same header set, so the
// connection pool and the platform-facing identity are shared.
type Client struct {
	http     *http.Client
	attempts int
	delay    time.Duration
}

// Option tunes a Client beyond its defaults.
type Option func(*Client)

// WithAttempts overrides the retry budget (total attempts, not retries).
func WithAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithRetryDelay overrides the base delay between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.delay = d
		}
	}
}

// NewClient wires an HTTP client; a nil client gets a 20s timeout default.
func NewClient(client *http.Client, opts ...Option) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	c := &Client{
		http:     client,
		attempts: defaultAttempts,
		delay:    defaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document fetches pageURL and parses it into a goquery document.
// Transient failures (connection errors, timeouts, non-200 non-404
// statuses) are retried up to the attempt budget with a jittered delay;
// a 404 is terminal and returns domain.ErrNotFound immediately. When
// the budget runs out the last cause is wrapped in a ScrapeError.
func (c *Client) Document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var lastErr error

	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter(c.delay)):
			}
		}

		doc, err := c.fetchOnce(ctx, pageURL)
		if err == nil {
			return doc, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == errNotFound {
			return nil, fmt.Errorf("%s: %w", pageURL, domain.ErrNotFound)
		}
		lastErr = err
	}

	return nil, &domain.ScrapeError{URL: pageURL, Err: lastErr}
}

var errNotFound = fmt.Errorf("page does not exist")

func (c *Client) fetchOnce(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("platform returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	// up to +50% so parallel fetchers do not retry in lockstep
	return base + time.Duration(rand.Int63n(int64(base)/2+1))
}
