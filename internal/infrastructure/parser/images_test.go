package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"FilmBlend/internal/domain"
	"FilmBlend/internal/infrastructure/fetch"
)

func newTestImages(t *testing.T, handler http.Handler) (*Images, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	fetcher := fetch.NewClient(server.Client(), fetch.WithAttempts(1))
	return NewImages(fetcher, server.URL), server
}

func TestPosterFromJSONLD(t *testing.T) {
	t.Parallel()

	page := `<html><head>
	<script type="application/ld+json">
	/* <![CDATA[ */
	{"image": "https://images.example.com/poster/51568.jpg", "name": "The Matrix"}
	/* ]]> */
	</script>
	</head><body></body></html>`

	images, server := newTestImages(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))

	got, err := images.Poster(context.Background(), server.URL+"/film/the-matrix/")
	if err != nil {
		t.Fatalf("Poster returned error: %v", err)
	}
	if got != "https://images.example.com/poster/51568.jpg" {
		t.Fatalf("unexpected poster URL: %s", got)
	}
}

func TestPosterMissingBlockIsParseError(t *testing.T) {
	t.Parallel()

	images, server := newTestImages(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>no structured data here</p></body></html>"))
	}))

	_, err := images.Poster(context.Background(), server.URL+"/film/unknown/")

	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestPosterMalformedJSONIsParseError(t *testing.T) {
	t.Parallel()

	images, server := newTestImages(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><script type="application/ld+json">{not json}</script></head></html>`))
	}))

	_, err := images.Poster(context.Background(), server.URL+"/film/unknown/")

	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestAvatar(t *testing.T) {
	t.Parallel()

	images, _ := newTestImages(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/withavatar/" {
			_, _ = w.Write([]byte(`<html><body>
			  <span class="avatar -a500 -borderless -large"><img src="https://images.example.com/avatar.jpg"/></span>
			</body></html>`))
			return
		}
		_, _ = w.Write([]byte("<html><body></body></html>"))
	}))

	got, err := images.Avatar(context.Background(), "withavatar")
	if err != nil {
		t.Fatalf("Avatar returned error: %v", err)
	}
	if got != "https://images.example.com/avatar.jpg" {
		t.Fatalf("unexpected avatar URL: %s", got)
	}

	got, err = images.Avatar(context.Background(), "plain")
	if err != nil {
		t.Fatalf("Avatar returned error: %v", err)
	}
	if got != "" {
		t.Fatalf("user without avatar must yield empty URL, got %s", got)
	}
}
