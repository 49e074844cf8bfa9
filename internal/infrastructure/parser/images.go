package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"FilmBlend/internal/domain"
	"FilmBlend/internal/infrastructure/fetch"
	"FilmBlend/internal/ports"
)

const (
	selJSONLD    = `script[type="application/ld+json"]`
	selAvatar    = "span.avatar img"
	cdataOpening = "/* <![CDATA[ */"
	cdataClosing = "/* ]]> */"
)

// Images extracts poster and avatar URLs from platform pages.
type Images struct {
	fetcher *fetch.Client
	baseURL string
}

var _ ports.ImageSource = (*Images)(nil)

// NewImages wires the shared fetch client.
func NewImages(fetcher *fetch.Client, baseURL string) *Images {
	return &Images{fetcher: fetcher, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Poster returns the poster image URL published in the film page's
// JSON-LD block. A missing or malformed block is a ParseError: the
// caller asked for one specific page, so there is nothing to skip to.
func (i *Images) Poster(ctx context.Context, filmURL string) (string, error) {
	doc, err := i.fetcher.Document(ctx, filmURL)
	if err != nil {
		return "", err
	}

	script := doc.Find(selJSONLD).First()
	if script.Length() == 0 {
		return "", &domain.ParseError{What: "film page JSON-LD block"}
	}

	raw := strings.TrimSpace(script.Text())
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(raw, cdataOpening), cdataClosing))

	var payload struct {
		Image string `json:"image"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", &domain.ParseError{What: "film page JSON-LD block", Err: err}
	}
	if payload.Image == "" {
		return "", &domain.ParseError{What: "film page JSON-LD image field"}
	}

	return payload.Image, nil
}

// Avatar returns the user's avatar image URL, or an empty string when
// the profile has no avatar. Only fetch failures are errors.
func (i *Images) Avatar(ctx context.Context, username string) (string, error) {
	profile := fmt.Sprintf("%s/%s/", i.baseURL, username)

	doc, err := i.fetcher.Document(ctx, profile)
	if err != nil {
		return "", err
	}

	src, _ := doc.Find(selAvatar).First().Attr("src")
	return src, nil
}
