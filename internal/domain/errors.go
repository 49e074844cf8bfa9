package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound means the platform confirmed the resource does not exist
// (404 on a profile or listing page). Terminal, never retried.
var ErrNotFound = errors.New("not found")

// ErrNoCommonFilms distinguishes "the users share nothing" from an
// empty-but-valid result that was simply not computed.
var ErrNoCommonFilms = errors.New("no common films")

// ScrapeError reports a persistent upstream failure: a fetch that kept
// failing after the retry budget was spent.
type ScrapeError struct {
	URL string
	Err error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s: %v", e.URL, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// ParseError reports markup or structured data that did not match the
// expected shape for the item being processed.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s", e.What)
	}
	return fmt.Sprintf("parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
