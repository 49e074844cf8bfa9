package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"FilmBlend/internal/domain"
)

// WatchlistParty intersects the watchlists of all given users and
// applies the filter to the enriched survivors. Users are reduced in
// input order; as soon as an intersection step comes up empty the whole
// result is empty — no overlap is a valid answer, not an error.
func (s *Service) WatchlistParty(ctx context.Context, usernames []string, filter domain.PartyFilter) ([]domain.EnrichedFilm, error) {
	if len(usernames) == 0 {
		return nil, fmt.Errorf("at least one username is required")
	}

	shared, err := s.source.Watchlist(ctx, usernames[0])
	if err != nil {
		return nil, err
	}

	for _, username := range usernames[1:] {
		if len(shared) == 0 {
			return []domain.EnrichedFilm{}, nil
		}

		next, err := s.source.Watchlist(ctx, username)
		if err != nil {
			return nil, err
		}
		shared = intersectFilms(shared, next)
	}

	enriched, err := s.enrich(ctx, shared)
	if err != nil {
		return nil, err
	}

	result := make([]domain.EnrichedFilm, 0, len(enriched))
	for _, film := range enriched {
		if matchesFilter(film, filter) {
			result = append(result, film)
		}
	}

	s.debug("watchlist party computed", "users", len(usernames), "shared", len(shared), "after_filter", len(result))
	return result, nil
}

// intersectFilms keeps films of a present in b by canonical identity.
func intersectFilms(a, b []domain.FilmEntry) []domain.FilmEntry {
	type identity struct {
		id    string
		title string
		link  string
	}

	inB := make(map[identity]bool, len(b))
	for _, film := range b {
		inB[identity{film.ID, film.Title, film.Link}] = true
	}

	var shared []domain.FilmEntry
	for _, film := range a {
		if inB[identity{film.ID, film.Title, film.Link}] {
			shared = append(shared, film)
		}
	}
	return shared
}

// matchesFilter applies the party criteria. Unset criteria pass
// everything; set criteria that need catalog attributes reject films
// without a catalog record. Films whose runtime is not numeric are
// excluded whenever a runtime bound is given, since a range comparison
// on them is undefined.
func matchesFilter(film domain.EnrichedFilm, filter domain.PartyFilter) bool {
	if filter.Genre != "" && !containsTag(catalogField(film, func(r *domain.CatalogRecord) string { return r.Genres }), filter.Genre) {
		return false
	}
	if filter.Director != "" && !containsTag(catalogField(film, func(r *domain.CatalogRecord) string { return r.Directors }), filter.Director) {
		return false
	}
	if filter.Decade != "" {
		decade := catalogField(film, func(r *domain.CatalogRecord) string { return r.Decade })
		if !strings.HasPrefix(decade, filter.Decade) {
			return false
		}
	}
	if filter.MinRuntime != nil || filter.MaxRuntime != nil {
		runtime, ok := filmRuntime(film)
		if !ok {
			return false
		}
		if filter.MinRuntime != nil && runtime < *filter.MinRuntime {
			return false
		}
		if filter.MaxRuntime != nil && runtime > *filter.MaxRuntime {
			return false
		}
	}
	return true
}

func catalogField(film domain.EnrichedFilm, extract func(*domain.CatalogRecord) string) string {
	if film.Catalog == nil {
		return ""
	}
	return extract(film.Catalog)
}

// containsTag is a case-insensitive substring test over a comma-joined
// tag list.
func containsTag(tags, wanted string) bool {
	if tags == "" {
		return false
	}
	return strings.Contains(strings.ToLower(tags), strings.ToLower(wanted))
}

func filmRuntime(film domain.EnrichedFilm) (int, bool) {
	if film.Catalog == nil {
		return 0, false
	}
	runtime, err := strconv.Atoi(strings.TrimSpace(film.Catalog.Runtime))
	if err != nil {
		return 0, false
	}
	return runtime, true
}
