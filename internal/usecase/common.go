package usecase

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"FilmBlend/internal/domain"
)

// TopCommonFilms selects up to n films both users have seen, preferring
// exact co-viewing events. Tier 1 joins diaries on (title, watched
// date); tier 2 fills remaining slots from the libraries joined on
// title, skipping titles tier 1 already produced. When neither tier
// finds anything the call fails with ErrNoCommonFilms so callers can
// tell "nothing in common" apart from an uncomputed result.
func (s *Service) TopCommonFilms(ctx context.Context, userA, userB string, n int) ([]domain.CommonFilm, error) {
	if n <= 0 {
		return nil, fmt.Errorf("top count must be positive, got %d", n)
	}

	diaryA, diaryB, err := s.bothDiaries(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	tierOne := joinDiaries(diaryA, diaryB)

	// the library fill must skip every co-viewed title, including ones
	// the ranking below drops for lacking a rating
	seenTitles := make(map[string]bool, len(tierOne))
	for _, film := range tierOne {
		seenTitles[film.Title] = true
	}

	common := tierOne
	if len(common) > n {
		common = rankedBySum(common, n)
	}

	// tier 2 fills only when the diary join itself came up short; a
	// tier-1 surplus thinned out by unrated pairs does not reopen it
	if len(tierOne) < n {
		filmsA, filmsB, err := s.bothLibraries(ctx, userA, userB)
		if err != nil {
			return nil, err
		}
		fill := joinLibraries(filmsA, filmsB, seenTitles)
		common = append(common, rankedBySum(fill, n-len(common))...)
	}

	if len(common) == 0 {
		return nil, domain.ErrNoCommonFilms
	}
	if len(common) > n {
		common = common[:n]
	}

	s.debug("common films selected", "userA", userA, "userB", userB, "count", len(common))
	return common, nil
}

func (s *Service) bothDiaries(ctx context.Context, userA, userB string) ([]domain.DiaryEntry, []domain.DiaryEntry, error) {
	var diaryA, diaryB []domain.DiaryEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		diaryA, err = s.source.Diary(gctx, userA)
		return err
	})
	g.Go(func() error {
		var err error
		diaryB, err = s.source.Diary(gctx, userB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return diaryA, diaryB, nil
}

// joinDiaries pairs entries with the same title watched on the same
// date. The unknown-date sentinel joins like any other date value.
func joinDiaries(diaryA, diaryB []domain.DiaryEntry) []domain.CommonFilm {
	type viewing struct {
		title string
		date  string
	}

	byViewing := make(map[viewing][]domain.DiaryEntry, len(diaryB))
	for _, entry := range diaryB {
		key := viewing{entry.Title, entry.WatchedDate}
		byViewing[key] = append(byViewing[key], entry)
	}

	var common []domain.CommonFilm
	for _, entry := range diaryA {
		for _, match := range byViewing[viewing{entry.Title, entry.WatchedDate}] {
			common = append(common, domain.CommonFilm{
				Title:   entry.Title,
				RatingA: entry.Rating,
				RatingB: match.Rating,
				Link:    entry.Link,
			})
		}
	}
	return common
}

// joinLibraries pairs library entries on title alone: the same film can
// carry different catalog link variants across listing types, so link
// equality is too strict here. Only fully rated pairs qualify, since
// tier-2 fill is selected purely by rating sum.
func joinLibraries(filmsA, filmsB []domain.FilmEntry, exclude map[string]bool) []domain.CommonFilm {
	byTitle := make(map[string]domain.FilmEntry, len(filmsB))
	for _, film := range filmsB {
		if _, dup := byTitle[film.Title]; !dup {
			byTitle[film.Title] = film
		}
	}

	var common []domain.CommonFilm
	seen := make(map[string]bool)
	for _, film := range filmsA {
		if exclude[film.Title] || seen[film.Title] {
			continue
		}
		match, shared := byTitle[film.Title]
		if !shared || film.Rating == nil || match.Rating == nil {
			continue
		}
		seen[film.Title] = true
		common = append(common, domain.CommonFilm{
			Title:   film.Title,
			RatingA: film.Rating,
			RatingB: match.Rating,
			Link:    film.Link,
		})
	}
	return common
}

// rankedBySum orders films by the sum of both ratings, descending, and
// truncates to limit. Pairs missing either rating cannot be ranked and
// are dropped rather than treated as zero.
func rankedBySum(films []domain.CommonFilm, limit int) []domain.CommonFilm {
	if limit <= 0 {
		return nil
	}

	type ranked struct {
		film domain.CommonFilm
		sum  float64
	}

	candidates := make([]ranked, 0, len(films))
	for _, film := range films {
		if sum, ok := domain.SumRatings(film.RatingA, film.RatingB); ok {
			candidates = append(candidates, ranked{film, sum})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].sum > candidates[j].sum
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	result := make([]domain.CommonFilm, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.film)
	}
	return result
}
