package usecase

import (
	"context"
	"fmt"

	"FilmBlend/internal/domain"
)

// fakeSource serves canned listings keyed by username. Usernames with
// no entry behave like missing profiles.
type fakeSource struct {
	films     map[string][]domain.FilmEntry
	diaries   map[string][]domain.DiaryEntry
	watchlist map[string][]domain.FilmEntry
}

func (f *fakeSource) Films(_ context.Context, username string) ([]domain.FilmEntry, error) {
	films, ok := f.films[username]
	if !ok {
		return nil, fmt.Errorf("films of %s: %w", username, domain.ErrNotFound)
	}
	return films, nil
}

func (f *fakeSource) Diary(_ context.Context, username string) ([]domain.DiaryEntry, error) {
	diary, ok := f.diaries[username]
	if !ok {
		return nil, fmt.Errorf("diary of %s: %w", username, domain.ErrNotFound)
	}
	return diary, nil
}

func (f *fakeSource) Watchlist(_ context.Context, username string) ([]domain.FilmEntry, error) {
	list, ok := f.watchlist[username]
	if !ok {
		return nil, fmt.Errorf("watchlist of %s: %w", username, domain.ErrNotFound)
	}
	return list, nil
}

// fakeCatalog is an in-memory reference table.
type fakeCatalog struct {
	records map[string]domain.CatalogRecord
}

func (f *fakeCatalog) Record(_ context.Context, link string) (*domain.CatalogRecord, error) {
	if record, ok := f.records[link]; ok {
		return &record, nil
	}
	return nil, nil
}

func stars(v float64) *float64 { return &v }

func film(id, title, link string, rating *float64) domain.FilmEntry {
	return domain.FilmEntry{ID: id, Title: title, Link: link, Rating: rating}
}

func diary(id, title, link, date string, rating *float64) domain.DiaryEntry {
	return domain.DiaryEntry{
		FilmEntry:   domain.FilmEntry{ID: id, Title: title, Link: link, Rating: rating},
		WatchedDate: date,
	}
}

func newTestService(source *fakeSource, cat *fakeCatalog) *Service {
	if cat == nil {
		cat = &fakeCatalog{}
	}
	return NewService(ServiceDeps{Source: source, Catalog: cat})
}
