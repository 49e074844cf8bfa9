package ports

import (
	"context"

	"FilmBlend/internal/domain"
)

// ProfileSource scrapes one user's listings from the external platform.
type ProfileSource interface {
	Films(ctx context.Context, username string) ([]domain.FilmEntry, error)
	Diary(ctx context.Context, username string) ([]domain.DiaryEntry, error)
	Watchlist(ctx context.Context, username string) ([]domain.FilmEntry, error)
}

// Catalog resolves canonical links to reference records. A miss returns
// (nil, nil); only infrastructure failures produce an error.
type Catalog interface {
	Record(ctx context.Context, link string) (*domain.CatalogRecord, error)
}

// ImageSource extracts poster and avatar image URLs from platform pages.
// Avatar returns an empty URL (and nil error) for users without one.
type ImageSource interface {
	Poster(ctx context.Context, filmURL string) (string, error)
	Avatar(ctx context.Context, username string) (string, error)
}
