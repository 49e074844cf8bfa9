package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"FilmBlend/internal/domain"
	"FilmBlend/internal/ports"
)

const catalogTable = "films"

// SQLStore serves catalog lookups from an SQLite reference database.
// The database is opened read-only from the engine's point of view;
// nothing here ever writes to it.
type SQLStore struct {
	db *sql.DB
}

var _ ports.Catalog = (*SQLStore)(nil)

// OpenSQL opens the SQLite reference database at dsn.
func OpenSQL(dsn string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// NewSQLStore wires an existing sql.DB (tests).
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Record fetches one reference record by canonical link; a missing row
// returns (nil, nil).
func (s *SQLStore) Record(ctx context.Context, link string) (*domain.CatalogRecord, error) {
	if s.db == nil {
		return nil, nil
	}

	query, args, err := sq.
		Select(
			"link", "decade", "directors", "genres", "themes", "studios",
			"countries", "language", "cinematographer", "composers", `"cast"`,
			"popularity_class", "duration_class", "runtime", "avg_rating",
		).
		From(catalogTable).
		Where(sq.Eq{"link": link}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build catalog query: %w", err)
	}

	var record domain.CatalogRecord
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&record.Link,
		&record.Decade,
		&record.Directors,
		&record.Genres,
		&record.Themes,
		&record.Studios,
		&record.Countries,
		&record.Language,
		&record.Cinematographer,
		&record.Composers,
		&record.Cast,
		&record.PopularityClass,
		&record.DurationClass,
		&record.Runtime,
		&record.AverageRating,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query catalog link %s: %w", link, err)
	}

	return &record, nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
