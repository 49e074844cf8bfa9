package catalog

import (
	"context"
	"database/sql"
	"testing"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema := `CREATE TABLE films (
		link TEXT PRIMARY KEY,
		decade TEXT, directors TEXT, genres TEXT, themes TEXT,
		studios TEXT, countries TEXT, language TEXT,
		cinematographer TEXT, composers TEXT, "cast" TEXT,
		popularity_class TEXT, duration_class TEXT,
		runtime TEXT, avg_rating TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	_, err = db.Exec(`INSERT INTO films VALUES (
		'/film/the-matrix/', '1990', 'Lana Wachowski, Lilly Wachowski',
		'Action, Science Fiction', 'Simulated reality', 'Warner Bros.',
		'USA', 'English', 'Bill Pope', 'Don Davis',
		'Keanu Reeves, Laurence Fishburne', 'high', 'standard', '136', '4.2'
	)`)
	if err != nil {
		t.Fatalf("seed data: %v", err)
	}

	return db
}

func TestSQLStoreRecord(t *testing.T) {
	t.Parallel()

	store := NewSQLStore(newTestDB(t))

	record, err := store.Record(context.Background(), "/film/the-matrix/")
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if record == nil {
		t.Fatalf("expected a record")
	}
	if record.Directors != "Lana Wachowski, Lilly Wachowski" {
		t.Fatalf("unexpected directors: %s", record.Directors)
	}
	if record.Cast != "Keanu Reeves, Laurence Fishburne" {
		t.Fatalf("unexpected cast: %s", record.Cast)
	}
}

func TestSQLStoreMiss(t *testing.T) {
	t.Parallel()

	store := NewSQLStore(newTestDB(t))

	record, err := store.Record(context.Background(), "/film/unknown/")
	if err != nil {
		t.Fatalf("a catalog miss must not error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil record, got %+v", record)
	}
}
