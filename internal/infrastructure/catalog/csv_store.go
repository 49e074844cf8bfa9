package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"FilmBlend/internal/domain"
	"FilmBlend/internal/ports"
)

// CSVStore holds the whole reference dataset in memory. It is built
// once and never mutated, so concurrent lookups need no locking.
type CSVStore struct {
	records map[string]domain.CatalogRecord
}

var _ ports.Catalog = (*CSVStore)(nil)

// LoadCSV reads the reference dataset from path. Column order is taken
// from the header row; rows without a link are dropped.
func LoadCSV(path string) (*CSVStore, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	store, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return store, nil
}

// ReadCSV builds a store from raw CSV content.
func ReadCSV(r io.Reader) (*CSVStore, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	if _, ok := columns["link"]; !ok {
		return nil, fmt.Errorf("header has no link column")
	}

	records := make(map[string]domain.CatalogRecord)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return row[idx]
		}

		link := field("link")
		if link == "" {
			continue
		}

		records[link] = domain.CatalogRecord{
			Link:            link,
			Decade:          field("decade"),
			Directors:       field("directors"),
			Genres:          field("genres"),
			Themes:          field("themes"),
			Studios:         field("studios"),
			Countries:       field("countries"),
			Language:        field("language"),
			Cinematographer: field("cinematographer"),
			Composers:       field("composers"),
			Cast:            field("cast"),
			PopularityClass: field("popularity_class"),
			DurationClass:   field("duration_class"),
			Runtime:         field("runtime"),
			AverageRating:   field("avg_rating"),
		}
	}

	return &CSVStore{records: records}, nil
}

// Record looks up one canonical link; a miss returns (nil, nil).
func (s *CSVStore) Record(_ context.Context, link string) (*domain.CatalogRecord, error) {
	if record, ok := s.records[link]; ok {
		return &record, nil
	}
	return nil, nil
}

// Len reports how many reference records were loaded.
func (s *CSVStore) Len() int {
	return len(s.records)
}
