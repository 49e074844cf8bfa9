package catalog

import (
	"context"
	"strings"
	"testing"
)

const catalogCSV = `link,decade,directors,genres,themes,studios,countries,language,cinematographer,composers,cast,popularity_class,duration_class,runtime,avg_rating
/film/the-matrix/,1990,"Lana Wachowski, Lilly Wachowski","Action, Science Fiction",Simulated reality,Warner Bros.,USA,English,Bill Pope,Don Davis,"Keanu Reeves, Laurence Fishburne",high,standard,136,4.2
/film/heat-1995/,1990,Michael Mann,"Crime, Drama",Heists,Regency,USA,English,Dante Spinotti,Elliot Goldenthal,"Al Pacino, Robert De Niro",high,long,170,4.3
,2000,Nobody,None,,,,,,,,,,90,1.0
`

func TestReadCSV(t *testing.T) {
	t.Parallel()

	store, err := ReadCSV(strings.NewReader(catalogCSV))
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}

	if store.Len() != 2 {
		t.Fatalf("expected 2 records (row without link dropped), got %d", store.Len())
	}

	record, err := store.Record(context.Background(), "/film/the-matrix/")
	if err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if record == nil {
		t.Fatalf("expected a record for /film/the-matrix/")
	}
	if record.Decade != "1990" {
		t.Fatalf("unexpected decade: %s", record.Decade)
	}
	if record.Genres != "Action, Science Fiction" {
		t.Fatalf("unexpected genres: %s", record.Genres)
	}
	if record.Runtime != "136" {
		t.Fatalf("unexpected runtime: %s", record.Runtime)
	}
}

func TestRecordMissIsNotAnError(t *testing.T) {
	t.Parallel()

	store, err := ReadCSV(strings.NewReader(catalogCSV))
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}

	record, err := store.Record(context.Background(), "/film/unknown/")
	if err != nil {
		t.Fatalf("a catalog miss must not error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil record for unknown link, got %+v", record)
	}
}

func TestReadCSVRejectsMissingLinkColumn(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader("title,decade\nThe Matrix,1990\n"))
	if err == nil {
		t.Fatalf("expected error for header without link column")
	}
}
