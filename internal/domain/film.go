package domain

// UnknownDate marks a diary entry whose viewing date could not be
// extracted. It is a real value, not an absence: diary entries are later
// joined on (title, date), and two unknown dates still join.
const UnknownDate = "unknown"

// FilmEntry is one film scraped from a user's films or watchlist page.
type FilmEntry struct {
	ID     string
	Title  string
	Rating *float64 // stars in 0.5..5 step 0.5, nil when unrated
	Liked  bool
	Link   string // host-relative canonical path, catalog join key
}

// DiaryEntry is a dated viewing record from a user's diary page.
type DiaryEntry struct {
	FilmEntry
	WatchedDate string // YYYY-MM-DD or UnknownDate
}

// CatalogRecord holds reference attributes for one film, keyed by its
// canonical link. Tag-bearing fields keep the dataset's comma-joined
// form ("Action, Drama"); consumers split them into tokens.
type CatalogRecord struct {
	Link            string
	Decade          string
	Directors       string
	Genres          string
	Themes          string
	Studios         string
	Countries       string
	Language        string
	Cinematographer string
	Composers       string
	Cast            string
	PopularityClass string
	DurationClass   string
	Runtime         string // raw minutes text, parsed on demand
	AverageRating   string
}

// EnrichedFilm is a FilmEntry left-joined with the catalog. Catalog is
// nil when the link has no reference record; that is not an error.
type EnrichedFilm struct {
	FilmEntry
	Catalog *CatalogRecord
}

// SimilarityScore is the transient result of comparing two users.
// The three components are clamped to [0,1] before blending.
type SimilarityScore struct {
	ProportionShared float64
	RankCorrelation  float64
	AttributeOverlap float64
	Blended          int // percentage 0..100
}

// CommonFilm is one film both users have seen, with both ratings.
type CommonFilm struct {
	Title   string
	RatingA *float64
	RatingB *float64
	Link    string
}

// PartyFilter describes a predicate over enriched watchlist films.
// Zero-valued criteria are not applied.
type PartyFilter struct {
	Genre      string
	Director   string
	Decade     string // prefix match, e.g. "199" accepts 1990 and 1999
	MinRuntime *int
	MaxRuntime *int
}

// SumRatings adds two optional ratings. The sum exists only when both
// ratings do; an absent operand makes the result absent rather than
// treating the missing side as zero.
func SumRatings(a, b *float64) (float64, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	return *a + *b, true
}
