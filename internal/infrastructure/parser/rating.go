package parser

// starRatings maps the platform's star glyph strings to half-star
// values. The table is the whole contract: anything not listed here is
// treated as "unrated", never as an error.
var starRatings = map[string]float64{
	"½":     0.5,
	"★":     1,
	"★½":    1.5,
	"★★":    2,
	"★★½":   2.5,
	"★★★":   3,
	"★★★½":  3.5,
	"★★★★":  4,
	"★★★★½": 4.5,
	"★★★★★": 5,
}

// TransformRating converts a raw star string into its numeric value.
// Unrecognized input yields nil.
func TransformRating(raw string) *float64 {
	if value, ok := starRatings[raw]; ok {
		return &value
	}
	return nil
}
