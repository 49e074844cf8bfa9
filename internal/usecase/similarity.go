package usecase

import (
	"math"
	"sort"
	"strings"

	"FilmBlend/internal/domain"
)

// Default blend weights. Correlation dominates: rating agreement is the
// strongest taste signal, shared-library proportion and attribute
// overlap are secondary. These are policy knobs, not invariants; the
// weighted sum is clamped to [0,1] before scaling, so overrides that
// sum above 1 stay safe.
const (
	DefaultProportionWeight  = 0.09
	DefaultCorrelationWeight = 0.90
	DefaultOverlapWeight     = 0.01
)

// BlendWeights combines the three similarity components into the final
// percentage.
type BlendWeights struct {
	Proportion  float64
	Correlation float64
	Overlap     float64
}

// DefaultBlendWeights returns the compiled-in policy.
func DefaultBlendWeights() BlendWeights {
	return BlendWeights{
		Proportion:  DefaultProportionWeight,
		Correlation: DefaultCorrelationWeight,
		Overlap:     DefaultOverlapWeight,
	}
}

// attribute is one categorical catalog dimension entering the overlap
// score. Weights are non-uniform: directors and genres say more about
// taste than composers do.
type attribute struct {
	name    string
	weight  float64
	extract func(*domain.CatalogRecord) string
}

var overlapAttributes = []attribute{
	{"decade", 1.0, func(r *domain.CatalogRecord) string { return r.Decade }},
	{"directors", 1.5, func(r *domain.CatalogRecord) string { return r.Directors }},
	{"genres", 1.5, func(r *domain.CatalogRecord) string { return r.Genres }},
	{"themes", 1.25, func(r *domain.CatalogRecord) string { return r.Themes }},
	{"studios", 0.5, func(r *domain.CatalogRecord) string { return r.Studios }},
	{"countries", 0.75, func(r *domain.CatalogRecord) string { return r.Countries }},
	{"language", 0.75, func(r *domain.CatalogRecord) string { return r.Language }},
	{"cinematographer", 0.5, func(r *domain.CatalogRecord) string { return r.Cinematographer }},
	{"composers", 0.25, func(r *domain.CatalogRecord) string { return r.Composers }},
	{"cast", 1.25, func(r *domain.CatalogRecord) string { return r.Cast }},
	{"popularity_class", 0.75, func(r *domain.CatalogRecord) string { return r.PopularityClass }},
	{"duration_class", 0.5, func(r *domain.CatalogRecord) string { return r.DurationClass }},
}

// tagCounter builds a multiset of tag tokens for one attribute across a
// user's enriched library. Comma-joined tag lists split into individual
// tokens; films without a catalog record contribute nothing.
func tagCounter(films []domain.EnrichedFilm, extract func(*domain.CatalogRecord) string) map[string]int {
	counter := make(map[string]int)
	for _, film := range films {
		if film.Catalog == nil {
			continue
		}
		raw := extract(film.Catalog)
		if raw == "" {
			continue
		}
		for _, token := range strings.Split(raw, ", ") {
			token = strings.TrimSpace(token)
			if token != "" {
				counter[token]++
			}
		}
	}
	return counter
}

// multisetJaccard is |min-counts| / |max-counts| over the union of keys.
func multisetJaccard(a, b map[string]int) float64 {
	intersection := 0
	union := 0

	for token, countA := range a {
		countB := b[token]
		intersection += min(countA, countB)
		union += max(countA, countB)
	}
	for token, countB := range b {
		if _, seen := a[token]; !seen {
			union += countB
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// attributeOverlap is the weight-normalized sum of per-attribute
// multiset Jaccard similarities, clamped to [0,1].
func attributeOverlap(filmsA, filmsB []domain.EnrichedFilm) float64 {
	var weighted, totalWeight float64
	for _, attr := range overlapAttributes {
		similarity := multisetJaccard(
			tagCounter(filmsA, attr.extract),
			tagCounter(filmsB, attr.extract),
		)
		weighted += similarity * attr.weight
		totalWeight += attr.weight
	}

	if totalWeight == 0 {
		return 0
	}
	return clamp01(weighted / totalWeight)
}

// sharedProportion is |links in both| / |links in either|, clamped.
func sharedProportion(filmsA, filmsB []domain.FilmEntry) float64 {
	linksA := linkSet(filmsA)
	linksB := linkSet(filmsB)

	shared := 0
	union := len(linksB)
	for link := range linksA {
		if linksB[link] {
			shared++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return clamp01(float64(shared) / float64(union))
}

func linkSet(films []domain.FilmEntry) map[string]bool {
	set := make(map[string]bool, len(films))
	for _, film := range films {
		set[film.Link] = true
	}
	return set
}

// ratingCorrelation is Spearman rank correlation over films both users
// rated, normalized from [-1,1] to [0,1]. Fewer than two rated shared
// films make the correlation undefined, which contributes 0.
func ratingCorrelation(filmsA, filmsB []domain.FilmEntry) float64 {
	byLink := make(map[string]*float64, len(filmsB))
	for _, film := range filmsB {
		byLink[film.Link] = film.Rating
	}

	var ratingsA, ratingsB []float64
	for _, film := range filmsA {
		other, shared := byLink[film.Link]
		if !shared || film.Rating == nil || other == nil {
			continue
		}
		ratingsA = append(ratingsA, *film.Rating)
		ratingsB = append(ratingsB, *other)
	}

	if len(ratingsA) < 2 {
		return 0
	}

	rho := spearman(ratingsA, ratingsB)
	return clamp01((rho + 1) / 2)
}

// spearman computes tie-aware Spearman correlation as the Pearson
// correlation of fractional ranks. Zero variance on either side (all
// ties) makes the coefficient undefined and yields 0.
func spearman(a, b []float64) float64 {
	return pearson(fractionalRanks(a), fractionalRanks(b))
}

// fractionalRanks assigns 1-based ranks, averaging ranks across ties.
func fractionalRanks(values []float64) []float64 {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return values[order[i]] < values[order[j]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		// positions i..j share value; average their 1-based ranks
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

func pearson(a, b []float64) float64 {
	n := float64(len(a))
	if n == 0 {
		return 0
	}

	var meanA, meanB float64
	for i := range a {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= n
	meanB /= n

	var cov, varA, varB float64
	for i := range a {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}

	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

// blend folds the three components into the final integer percentage.
func blend(score domain.SimilarityScore, weights BlendWeights) int {
	sum := weights.Proportion*score.ProportionShared +
		weights.Correlation*score.RankCorrelation +
		weights.Overlap*score.AttributeOverlap
	return int(math.Round(100 * clamp01(sum)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
