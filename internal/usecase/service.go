package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"FilmBlend/internal/domain"
	"FilmBlend/internal/ports"
)

// ServiceDeps wires all driven adapters into the matching engine.
type ServiceDeps struct {
	Source  ports.ProfileSource
	Catalog ports.Catalog
	Images  ports.ImageSource
	Weights BlendWeights
	Logger  *slog.Logger
}

// Service is the matching engine exposed to the request-handling layer.
// It holds no per-request state; every operation is self-contained.
type Service struct {
	source  ports.ProfileSource
	catalog ports.Catalog
	images  ports.ImageSource
	weights BlendWeights
	logger  *slog.Logger
}

// NewService constructs the engine. Zero-valued weights fall back to
// the compiled defaults.
func NewService(deps ServiceDeps) *Service {
	weights := deps.Weights
	if weights == (BlendWeights{}) {
		weights = DefaultBlendWeights()
	}

	return &Service{
		source:  deps.Source,
		catalog: deps.Catalog,
		images:  deps.Images,
		weights: weights,
		logger:  deps.Logger,
	}
}

// ComputeCompatibility scores two users against each other. A user
// whose library cannot be scraped at all surfaces the scrape failure;
// callers never see a silent zero for a failed computation.
func (s *Service) ComputeCompatibility(ctx context.Context, userA, userB string) (domain.SimilarityScore, error) {
	filmsA, filmsB, err := s.bothLibraries(ctx, userA, userB)
	if err != nil {
		return domain.SimilarityScore{}, err
	}

	enrichedA, err := s.enrich(ctx, filmsA)
	if err != nil {
		return domain.SimilarityScore{}, fmt.Errorf("enrich %s: %w", userA, err)
	}
	enrichedB, err := s.enrich(ctx, filmsB)
	if err != nil {
		return domain.SimilarityScore{}, fmt.Errorf("enrich %s: %w", userB, err)
	}

	score := domain.SimilarityScore{
		ProportionShared: sharedProportion(filmsA, filmsB),
		RankCorrelation:  ratingCorrelation(filmsA, filmsB),
		AttributeOverlap: attributeOverlap(enrichedA, enrichedB),
	}
	score.Blended = blend(score, s.weights)

	s.debug("compatibility computed",
		"userA", userA, "userB", userB,
		"proportion", score.ProportionShared,
		"correlation", score.RankCorrelation,
		"overlap", score.AttributeOverlap,
		"blended", score.Blended)

	return score, nil
}

// PosterImage extracts the poster URL from a film page.
func (s *Service) PosterImage(ctx context.Context, filmURL string) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("image source is not configured")
	}
	return s.images.Poster(ctx, filmURL)
}

// AvatarImage extracts a user's avatar URL; empty means no avatar.
func (s *Service) AvatarImage(ctx context.Context, username string) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("image source is not configured")
	}
	return s.images.Avatar(ctx, username)
}

// bothLibraries fetches the two users' film libraries in parallel.
func (s *Service) bothLibraries(ctx context.Context, userA, userB string) ([]domain.FilmEntry, []domain.FilmEntry, error) {
	var filmsA, filmsB []domain.FilmEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		filmsA, err = s.source.Films(gctx, userA)
		return err
	})
	g.Go(func() error {
		var err error
		filmsB, err = s.source.Films(gctx, userB)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return filmsA, filmsB, nil
}

// enrich left-joins scraped films with the catalog. A missing record is
// a nil Catalog field, never a failure.
func (s *Service) enrich(ctx context.Context, films []domain.FilmEntry) ([]domain.EnrichedFilm, error) {
	enriched := make([]domain.EnrichedFilm, 0, len(films))
	for _, film := range films {
		record, err := s.catalog.Record(ctx, film.Link)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, domain.EnrichedFilm{FilmEntry: film, Catalog: record})
	}
	return enriched, nil
}

func (s *Service) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
