package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"FilmBlend/internal/config"
	"FilmBlend/internal/infrastructure/catalog"
	"FilmBlend/internal/infrastructure/fetch"
	"FilmBlend/internal/infrastructure/parser"
	"FilmBlend/internal/logging"
	"FilmBlend/internal/ports"
	"FilmBlend/internal/usecase"
)

// Application wires configuration to the matching engine.
type Application struct {
	cfg     config.Config
	service *usecase.Service
	closer  func() error
	logger  *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	fetcher := fetch.NewClient(
		&http.Client{Timeout: cfg.Platform.RequestTimeout.Std()},
		fetch.WithAttempts(cfg.Platform.RetryAttempts),
		fetch.WithRetryDelay(cfg.Platform.RetryDelay.Std()),
	)

	scraper := parser.NewScraper(fetcher, cfg.Platform.BaseURL, parser.ScraperOptions{
		PageRate: pageRate(cfg),
		Workers:  cfg.Platform.WatchlistWorkers,
	}, baseLogger.With("component", "scraper"))

	store, closer, err := buildCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	service := usecase.NewService(usecase.ServiceDeps{
		Source:  scraper,
		Catalog: store,
		Images:  parser.NewImages(fetcher, cfg.Platform.BaseURL),
		Weights: blendWeights(cfg.Blend),
		Logger:  baseLogger.With("component", "engine"),
	})

	return &Application{cfg: cfg, service: service, closer: closer, logger: baseLogger}, nil
}

// Service exposes the engine to the request-handling layer.
func (a *Application) Service() *usecase.Service {
	return a.service
}

// Run computes the blend between two users and logs the outcome; the
// HTTP layer in front of the engine is not part of this repository.
func (a *Application) Run(ctx context.Context, userA, userB string) error {
	score, err := a.service.ComputeCompatibility(ctx, userA, userB)
	if err != nil {
		return fmt.Errorf("compute compatibility: %w", err)
	}

	a.logger.Info("blend computed",
		"userA", userA, "userB", userB, "blend_percentage", score.Blended)

	common, err := a.service.TopCommonFilms(ctx, userA, userB, a.cfg.Blend.TopCommonCount)
	if err != nil {
		return fmt.Errorf("top common films: %w", err)
	}

	for _, film := range common {
		a.logger.Info("common film", "title", film.Title, "link", film.Link)
	}
	return nil
}

// Close releases held resources (the SQL catalog handle, if any).
func (a *Application) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer()
}

func buildCatalog(cfg config.CatalogConfig) (ports.Catalog, func() error, error) {
	if cfg.DSN != "" {
		store, err := catalog.OpenSQL(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}

	store, err := catalog.LoadCSV(cfg.CSVPath)
	if err != nil {
		return nil, nil, err
	}
	return store, nil, nil
}

func pageRate(cfg config.Config) rate.Limit {
	if cfg.Platform.PageDelay.Std() <= 0 {
		return 0
	}
	return rate.Every(cfg.Platform.PageDelay.Std())
}

func blendWeights(cfg config.BlendConfig) usecase.BlendWeights {
	weights := usecase.DefaultBlendWeights()
	if cfg.ProportionWeight > 0 {
		weights.Proportion = cfg.ProportionWeight
	}
	if cfg.CorrelationWeight > 0 {
		weights.Correlation = cfg.CorrelationWeight
	}
	if cfg.OverlapWeight > 0 {
		weights.Overlap = cfg.OverlapWeight
	}
	return weights
}
