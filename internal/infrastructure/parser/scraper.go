package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"FilmBlend/internal/domain"
	"FilmBlend/internal/infrastructure/fetch"
	"FilmBlend/internal/ports"
)

// Extraction selectors, v2 of the rule set. The platform publishes no
// schema for its markup, so these constants are the fragile edge of the
// whole system; when extraction silently returns nothing, diff the live
// pages against this block first.
const (
	selPagination     = "li.paginate-page"
	selPosterList     = "ul.poster-list > li"
	selPosterFilm     = "div[data-film-id]"
	selPosterTitle    = "img"
	selViewingData    = "p.poster-viewingdata"
	selLikeMarker     = "span.like"
	selDiaryEntry     = "a.edit-review-button"
	attrFilmID        = "data-film-id"
	attrTargetLink    = "data-target-link"
	attrDiaryTitle    = "data-film-name"
	attrDiaryRating   = "data-rating"
	attrDiaryDate     = "data-viewing-date"
	attrDiaryPoster   = "data-film-poster"
	thumbnailSegment  = "/image-150/"
	defaultWorkers    = 4
	defaultPagesLimit = 1
)

// Scraper turns a username into structured listing entries by walking
// every page of the requested listing kind.
type Scraper struct {
	fetcher *fetch.Client
	baseURL string
	pacer   *rate.Limiter
	workers int
	logger  *slog.Logger
}

var _ ports.ProfileSource = (*Scraper)(nil)

// ScraperOptions tunes pagination behavior.
type ScraperOptions struct {
	// PageRate paces sequential diary/films pagination; zero disables
	// pacing (tests).
	PageRate rate.Limit
	// Workers bounds concurrent watchlist page fetches.
	Workers int
}

// NewScraper wires the fetch client against the platform base URL.
func NewScraper(fetcher *fetch.Client, baseURL string, opts ScraperOptions, log *slog.Logger) *Scraper {
	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	pacer := rate.NewLimiter(rate.Inf, 1)
	if opts.PageRate > 0 {
		pacer = rate.NewLimiter(opts.PageRate, 1)
	}

	return &Scraper{
		fetcher: fetcher,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		pacer:   pacer,
		workers: workers,
		logger:  log,
	}
}

// Films scrapes the user's complete watched library.
func (s *Scraper) Films(ctx context.Context, username string) ([]domain.FilmEntry, error) {
	listing := fmt.Sprintf("%s/%s/films/", s.baseURL, username)

	var films []domain.FilmEntry
	err := s.walkSequential(ctx, listing, func(doc *goquery.Document) {
		films = append(films, parseFilmsPage(doc)...)
	})
	if err != nil {
		return nil, fmt.Errorf("films of %s: %w", username, err)
	}

	return films, nil
}

// Diary scrapes the user's dated viewing records.
func (s *Scraper) Diary(ctx context.Context, username string) ([]domain.DiaryEntry, error) {
	listing := fmt.Sprintf("%s/%s/films/diary/", s.baseURL, username)

	var entries []domain.DiaryEntry
	err := s.walkSequential(ctx, listing, func(doc *goquery.Document) {
		entries = append(entries, parseDiaryPage(doc)...)
	})
	if err != nil {
		return nil, fmt.Errorf("diary of %s: %w", username, err)
	}

	return entries, nil
}

// Watchlist scrapes the user's pending list. Pages beyond the first are
// fetched concurrently through a bounded pool; latency matters more here
// than the politeness applied to diary/films pagination.
func (s *Scraper) Watchlist(ctx context.Context, username string) ([]domain.FilmEntry, error) {
	listing := fmt.Sprintf("%s/%s/watchlist/", s.baseURL, username)

	first, err := s.fetcher.Document(ctx, listing)
	if err != nil {
		return nil, fmt.Errorf("watchlist of %s: %w", username, err)
	}

	pages := pageCount(first)
	perPage := make([][]domain.FilmEntry, pages)
	perPage[0] = parseWatchlistPage(first)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for page := 2; page <= pages; page++ {
		page := page
		g.Go(func() error {
			doc, err := s.fetcher.Document(gctx, pageURL(listing, page))
			if err != nil {
				s.warn("watchlist page skipped", "user", username, "page", page, "error", err)
				return nil
			}
			perPage[page-1] = parseWatchlistPage(doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("watchlist of %s: %w", username, err)
	}

	var films []domain.FilmEntry
	for _, batch := range perPage {
		films = append(films, batch...)
	}
	return films, nil
}

// walkSequential drives paced page-by-page fetching for a listing. The
// first page failing is fatal; later pages failing are skipped so the
// match still runs on whatever resolved.
func (s *Scraper) walkSequential(ctx context.Context, listing string, consume func(*goquery.Document)) error {
	first, err := s.fetcher.Document(ctx, listing)
	if err != nil {
		return err
	}

	pages := pageCount(first)
	consume(first)

	for page := 2; page <= pages; page++ {
		if err := s.pacer.Wait(ctx); err != nil {
			return err
		}

		doc, err := s.fetcher.Document(ctx, pageURL(listing, page))
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.warn("page skipped", "listing", listing, "page", page, "error", err)
			continue
		}
		consume(doc)
	}

	return nil
}

// pageCount reads the total page count from the pagination control of
// the first page; a listing without the control has exactly one page.
func pageCount(doc *goquery.Document) int {
	text := strings.TrimSpace(doc.Find(selPagination).Last().Find("a").Text())
	if text == "" {
		return defaultPagesLimit
	}

	pages, err := strconv.Atoi(text)
	if err != nil || pages < 1 {
		return defaultPagesLimit
	}
	return pages
}

func pageURL(listing string, page int) string {
	return fmt.Sprintf("%spage/%d/", listing, page)
}

func parseFilmsPage(doc *goquery.Document) []domain.FilmEntry {
	var films []domain.FilmEntry

	doc.Find(selPosterList).Each(func(_ int, li *goquery.Selection) {
		film, ok := parsePosterItem(li)
		if !ok {
			return
		}

		ratingText := strings.TrimSpace(li.Find(selViewingData).First().Text())
		film.Rating = TransformRating(ratingText)
		film.Liked = li.Find(selLikeMarker).Length() > 0

		films = append(films, film)
	})

	return films
}

func parseWatchlistPage(doc *goquery.Document) []domain.FilmEntry {
	var films []domain.FilmEntry

	doc.Find(selPosterList).Each(func(_ int, li *goquery.Selection) {
		if film, ok := parsePosterItem(li); ok {
			films = append(films, film)
		}
	})

	return films
}

// parsePosterItem extracts the fields shared by films and watchlist
// grids. Items missing any required field are dropped, not errors.
func parsePosterItem(li *goquery.Selection) (domain.FilmEntry, bool) {
	poster := li.Find(selPosterFilm).First()

	id, _ := poster.Attr(attrFilmID)
	link, _ := poster.Attr(attrTargetLink)
	title, _ := li.Find(selPosterTitle).First().Attr("alt")

	if id == "" || title == "" || link == "" {
		return domain.FilmEntry{}, false
	}

	return domain.FilmEntry{
		ID:    id,
		Title: title,
		Link:  normalizeLink(link),
	}, true
}

func parseDiaryPage(doc *goquery.Document) []domain.DiaryEntry {
	var entries []domain.DiaryEntry

	doc.Find(selDiaryEntry).Each(func(_ int, entry *goquery.Selection) {
		id, _ := entry.Attr(attrFilmID)
		title, _ := entry.Attr(attrDiaryTitle)
		link, _ := entry.Attr(attrDiaryPoster)
		if id == "" || title == "" || link == "" {
			return
		}

		date, _ := entry.Attr(attrDiaryDate)
		if strings.TrimSpace(date) == "" {
			date = domain.UnknownDate
		}

		entries = append(entries, domain.DiaryEntry{
			FilmEntry: domain.FilmEntry{
				ID:     id,
				Title:  title,
				Rating: diaryRating(entry),
				Link:   normalizeLink(link),
			},
			WatchedDate: date,
		})
	})

	return entries
}

// diaryRating reads the data-rating attribute, which carries doubled
// half-star units (1..10); "0" means unrated.
func diaryRating(entry *goquery.Selection) *float64 {
	raw, _ := entry.Attr(attrDiaryRating)
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return nil
	}

	halves, err := strconv.ParseFloat(raw, 64)
	if err != nil || halves < 1 || halves > 10 {
		return nil
	}

	stars := halves / 2
	return &stars
}

// normalizeLink strips the thumbnail-size path segment so the link
// matches the catalog's canonical keys.
func normalizeLink(link string) string {
	return strings.Replace(link, thumbnailSegment, "/", 1)
}

func (s *Scraper) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
