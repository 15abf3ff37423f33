// Package nadirkitap crawls nadirkitap.com search results: it builds
// the paginated search URLs, fetches pages through a static-first /
// headless-fallback strategy chain and extracts structured listings.
package nadirkitap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okarabey/kitapara/internal/models"
	"github.com/okarabey/kitapara/internal/progress"
)

// Canceler is the cooperative stop flag consulted before any new page
// fetch starts. It never interrupts a request already in flight.
type Canceler interface {
	Cancelled() bool
}

// Options bound a crawl. Zero values fall back to the site's practical
// limits.
type Options struct {
	BaseURL        string
	MaxPages       int           // aggregate mode page cap
	MaxSellerPages int           // per-seller page cap
	FullPageSize   int           // a page below this size is the last one
	PageDelay      time.Duration // aggregate mode inter-page throttle; negative disables it
}

func (o *Options) fillDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = "https://www.nadirkitap.com"
	}
	if o.MaxPages <= 0 {
		o.MaxPages = 1000
	}
	if o.MaxSellerPages <= 0 {
		o.MaxSellerPages = 100
	}
	if o.FullPageSize <= 0 {
		o.FullPageSize = 25
	}
	if o.PageDelay == 0 {
		o.PageDelay = 200 * time.Millisecond
	}
}

// Scraper drives paginated searches against one nadirkitap deployment.
type Scraper struct {
	opts       Options
	strategies []Strategy
}

// NewScraper builds a scraper with the full strategy chain.
func NewScraper(client *http.Client, opts Options) *Scraper {
	opts.fillDefaults()
	return &Scraper{
		opts: opts,
		strategies: []Strategy{
			NewStaticStrategy(client),
			NewHeadlessStrategy(),
		},
	}
}

// NewScraperWithStrategies is for callers (and tests) that need to
// control the fetch chain.
func NewScraperWithStrategies(opts Options, strategies ...Strategy) *Scraper {
	opts.fillDefaults()
	return &Scraper{opts: opts, strategies: strategies}
}

// FetchPage fetches and extracts one result page. Strategies are tried
// in order; the first parsed document wins. Records are annotated with
// the query's category and city context before being returned.
func (s *Scraper) FetchPage(ctx context.Context, q models.Query, sellerID string, page int) ([]models.Book, error) {
	url := BuildSearchURL(s.opts.BaseURL, q, sellerID, page)

	var lastErr error
	for _, strat := range s.strategies {
		doc, err := strat.Fetch(ctx, url)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		books := ExtractBooks(doc, s.opts.BaseURL)
		for i := range books {
			books[i].Category = q.CategoryName
			books[i].Subcategory = q.SubcategoryName
			books[i].City = q.City
		}
		return books, nil
	}
	return nil, fmt.Errorf("page %d: all strategies failed: %w", page, lastErr)
}

// SearchAll runs the aggregate search: one sequential loop over the
// combined endpoint. It stops on cancellation, on a transport failure
// (keeping earlier pages), on an empty page, or on a page smaller than
// a full page. A fixed delay separates page fetches.
func (s *Scraper) SearchAll(ctx context.Context, q models.Query, cancel Canceler) []models.Book {
	var all []models.Book
	for page := 1; page <= s.opts.MaxPages; page++ {
		if cancelled(cancel) || ctx.Err() != nil {
			progress.Report(ctx, "Search stopped.")
			break
		}

		progress.Report(ctx, fmt.Sprintf("Fetching page %d...", page))
		books, err := s.FetchPage(ctx, q, aggregateSellerID, page)
		if err != nil {
			progress.Report(ctx, fmt.Sprintf("Page %d failed: %v", page, err))
			break
		}
		if len(books) == 0 {
			break
		}

		all = append(all, books...)
		progress.Report(ctx, fmt.Sprintf("Page %d done: %d books (total %d)", page, len(books), len(all)))

		// A short page means there is no next page.
		if len(books) < s.opts.FullPageSize {
			break
		}

		if s.opts.PageDelay > 0 {
			select {
			case <-ctx.Done():
				return all
			case <-time.After(s.opts.PageDelay):
			}
		}
	}
	return all
}

// SearchSeller runs the per-seller pagination loop used by fan-out
// searches. The page cap is lower and there is no inter-page delay;
// parallelism across sellers is the throttle. Extracted records carry
// the catalog's seller identity, which is authoritative over whatever
// the page shows.
func (s *Scraper) SearchSeller(ctx context.Context, q models.Query, seller models.Seller, sellerID string, cancel Canceler) []models.Book {
	var all []models.Book
	for page := 1; page <= s.opts.MaxSellerPages; page++ {
		if cancelled(cancel) || ctx.Err() != nil {
			break
		}

		books, err := s.FetchPage(ctx, q, sellerID, page)
		if err != nil || len(books) == 0 {
			break
		}

		for i := range books {
			books[i].SellerName = seller.Name
			if books[i].SellerURL == "" {
				books[i].SellerURL = seller.SellerURL
			}
		}
		all = append(all, books...)
	}
	return all
}

func cancelled(c Canceler) bool {
	return c != nil && c.Cancelled()
}
