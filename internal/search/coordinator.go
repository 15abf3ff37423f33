// Package search coordinates crawl invocations: it picks aggregate or
// fan-out mode, runs the bounded per-seller worker pool, accumulates
// results and feeds the persistence queue.
package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/okarabey/kitapara/internal/catalog"
	"github.com/okarabey/kitapara/internal/models"
	"github.com/okarabey/kitapara/internal/nadirkitap"
	"github.com/okarabey/kitapara/internal/progress"
	"golang.org/x/sync/errgroup"
)

// Saver is the persistence queue seam. Nil Saver disables auto-persist.
type Saver interface {
	EnqueueBatch(books []models.Book) error
}

// Events are the observer hooks a caller can attach to a search.
// Both are optional. RecordsReady delivers the full accumulated result
// set once the crawl is done; Finished always fires last, including on
// cancellation.
type Events struct {
	RecordsReady func(books []models.Book)
	Finished     func()
}

func (e Events) recordsReady(books []models.Book) {
	if e.RecordsReady != nil {
		e.RecordsReady(books)
	}
}

func (e Events) finished() {
	if e.Finished != nil {
		e.Finished()
	}
}

// Coordinator runs searches against a scraper and, optionally, streams
// results into a persistence queue.
type Coordinator struct {
	Scraper *nadirkitap.Scraper
	Catalog *catalog.Catalog

	// Queue receives extracted records in sub-batches when non-nil.
	Queue Saver

	MaxConcurrent int // fan-out worker limit, default 8
	BatchSize     int // persistence sub-batch size, default 50
	MaxResults    int // fan-out accumulator cap, default 10000
}

func (c *Coordinator) maxConcurrent() int {
	if c.MaxConcurrent <= 0 {
		return 8
	}
	return c.MaxConcurrent
}

func (c *Coordinator) batchSize() int {
	if c.BatchSize <= 0 {
		return 50
	}
	return c.BatchSize
}

func (c *Coordinator) maxResults() int {
	if c.MaxResults <= 0 {
		return 10000
	}
	return c.MaxResults
}

// Run executes one search. A city scope fans out across that city's
// sellers; otherwise a single aggregate crawl runs. Partial results are
// a valid outcome: cancellation and per-source failures shrink the
// result set, they never discard it.
func (c *Coordinator) Run(ctx context.Context, q models.Query, tok *Token, ev Events) []models.Book {
	if tok == nil {
		tok = NewToken()
	}
	defer ev.finished()

	var books []models.Book
	if q.City != "" {
		books = c.fanOut(ctx, q, tok)
	} else {
		books = c.aggregate(ctx, q, tok)
	}

	ev.recordsReady(books)
	return books
}

func (c *Coordinator) aggregate(ctx context.Context, q models.Query, tok *Token) []models.Book {
	progress.Report(ctx, "Starting search...")
	books := c.Scraper.SearchAll(ctx, q, tok)

	if c.Queue != nil && len(books) > 0 && !tok.Cancelled() {
		progress.Report(ctx, fmt.Sprintf("Saving %d books...", len(books)))
		c.enqueueChunks(ctx, books, tok)
	}
	return books
}

func (c *Coordinator) fanOut(ctx context.Context, q models.Query, tok *Token) []models.Book {
	sellers := c.Catalog.SellersInCity(q.City)
	if len(sellers) == 0 {
		progress.Report(ctx, fmt.Sprintf("No sellers found in %s.", q.City))
		return nil
	}
	progress.Report(ctx, fmt.Sprintf("Found %d sellers in %s.", len(sellers), q.City))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(c.maxConcurrent(), len(sellers)))

	var (
		mu        sync.Mutex
		all       []models.Book
		completed int
		truncated bool
	)

	for _, seller := range sellers {
		// With the limit set, g.Go blocks until a worker slot frees up,
		// so this check runs right before each task actually starts.
		if tok.Cancelled() {
			break
		}

		sellerID, ok := catalog.SellerID(seller.SellerURL)
		if !ok {
			continue
		}

		g.Go(func() error {
			if tok.Cancelled() {
				return nil
			}
			books := c.Scraper.SearchSeller(gctx, q, seller, sellerID, tok)

			if c.Queue != nil && len(books) > 0 {
				c.enqueueChunks(gctx, books, tok)
			}

			mu.Lock()
			completed++
			done := completed
			if room := c.maxResults() - len(all); room < len(books) {
				books = books[:max(room, 0)]
				if !truncated {
					truncated = true
					tok.Cancel()
					progress.Report(gctx, fmt.Sprintf("Result cap of %d reached, stopping remaining sellers.", c.maxResults()))
				}
			}
			all = append(all, books...)
			total := len(all)
			mu.Unlock()

			progress.Report(gctx, fmt.Sprintf("Seller %d/%d: %s: %d books (total %d)",
				done, len(sellers), seller.Name, len(books), total))
			return nil
		})
	}
	_ = g.Wait()

	if tok.Cancelled() && !truncated {
		progress.Report(ctx, fmt.Sprintf("Search stopped, keeping %d books gathered so far.", len(all)))
	} else {
		progress.Report(ctx, fmt.Sprintf("All sellers done. %d books found.", len(all)))
	}
	return all
}

// enqueueChunks submits records to the persistence queue in sub-batches
// so one large seller result does not land on the queue as a single
// burst. The token is checked before every sub-batch.
func (c *Coordinator) enqueueChunks(ctx context.Context, books []models.Book, tok *Token) {
	size := c.batchSize()
	for i := 0; i < len(books); i += size {
		if tok.Cancelled() {
			return
		}
		end := min(i+size, len(books))
		if err := c.Queue.EnqueueBatch(books[i:end]); err != nil {
			progress.Report(ctx, fmt.Sprintf("Persistence unavailable: %v", err))
			return
		}
	}
}
