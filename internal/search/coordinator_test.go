package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/okarabey/kitapara/internal/catalog"
	"github.com/okarabey/kitapara/internal/models"
	"github.com/okarabey/kitapara/internal/nadirkitap"
)

// sellerPages maps a satici id to the number of entries its single
// result page holds. Every seller has one page; page 2 is empty.
type fakeSite struct {
	mu      sync.Mutex
	pages   map[string]int
	fetches int

	// cancelAfter trips the token once this many fetches have been
	// served. Zero disables it.
	cancelAfter int
	tok         *Token
}

func (f *fakeSite) Name() string { return "fake" }

func (f *fakeSite) Fetch(_ context.Context, rawURL string) (*goquery.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	sellerID := u.Query().Get("satici")
	page, _ := strconv.Atoi(u.Query().Get("page"))

	f.mu.Lock()
	f.fetches++
	if f.cancelAfter > 0 && f.fetches >= f.cancelAfter {
		f.tok.Cancel()
	}
	n := 0
	if page == 1 {
		n = f.pages[sellerID]
	}
	f.mu.Unlock()

	return goquery.NewDocumentFromReader(strings.NewReader(resultPage(sellerID, n)))
}

func resultPage(sellerID string, n int) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><div class="list-cell"><ul class="product-list">`)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, `<li><h4 class="break-work"><a href="/kitap/s%s-k%d.html"><span>Sefiller cilt %d</span></a></h4>`, sellerID, i, i+1)
		fmt.Fprintf(&sb, `<div class="product-list-price">%d,50 TL</div></li>`, 40+i)
	}
	sb.WriteString(`</ul></div></body></html>`)
	return sb.String()
}

// captureSaver records every batch handed to the persistence queue.
type captureSaver struct {
	mu      sync.Mutex
	batches [][]models.Book
}

func (s *captureSaver) EnqueueBatch(books []models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]models.Book, len(books))
	copy(copied, books)
	s.batches = append(s.batches, copied)
	return nil
}

func (s *captureSaver) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func testCatalog(n int) *catalog.Catalog {
	c := &catalog.Catalog{}
	for i := 1; i <= n; i++ {
		c.Sellers = append(c.Sellers, models.Seller{
			Name:      fmt.Sprintf("Sahaf %d", i),
			City:      "İzmir",
			SellerURL: fmt.Sprintf("https://www.nadirkitap.com/sahaf%d.html", i),
		})
	}
	return c
}

func newTestCoordinator(site *fakeSite, cat *catalog.Catalog, saver Saver) *Coordinator {
	return &Coordinator{
		Scraper: nadirkitap.NewScraperWithStrategies(nadirkitap.Options{
			BaseURL:   "http://fake.local",
			PageDelay: -1,
		}, site),
		Catalog: cat,
		Queue:   saver,
	}
}

func TestRunFanOut(t *testing.T) {
	site := &fakeSite{pages: map[string]int{"1": 5, "2": 3}}
	saver := &captureSaver{}
	co := newTestCoordinator(site, testCatalog(2), saver)

	var finished bool
	books := co.Run(context.Background(), models.Query{Title: "Sefiller", City: "İzmir"}, nil, Events{
		Finished: func() { finished = true },
	})

	if len(books) != 8 {
		t.Fatalf("got %d books, want 8", len(books))
	}
	if !finished {
		t.Error("Finished event did not fire")
	}
	if saver.total() != 8 {
		t.Errorf("persisted %d books, want 8", saver.total())
	}
	for _, b := range books {
		if b.City != "İzmir" {
			t.Fatalf("City = %q, want İzmir", b.City)
		}
		if !strings.HasPrefix(b.SellerName, "Sahaf ") {
			t.Fatalf("SellerName = %q, want catalog name", b.SellerName)
		}
		if b.Price < 40 {
			t.Fatalf("Price = %v, want a parsed value", b.Price)
		}
	}
}

func TestRunFanOutCancellation(t *testing.T) {
	// Ten sellers with five entries each. One worker serializes the
	// fan-out; each completed seller costs two fetches (its page and
	// the empty page after it). The token trips during the third
	// seller's first page, so sellers one and two finish, seller three
	// keeps its page already in hand and the rest never start.
	site := &fakeSite{pages: map[string]int{}, cancelAfter: 5, tok: NewToken()}
	for i := 1; i <= 10; i++ {
		site.pages[strconv.Itoa(i)] = 5
	}
	saver := &captureSaver{}
	co := newTestCoordinator(site, testCatalog(10), saver)
	co.MaxConcurrent = 1

	books := co.Run(context.Background(), models.Query{Title: "Sefiller", City: "İzmir"}, site.tok, Events{})

	if len(books) != 15 {
		t.Errorf("got %d books, want 15 from the three started sellers", len(books))
	}
	if site.fetches != 5 {
		t.Errorf("fetches = %d, want 5 (no new pages after cancellation)", site.fetches)
	}
}

func TestRunFanOutNoSellers(t *testing.T) {
	site := &fakeSite{pages: map[string]int{}}
	co := newTestCoordinator(site, testCatalog(2), nil)

	books := co.Run(context.Background(), models.Query{Title: "Sefiller", City: "Eskişehir"}, nil, Events{})
	if books != nil {
		t.Errorf("got %d books for a city with no sellers, want none", len(books))
	}
	if site.fetches != 0 {
		t.Errorf("fetches = %d, want 0", site.fetches)
	}
}

func TestRunAggregate(t *testing.T) {
	// An empty city routes the query to the combined endpoint.
	site := &fakeSite{pages: map[string]int{"0": 8}}
	saver := &captureSaver{}
	co := newTestCoordinator(site, testCatalog(0), saver)

	books := co.Run(context.Background(), models.Query{Title: "Sefiller"}, nil, Events{})
	if len(books) != 8 {
		t.Fatalf("got %d books, want 8", len(books))
	}
	if saver.total() != 8 {
		t.Errorf("persisted %d books, want 8", saver.total())
	}
}

func TestRunResultCap(t *testing.T) {
	site := &fakeSite{pages: map[string]int{"1": 5, "2": 5, "3": 5}}
	co := newTestCoordinator(site, testCatalog(3), nil)
	co.MaxConcurrent = 1
	co.MaxResults = 7

	books := co.Run(context.Background(), models.Query{Title: "Sefiller", City: "İzmir"}, nil, Events{})
	if len(books) != 7 {
		t.Errorf("got %d books, want the cap of 7", len(books))
	}
}
