package nadirkitap

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/okarabey/kitapara/internal/models"
)

// stubStrategy serves pages from a fixed schedule of entry counts.
// Page N gets pages[N-1] entries; pages past the schedule are empty.
type stubStrategy struct {
	pages   []int
	fetched []int
	fail    map[int]bool
}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Fetch(_ context.Context, rawURL string) (*goquery.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	page, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil {
		return nil, err
	}
	s.fetched = append(s.fetched, page)
	if s.fail[page] {
		return nil, errors.New("stub failure")
	}
	n := 0
	if page >= 1 && page <= len(s.pages) {
		n = s.pages[page-1]
	}
	return goquery.NewDocumentFromReader(strings.NewReader(listingPage(n)))
}

func newStubScraper(stub *stubStrategy) *Scraper {
	return NewScraperWithStrategies(Options{
		BaseURL:      "http://stub.local",
		FullPageSize: 25,
		PageDelay:    -1,
	}, stub)
}

func TestSearchAllStopsOnShortPage(t *testing.T) {
	stub := &stubStrategy{pages: []int{25, 25, 24, 25}}
	s := newStubScraper(stub)

	books := s.SearchAll(context.Background(), models.Query{Title: "test"}, nil)

	if len(books) != 74 {
		t.Errorf("got %d books, want 74", len(books))
	}
	// A 24-entry page is the last one; page 4 is never requested.
	if len(stub.fetched) != 3 {
		t.Errorf("fetched pages %v, want 3 fetches", stub.fetched)
	}
}

func TestSearchAllContinuesOnFullPage(t *testing.T) {
	stub := &stubStrategy{pages: []int{25, 25, 0}}
	s := newStubScraper(stub)

	books := s.SearchAll(context.Background(), models.Query{Title: "test"}, nil)

	if len(books) != 50 {
		t.Errorf("got %d books, want 50", len(books))
	}
	if len(stub.fetched) != 3 {
		t.Errorf("fetched pages %v, want 3 fetches", stub.fetched)
	}
}

func TestSearchAllKeepsPagesBeforeFailure(t *testing.T) {
	stub := &stubStrategy{pages: []int{25, 25, 25}, fail: map[int]bool{2: true}}
	s := newStubScraper(stub)

	books := s.SearchAll(context.Background(), models.Query{Title: "test"}, nil)

	if len(books) != 25 {
		t.Errorf("got %d books, want 25 from the page before the failure", len(books))
	}
}

func TestSearchAllHonorsPageCap(t *testing.T) {
	stub := &stubStrategy{pages: []int{25, 25, 25, 25, 25}}
	s := NewScraperWithStrategies(Options{
		BaseURL:      "http://stub.local",
		MaxPages:     2,
		FullPageSize: 25,
		PageDelay:    -1,
	}, stub)

	books := s.SearchAll(context.Background(), models.Query{Title: "test"}, nil)
	if len(books) != 50 {
		t.Errorf("got %d books, want 50", len(books))
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}
	o.fillDefaults()
	if o.MaxPages != 1000 || o.MaxSellerPages != 100 || o.FullPageSize != 25 {
		t.Errorf("page limits = %d/%d/%d", o.MaxPages, o.MaxSellerPages, o.FullPageSize)
	}
	if o.PageDelay != 200*time.Millisecond {
		t.Errorf("PageDelay = %v, want 200ms", o.PageDelay)
	}

	o = Options{PageDelay: -1}
	o.fillDefaults()
	if o.PageDelay >= 0 {
		t.Errorf("PageDelay = %v, a negative value should stay disabled", o.PageDelay)
	}
}

type stubCanceler struct{ cancelled bool }

func (c *stubCanceler) Cancelled() bool { return c.cancelled }

func TestSearchAllStopsWhenCancelled(t *testing.T) {
	stub := &stubStrategy{pages: []int{25, 25}}
	s := newStubScraper(stub)

	books := s.SearchAll(context.Background(), models.Query{Title: "test"}, &stubCanceler{cancelled: true})
	if len(books) != 0 {
		t.Errorf("got %d books after pre-cancelled search, want 0", len(books))
	}
	if len(stub.fetched) != 0 {
		t.Errorf("fetched %v, want no fetches", stub.fetched)
	}
}

func TestSearchSeller(t *testing.T) {
	// Per-seller pagination does not treat a short page as the end;
	// it keeps going until a page comes back empty.
	stub := &stubStrategy{pages: []int{25, 10, 8}}
	s := newStubScraper(stub)

	seller := models.Seller{Name: "Sahaf Devri", City: "İzmir", SellerURL: "http://stub.local/sahaf7.html"}
	books := s.SearchSeller(context.Background(), models.Query{Title: "test"}, seller, "7", nil)

	if len(books) != 43 {
		t.Errorf("got %d books, want 43", len(books))
	}
	if len(stub.fetched) != 4 {
		t.Errorf("fetched pages %v, want 4 fetches", stub.fetched)
	}
	for _, b := range books {
		if b.SellerName != "Sahaf Devri" {
			t.Fatalf("SellerName = %q, want catalog name", b.SellerName)
		}
	}
}

func TestFetchPageFallsThroughStrategies(t *testing.T) {
	failing := &stubStrategy{fail: map[int]bool{1: true}}
	working := &stubStrategy{pages: []int{5}}
	s := NewScraperWithStrategies(Options{BaseURL: "http://stub.local"}, failing, working)

	books, err := s.FetchPage(context.Background(), models.Query{Title: "test", City: "Ankara"}, "0", 1)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if len(books) != 5 {
		t.Errorf("got %d books, want 5", len(books))
	}
	if books[0].City != "Ankara" {
		t.Errorf("City = %q, want query annotation", books[0].City)
	}
}
