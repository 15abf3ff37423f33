package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/okarabey/kitapara/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	// A file-backed database: the pool may open several connections
	// and each :memory: connection would get its own empty database.
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestInsertBooksDeduplicates(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first := models.Book{
		Title:      "Tutunamayanlar",
		Author:     "Oğuz Atay",
		SellerName: "Sahaf A",
		Price:      150,
		PriceText:  "150,00 TL",
	}
	// Same identity, different price. Only the first insert wins.
	second := first
	second.Price = 300
	second.PriceText = "300,00 TL"

	n, err := st.InsertBooks(ctx, []models.Book{first, second})
	if err != nil {
		t.Fatalf("InsertBooks: %v", err)
	}
	if n != 1 {
		t.Fatalf("inserted = %d, want 1", n)
	}

	// A second pass with the same records inserts nothing.
	n, err = st.InsertBooks(ctx, []models.Book{first, second})
	if err != nil {
		t.Fatalf("InsertBooks repeat: %v", err)
	}
	if n != 0 {
		t.Fatalf("repeat inserted = %d, want 0", n)
	}

	count, err := st.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestInsertBooksDistinctSellers(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	books := []models.Book{
		{Title: "İnce Memed", Author: "Yaşar Kemal", SellerName: "Sahaf A", Price: 90},
		{Title: "İnce Memed", Author: "Yaşar Kemal", SellerName: "Sahaf B", Price: 120},
	}
	n, err := st.InsertBooks(ctx, books)
	if err != nil {
		t.Fatalf("InsertBooks: %v", err)
	}
	if n != 2 {
		t.Fatalf("inserted = %d, want 2", n)
	}
}

func TestSearchLocal(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	books := []models.Book{
		{Title: "Kürk Mantolu Madonna", Author: "Sabahattin Ali", SellerName: "Sahaf A", City: "İstanbul", Price: 80},
		{Title: "İçimizdeki Şeytan", Author: "Sabahattin Ali", SellerName: "Sahaf B", City: "Ankara", Price: 120},
		{Title: "Saatleri Ayarlama Enstitüsü", Author: "Ahmet Hamdi Tanpınar", SellerName: "Sahaf A", City: "İstanbul", Price: 200},
	}
	if _, err := st.InsertBooks(ctx, books); err != nil {
		t.Fatalf("InsertBooks: %v", err)
	}

	got, err := st.SearchLocal(ctx, LocalFilter{Author: "Sabahattin"})
	if err != nil {
		t.Fatalf("SearchLocal: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("author filter: got %d rows, want 2", len(got))
	}

	got, err = st.SearchLocal(ctx, LocalFilter{City: "İstanbul", MaxPrice: 100})
	if err != nil {
		t.Fatalf("SearchLocal: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Kürk Mantolu Madonna" {
		t.Fatalf("city+price filter: got %+v", got)
	}

	got, err = st.SearchLocal(ctx, LocalFilter{Sort: models.SortPriceDesc})
	if err != nil {
		t.Fatalf("SearchLocal: %v", err)
	}
	if len(got) != 3 || got[0].Price != 200 {
		t.Fatalf("price sort: got %d rows, first price %v", len(got), got[0].Price)
	}
}

func TestBuildReport(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	books := []models.Book{
		{Title: "A", Author: "Yaşar Kemal", SellerName: "Sahaf A", City: "İzmir", Category: "Edebiyat", Price: 40},
		{Title: "B", Author: "Yaşar Kemal", SellerName: "Sahaf A", City: "İzmir", Category: "Edebiyat", Price: 60},
		{Title: "C", Author: "Oğuz Atay", SellerName: "Sahaf B", City: "Ankara", Category: "Edebiyat", Price: 600},
	}
	if _, err := st.InsertBooks(ctx, books); err != nil {
		t.Fatalf("InsertBooks: %v", err)
	}

	r, err := st.BuildReport(ctx, 5)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if r.TotalBooks != 3 {
		t.Errorf("TotalBooks = %d, want 3", r.TotalBooks)
	}
	if r.DistinctAuthors != 2 {
		t.Errorf("DistinctAuthors = %d, want 2", r.DistinctAuthors)
	}
	if r.DistinctSellers != 2 {
		t.Errorf("DistinctSellers = %d, want 2", r.DistinctSellers)
	}
	if len(r.TopAuthors) == 0 || r.TopAuthors[0].Author != "Yaşar Kemal" || r.TopAuthors[0].Books != 2 {
		t.Errorf("TopAuthors = %+v", r.TopAuthors)
	}
	if len(r.Cheapest) == 0 || r.Cheapest[0].Price != 40 {
		t.Errorf("Cheapest = %+v", r.Cheapest)
	}
	if len(r.MostExpensive) == 0 || r.MostExpensive[0].Price != 600 {
		t.Errorf("MostExpensive = %+v", r.MostExpensive)
	}
	var bandTotal int
	for _, b := range r.PriceBands {
		bandTotal += b.Books
	}
	if bandTotal != 3 {
		t.Errorf("price bands cover %d books, want 3", bandTotal)
	}
}
