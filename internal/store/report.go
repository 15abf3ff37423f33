package store

import (
	"context"
	"fmt"

	"github.com/okarabey/kitapara/internal/models"
)

// AuthorStat summarizes one author's listings.
type AuthorStat struct {
	Author   string  `json:"author"`
	Books    int     `json:"books"`
	AvgPrice float64 `json:"avg_price"`
	MinPrice float64 `json:"min_price"`
	MaxPrice float64 `json:"max_price"`
}

// GroupStat summarizes listings grouped by category, city or seller.
type GroupStat struct {
	Name     string  `json:"name"`
	Books    int     `json:"books"`
	AvgPrice float64 `json:"avg_price"`
}

// PriceBand is one bucket of the price histogram.
type PriceBand struct {
	Label   string  `json:"label"`
	Books   int     `json:"books"`
	Percent float64 `json:"percent"`
}

// Report is the read-only aggregate view over the persisted store.
type Report struct {
	TotalBooks      int           `json:"total_books"`
	DistinctAuthors int           `json:"distinct_authors"`
	DistinctSellers int           `json:"distinct_sellers"`
	TopAuthors      []AuthorStat  `json:"top_authors,omitempty"`
	Categories      []GroupStat   `json:"categories,omitempty"`
	Cities          []GroupStat   `json:"cities,omitempty"`
	Sellers         []GroupStat   `json:"sellers,omitempty"`
	PriceBands      []PriceBand   `json:"price_bands,omitempty"`
	Cheapest        []models.Book `json:"cheapest,omitempty"`
	MostExpensive   []models.Book `json:"most_expensive,omitempty"`
}

// BuildReport runs the aggregate queries. topN bounds every ranked
// section. All values travel as bind parameters.
func (s *Store) BuildReport(ctx context.Context, topN int) (*Report, error) {
	if topN <= 0 {
		topN = 10
	}
	r := &Report{}

	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM books`, &r.TotalBooks},
		{`SELECT COUNT(DISTINCT author) FROM books WHERE author != '' AND author IS NOT NULL`, &r.DistinctAuthors},
		{`SELECT COUNT(DISTINCT seller_name) FROM books WHERE seller_name != '' AND seller_name IS NOT NULL`, &r.DistinctSellers},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("report count: %w", err)
		}
	}

	var err error
	r.TopAuthors, err = s.topAuthors(ctx, topN)
	if err != nil {
		return nil, err
	}
	r.Categories, err = s.groupStats(ctx, "category", topN)
	if err != nil {
		return nil, err
	}
	r.Cities, err = s.groupStats(ctx, "city", topN)
	if err != nil {
		return nil, err
	}
	r.Sellers, err = s.groupStats(ctx, "seller_name", topN)
	if err != nil {
		return nil, err
	}
	r.PriceBands, err = s.priceBands(ctx)
	if err != nil {
		return nil, err
	}
	r.Cheapest, err = s.booksByPrice(ctx, "ASC", topN)
	if err != nil {
		return nil, err
	}
	r.MostExpensive, err = s.booksByPrice(ctx, "DESC", topN)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) topAuthors(ctx context.Context, topN int) ([]AuthorStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT author, COUNT(*) AS books,
		       AVG(price), MIN(price), MAX(price)
		FROM books
		WHERE author != '' AND author IS NOT NULL AND price > 0
		GROUP BY author
		ORDER BY books DESC
		LIMIT ?`, topN)
	if err != nil {
		return nil, fmt.Errorf("top authors: %w", err)
	}
	defer rows.Close()

	var out []AuthorStat
	for rows.Next() {
		var a AuthorStat
		if err := rows.Scan(&a.Author, &a.Books, &a.AvgPrice, &a.MinPrice, &a.MaxPrice); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// groupStats groups by one of a fixed set of columns. The column name
// is taken from a whitelist, never from input.
func (s *Store) groupStats(ctx context.Context, column string, topN int) ([]GroupStat, error) {
	switch column {
	case "category", "city", "seller_name":
	default:
		return nil, fmt.Errorf("unsupported group column %q", column)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+column+`, COUNT(*) AS books, AVG(price)
		FROM books
		WHERE `+column+` != '' AND `+column+` IS NOT NULL AND price > 0
		GROUP BY `+column+`
		ORDER BY books DESC
		LIMIT ?`, topN)
	if err != nil {
		return nil, fmt.Errorf("group by %s: %w", column, err)
	}
	defer rows.Close()

	var out []GroupStat
	for rows.Next() {
		var g GroupStat
		if err := rows.Scan(&g.Name, &g.Books, &g.AvgPrice); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) priceBands(ctx context.Context) ([]PriceBand, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			CASE
				WHEN price < 50 THEN '0-50'
				WHEN price < 100 THEN '50-100'
				WHEN price < 250 THEN '100-250'
				WHEN price < 500 THEN '250-500'
				WHEN price < 1000 THEN '500-1000'
				ELSE '1000+'
			END AS band,
			COUNT(*) AS books,
			ROUND(COUNT(*) * 100.0 / (SELECT COUNT(*) FROM books WHERE price > 0), 1) AS pct
		FROM books
		WHERE price > 0
		GROUP BY band
		ORDER BY MIN(price)`)
	if err != nil {
		return nil, fmt.Errorf("price bands: %w", err)
	}
	defer rows.Close()

	var out []PriceBand
	for rows.Next() {
		var b PriceBand
		if err := rows.Scan(&b.Label, &b.Books, &b.Percent); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) booksByPrice(ctx context.Context, direction string, topN int) ([]models.Book, error) {
	order := "ASC"
	if direction == "DESC" {
		order = "DESC"
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT title, author, seller_name, price, price_text
		FROM books
		WHERE price > 0
		ORDER BY price `+order+`
		LIMIT ?`, topN)
	if err != nil {
		return nil, fmt.Errorf("books by price: %w", err)
	}
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.Title, &b.Author, &b.SellerName, &b.Price, &b.PriceText); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
