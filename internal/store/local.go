package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/okarabey/kitapara/internal/models"
)

const localSearchLimit = 1000

// LocalFilter narrows a search over the persisted store. Empty
// fields match everything.
type LocalFilter struct {
	Title    string
	Author   string
	Seller   string
	City     string
	MaxPrice float64
	Sort     models.SortOrder
}

// localSortColumns maps the public sort tokens onto ORDER BY clauses.
// Only values from this table ever reach the SQL text.
var localSortColumns = map[models.SortOrder]string{
	models.SortPriceAsc:   "price ASC",
	models.SortPriceDesc:  "price DESC",
	models.SortDateNewest: "found_at DESC",
	models.SortDateOldest: "found_at ASC",
}

// SearchLocal queries the store with LIKE filters. Results are capped
// at 1000 rows.
func (s *Store) SearchLocal(ctx context.Context, f LocalFilter) ([]models.Book, error) {
	var (
		where []string
		args  []any
	)
	like := func(column, term string) {
		where = append(where, column+" LIKE ?")
		args = append(args, "%"+term+"%")
	}
	if f.Title != "" {
		like("title", f.Title)
	}
	if f.Author != "" {
		like("author", f.Author)
	}
	if f.Seller != "" {
		like("seller_name", f.Seller)
	}
	if f.City != "" {
		like("city", f.City)
	}
	if f.MaxPrice > 0 {
		where = append(where, "price > 0 AND price <= ?")
		args = append(args, f.MaxPrice)
	}

	query := `SELECT title, author, seller_name, seller_url, price, price_text,
		url, description, category, subcategory, city, found_at FROM books`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	order, ok := localSortColumns[f.Sort]
	if !ok {
		order = "found_at DESC"
	}
	query += " ORDER BY " + order
	query += fmt.Sprintf(" LIMIT %d", localSearchLimit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("local search: %w", err)
	}
	defer rows.Close()

	var out []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.Title, &b.Author, &b.SellerName, &b.SellerURL,
			&b.Price, &b.PriceText, &b.URL, &b.Description,
			&b.Category, &b.Subcategory, &b.City, &b.FoundAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
