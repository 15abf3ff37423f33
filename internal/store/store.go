// Package store persists listings into SQLite. The fingerprint UNIQUE
// constraint is the only dedup mechanism: inserts are INSERT OR IGNORE
// and rows are never updated in place, so concurrent writers need no
// coordination beyond the database itself.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/okarabey/kitapara/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS books (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint TEXT UNIQUE,
	title       TEXT,
	author      TEXT,
	seller_name TEXT,
	seller_url  TEXT,
	price       REAL,
	price_text  TEXT,
	url         TEXT,
	description TEXT,
	category    TEXT,
	subcategory TEXT,
	city        TEXT,
	found_at    DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_books_author ON books(author);
CREATE INDEX IF NOT EXISTS idx_books_city ON books(city);
`

// Store wraps the SQLite database holding persisted listings.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the listings database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertBooks writes a batch in one transaction, skipping rows whose
// fingerprint already exists. It returns the number of rows actually
// inserted; duplicates are not errors.
func (s *Store) InsertBooks(ctx context.Context, books []models.Book) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin batch tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO books
		(fingerprint, title, author, seller_name, seller_url, price, price_text, url, description, category, subcategory, city)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, b := range books {
		res, err := stmt.ExecContext(ctx,
			b.Fingerprint(), b.Title, b.Author, b.SellerName, b.SellerURL,
			b.Price, b.PriceText, b.URL, b.Description, b.Category, b.Subcategory, b.City)
		if err != nil {
			return 0, fmt.Errorf("insert %q: %w", b.Title, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit batch (%d books): %w", len(books), err)
	}
	return inserted, nil
}

// Count returns the number of persisted listings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&n)
	return n, err
}
