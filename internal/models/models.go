package models

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Book is one second-hand listing extracted from a result page.
type Book struct {
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	PriceText   string    `json:"price_text,omitempty"`
	Price       float64   `json:"price"`
	SellerName  string    `json:"seller_name,omitempty"`
	SellerURL   string    `json:"seller_url,omitempty"`
	URL         string    `json:"url,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	City        string    `json:"city,omitempty"`
	FoundAt     time.Time `json:"found_at,omitzero"`
}

// Fingerprint returns the dedup identity of the listing: an md5 over
// title, author and seller name. Two listings with the same fingerprint
// are the same book offer regardless of any other field.
func (b Book) Fingerprint() string {
	sum := md5.Sum([]byte(b.Title + b.Author + b.SellerName))
	return hex.EncodeToString(sum[:])
}

// Seller is one bookshop ("sahaf") endpoint from the seller catalog.
type Seller struct {
	Name      string `json:"name"`
	City      string `json:"city"`
	SellerURL string `json:"seller_url"`
}

// Category is one node of the category catalog.
type Category struct {
	ID            string        `json:"ana_kategori_id"`
	Name          string        `json:"ana_kategori_adi"`
	Subcategories []Subcategory `json:"alt_kategoriler"`
}

type Subcategory struct {
	ID   string `json:"kategori_id"`
	Name string `json:"kategori_adi"`
}

// SortOrder is the sort token the site accepts in its search URL.
type SortOrder string

const (
	SortPriceAsc   SortOrder = "fiyatartan."
	SortPriceDesc  SortOrder = "fiyatazalan."
	SortDateNewest SortOrder = "tarihyeni."
	SortDateOldest SortOrder = "tariheski."
)

// Valid reports whether the token is one the site understands.
func (s SortOrder) Valid() bool {
	switch s {
	case SortPriceAsc, SortPriceDesc, SortDateNewest, SortDateOldest:
		return true
	}
	return false
}

// Query describes one search invocation. Immutable once built.
type Query struct {
	Title         string
	Author        string
	CategoryID    string
	SubcategoryID string
	Sort          SortOrder

	// City selects fan-out mode: when non-empty the search runs against
	// every seller in that city instead of the aggregate endpoint.
	City string

	// Display names used to annotate extracted records.
	CategoryName    string
	SubcategoryName string
}
