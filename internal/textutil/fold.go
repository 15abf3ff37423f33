// Package textutil holds the pure text transforms the crawl pipeline
// needs: Turkish character folding for query terms, price string
// parsing, and an explicit Turkish collation for display sorting.
package textutil

import (
	"net/url"
	"strings"
)

// turkishFold maps each Turkish letter to its closest ASCII equivalent,
// both cases. The site's search endpoint matches folded terms more
// reliably than the originals.
var turkishFold = strings.NewReplacer(
	"ç", "c", "Ç", "C",
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ö", "o", "Ö", "O",
	"ş", "s", "Ş", "S",
	"ü", "u", "Ü", "U",
)

// FoldTurkish converts Turkish letters to their ASCII equivalents.
// Already-ASCII input passes through unchanged.
func FoldTurkish(s string) string {
	return turkishFold.Replace(s)
}

// EncodeTerm folds a free-text search term and percent-encodes it for
// use in a query string. Empty input stays empty.
func EncodeTerm(s string) string {
	if s == "" {
		return ""
	}
	return url.QueryEscape(FoldTurkish(s))
}
