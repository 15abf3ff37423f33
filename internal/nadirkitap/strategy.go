package nadirkitap

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one way of turning a result page URL into a parsed
// document. The static strategy is tried first; when the site serves a
// challenge page instead of results, the headless strategy takes over.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}
