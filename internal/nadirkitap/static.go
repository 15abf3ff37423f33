package nadirkitap

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"github.com/okarabey/kitapara/internal/httputil"
)

// StaticStrategy fetches a result page over plain HTTP and parses it.
type StaticStrategy struct {
	client *http.Client
}

func NewStaticStrategy(client *http.Client) *StaticStrategy {
	return &StaticStrategy{client: client}
}

func (s *StaticStrategy) Name() string { return "static" }

func (s *StaticStrategy) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range httputil.BrowserHeaders() {
		req.Header[k] = v
	}

	resp, err := httputil.Get(s.client, req, 2)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Cloudflare answers challenges with 403/503; let the headless
	// strategy handle those.
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}
