package nadirkitap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// HeadlessStrategy renders a result page in a real browser. It exists
// for the Cloudflare interstitial the site occasionally serves to plain
// HTTP clients; a rendered page passes the JS challenge.
type HeadlessStrategy struct{}

func NewHeadlessStrategy() *HeadlessStrategy {
	return &HeadlessStrategy{}
}

func (h *HeadlessStrategy) Name() string { return "headless" }

func (h *HeadlessStrategy) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	page, cleanup, err := h.openPage(ctx, url)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	timedPage := page.Timeout(20 * time.Second)
	if err := timedPage.WaitStable(time.Second); err == nil {
		// Give a possible challenge redirect time to settle.
		_ = timedPage.WaitDOMStable(2*time.Second, 0.1)
	}

	htmlContent, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("get page HTML: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse rendered page: %w", err)
	}
	return doc, nil
}

func (h *HeadlessStrategy) openPage(ctx context.Context, pageURL string) (*rod.Page, func(), error) {
	l := launcher.New().Headless(true).Logger(io.Discard)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		browser.Close()
		return nil, nil, fmt.Errorf("open page: %w", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  1920,
		Height: 1080,
	})
	if err != nil {
		browser.Close()
		return nil, nil, fmt.Errorf("set viewport: %w", err)
	}

	cleanup := func() {
		page.Close()
		browser.Close()
		l.Cleanup()
	}

	return page, cleanup, nil
}
