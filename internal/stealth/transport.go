package stealth

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// PolitenessTransport is an http.RoundTripper that applies the full
// politeness pipeline: Fingerprint → RobotsCheck → RateLimiter →
// HumanDelay → Proxy → Send.
type PolitenessTransport struct {
	Base        http.RoundTripper
	Robots      *RobotsChecker
	Fingerprint *FingerprintPool
	Proxy       *ProxyRotator
	Delay       *HumanDelay
	RateLimiter *rate.Limiter
}

func (t *PolitenessTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Borrow a browser identity for this request.
	fp := t.Fingerprint.Next()
	req.Header.Set("User-Agent", fp.UserAgent)
	for key, vals := range fp.Headers {
		if req.Header.Get(key) == "" {
			for _, v := range vals {
				req.Header.Add(key, v)
			}
		}
	}

	// robots.txt gate, cached per domain.
	if t.Robots != nil {
		allowed, err := t.Robots.IsAllowed(fp.UserAgent, req.URL.String())
		if err == nil && !allowed {
			return nil, fmt.Errorf("blocked by robots.txt: %s", req.URL.Path)
		}
	}

	// Global request rate.
	if t.RateLimiter != nil {
		if err := t.RateLimiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	// Jittered pause so request spacing is not mechanical.
	if t.Delay != nil {
		if err := t.Delay.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("delay: %w", err)
		}
	}

	// Rotate the egress path when a proxy list is loaded.
	transport := t.Base
	if t.Proxy != nil {
		transport = t.Proxy.Next()
	}
	if transport == nil {
		transport = http.DefaultTransport
	}

	return transport.RoundTrip(req)
}
