package stealth

import (
	"context"
	"math/rand/v2"
	"time"
)

// DelayProfile defines a named delay configuration.
type DelayProfile string

const (
	ProfileCautious   DelayProfile = "cautious"
	ProfileNormal     DelayProfile = "normal"
	ProfileAggressive DelayProfile = "aggressive"
)

// HumanDelay adds randomized jitter to mimic human browsing patterns.
type HumanDelay struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// NewHumanDelay creates a delay generator for the given profile.
func NewHumanDelay(profile DelayProfile) *HumanDelay {
	switch profile {
	case ProfileCautious:
		return &HumanDelay{MinDelay: 2 * time.Second, MaxDelay: 5 * time.Second}
	case ProfileNormal:
		return &HumanDelay{MinDelay: 500 * time.Millisecond, MaxDelay: 2 * time.Second}
	default:
		// aggressive; an aggregate crawl can visit up to 1000 pages.
		return &HumanDelay{MinDelay: 50 * time.Millisecond, MaxDelay: 250 * time.Millisecond}
	}
}

// Wait sleeps for a random duration within the configured range.
func (h *HumanDelay) Wait(ctx context.Context) error {
	select {
	case <-time.After(h.requestDelay()):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *HumanDelay) requestDelay() time.Duration {
	if h.MinDelay >= h.MaxDelay {
		return h.MinDelay
	}
	return h.MinDelay + time.Duration(rand.Int64N(int64(h.MaxDelay-h.MinDelay)))
}
