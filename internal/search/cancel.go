package search

import "sync/atomic"

// Token is the cooperative cancellation flag for one search invocation.
// One writer (whoever decides to stop), many readers (the coordinator,
// every fetch task, the persistence producers). A fresh token is made
// per search; tokens are never reused across searches.
type Token struct {
	stopped atomic.Bool
}

func NewToken() *Token {
	return &Token{}
}

// Cancel requests a stop. In-flight requests finish; no new work starts
// after the flag is observed.
func (t *Token) Cancel() {
	t.stopped.Store(true)
}

// Cancelled reports whether a stop was requested.
func (t *Token) Cancelled() bool {
	return t.stopped.Load()
}
