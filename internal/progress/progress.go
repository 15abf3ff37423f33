// Package progress carries a status-message callback through contexts
// so the crawl core stays free of any presentation concern. Progress is
// advisory and lossy; results never travel through it.
package progress

import "context"

// Func is a callback for reporting progress messages.
type Func func(msg string)

type key struct{}

// With returns a context carrying the given progress callback.
func With(ctx context.Context, fn Func) context.Context {
	return context.WithValue(ctx, key{}, fn)
}

// Report calls the progress callback in ctx, if any. Safe to call when
// no callback is set (e.g. MCP mode); it simply returns.
func Report(ctx context.Context, msg string) {
	if fn, ok := ctx.Value(key{}).(Func); ok && fn != nil {
		fn(msg)
	}
}
