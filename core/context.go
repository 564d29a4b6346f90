package core

import "context"

// Context keys for analysis options
type contextKey string

const bypassCacheKey contextKey = "bypassCache"

// WithCacheBypass marks ctx so cached sources go straight to the database.
func WithCacheBypass(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey, true)
}

// shouldBypassCache returns whether cache reads and writes are skipped for ctx
func shouldBypassCache(ctx context.Context) bool {
	val := ctx.Value(bypassCacheKey)
	if val == nil {
		return false // default: use the cache
	}
	bypass, ok := val.(bool)
	return ok && bypass
}
