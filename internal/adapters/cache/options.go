package cache

// Option applies a configuration option to the memo cache.
type Option func(*memoCache)

// WithMaxSize sets the maximum number of results to keep.
// If maxSize > 0: bounded mode, the oldest entry is evicted first.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(c *memoCache) {
		c.maxSize = maxSize
	}
}
