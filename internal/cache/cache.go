// Package cache persists rendered pages between builds so unchanged
// sources can be skipped.
package cache

// Entry is one cached page render.
type Entry struct {
	// Hash identifies the source content that produced Body.
	Hash string
	Body string
	// Meta holds the page's encoded metadata map, so layouts render
	// identically whether the page came from the compiler or the cache.
	Meta string
	// Toc holds the page's encoded table-of-contents entries, so nav
	// can be rebuilt without re-evaluating the page.
	Toc string
	// Refs holds the page's encoded reference targets.
	Refs string
}

// Cache is the interface for page persistence.
type Cache interface {
	// Get retrieves an entry by slug. Returns nil if not found.
	Get(slug string) (*Entry, error)
	// Put stores an entry by slug, overwriting if it exists.
	Put(slug string, e Entry) error
	// Delete removes an entry by slug.
	Delete(slug string) error
	// Close releases resources.
	Close() error
}
