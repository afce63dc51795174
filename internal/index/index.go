package index

import "sort"

const (
	// defaultCapacity is the initial map size when no hint is given.
	defaultCapacity = 64

	// estimatedBytesPerMapEntry approximates Go's per-entry map overhead
	// plus the pointer-sized value.
	estimatedBytesPerMapEntry = 40
)

// ReadOnly is the query-only view of an index.
type ReadOnly[T any] interface {
	// Get returns the entry stored under key.
	Get(key string) (T, bool)

	// Has reports whether key is present.
	Has(key string) bool

	// Len returns the number of entries.
	Len() int

	// Stats returns index statistics.
	Stats() Stats
}

// Stats reports index metrics.
type Stats struct {
	Count       int    // Number of entries
	BytesApprox int    // Approximate memory usage (best effort)
	Impl        string // Implementation name
}

// PathIndex is a map-based index keyed by full path.
type PathIndex[T any] struct {
	entries map[string]T
}

// New creates a PathIndex with an optional capacity hint.
func New[T any](capacity int) *PathIndex[T] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &PathIndex[T]{entries: make(map[string]T, capacity)}
}

// Insert stores v under key unless the key is already taken.
// Returns false when an entry already exists.
func (p *PathIndex[T]) Insert(key string, v T) bool {
	if _, exists := p.entries[key]; exists {
		return false
	}
	p.entries[key] = v
	return true
}

// Put stores v under key, replacing any existing entry.
func (p *PathIndex[T]) Put(key string, v T) {
	p.entries[key] = v
}

// Get implements ReadOnly.
func (p *PathIndex[T]) Get(key string) (T, bool) {
	v, ok := p.entries[key]
	return v, ok
}

// Has implements ReadOnly.
func (p *PathIndex[T]) Has(key string) bool {
	_, ok := p.entries[key]
	return ok
}

// Remove deletes the entry stored under key.
// Safe to call even if the entry doesn't exist.
func (p *PathIndex[T]) Remove(key string) {
	delete(p.entries, key)
}

// Len implements ReadOnly.
func (p *PathIndex[T]) Len() int {
	return len(p.entries)
}

// Keys returns all keys in sorted order.
func (p *PathIndex[T]) Keys() []string {
	keys := make([]string, 0, len(p.entries))
	for k := range p.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Reset drops every entry while keeping the allocated map.
func (p *PathIndex[T]) Reset() {
	clear(p.entries)
}

// Stats implements ReadOnly.
func (p *PathIndex[T]) Stats() Stats {
	bytes := 0
	for k := range p.entries {
		bytes += len(k) + estimatedBytesPerMapEntry
	}
	return Stats{
		Count:       len(p.entries),
		BytesApprox: bytes,
		Impl:        "PathIndex",
	}
}
