// Package dedupe tracks processed decision keys for at-most-once learning.
package dedupe

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 50000

// Deduper records seen decision keys so a repeated decision submission does
// not double-apply a weight update.
type Deduper interface {
	// SeenAndRecord atomically checks whether key was seen and records it
	// if not. Returns true when the key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord removes a key so it can be retried. Used when a decision
	// was recorded but could not be enqueued.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// Key builds the dedupe key for a decision. The outcome is part of the key:
// a recruiter reversing a decision is a new signal, not a duplicate.
func Key(applicationID, outcome string) string {
	return strings.ToLower(applicationID + "|" + outcome)
}

// memoryDeduper is a bounded in-memory Deduper. Keys are kept in insertion
// order in a ring; when the bound is reached the oldest key is evicted.
// A non-positive maxSize disables eviction.
type memoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	oldest  int
	maxSize int
	size    atomic.Int64
}

// Option applies a configuration option to the deduper.
type Option func(*memoryDeduper)

// WithMaxSize bounds how many keys are kept before the oldest is evicted.
// Zero or negative disables the bound.
func WithMaxSize(n int) Option {
	return func(d *memoryDeduper) {
		d.maxSize = n
	}
}

// NewInMemoryDeduper creates a bounded in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &memoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.order = make([]string, 0, d.maxSize)
	}
	return d
}

func (d *memoryDeduper) SeenAndRecord(ctx context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}

	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.order = append(d.order, key)
	}
	d.seen[key] = struct{}{}
	d.size.Add(1)
	return false
}

func (d *memoryDeduper) Unrecord(ctx context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; !ok {
		return
	}
	delete(d.seen, key)
	d.size.Add(-1)
	// The stale order entry is skipped at eviction time.
}

// evictOldest drops insertion-order entries until one still live is removed.
// Must be called with d.mu held.
func (d *memoryDeduper) evictOldest() {
	for d.oldest < len(d.order) {
		key := d.order[d.oldest]
		d.oldest++
		if _, ok := d.seen[key]; ok {
			delete(d.seen, key)
			d.size.Add(-1)
			break
		}
	}
	// Compact once the consumed prefix dominates the slice.
	if d.oldest > 0 && d.oldest*2 >= len(d.order) {
		d.order = append(d.order[:0], d.order[d.oldest:]...)
		d.oldest = 0
	}
}

func (d *memoryDeduper) Size() int64 {
	return d.size.Load()
}
