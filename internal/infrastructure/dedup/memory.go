// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

// Package dedup provides in-process webhook event deduplication.
package dedup

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultMaxEntries is the number of recorded event ids above which the set
// is cleared wholesale.
const DefaultMaxEntries = 10000

// MemoryDeduplicator is a bounded in-process dedup set. When the set grows
// past the configured maximum it is cleared entirely rather than evicted
// entry by entry; an event retried across that clear can be processed twice.
// State does not survive a restart, so this implementation is only suitable
// for a single instance. Multi-instance deployments use the KV-backed
// deduplicator instead.
type MemoryDeduplicator struct {
	mu         sync.Mutex
	seen       map[string]struct{}
	maxEntries int
}

// NewMemoryDeduplicator creates a new in-memory deduplicator. A non-positive
// maxEntries falls back to DefaultMaxEntries.
func NewMemoryDeduplicator(maxEntries int) *MemoryDeduplicator {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryDeduplicator{
		seen:       make(map[string]struct{}),
		maxEntries: maxEntries,
	}
}

// ShouldProcess implements [domain.EventDeduplicator]. It returns true and
// records the id on first sight, false on any subsequent call with the same
// id.
func (d *MemoryDeduplicator) ShouldProcess(ctx context.Context, eventID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[eventID]; ok {
		return false, nil
	}

	if len(d.seen) >= d.maxEntries {
		slog.WarnContext(ctx, "dedup set reached capacity, clearing all recorded event ids",
			"max_entries", d.maxEntries,
		)
		d.seen = make(map[string]struct{})
	}

	d.seen[eventID] = struct{}{}
	return true, nil
}
