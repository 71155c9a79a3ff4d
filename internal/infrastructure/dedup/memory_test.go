// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package dedup

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldProcessFirstThenDuplicate(t *testing.T) {
	d := NewMemoryDeduplicator(DefaultMaxEntries)
	ctx := context.Background()

	ok, err := d.ShouldProcess(ctx, "event-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.ShouldProcess(ctx, "event-1")
	require.NoError(t, err)
	assert.False(t, ok)

	// A different id is unaffected.
	ok, err = d.ShouldProcess(ctx, "event-2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestShouldProcessClearsAtCapacity(t *testing.T) {
	d := NewMemoryDeduplicator(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := d.ShouldProcess(ctx, fmt.Sprintf("event-%d", i))
		require.NoError(t, err)
		require.True(t, ok)
	}

	// The fourth distinct id trips the clear, dropping all recorded ids.
	ok, err := d.ShouldProcess(ctx, "event-3")
	require.NoError(t, err)
	assert.True(t, ok)

	// An id seen before the clear is processed again.
	ok, err = d.ShouldProcess(ctx, "event-0")
	require.NoError(t, err)
	assert.True(t, ok)

	// The id recorded after the clear is still deduplicated.
	ok, err = d.ShouldProcess(ctx, "event-3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewMemoryDeduplicatorDefaults(t *testing.T) {
	d := NewMemoryDeduplicator(0)
	assert.Equal(t, DefaultMaxEntries, d.maxEntries)

	d = NewMemoryDeduplicator(-5)
	assert.Equal(t, DefaultMaxEntries, d.maxEntries)

	d = NewMemoryDeduplicator(500)
	assert.Equal(t, 500, d.maxEntries)
}
