// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	pool := NewWorkerPool(2)

	var counter atomic.Int32
	increment := func() error {
		counter.Add(1)
		return nil
	}

	err := pool.Run(context.Background(), increment, increment, increment)
	assert.NoError(t, err)
	assert.Equal(t, int32(3), counter.Load())
}

func TestRunReturnsFirstError(t *testing.T) {
	pool := NewWorkerPool(1)

	expected := errors.New("boom")
	err := pool.Run(context.Background(),
		func() error { return nil },
		func() error { return expected },
	)
	assert.ErrorIs(t, err, expected)
}

func TestRunNoFunctions(t *testing.T) {
	pool := NewWorkerPool(2)
	assert.NoError(t, pool.Run(context.Background()))
}

func TestRunAllCollectsAllErrors(t *testing.T) {
	pool := NewWorkerPool(2)

	var counter atomic.Int32
	errs := pool.RunAll(context.Background(),
		func() error { counter.Add(1); return errors.New("first") },
		func() error { counter.Add(1); return nil },
		func() error { counter.Add(1); return errors.New("second") },
	)

	// Every function ran despite the failures.
	assert.Equal(t, int32(3), counter.Load())
	assert.Len(t, errs, 2)
}

func TestRunAllNoErrors(t *testing.T) {
	pool := NewWorkerPool(2)

	errs := pool.RunAll(context.Background(),
		func() error { return nil },
		func() error { return nil },
	)
	assert.Empty(t, errs)
}

func TestRunAllCancelledContext(t *testing.T) {
	pool := NewWorkerPool(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errs := pool.RunAll(ctx, func() error { return nil })
	assert.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestNewWorkerPoolMinimumWorkers(t *testing.T) {
	pool := NewWorkerPool(0)
	assert.Equal(t, 1, pool.workerCount)

	pool = NewWorkerPool(-3)
	assert.Equal(t, 1, pool.workerCount)
}
