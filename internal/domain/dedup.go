// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package domain

import "context"

// EventDeduplicator suppresses re-processing of previously seen webhook event
// identifiers. The first call for a given id returns true and records the id;
// subsequent calls for the same id return false. Implementations decide how
// long an id stays recorded.
type EventDeduplicator interface {
	ShouldProcess(ctx context.Context, eventID string) (bool, error)
}
