// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/logging"
)

// NatsDedupRepository deduplicates webhook events across service instances
// using a TTL-backed NATS KV bucket. An atomic Create marks the event id as
// seen; a second Create for the same id fails with ErrKeyExists, which marks
// the event as a duplicate. The bucket TTL bounds memory so there is no
// explicit eviction here.
type NatsDedupRepository struct {
	SeenEvents INatsKeyValue
}

// NewNatsDedupRepository creates a new KV-backed event deduplicator.
func NewNatsDedupRepository(seenEvents INatsKeyValue) *NatsDedupRepository {
	return &NatsDedupRepository{
		SeenEvents: seenEvents,
	}
}

// ShouldProcess implements [domain.EventDeduplicator].
func (s *NatsDedupRepository) ShouldProcess(ctx context.Context, eventID string) (bool, error) {
	if s.SeenEvents == nil {
		return false, domain.NewUnavailableError("webhook dedup repository is not available")
	}

	_, err := s.SeenEvents.Create(ctx, eventID, []byte{})
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			return false, nil
		}
		slog.ErrorContext(ctx, "error recording webhook event id in NATS KV", logging.ErrKey, err, "event_id", eventID)
		return false, domain.NewInternalError("failed to record webhook event id", err)
	}

	return true, nil
}

// Ensure NatsDedupRepository implements domain.EventDeduplicator
var _ domain.EventDeduplicator = (*NatsDedupRepository)(nil)
