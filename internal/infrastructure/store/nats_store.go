// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

// Package store provides NATS JetStream KV backed repositories.
package store

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"
)

// NATS Key-Value store bucket names.
const (
	// KVStoreNameParticipantSessions is the name of the KV store for participant sessions.
	KVStoreNameParticipantSessions = "participant-sessions"
	// KVStoreNameCallSummaries is the name of the KV store for call summaries.
	KVStoreNameCallSummaries = "call-summaries"
	// KVStoreNameWebhookDedup is the name of the TTL-backed KV store for webhook
	// event deduplication.
	KVStoreNameWebhookDedup = "webhook-dedup"
)

// tracerName is the instrumentation name for the store package.
const tracerName = "github.com/classtrack/attendance-service/internal/infrastructure/store"

// INatsKeyValue is the NATS KV interface needed by the repositories.
// It matches jetstream.KeyValue and allows for mocking in tests.
type INatsKeyValue interface {
	ListKeys(context.Context, ...jetstream.WatchOpt) (jetstream.KeyLister, error)
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(context.Context, string, []byte) (uint64, error)
	Create(ctx context.Context, key string, value []byte, opts ...jetstream.KVCreateOpt) (uint64, error)
	Update(context.Context, string, []byte, uint64) (uint64, error)
	Delete(context.Context, string, ...jetstream.KVDeleteOpt) error
}
