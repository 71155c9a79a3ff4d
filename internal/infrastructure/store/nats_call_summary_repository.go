// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/models"
	"github.com/classtrack/attendance-service/internal/logging"
)

// NatsCallSummaryRepository is the NATS KV store repository for call summaries.
// Summaries are keyed by call id so each call can hold at most one summary.
type NatsCallSummaryRepository struct {
	CallSummaries INatsKeyValue
}

// NewNatsCallSummaryRepository creates a new NATS KV store repository for call summaries.
func NewNatsCallSummaryRepository(callSummaries INatsKeyValue) *NatsCallSummaryRepository {
	return &NatsCallSummaryRepository{
		CallSummaries: callSummaries,
	}
}

func (s *NatsCallSummaryRepository) get(ctx context.Context, callID string) (jetstream.KeyValueEntry, error) {
	return s.CallSummaries.Get(ctx, callID)
}

func (s *NatsCallSummaryRepository) unmarshal(ctx context.Context, entry jetstream.KeyValueEntry) (*models.CallSummary, error) {
	var summary models.CallSummary
	err := json.Unmarshal(entry.Value(), &summary)
	if err != nil {
		slog.ErrorContext(ctx, "error unmarshaling call summary", logging.ErrKey, err)
		return nil, err
	}

	return &summary, nil
}

// Create stores a new call summary. It fails with a conflict error when a
// summary already exists for the call.
func (s *NatsCallSummaryRepository) Create(ctx context.Context, summary *models.CallSummary) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "nats.kv.create",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "nats"),
			attribute.String("db.operation", "create"),
			attribute.String("db.nats.key", summary.CallID),
			attribute.String("db.nats.entity", "call_summary"),
		),
	)
	defer span.End()

	if s.CallSummaries == nil {
		err := domain.NewUnavailableError("call summary repository is not available")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if summary.UID == "" {
		summary.UID = uuid.New().String()
	}

	now := time.Now()
	summary.CreatedAt = &now

	summaryBytes, err := json.Marshal(summary)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling call summary", logging.ErrKey, err)
		err = domain.NewInternalError("failed to marshal call summary data", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	_, err = s.CallSummaries.Create(ctx, summary.CallID, summaryBytes)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyExists) {
			err = domain.NewConflictError(fmt.Sprintf("summary already exists for call '%s'", summary.CallID), err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "conflict")
			return err
		}
		slog.ErrorContext(ctx, "error storing call summary in NATS KV", logging.ErrKey, err)
		err = domain.NewInternalError("failed to store call summary in store", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *NatsCallSummaryRepository) GetByCallID(ctx context.Context, callID string) (*models.CallSummary, error) {
	if s.CallSummaries == nil {
		return nil, domain.NewUnavailableError("call summary repository is not available")
	}

	entry, err := s.get(ctx, callID)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("call summary for call '%s' not found", callID), err)
		}
		slog.ErrorContext(ctx, "error getting call summary from NATS KV", logging.ErrKey, err)
		return nil, domain.NewInternalError("failed to retrieve call summary from store", err)
	}

	summary, err := s.unmarshal(ctx, entry)
	if err != nil {
		return nil, domain.NewInternalError("failed to unmarshal call summary data", err)
	}

	return summary, nil
}

func (s *NatsCallSummaryRepository) ExistsByCallID(ctx context.Context, callID string) (bool, error) {
	if s.CallSummaries == nil {
		return false, domain.NewUnavailableError("call summary repository is not available")
	}

	_, err := s.get(ctx, callID)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return false, nil
		}
		return false, domain.NewInternalError("failed to check if call summary exists", err)
	}
	return true, nil
}

// Ensure NatsCallSummaryRepository implements domain.CallSummaryRepository
var _ domain.CallSummaryRepository = (*NatsCallSummaryRepository)(nil)
