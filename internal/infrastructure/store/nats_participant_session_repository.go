// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
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

// NatsParticipantSessionRepository is the NATS KV store repository for participant sessions.
type NatsParticipantSessionRepository struct {
	ParticipantSessions INatsKeyValue
}

// NewNatsParticipantSessionRepository creates a new NATS KV store repository for participant sessions.
func NewNatsParticipantSessionRepository(participantSessions INatsKeyValue) *NatsParticipantSessionRepository {
	return &NatsParticipantSessionRepository{
		ParticipantSessions: participantSessions,
	}
}

func (s *NatsParticipantSessionRepository) get(ctx context.Context, sessionUID string) (jetstream.KeyValueEntry, error) {
	return s.ParticipantSessions.Get(ctx, sessionUID)
}

func (s *NatsParticipantSessionRepository) unmarshal(ctx context.Context, entry jetstream.KeyValueEntry) (*models.ParticipantSession, error) {
	var session models.ParticipantSession
	err := json.Unmarshal(entry.Value(), &session)
	if err != nil {
		slog.ErrorContext(ctx, "error unmarshaling participant session", logging.ErrKey, err)
		return nil, err
	}

	return &session, nil
}

func (s *NatsParticipantSessionRepository) Get(ctx context.Context, sessionUID string) (*models.ParticipantSession, error) {
	session, _, err := s.GetWithRevision(ctx, sessionUID)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *NatsParticipantSessionRepository) GetWithRevision(ctx context.Context, sessionUID string) (*models.ParticipantSession, uint64, error) {
	entry, err := s.get(ctx, sessionUID)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, 0, domain.NewNotFoundError(fmt.Sprintf("participant session with UID '%s' not found", sessionUID), err)
		}
		slog.ErrorContext(ctx, "error getting participant session from NATS KV", logging.ErrKey, err)
		return nil, 0, domain.NewInternalError("failed to retrieve participant session from store", err)
	}

	session, err := s.unmarshal(ctx, entry)
	if err != nil {
		return nil, 0, domain.NewInternalError("failed to unmarshal participant session data", err)
	}

	return session, entry.Revision(), nil
}

func (s *NatsParticipantSessionRepository) Create(ctx context.Context, session *models.ParticipantSession) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "nats.kv.put",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "nats"),
			attribute.String("db.operation", "put"),
			attribute.String("db.nats.entity", "participant_session"),
		),
	)
	defer span.End()

	if s.ParticipantSessions == nil {
		err := domain.NewUnavailableError("participant session repository is not available")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if session.UID == "" {
		session.UID = uuid.New().String()
	}

	now := time.Now()
	session.CreatedAt = &now
	session.UpdatedAt = &now

	sessionBytes, err := json.Marshal(session)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling participant session", logging.ErrKey, err)
		err = domain.NewInternalError("failed to marshal participant session data", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	_, err = s.ParticipantSessions.Put(ctx, session.UID, sessionBytes)
	if err != nil {
		slog.ErrorContext(ctx, "error storing participant session in NATS KV", logging.ErrKey, err)
		err = domain.NewInternalError("failed to store participant session in store", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *NatsParticipantSessionRepository) Update(ctx context.Context, session *models.ParticipantSession, revision uint64) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "nats.kv.update",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "nats"),
			attribute.String("db.operation", "update"),
			attribute.String("db.nats.key", session.UID),
			attribute.String("db.nats.entity", "participant_session"),
			attribute.Int64("db.nats.revision", int64(revision)),
		),
	)
	defer span.End()

	if s.ParticipantSessions == nil {
		err := domain.NewUnavailableError("participant session repository is not available")
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	now := time.Now()
	session.UpdatedAt = &now

	sessionBytes, err := json.Marshal(session)
	if err != nil {
		slog.ErrorContext(ctx, "error marshaling participant session", logging.ErrKey, err)
		err = domain.NewInternalError("failed to marshal participant session data", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	_, err = s.ParticipantSessions.Update(ctx, session.UID, sessionBytes, revision)
	if err != nil {
		if strings.Contains(err.Error(), "wrong last sequence") {
			err = domain.NewConflictError("participant session has been modified by another process", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "conflict")
			return err
		}
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			err = domain.NewNotFoundError("participant session not found", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "not found")
			return err
		}
		slog.ErrorContext(ctx, "error updating participant session in NATS KV", logging.ErrKey, err)
		err = domain.NewInternalError("failed to update participant session in store", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListByCall returns every session recorded for the given call, open or closed.
func (s *NatsParticipantSessionRepository) ListByCall(ctx context.Context, callID string) ([]*models.ParticipantSession, error) {
	if s.ParticipantSessions == nil {
		return nil, domain.NewUnavailableError("participant session repository is not available")
	}

	keysLister, err := s.ParticipantSessions.ListKeys(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing participant session keys from NATS KV store", logging.ErrKey, err)
		return nil, domain.NewInternalError("failed to list participant session keys from store", err)
	}

	var sessions []*models.ParticipantSession
	for key := range keysLister.Keys() {
		entry, err := s.get(ctx, key)
		if err != nil {
			if !errors.Is(err, jetstream.ErrKeyNotFound) {
				slog.ErrorContext(ctx, "error getting participant session from NATS KV store", logging.ErrKey, err, "key", key)
			}
			continue
		}

		session, err := s.unmarshal(ctx, entry)
		if err != nil {
			slog.ErrorContext(ctx, "error unmarshaling participant session", logging.ErrKey, err, "key", key)
			continue
		}

		if session.CallID == callID {
			sessions = append(sessions, session)
		}
	}

	return sessions, nil
}

// ListOpenByUserSessionID returns the sessions for a user session id that have
// not been closed yet.
func (s *NatsParticipantSessionRepository) ListOpenByUserSessionID(ctx context.Context, userSessionID string) ([]*models.ParticipantSession, error) {
	if s.ParticipantSessions == nil {
		return nil, domain.NewUnavailableError("participant session repository is not available")
	}

	keysLister, err := s.ParticipantSessions.ListKeys(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing participant session keys from NATS KV store", logging.ErrKey, err)
		return nil, domain.NewInternalError("failed to list participant session keys from store", err)
	}

	var sessions []*models.ParticipantSession
	for key := range keysLister.Keys() {
		entry, err := s.get(ctx, key)
		if err != nil {
			if !errors.Is(err, jetstream.ErrKeyNotFound) {
				slog.ErrorContext(ctx, "error getting participant session from NATS KV store", logging.ErrKey, err, "key", key)
			}
			continue
		}

		session, err := s.unmarshal(ctx, entry)
		if err != nil {
			slog.ErrorContext(ctx, "error unmarshaling participant session", logging.ErrKey, err, "key", key)
			continue
		}

		if session.UserSessionID == userSessionID && session.IsOpen() {
			sessions = append(sessions, session)
		}
	}

	return sessions, nil
}

// Ensure NatsParticipantSessionRepository implements domain.ParticipantSessionRepository
var _ domain.ParticipantSessionRepository = (*NatsParticipantSessionRepository)(nil)
