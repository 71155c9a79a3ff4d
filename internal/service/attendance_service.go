// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/models"
	"github.com/classtrack/attendance-service/internal/logging"
)

// AttendanceService reconstructs per-participant attendance sessions from the
// join and leave events of a call.
type AttendanceService struct {
	sessionRepository domain.ParticipantSessionRepository
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(sessionRepository domain.ParticipantSessionRepository) *AttendanceService {
	return &AttendanceService{
		sessionRepository: sessionRepository,
	}
}

// ServiceReady checks if the service is ready to process requests
func (s *AttendanceService) ServiceReady() bool {
	return s.sessionRepository != nil
}

// callIDFromCID extracts the call id from a Stream call CID of the form
// "type:id". A CID without a type prefix is used as-is.
func callIDFromCID(callCID string) string {
	if _, id, found := strings.Cut(callCID, ":"); found {
		return id
	}
	return callCID
}

// HandleCallSessionStarted processes a call.session_started event. Session
// start is informational; attendance records are created per participant on
// join.
func (s *AttendanceService) HandleCallSessionStarted(ctx context.Context, event models.StreamWebhookEventMessage) error {
	payload, err := event.ToCallSessionStartedPayload()
	if err != nil {
		slog.ErrorContext(ctx, "failed to convert to typed call session started payload", logging.ErrKey, err)
		return fmt.Errorf("failed to parse call session started payload: %w", err)
	}

	slog.InfoContext(ctx, "call session started",
		"call_id", callIDFromCID(payload.CallCID),
		"stream_session_id", payload.SessionID,
	)

	return nil
}

// HandleParticipantJoined processes a call.session_participant_joined event by
// opening a new attendance session for the participant.
func (s *AttendanceService) HandleParticipantJoined(ctx context.Context, event models.StreamWebhookEventMessage) error {
	payload, err := event.ToParticipantJoinedPayload()
	if err != nil {
		slog.ErrorContext(ctx, "failed to convert to typed participant joined payload", logging.ErrKey, err)
		return fmt.Errorf("failed to parse participant joined payload: %w", err)
	}

	participant := payload.Participant
	callID := callIDFromCID(payload.CallCID)

	ctx = logging.AppendCtx(ctx, slog.String("call_id", callID))
	ctx = logging.AppendCtx(ctx, slog.String("user_session_id", participant.UserSessionID))

	joinedAt := participant.JoinedAt
	if joinedAt.IsZero() {
		joinedAt = event.ReceivedAt
	}

	session := &models.ParticipantSession{
		CallID:        callID,
		SessionID:     payload.SessionID,
		UserSessionID: participant.UserSessionID,
		UserID:        participant.User.ID,
		FullName:      participant.User.Name,
		JoinedAt:      joinedAt,
	}

	if err := s.sessionRepository.Create(ctx, session); err != nil {
		slog.ErrorContext(ctx, "failed to create participant session",
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return fmt.Errorf("failed to create participant session: %w", err)
	}

	slog.InfoContext(ctx, "participant joined, opened attendance session",
		"session_uid", session.UID,
		"user_id", session.UserID,
		"joined_at", session.JoinedAt,
	)

	return nil
}

// HandleParticipantLeft processes a call.session_participant_left event by
// closing the participant's most recently opened session. A leave with no
// matching open session is logged and skipped; the join event may have been
// missed or already closed by an earlier delivery.
func (s *AttendanceService) HandleParticipantLeft(ctx context.Context, event models.StreamWebhookEventMessage) error {
	payload, err := event.ToParticipantLeftPayload()
	if err != nil {
		slog.ErrorContext(ctx, "failed to convert to typed participant left payload", logging.ErrKey, err)
		return fmt.Errorf("failed to parse participant left payload: %w", err)
	}

	participant := payload.Participant
	callID := callIDFromCID(payload.CallCID)

	ctx = logging.AppendCtx(ctx, slog.String("call_id", callID))
	ctx = logging.AppendCtx(ctx, slog.String("user_session_id", participant.UserSessionID))

	openSessions, err := s.sessionRepository.ListOpenByUserSessionID(ctx, participant.UserSessionID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list open participant sessions", logging.ErrKey, err)
		return fmt.Errorf("failed to list open participant sessions: %w", err)
	}

	session := models.MostRecentOpenSession(openSessions)
	if session == nil {
		slog.WarnContext(ctx, "no open session found for participant left event, skipping")
		return nil
	}

	// Re-fetch with revision so the close cannot clobber a concurrent update.
	current, revision, err := s.sessionRepository.GetWithRevision(ctx, session.UID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to get participant session revision", logging.ErrKey, err)
		return fmt.Errorf("failed to get participant session revision: %w", err)
	}

	if !current.IsOpen() {
		slog.InfoContext(ctx, "participant session already closed, skipping", "session_uid", current.UID)
		return nil
	}

	current.Close(payload.LeftAt(event.ReceivedAt))

	if err := s.sessionRepository.Update(ctx, current, revision); err != nil {
		slog.ErrorContext(ctx, "failed to close participant session",
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return fmt.Errorf("failed to close participant session: %w", err)
	}

	slog.InfoContext(ctx, "participant left, closed attendance session",
		"session_uid", current.UID,
		"user_id", current.UserID,
		"left_at", current.LeftAt,
		"duration_seconds", *current.DurationSeconds,
	)

	return nil
}
