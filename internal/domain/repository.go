// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/classtrack/attendance-service/internal/domain/models"
)

// ParticipantSessionRepository is the persistence interface for participant
// attendance sessions.
type ParticipantSessionRepository interface {
	Create(ctx context.Context, session *models.ParticipantSession) error
	Get(ctx context.Context, sessionUID string) (*models.ParticipantSession, error)
	GetWithRevision(ctx context.Context, sessionUID string) (*models.ParticipantSession, uint64, error)
	Update(ctx context.Context, session *models.ParticipantSession, revision uint64) error
	ListByCall(ctx context.Context, callID string) ([]*models.ParticipantSession, error)
	// ListOpenByUserSessionID returns all sessions for the user session
	// identifier that have not yet been closed by a leave event.
	ListOpenByUserSessionID(ctx context.Context, userSessionID string) ([]*models.ParticipantSession, error)
}

// CallSummaryRepository is the persistence interface for call summaries.
// Summaries are append-only; there is no update operation.
type CallSummaryRepository interface {
	Create(ctx context.Context, summary *models.CallSummary) error
	GetByCallID(ctx context.Context, callID string) (*models.CallSummary, error)
	ExistsByCallID(ctx context.Context, callID string) (bool, error)
}
