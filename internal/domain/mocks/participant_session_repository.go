// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/classtrack/attendance-service/internal/domain/models"
)

// MockParticipantSessionRepository implements ParticipantSessionRepository for testing
type MockParticipantSessionRepository struct {
	mock.Mock
}

func (m *MockParticipantSessionRepository) Create(ctx context.Context, session *models.ParticipantSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockParticipantSessionRepository) Get(ctx context.Context, sessionUID string) (*models.ParticipantSession, error) {
	args := m.Called(ctx, sessionUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ParticipantSession), args.Error(1)
}

func (m *MockParticipantSessionRepository) GetWithRevision(ctx context.Context, sessionUID string) (*models.ParticipantSession, uint64, error) {
	args := m.Called(ctx, sessionUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.ParticipantSession), args.Get(1).(uint64), args.Error(2)
}

func (m *MockParticipantSessionRepository) Update(ctx context.Context, session *models.ParticipantSession, revision uint64) error {
	args := m.Called(ctx, session, revision)
	return args.Error(0)
}

func (m *MockParticipantSessionRepository) ListByCall(ctx context.Context, callID string) ([]*models.ParticipantSession, error) {
	args := m.Called(ctx, callID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ParticipantSession), args.Error(1)
}

func (m *MockParticipantSessionRepository) ListOpenByUserSessionID(ctx context.Context, userSessionID string) ([]*models.ParticipantSession, error) {
	args := m.Called(ctx, userSessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ParticipantSession), args.Error(1)
}
