// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/classtrack/attendance-service/internal/domain/models"
)

// MockCallSummaryRepository implements CallSummaryRepository for testing
type MockCallSummaryRepository struct {
	mock.Mock
}

func (m *MockCallSummaryRepository) Create(ctx context.Context, summary *models.CallSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockCallSummaryRepository) GetByCallID(ctx context.Context, callID string) (*models.CallSummary, error) {
	args := m.Called(ctx, callID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CallSummary), args.Error(1)
}

func (m *MockCallSummaryRepository) ExistsByCallID(ctx context.Context, callID string) (bool, error) {
	args := m.Called(ctx, callID)
	return args.Bool(0), args.Error(1)
}
