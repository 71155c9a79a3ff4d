// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/mocks"
	"github.com/classtrack/attendance-service/internal/domain/models"
	"github.com/classtrack/attendance-service/pkg/concurrent"
)

type summaryServiceMocks struct {
	sessionRepo  *mocks.MockParticipantSessionRepository
	summaryRepo  *mocks.MockCallSummaryRepository
	summaryGen   *mocks.MockSummaryGenerator
	reportGen    *mocks.MockReportGenerator
	emailService *mocks.MockEmailService
}

func newTestSummaryService(recipients []string) (*SummaryService, *summaryServiceMocks) {
	m := &summaryServiceMocks{
		sessionRepo:  &mocks.MockParticipantSessionRepository{},
		summaryRepo:  &mocks.MockCallSummaryRepository{},
		summaryGen:   &mocks.MockSummaryGenerator{},
		reportGen:    &mocks.MockReportGenerator{},
		emailService: &mocks.MockEmailService{},
	}
	service := NewSummaryService(
		m.sessionRepo,
		m.summaryRepo,
		m.summaryGen,
		m.reportGen,
		m.emailService,
		recipients,
		concurrent.NewWorkerPool(2),
	)
	return service, m
}

func closedSession(uid, userID string, durationSeconds int) *models.ParticipantSession {
	joinedAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	session := &models.ParticipantSession{
		UID:      uid,
		CallID:   "call-1",
		UserID:   userID,
		FullName: "User " + userID,
		JoinedAt: joinedAt,
	}
	session.Close(joinedAt.Add(time.Duration(durationSeconds) * time.Second))
	return session
}

func TestGenerateCallSummary(t *testing.T) {
	service, m := newTestSummaryService([]string{"teacher@example.com"})

	sessions := []*models.ParticipantSession{
		closedSession("uid-1", "user-1", 60),
		closedSession("uid-2", "user-2", 120),
		closedSession("uid-3", "user-1", 180),
	}

	m.summaryRepo.On("ExistsByCallID", mock.Anything, "call-1").Return(false, nil)
	m.sessionRepo.On("ListByCall", mock.Anything, "call-1").Return(sessions, nil)
	m.summaryGen.On("GenerateSummary", mock.Anything, mock.MatchedBy(func(digest models.AttendanceDigest) bool {
		return digest.Stats.TotalParticipants == 2 &&
			digest.Stats.TotalSessions == 3 &&
			digest.Stats.AverageDurationSeconds == 120
	})).Return("Attendance was strong.", nil)

	var stored *models.CallSummary
	m.summaryRepo.On("Create", mock.Anything, mock.MatchedBy(func(summary *models.CallSummary) bool {
		stored = summary
		return true
	})).Return(nil)

	m.reportGen.On("GenerateReport", mock.Anything, "Attendance was strong.", mock.Anything).Return("pdfs/report.pdf", nil)
	m.emailService.On("SendSummaryReport", mock.Anything, mock.MatchedBy(func(report domain.EmailSummaryReport) bool {
		return report.RecipientEmail == "teacher@example.com" &&
			report.CallID == "call-1" &&
			report.AttachmentPath == "pdfs/report.pdf"
	})).Return(nil)
	m.reportGen.On("Cleanup", mock.Anything, "pdfs/report.pdf").Return(nil)

	err := service.GenerateCallSummary(context.Background(), "call-1")
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.Equal(t, "call-1", stored.CallID)
	assert.Equal(t, "Attendance was strong.", stored.Summary)
	assert.Equal(t, 2, stored.TotalParticipants)
	assert.Equal(t, 3, stored.TotalSessions)
	assert.Equal(t, 120, stored.AverageDurationSeconds)

	m.summaryRepo.AssertExpectations(t)
	m.summaryGen.AssertExpectations(t)
	m.reportGen.AssertExpectations(t)
	m.emailService.AssertExpectations(t)
}

func TestGenerateCallSummaryAlreadyExists(t *testing.T) {
	service, m := newTestSummaryService([]string{"teacher@example.com"})

	m.summaryRepo.On("ExistsByCallID", mock.Anything, "call-1").Return(true, nil)

	err := service.GenerateCallSummary(context.Background(), "call-1")
	assert.NoError(t, err)

	m.sessionRepo.AssertNotCalled(t, "ListByCall", mock.Anything, mock.Anything)
	m.summaryGen.AssertNotCalled(t, "GenerateSummary", mock.Anything, mock.Anything)
}

func TestGenerateCallSummaryNoAttendanceRecords(t *testing.T) {
	service, m := newTestSummaryService([]string{"teacher@example.com"})

	m.summaryRepo.On("ExistsByCallID", mock.Anything, "call-1").Return(false, nil)
	m.sessionRepo.On("ListByCall", mock.Anything, "call-1").Return([]*models.ParticipantSession{}, nil)

	err := service.GenerateCallSummary(context.Background(), "call-1")
	assert.NoError(t, err)

	m.summaryGen.AssertNotCalled(t, "GenerateSummary", mock.Anything, mock.Anything)
	m.reportGen.AssertNotCalled(t, "GenerateReport", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateCallSummaryGeneratorFailureStopsPipeline(t *testing.T) {
	service, m := newTestSummaryService([]string{"teacher@example.com"})

	m.summaryRepo.On("ExistsByCallID", mock.Anything, "call-1").Return(false, nil)
	m.sessionRepo.On("ListByCall", mock.Anything, "call-1").Return([]*models.ParticipantSession{
		closedSession("uid-1", "user-1", 60),
	}, nil)
	m.summaryGen.On("GenerateSummary", mock.Anything, mock.Anything).Return("", errors.New("model overloaded"))

	err := service.GenerateCallSummary(context.Background(), "call-1")
	assert.Error(t, err)

	m.summaryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.reportGen.AssertNotCalled(t, "GenerateReport", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateCallSummaryPersistFailureContinuesDelivery(t *testing.T) {
	service, m := newTestSummaryService([]string{"teacher@example.com"})

	m.summaryRepo.On("ExistsByCallID", mock.Anything, "call-1").Return(false, nil)
	m.sessionRepo.On("ListByCall", mock.Anything, "call-1").Return([]*models.ParticipantSession{
		closedSession("uid-1", "user-1", 60),
	}, nil)
	m.summaryGen.On("GenerateSummary", mock.Anything, mock.Anything).Return("Summary text.", nil)
	m.summaryRepo.On("Create", mock.Anything, mock.Anything).Return(domain.NewInternalError("kv unavailable"))
	m.reportGen.On("GenerateReport", mock.Anything, "Summary text.", mock.Anything).Return("pdfs/report.pdf", nil)
	m.emailService.On("SendSummaryReport", mock.Anything, mock.Anything).Return(nil)
	m.reportGen.On("Cleanup", mock.Anything, "pdfs/report.pdf").Return(nil)

	err := service.GenerateCallSummary(context.Background(), "call-1")
	assert.NoError(t, err)

	m.emailService.AssertExpectations(t)
	m.reportGen.AssertExpectations(t)
}

func TestGenerateCallSummaryConcurrentPersistConflict(t *testing.T) {
	service, m := newTestSummaryService([]string{"teacher@example.com"})

	m.summaryRepo.On("ExistsByCallID", mock.Anything, "call-1").Return(false, nil)
	m.sessionRepo.On("ListByCall", mock.Anything, "call-1").Return([]*models.ParticipantSession{
		closedSession("uid-1", "user-1", 60),
	}, nil)
	m.summaryGen.On("GenerateSummary", mock.Anything, mock.Anything).Return("Summary text.", nil)
	// Another instance won the race; this run stops cleanly.
	m.summaryRepo.On("Create", mock.Anything, mock.Anything).Return(domain.NewConflictError("summary already exists"))

	err := service.GenerateCallSummary(context.Background(), "call-1")
	assert.NoError(t, err)

	m.reportGen.AssertNotCalled(t, "GenerateReport", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeliverReportAllRecipientsFailKeepsReport(t *testing.T) {
	service, m := newTestSummaryService([]string{"a@example.com", "b@example.com"})

	m.summaryRepo.On("ExistsByCallID", mock.Anything, "call-1").Return(false, nil)
	m.sessionRepo.On("ListByCall", mock.Anything, "call-1").Return([]*models.ParticipantSession{
		closedSession("uid-1", "user-1", 60),
	}, nil)
	m.summaryGen.On("GenerateSummary", mock.Anything, mock.Anything).Return("Summary text.", nil)
	m.summaryRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.reportGen.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything).Return("pdfs/report.pdf", nil)
	m.emailService.On("SendSummaryReport", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	err := service.GenerateCallSummary(context.Background(), "call-1")
	assert.NoError(t, err)

	// The report stays on disk when no delivery succeeded.
	m.reportGen.AssertNotCalled(t, "Cleanup", mock.Anything, mock.Anything)
}

func TestDeliverReportPartialFailureStillCleansUp(t *testing.T) {
	service, m := newTestSummaryService([]string{"a@example.com", "b@example.com"})

	m.summaryRepo.On("ExistsByCallID", mock.Anything, "call-1").Return(false, nil)
	m.sessionRepo.On("ListByCall", mock.Anything, "call-1").Return([]*models.ParticipantSession{
		closedSession("uid-1", "user-1", 60),
	}, nil)
	m.summaryGen.On("GenerateSummary", mock.Anything, mock.Anything).Return("Summary text.", nil)
	m.summaryRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.reportGen.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything).Return("pdfs/report.pdf", nil)
	m.emailService.On("SendSummaryReport", mock.Anything, mock.MatchedBy(func(report domain.EmailSummaryReport) bool {
		return report.RecipientEmail == "a@example.com"
	})).Return(errors.New("mailbox full"))
	m.emailService.On("SendSummaryReport", mock.Anything, mock.MatchedBy(func(report domain.EmailSummaryReport) bool {
		return report.RecipientEmail == "b@example.com"
	})).Return(nil)
	m.reportGen.On("Cleanup", mock.Anything, "pdfs/report.pdf").Return(nil)

	err := service.GenerateCallSummary(context.Background(), "call-1")
	assert.NoError(t, err)

	m.reportGen.AssertExpectations(t)
}

func TestDeliverReportNoRecipientsKeepsReport(t *testing.T) {
	service, m := newTestSummaryService(nil)

	m.summaryRepo.On("ExistsByCallID", mock.Anything, "call-1").Return(false, nil)
	m.sessionRepo.On("ListByCall", mock.Anything, "call-1").Return([]*models.ParticipantSession{
		closedSession("uid-1", "user-1", 60),
	}, nil)
	m.summaryGen.On("GenerateSummary", mock.Anything, mock.Anything).Return("Summary text.", nil)
	m.summaryRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.reportGen.On("GenerateReport", mock.Anything, mock.Anything, mock.Anything).Return("pdfs/report.pdf", nil)

	err := service.GenerateCallSummary(context.Background(), "call-1")
	assert.NoError(t, err)

	m.emailService.AssertNotCalled(t, "SendSummaryReport", mock.Anything, mock.Anything)
	m.reportGen.AssertNotCalled(t, "Cleanup", mock.Anything, mock.Anything)
}

func TestHandleCallSessionEnded(t *testing.T) {
	service, m := newTestSummaryService([]string{"teacher@example.com"})

	m.summaryRepo.On("ExistsByCallID", mock.Anything, "call-1").Return(true, nil)

	event := models.StreamWebhookEventMessage{
		EventType: models.StreamEventCallSessionEnded,
		Payload: map[string]any{
			"call_cid":   "default:call-1",
			"session_id": "session-1",
		},
	}

	err := service.HandleCallSessionEnded(context.Background(), event)
	assert.NoError(t, err)
	m.summaryRepo.AssertCalled(t, "ExistsByCallID", mock.Anything, "call-1")
}
