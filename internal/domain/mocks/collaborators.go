// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/models"
)

// MockSummaryGenerator implements SummaryGenerator for testing
type MockSummaryGenerator struct {
	mock.Mock
}

func (m *MockSummaryGenerator) GenerateSummary(ctx context.Context, digest models.AttendanceDigest) (string, error) {
	args := m.Called(ctx, digest)
	return args.String(0), args.Error(1)
}

// MockReportGenerator implements ReportGenerator for testing
type MockReportGenerator struct {
	mock.Mock
}

func (m *MockReportGenerator) GenerateReport(ctx context.Context, summary string, digest models.AttendanceDigest) (string, error) {
	args := m.Called(ctx, summary, digest)
	return args.String(0), args.Error(1)
}

func (m *MockReportGenerator) Cleanup(ctx context.Context, documentRef string) error {
	args := m.Called(ctx, documentRef)
	return args.Error(0)
}

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendSummaryReport(ctx context.Context, report domain.EmailSummaryReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// MockEventDeduplicator implements EventDeduplicator for testing
type MockEventDeduplicator struct {
	mock.Mock
}

func (m *MockEventDeduplicator) ShouldProcess(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

// MockWebhookValidator implements WebhookValidator for testing
type MockWebhookValidator struct {
	mock.Mock
}

func (m *MockWebhookValidator) ValidateSignature(body []byte, signature, apiKey string) error {
	args := m.Called(body, signature, apiKey)
	return args.Error(0)
}

func (m *MockWebhookValidator) IsValidEvent(eventType string) bool {
	args := m.Called(eventType)
	return args.Bool(0)
}

// MockWebhookEventSender implements WebhookEventSender for testing
type MockWebhookEventSender struct {
	mock.Mock
}

func (m *MockWebhookEventSender) PublishWebhookEvent(ctx context.Context, subject string, event models.StreamWebhookEventMessage) error {
	args := m.Called(ctx, subject, event)
	return args.Error(0)
}
