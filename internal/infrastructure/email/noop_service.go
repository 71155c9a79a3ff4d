// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"context"
	"log/slog"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/logging"
)

// NoOpService is a no-operation email service that logs but doesn't send emails
type NoOpService struct{}

// NewNoOpService creates a new no-op email service
func NewNoOpService() *NoOpService {
	return &NoOpService{}
}

// Ensure NoOpService implements domain.EmailService
var _ domain.EmailService = (*NoOpService)(nil)

// SendSummaryReport logs the report but doesn't send an email
func (s *NoOpService) SendSummaryReport(ctx context.Context, report domain.EmailSummaryReport) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", report.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("call_id", report.CallID))

	slog.DebugContext(ctx, "email service disabled, skipping summary report email")
	return nil
}
