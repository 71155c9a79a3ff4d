// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/models"
	"github.com/classtrack/attendance-service/internal/logging"

	"github.com/classtrack/attendance-service/pkg/concurrent"
)

// SummaryService orchestrates the end-of-call pipeline: aggregate the
// attendance records, generate the AI summary, persist it, render the PDF
// report, and email it to the configured recipients. Each stage is
// best-effort; a completed stage is never rolled back when a later one fails.
type SummaryService struct {
	sessionRepository domain.ParticipantSessionRepository
	summaryRepository domain.CallSummaryRepository
	summaryGenerator  domain.SummaryGenerator
	reportGenerator   domain.ReportGenerator
	emailService      domain.EmailService
	recipients        []string
	workerPool        *concurrent.WorkerPool
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(
	sessionRepository domain.ParticipantSessionRepository,
	summaryRepository domain.CallSummaryRepository,
	summaryGenerator domain.SummaryGenerator,
	reportGenerator domain.ReportGenerator,
	emailService domain.EmailService,
	recipients []string,
	workerPool *concurrent.WorkerPool,
) *SummaryService {
	return &SummaryService{
		sessionRepository: sessionRepository,
		summaryRepository: summaryRepository,
		summaryGenerator:  summaryGenerator,
		reportGenerator:   reportGenerator,
		emailService:      emailService,
		recipients:        recipients,
		workerPool:        workerPool,
	}
}

// ServiceReady checks if the service is ready to process requests
func (s *SummaryService) ServiceReady() bool {
	return s.sessionRepository != nil &&
		s.summaryRepository != nil &&
		s.summaryGenerator != nil &&
		s.reportGenerator != nil &&
		s.emailService != nil
}

// HandleCallSessionEnded processes a call.session_ended event by running the
// summary pipeline for the call.
func (s *SummaryService) HandleCallSessionEnded(ctx context.Context, event models.StreamWebhookEventMessage) error {
	payload, err := event.ToCallSessionEndedPayload()
	if err != nil {
		slog.ErrorContext(ctx, "failed to convert to typed call session ended payload", logging.ErrKey, err)
		return fmt.Errorf("failed to parse call session ended payload: %w", err)
	}

	return s.GenerateCallSummary(ctx, callIDFromCID(payload.CallCID))
}

// GenerateCallSummary runs the summary pipeline for one call.
func (s *SummaryService) GenerateCallSummary(ctx context.Context, callID string) error {
	ctx = logging.AppendCtx(ctx, slog.String("call_id", callID))

	// A call gets at most one summary; re-delivered end events and pipeline
	// re-runs stop here.
	exists, err := s.summaryRepository.ExistsByCallID(ctx, callID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check for existing call summary", logging.ErrKey, err)
		return fmt.Errorf("failed to check for existing call summary: %w", err)
	}
	if exists {
		slog.InfoContext(ctx, "summary already exists for call, skipping")
		return nil
	}

	sessions, err := s.sessionRepository.ListByCall(ctx, callID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list participant sessions for call", logging.ErrKey, err)
		return fmt.Errorf("failed to list participant sessions: %w", err)
	}

	if len(sessions) == 0 {
		slog.InfoContext(ctx, "no attendance records found for call, skipping summary")
		return nil
	}

	digest := models.BuildAttendanceDigest(callID, sessions)

	summary, err := s.summaryGenerator.GenerateSummary(ctx, digest)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate attendance summary",
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return fmt.Errorf("failed to generate attendance summary: %w", err)
	}

	// Persist the summary. Failure here is logged but does not stop the
	// pipeline: report delivery is worth more than the stored row.
	callSummary := &models.CallSummary{
		CallID:                 callID,
		Summary:                summary,
		TotalParticipants:      digest.Stats.TotalParticipants,
		TotalSessions:          digest.Stats.TotalSessions,
		AverageDurationSeconds: digest.Stats.AverageDurationSeconds,
	}
	if err := s.summaryRepository.Create(ctx, callSummary); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			slog.InfoContext(ctx, "summary was created concurrently for call, skipping")
			return nil
		}
		slog.ErrorContext(ctx, "failed to store call summary, continuing with delivery", logging.ErrKey, err)
	}

	reportPath, err := s.reportGenerator.GenerateReport(ctx, summary, digest)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate attendance report",
			logging.ErrKey, err,
			logging.PriorityCritical(),
		)
		return fmt.Errorf("failed to generate attendance report: %w", err)
	}

	s.deliverReport(ctx, callID, summary, digest, reportPath)

	slog.InfoContext(ctx, "call summary pipeline completed",
		"total_participants", digest.Stats.TotalParticipants,
		"total_sessions", digest.Stats.TotalSessions,
	)

	return nil
}

// deliverReport emails the report to every configured recipient concurrently
// and disposes of the report file once at least one delivery succeeded.
func (s *SummaryService) deliverReport(ctx context.Context, callID, summary string, digest models.AttendanceDigest, reportPath string) {
	if len(s.recipients) == 0 {
		slog.WarnContext(ctx, "no summary recipients configured, keeping report on disk", "report_path", reportPath)
		return
	}

	functions := make([]func() error, 0, len(s.recipients))
	for _, recipient := range s.recipients {
		functions = append(functions, func() error {
			return s.emailService.SendSummaryReport(ctx, domain.EmailSummaryReport{
				RecipientEmail: recipient,
				CallID:         callID,
				Summary:        summary,
				Digest:         digest,
				AttachmentPath: reportPath,
			})
		})
	}

	errs := s.workerPool.RunAll(ctx, functions...)
	for _, err := range errs {
		slog.ErrorContext(ctx, "failed to send summary report email", logging.ErrKey, err)
	}

	if len(errs) == len(s.recipients) {
		slog.ErrorContext(ctx, "all summary report deliveries failed, keeping report on disk",
			"report_path", reportPath,
			logging.PriorityCritical(),
		)
		return
	}

	if err := s.reportGenerator.Cleanup(ctx, reportPath); err != nil {
		slog.WarnContext(ctx, "failed to clean up attendance report", logging.ErrKey, err, "report_path", reportPath)
	}
}
