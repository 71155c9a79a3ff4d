// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

// Package email sends attendance summary emails over SMTP.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/logging"
)

// SMTPService implements the EmailService interface using SMTP
type SMTPService struct {
	config    SMTPConfig
	templates Templates
}

// SMTPConfig holds the SMTP server configuration
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string // Optional for authenticated SMTP
	Password string // Optional for authenticated SMTP
}

// Ensure SMTPService implements domain.EmailService
var _ domain.EmailService = (*SMTPService)(nil)

// NewSMTPService creates a new SMTP email service
func NewSMTPService(config SMTPConfig) (*SMTPService, error) {
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	return &SMTPService{
		config:    config,
		templates: templates,
	}, nil
}

// SendSummaryReport sends the attendance summary email, attaching the report
// document when one is referenced.
func (s *SMTPService) SendSummaryReport(ctx context.Context, report domain.EmailSummaryReport) error {
	ctx = logging.AppendCtx(ctx, slog.String("recipient_email", report.RecipientEmail))
	ctx = logging.AppendCtx(ctx, slog.String("call_id", report.CallID))

	data := newSummaryReportTemplateData(report)

	htmlContent, err := renderTemplate(s.templates.SummaryReport.HTML, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render HTML template", logging.ErrKey, err)
		return fmt.Errorf("failed to render HTML template: %w", err)
	}

	textContent, err := renderTemplate(s.templates.SummaryReport.Text, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render text template", logging.ErrKey, err)
		return fmt.Errorf("failed to render text template: %w", err)
	}

	subject := fmt.Sprintf("Attendance Summary - Call %s", report.CallID)
	message, err := buildEmailMessage(report.RecipientEmail, subject, htmlContent, textContent, report.AttachmentPath, s.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to build summary report email", logging.ErrKey, err)
		return err
	}

	err = sendEmailMessage(report.RecipientEmail, message, s.config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send summary report email", logging.ErrKey, err)
		return err
	}

	slog.InfoContext(ctx, "summary report email sent successfully")
	return nil
}
