// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/classtrack/attendance-service/internal/domain/models"
)

// EmailSummaryReport contains the data needed to deliver an attendance
// summary report to one recipient.
type EmailSummaryReport struct {
	RecipientEmail string
	CallID         string
	Summary        string
	Digest         models.AttendanceDigest
	// AttachmentPath is the report document to attach; empty means no
	// attachment.
	AttachmentPath string
}

// EmailService sends emails to recipients of the attendance service.
type EmailService interface {
	SendSummaryReport(ctx context.Context, report EmailSummaryReport) error
}
