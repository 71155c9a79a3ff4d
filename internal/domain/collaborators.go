// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/classtrack/attendance-service/internal/domain/models"
)

// SummaryGenerator produces a natural-language attendance summary from the
// structured digest. Implementations call an external model and may fail or
// time out; callers treat any error as a collaborator failure.
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, digest models.AttendanceDigest) (string, error)
}

// ReportGenerator renders the summary and digest into a report document and
// returns a reference to it. Cleanup disposes of the referenced artifact once
// it has been delivered.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, summary string, digest models.AttendanceDigest) (string, error)
	Cleanup(ctx context.Context, documentRef string) error
}
