// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

// Package report renders attendance reports as PDF documents.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/models"
	"github.com/classtrack/attendance-service/internal/logging"
)

// DefaultOutputDir is where report files are written when no directory is
// configured.
const DefaultOutputDir = "pdfs"

// PDFGenerator renders attendance summary reports as PDF files on local disk.
// The returned document reference is the file path; Cleanup removes the file
// after delivery.
type PDFGenerator struct {
	outputDir string
}

// Ensure PDFGenerator implements domain.ReportGenerator
var _ domain.ReportGenerator = (*PDFGenerator)(nil)

// NewPDFGenerator creates a new PDF report generator writing into outputDir.
func NewPDFGenerator(outputDir string) *PDFGenerator {
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}
	return &PDFGenerator{
		outputDir: outputDir,
	}
}

// GenerateReport implements [domain.ReportGenerator].
func (g *PDFGenerator) GenerateReport(ctx context.Context, summary string, digest models.AttendanceDigest) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		slog.ErrorContext(ctx, "error creating report output directory", logging.ErrKey, err, "dir", g.outputDir)
		return "", domain.NewInternalError("failed to create report output directory", err)
	}

	fileName := fmt.Sprintf("attendance-%s-%d.pdf", digest.CallID, time.Now().UnixMilli())
	filePath := filepath.Join(g.outputDir, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 12, "Attendance Summary Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Call details
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 6, fmt.Sprintf("Call ID: %s", digest.CallID), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", time.Now().Format("Jan 2, 2006 3:04:05 PM MST")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Statistics
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, "Statistics", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Total Unique Participants: %d", digest.Stats.TotalParticipants), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total Sessions: %d", digest.Stats.TotalSessions), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Average Duration: %d minutes", digest.Stats.AverageDurationSeconds/60), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// AI analysis
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, "AI Analysis", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, summary, "", "J", false)
	pdf.Ln(4)

	// Per-session details
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, "Detailed Attendance", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for i, record := range digest.Records {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d. %s", i+1, record.Name), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("   User ID: %s", record.UserID), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("   Joined: %s", record.JoinedAt), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("   Left: %s", record.LeftAt), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("   Duration: %s", record.Duration), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	// Footer
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, "Generated by AI-Powered Attendance System using Stream", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		slog.ErrorContext(ctx, "error writing attendance report PDF", logging.ErrKey, err, "file_path", filePath)
		return "", domain.NewInternalError("failed to write attendance report PDF", err)
	}

	slog.DebugContext(ctx, "generated attendance report PDF", "file_path", filePath, "records", len(digest.Records))
	return filePath, nil
}

// Cleanup implements [domain.ReportGenerator]. It removes the report file once
// delivery is done; a missing file is not an error.
func (g *PDFGenerator) Cleanup(ctx context.Context, documentRef string) error {
	err := os.Remove(documentRef)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		slog.ErrorContext(ctx, "error removing attendance report PDF", logging.ErrKey, err, "file_path", documentRef)
		return domain.NewInternalError("failed to remove attendance report PDF", err)
	}
	return nil
}
