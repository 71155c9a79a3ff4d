// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-service/internal/domain/models"
)

func testDigest() models.AttendanceDigest {
	return models.AttendanceDigest{
		CallID: "call-1",
		Records: []models.AttendanceRecord{
			{Name: "Alice", UserID: "user-1", JoinedAt: "Mar 10, 2026 2:00:00 PM UTC", LeftAt: "Mar 10, 2026 2:10:00 PM UTC", Duration: "10m 0s", DurationSeconds: 600},
			{Name: "Bob", UserID: "user-2", JoinedAt: "Mar 10, 2026 2:01:00 PM UTC", LeftAt: "Still in call", Duration: "0m 0s"},
		},
		Stats: models.AttendanceStats{
			TotalParticipants:      2,
			TotalSessions:          2,
			AverageDurationSeconds: 300,
		},
	}
}

func TestGenerateReport(t *testing.T) {
	outputDir := t.TempDir()
	generator := NewPDFGenerator(outputDir)

	path, err := generator.GenerateReport(context.Background(), "A detailed summary.\n\nWith multiple paragraphs.", testDigest())
	require.NoError(t, err)

	assert.Equal(t, outputDir, filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "attendance-call-1-")
	assert.Equal(t, ".pdf", filepath.Ext(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// PDF files start with the %PDF magic bytes.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(content) > 4 && string(content[:5]) == "%PDF-")
}

func TestGenerateReportCreatesOutputDir(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "nested", "pdfs")
	generator := NewPDFGenerator(outputDir)

	path, err := generator.GenerateReport(context.Background(), "Summary.", testDigest())
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestCleanup(t *testing.T) {
	outputDir := t.TempDir()
	generator := NewPDFGenerator(outputDir)

	path, err := generator.GenerateReport(context.Background(), "Summary.", testDigest())
	require.NoError(t, err)

	require.NoError(t, generator.Cleanup(context.Background(), path))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Cleaning up an already removed file is not an error.
	assert.NoError(t, generator.Cleanup(context.Background(), path))
}

func TestNewPDFGeneratorDefaultDir(t *testing.T) {
	generator := NewPDFGenerator("")
	assert.Equal(t, DefaultOutputDir, generator.outputDir)
}
