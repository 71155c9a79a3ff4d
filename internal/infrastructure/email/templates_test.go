// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/models"
)

func testReport() domain.EmailSummaryReport {
	return domain.EmailSummaryReport{
		RecipientEmail: "teacher@example.com",
		CallID:         "call-1",
		Summary:        "Line one.\nLine two.\nLine three.\nLine four.\nLine five.\nLine six is cut off.",
		Digest: models.AttendanceDigest{
			CallID: "call-1",
			Records: []models.AttendanceRecord{
				{Name: "Alice", UserID: "user-1", JoinedAt: "Mar 10, 2026 2:00:00 PM UTC", LeftAt: "Mar 10, 2026 2:10:00 PM UTC", Duration: "10m 0s", DurationSeconds: 600},
			},
			Stats: models.AttendanceStats{
				TotalParticipants:      1,
				TotalSessions:          1,
				AverageDurationSeconds: 600,
			},
		},
		AttachmentPath: "pdfs/report.pdf",
	}
}

func TestLoadTemplates(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)
	assert.NotNil(t, templates.SummaryReport.HTML)
	assert.NotNil(t, templates.SummaryReport.Text)
}

func TestRenderSummaryReportTemplates(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	data := newSummaryReportTemplateData(testReport())

	html, err := renderTemplate(templates.SummaryReport.HTML, data)
	require.NoError(t, err)
	assert.Contains(t, html, "call-1")
	assert.Contains(t, html, "Alice")
	assert.Contains(t, html, "Line one.<br>")
	// The preview is capped, the rest ships in the attachment.
	assert.NotContains(t, html, "Line six is cut off.")

	text, err := renderTemplate(templates.SummaryReport.Text, data)
	require.NoError(t, err)
	assert.Contains(t, text, "call-1")
	assert.Contains(t, text, "Alice")
	assert.Contains(t, text, "user-1")
}

func TestSummaryPreview(t *testing.T) {
	short := "One line only."
	assert.Equal(t, short, summaryPreview(short))

	long := strings.Join([]string{"1", "2", "3", "4", "5", "6", "7"}, "\n")
	preview := summaryPreview(long)
	assert.Equal(t, "1\n2\n3\n4\n5", preview)
}

func TestRenderDigestTable(t *testing.T) {
	rendered := renderDigestTable(testReport().Digest)
	assert.Contains(t, rendered, "Alice")
	assert.Contains(t, rendered, "user-1")
	assert.Contains(t, rendered, "10m 0s")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{30, "0 minutes"},
		{60, "1 minute"},
		{300, "5 minutes"},
		{3600, "1 hour"},
		{7200, "2 hours"},
		{3660, "1 hour 1 minute"},
		{9000, "2 hours 30 minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDuration(tt.seconds))
		})
	}
}

func TestNewLineToBreakLine(t *testing.T) {
	result := newLineToBreakLine("a\nb")
	assert.Equal(t, "a<br>b", string(result))

	// HTML in the summary is escaped, not rendered.
	result = newLineToBreakLine("<script>alert(1)</script>")
	assert.NotContains(t, string(result), "<script>")
}
