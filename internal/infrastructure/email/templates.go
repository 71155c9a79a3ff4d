// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/models"
)

//go:embed templates/*
var templateFS embed.FS

// summaryPreviewLines is how many lines of the AI summary appear inline in the
// email body; the full text ships in the attached report.
const summaryPreviewLines = 5

// RenderedEmail holds both HTML and text versions of a rendered email
type RenderedEmail struct {
	HTML string
	Text string
}

// summaryReportTemplateData is the data passed to the summary report templates.
type summaryReportTemplateData struct {
	CallID         string
	SummaryPreview string
	Digest         models.AttendanceDigest
	DigestTable    string
	HasAttachment  bool
}

// TemplateSet holds HTML and text versions of a template
type TemplateSet struct {
	HTML *template.Template
	Text *template.Template
}

// Templates holds all template categories
type Templates struct {
	SummaryReport TemplateSet
}

// templateConfig defines a template to be loaded
type templateConfig struct {
	name string
	path string
}

// loadTemplates loads every email template from the embedded filesystem.
func loadTemplates() (Templates, error) {
	templateConfigs := map[string]templateConfig{
		"summaryReportHTML": {"summary_report.html", "templates/summary_report.html"},
		"summaryReportText": {"summary_report.txt", "templates/summary_report.txt"},
	}

	loadedTemplates := make(map[string]*template.Template)
	for key, cfg := range templateConfigs {
		tmpl, err := loadTemplate(cfg)
		if err != nil {
			return Templates{}, err
		}
		loadedTemplates[key] = tmpl
	}

	return Templates{
		SummaryReport: TemplateSet{
			HTML: loadedTemplates["summaryReportHTML"],
			Text: loadedTemplates["summaryReportText"],
		},
	}, nil
}

// loadTemplate loads a single template with the shared function map
func loadTemplate(config templateConfig) (*template.Template, error) {
	tmpl, err := template.New(config.name).Funcs(template.FuncMap{
		"formatDuration":     formatDuration,
		"newLineToBreakLine": newLineToBreakLine,
	}).ParseFS(templateFS, config.path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", config.name, err)
	}
	return tmpl, nil
}

// renderTemplate renders any template with the provided data
func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// newSummaryReportTemplateData prepares template data from a report.
func newSummaryReportTemplateData(report domain.EmailSummaryReport) summaryReportTemplateData {
	return summaryReportTemplateData{
		CallID:         report.CallID,
		SummaryPreview: summaryPreview(report.Summary),
		Digest:         report.Digest,
		DigestTable:    renderDigestTable(report.Digest),
		HasAttachment:  report.AttachmentPath != "",
	}
}

// summaryPreview returns the first few lines of the AI summary.
func summaryPreview(summary string) string {
	lines := strings.Split(summary, "\n")
	if len(lines) > summaryPreviewLines {
		lines = lines[:summaryPreviewLines]
	}
	return strings.Join(lines, "\n")
}

// renderDigestTable renders the attendance records as a plain-text table for
// the text email body.
func renderDigestTable(digest models.AttendanceDigest) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "User ID", "Joined", "Left", "Duration"})
	for i, record := range digest.Records {
		t.AppendRow(table.Row{i + 1, record.Name, record.UserID, record.JoinedAt, record.LeftAt, record.Duration})
	}
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// formatDuration formats a duration in seconds to a human-readable string
func formatDuration(seconds int) string {
	minutes := seconds / 60
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}

	hours := minutes / 60
	remainingMinutes := minutes % 60

	if remainingMinutes == 0 {
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}

	hourLabel := "hours"
	if hours == 1 {
		hourLabel = "hour"
	}
	minuteLabel := "minutes"
	if remainingMinutes == 1 {
		minuteLabel = "minute"
	}
	return fmt.Sprintf("%d %s %d %s", hours, hourLabel, remainingMinutes, minuteLabel)
}

// newLineToBreakLine converts newlines to HTML break tags for proper email formatting
func newLineToBreakLine(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	replaced := strings.ReplaceAll(escaped, "\n", "<br>")
	// Return as template.HTML to prevent double escaping
	return template.HTML(replaced)
}
