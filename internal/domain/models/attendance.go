// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// AttendanceRecord is one row of the attendance digest handed to the
// summarizer, the report generator, and the email templates.
type AttendanceRecord struct {
	Name            string `json:"name"`
	UserID          string `json:"user_id"`
	JoinedAt        string `json:"joined_at"`
	LeftAt          string `json:"left_at"`
	Duration        string `json:"duration"`
	DurationSeconds int    `json:"duration_seconds"`
}

// AttendanceStats are the aggregate statistics for one call.
type AttendanceStats struct {
	TotalParticipants      int `json:"total_participants"`
	TotalSessions          int `json:"total_sessions"`
	AverageDurationSeconds int `json:"average_duration_seconds"`
}

// AttendanceDigest is the structured attendance data for one call.
type AttendanceDigest struct {
	CallID  string             `json:"call_id"`
	Records []AttendanceRecord `json:"records"`
	Stats   AttendanceStats    `json:"stats"`
}

const digestTimeFormat = "Jan 2, 2006 3:04:05 PM MST"

// stillInCall is the digest placeholder for a session with no leave event.
const stillInCall = "Still in call"

// FormatDuration renders a duration in seconds as "XXm YYs".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// BuildAttendanceDigest converts the raw session records of one call into the
// digest rows and aggregate statistics. A nil duration (still-open session)
// counts as zero seconds in the average.
func BuildAttendanceDigest(callID string, sessions []*ParticipantSession) AttendanceDigest {
	digest := AttendanceDigest{
		CallID:  callID,
		Records: make([]AttendanceRecord, 0, len(sessions)),
	}

	uniqueUsers := make(map[string]struct{})
	var totalDuration int

	for _, session := range sessions {
		if session == nil {
			continue
		}

		duration := 0
		if session.DurationSeconds != nil {
			duration = *session.DurationSeconds
		}
		totalDuration += duration
		uniqueUsers[session.UserID] = struct{}{}

		leftAt := stillInCall
		if session.LeftAt != nil {
			leftAt = session.LeftAt.Format(digestTimeFormat)
		}

		digest.Records = append(digest.Records, AttendanceRecord{
			Name:            session.FullName,
			UserID:          session.UserID,
			JoinedAt:        session.JoinedAt.Format(digestTimeFormat),
			LeftAt:          leftAt,
			Duration:        FormatDuration(duration),
			DurationSeconds: duration,
		})
	}

	digest.Stats = AttendanceStats{
		TotalParticipants: len(uniqueUsers),
		TotalSessions:     len(digest.Records),
	}
	if len(digest.Records) > 0 {
		digest.Stats.AverageDurationSeconds = totalDuration / len(digest.Records)
	}

	return digest
}

// MostRecentOpenSession selects the open session with the latest join time.
// The tie-break on equal join times is the latest creation time, so the
// selection stays deterministic even when a participant produced several open
// sessions in the same instant.
func MostRecentOpenSession(sessions []*ParticipantSession) *ParticipantSession {
	var selected *ParticipantSession
	for _, session := range sessions {
		if !session.IsOpen() {
			continue
		}
		if selected == nil || session.JoinedAt.After(selected.JoinedAt) {
			selected = session
			continue
		}
		if session.JoinedAt.Equal(selected.JoinedAt) && createdAfter(session, selected) {
			selected = session
		}
	}
	return selected
}

func createdAfter(a, b *ParticipantSession) bool {
	var at, bt time.Time
	if a.CreatedAt != nil {
		at = *a.CreatedAt
	}
	if b.CreatedAt != nil {
		bt = *b.CreatedAt
	}
	return at.After(bt)
}
