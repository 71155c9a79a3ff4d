// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{0, "0m 0s"},
		{59, "0m 59s"},
		{60, "1m 0s"},
		{125, "2m 5s"},
		{3600, "60m 0s"},
		{-10, "0m 0s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.seconds))
		})
	}
}

func TestBuildAttendanceDigest(t *testing.T) {
	joinedAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	leftAt := joinedAt.Add(2 * time.Minute)

	t.Run("averages across sessions", func(t *testing.T) {
		sessions := []*ParticipantSession{
			{UserID: "user-1", FullName: "Alice", JoinedAt: joinedAt, LeftAt: &leftAt, DurationSeconds: intPtr(60)},
			{UserID: "user-2", FullName: "Bob", JoinedAt: joinedAt, LeftAt: &leftAt, DurationSeconds: intPtr(120)},
			{UserID: "user-1", FullName: "Alice", JoinedAt: joinedAt, LeftAt: &leftAt, DurationSeconds: intPtr(180)},
		}

		digest := BuildAttendanceDigest("call-1", sessions)

		assert.Equal(t, "call-1", digest.CallID)
		assert.Equal(t, 2, digest.Stats.TotalParticipants)
		assert.Equal(t, 3, digest.Stats.TotalSessions)
		assert.Equal(t, 120, digest.Stats.AverageDurationSeconds)
		require.Len(t, digest.Records, 3)
		assert.Equal(t, "1m 0s", digest.Records[0].Duration)
	})

	t.Run("open session counts as zero duration", func(t *testing.T) {
		sessions := []*ParticipantSession{
			{UserID: "user-1", FullName: "Alice", JoinedAt: joinedAt, LeftAt: &leftAt, DurationSeconds: intPtr(100)},
			{UserID: "user-2", FullName: "Bob", JoinedAt: joinedAt},
		}

		digest := BuildAttendanceDigest("call-1", sessions)

		assert.Equal(t, 50, digest.Stats.AverageDurationSeconds)
		require.Len(t, digest.Records, 2)
		assert.Equal(t, "Still in call", digest.Records[1].LeftAt)
		assert.Equal(t, 0, digest.Records[1].DurationSeconds)
	})

	t.Run("no sessions", func(t *testing.T) {
		digest := BuildAttendanceDigest("call-1", nil)

		assert.Empty(t, digest.Records)
		assert.Equal(t, 0, digest.Stats.TotalParticipants)
		assert.Equal(t, 0, digest.Stats.TotalSessions)
		assert.Equal(t, 0, digest.Stats.AverageDurationSeconds)
	})

	t.Run("nil session entries are skipped", func(t *testing.T) {
		sessions := []*ParticipantSession{
			nil,
			{UserID: "user-1", FullName: "Alice", JoinedAt: joinedAt, LeftAt: &leftAt, DurationSeconds: intPtr(60)},
		}

		digest := BuildAttendanceDigest("call-1", sessions)
		assert.Equal(t, 1, digest.Stats.TotalSessions)
	})
}

func TestMostRecentOpenSession(t *testing.T) {
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	closedAt := base.Add(time.Minute)
	earlier := base.Add(-time.Hour)
	createdFirst := base.Add(time.Second)
	createdSecond := base.Add(2 * time.Second)

	tests := []struct {
		name     string
		sessions []*ParticipantSession
		expected string
	}{
		{
			name:     "no sessions",
			sessions: nil,
			expected: "",
		},
		{
			name: "all sessions closed",
			sessions: []*ParticipantSession{
				{UID: "uid-1", JoinedAt: base, LeftAt: &closedAt},
			},
			expected: "",
		},
		{
			name: "latest join wins",
			sessions: []*ParticipantSession{
				{UID: "uid-1", JoinedAt: earlier},
				{UID: "uid-2", JoinedAt: base},
			},
			expected: "uid-2",
		},
		{
			name: "closed sessions are ignored",
			sessions: []*ParticipantSession{
				{UID: "uid-1", JoinedAt: base, LeftAt: &closedAt},
				{UID: "uid-2", JoinedAt: earlier},
			},
			expected: "uid-2",
		},
		{
			name: "equal join times tie-break on creation time",
			sessions: []*ParticipantSession{
				{UID: "uid-1", JoinedAt: base, CreatedAt: &createdFirst},
				{UID: "uid-2", JoinedAt: base, CreatedAt: &createdSecond},
			},
			expected: "uid-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected := MostRecentOpenSession(tt.sessions)
			if tt.expected == "" {
				assert.Nil(t, selected)
				return
			}
			require.NotNil(t, selected)
			assert.Equal(t, tt.expected, selected.UID)
		})
	}
}
