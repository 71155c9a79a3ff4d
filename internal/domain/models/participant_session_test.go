// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantSessionIsOpen(t *testing.T) {
	now := time.Now()

	var nilSession *ParticipantSession
	assert.False(t, nilSession.IsOpen())

	open := &ParticipantSession{JoinedAt: now}
	assert.True(t, open.IsOpen())

	closed := &ParticipantSession{JoinedAt: now, LeftAt: &now}
	assert.False(t, closed.IsOpen())
}

func TestParticipantSessionClose(t *testing.T) {
	joinedAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		leftAt          time.Time
		expectedSeconds int
	}{
		{
			name:            "whole seconds",
			leftAt:          joinedAt.Add(90 * time.Second),
			expectedSeconds: 90,
		},
		{
			name:            "sub-second remainder floors",
			leftAt:          joinedAt.Add(125 * time.Second).Add(900 * time.Millisecond),
			expectedSeconds: 125,
		},
		{
			name:            "leave before join clamps to zero",
			leftAt:          joinedAt.Add(-30 * time.Second),
			expectedSeconds: 0,
		},
		{
			name:            "leave equals join",
			leftAt:          joinedAt,
			expectedSeconds: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &ParticipantSession{JoinedAt: joinedAt}
			session.Close(tt.leftAt)

			require.NotNil(t, session.LeftAt)
			require.NotNil(t, session.DurationSeconds)
			assert.Equal(t, tt.leftAt, *session.LeftAt)
			assert.Equal(t, tt.expectedSeconds, *session.DurationSeconds)
			assert.False(t, session.IsOpen())
		})
	}
}

func TestParticipantSessionTags(t *testing.T) {
	session := &ParticipantSession{
		UID:           "uid-1",
		CallID:        "call-1",
		UserSessionID: "us-1",
		UserID:        "user-1",
	}

	tags := session.Tags()
	assert.Contains(t, tags, "uid-1")
	assert.Contains(t, tags, "participant_session_uid:uid-1")
	assert.Contains(t, tags, "call_id:call-1")
	assert.Contains(t, tags, "user_session_id:us-1")
	assert.Contains(t, tags, "user_id:user-1")

	var nilSession *ParticipantSession
	assert.Nil(t, nilSession.Tags())
}
