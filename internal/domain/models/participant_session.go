// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// ParticipantSession represents one continuous join-to-leave interval of a
// participant within a call. Participants can have multiple sessions if they
// join and leave multiple times; each join produces an independent record.
type ParticipantSession struct {
	UID             string     `json:"uid"`
	CallID          string     `json:"call_id"`
	SessionID       string     `json:"session_id"`
	UserSessionID   string     `json:"user_session_id"`
	UserID          string     `json:"user_id"`
	FullName        string     `json:"full_name"`
	JoinedAt        time.Time  `json:"joined_at"`
	LeftAt          *time.Time `json:"left_at,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// IsOpen reports whether the session has not yet been closed by a leave event.
func (p *ParticipantSession) IsOpen() bool {
	return p != nil && p.LeftAt == nil
}

// Close marks the session as left at the given time and computes the duration
// in whole seconds, clamped to zero for out-of-order timestamps.
func (p *ParticipantSession) Close(leftAt time.Time) {
	if p == nil {
		return
	}
	duration := int(leftAt.Sub(p.JoinedAt).Seconds())
	if duration < 0 {
		duration = 0
	}
	p.LeftAt = &leftAt
	p.DurationSeconds = &duration
}

// Tags generates a consistent set of tags for the participant session,
// used as contextual log attributes.
func (p *ParticipantSession) Tags() []string {
	if p == nil {
		return nil
	}

	tags := []string{}

	if p.UID != "" {
		tags = append(tags, p.UID)
		tags = append(tags, fmt.Sprintf("participant_session_uid:%s", p.UID))
	}

	if p.CallID != "" {
		tags = append(tags, fmt.Sprintf("call_id:%s", p.CallID))
	}

	if p.UserSessionID != "" {
		tags = append(tags, fmt.Sprintf("user_session_id:%s", p.UserSessionID))
	}

	if p.UserID != "" {
		tags = append(tags, fmt.Sprintf("user_id:%s", p.UserID))
	}

	return tags
}
