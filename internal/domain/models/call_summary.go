// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// CallSummary is the aggregated attendance summary produced once per call
// after the call ends. Summaries are append-only and never mutated.
type CallSummary struct {
	UID                    string     `json:"uid"`
	CallID                 string     `json:"call_id"`
	Summary                string     `json:"summary"`
	TotalParticipants      int        `json:"total_participants"`
	TotalSessions          int        `json:"total_sessions"`
	AverageDurationSeconds int        `json:"average_duration_seconds"`
	CreatedAt              *time.Time `json:"created_at,omitempty"`
}

// Tags generates a consistent set of tags for the call summary,
// used as contextual log attributes.
func (c *CallSummary) Tags() []string {
	if c == nil {
		return nil
	}

	tags := []string{}

	if c.UID != "" {
		tags = append(tags, c.UID)
		tags = append(tags, fmt.Sprintf("call_summary_uid:%s", c.UID))
	}

	if c.CallID != "" {
		tags = append(tags, fmt.Sprintf("call_id:%s", c.CallID))
	}

	return tags
}
