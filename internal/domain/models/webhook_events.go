// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Stream webhook event types as sent by the video-calling provider.
const (
	StreamEventCallSessionStarted = "call.session_started"
	StreamEventCallSessionEnded   = "call.session_ended"
	StreamEventParticipantJoined  = "call.session_participant_joined"
	StreamEventParticipantLeft    = "call.session_participant_left"
)

// NATS subjects for webhook events accepted by the attendance service.
const (
	// AttendanceAPIQueue is the queue name for the attendance API NATS subscriptions.
	AttendanceAPIQueue = "classtrack.attendance-api.queue"

	StreamWebhookCallSessionStartedSubject = "classtrack.webhook.stream.call.session_started"
	StreamWebhookCallSessionEndedSubject   = "classtrack.webhook.stream.call.session_ended"
	StreamWebhookParticipantJoinedSubject  = "classtrack.webhook.stream.call.session_participant_joined"
	StreamWebhookParticipantLeftSubject    = "classtrack.webhook.stream.call.session_participant_left"
)

// StreamWebhookEventMessage is the NATS message schema for a webhook event
// accepted by the ingress and queued for asynchronous processing.
type StreamWebhookEventMessage struct {
	EventID    string         `json:"event_id"`
	EventType  string         `json:"event_type"`
	Attempt    int            `json:"attempt"`
	ReceivedAt time.Time      `json:"received_at"`
	Payload    map[string]any `json:"payload"`
}

// StreamUser identifies the user behind a participant in a call.
type StreamUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StreamParticipant represents participant data from Stream webhook events.
type StreamParticipant struct {
	UserSessionID string     `json:"user_session_id"`
	JoinedAt      time.Time  `json:"joined_at"`
	User          StreamUser `json:"user"`
}

// StreamCallSessionStartedPayload represents the payload for call.session_started events.
type StreamCallSessionStartedPayload struct {
	CallCID   string    `json:"call_cid"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StreamCallSessionEndedPayload represents the payload for call.session_ended events.
type StreamCallSessionEndedPayload struct {
	CallCID   string    `json:"call_cid"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StreamParticipantJoinedPayload represents the payload for call.session_participant_joined events.
type StreamParticipantJoinedPayload struct {
	CallCID     string            `json:"call_cid"`
	SessionID   string            `json:"session_id"`
	Participant StreamParticipant `json:"participant"`
	CreatedAt   time.Time         `json:"created_at"`
}

// StreamParticipantLeftPayload represents the payload for call.session_participant_left events.
// CreatedAt is the provider-side event timestamp and doubles as the leave time.
type StreamParticipantLeftPayload struct {
	CallCID     string            `json:"call_cid"`
	SessionID   string            `json:"session_id"`
	Participant StreamParticipant `json:"participant"`
	CreatedAt   time.Time         `json:"created_at"`
}

// convertPayload marshals the generic payload map and unmarshals it into the
// typed payload struct.
func (m *StreamWebhookEventMessage) convertPayload(expectedType string, out any) error {
	if m.EventType != expectedType {
		return fmt.Errorf("invalid event type: expected %s, got %s", expectedType, m.EventType)
	}

	data, err := json.Marshal(m.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %w", expectedType, err)
	}

	return nil
}

// ToCallSessionStartedPayload converts the webhook event to a typed call session started payload
func (m *StreamWebhookEventMessage) ToCallSessionStartedPayload() (*StreamCallSessionStartedPayload, error) {
	var payload StreamCallSessionStartedPayload
	if err := m.convertPayload(StreamEventCallSessionStarted, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToCallSessionEndedPayload converts the webhook event to a typed call session ended payload
func (m *StreamWebhookEventMessage) ToCallSessionEndedPayload() (*StreamCallSessionEndedPayload, error) {
	var payload StreamCallSessionEndedPayload
	if err := m.convertPayload(StreamEventCallSessionEnded, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToParticipantJoinedPayload converts the webhook event to a typed participant joined payload
func (m *StreamWebhookEventMessage) ToParticipantJoinedPayload() (*StreamParticipantJoinedPayload, error) {
	var payload StreamParticipantJoinedPayload
	if err := m.convertPayload(StreamEventParticipantJoined, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToParticipantLeftPayload converts the webhook event to a typed participant left payload
func (m *StreamWebhookEventMessage) ToParticipantLeftPayload() (*StreamParticipantLeftPayload, error) {
	var payload StreamParticipantLeftPayload
	if err := m.convertPayload(StreamEventParticipantLeft, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// LeftAt returns the leave timestamp for a participant left event. The
// provider sends the event creation time as the leave time; when it is
// missing, the time the service received the event is the best approximation.
func (p *StreamParticipantLeftPayload) LeftAt(receivedAt time.Time) time.Time {
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt
	}
	return receivedAt
}

// StreamWebhookSubject maps a Stream event type to the NATS subject it is
// routed to. The empty string marks an unhandled event type.
func StreamWebhookSubject(eventType string) string {
	eventSubjectMap := map[string]string{
		StreamEventCallSessionStarted: StreamWebhookCallSessionStartedSubject,
		StreamEventCallSessionEnded:   StreamWebhookCallSessionEndedSubject,
		StreamEventParticipantJoined:  StreamWebhookParticipantJoinedSubject,
		StreamEventParticipantLeft:    StreamWebhookParticipantLeftSubject,
	}

	return eventSubjectMap[eventType]
}
