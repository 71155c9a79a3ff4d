// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

// Package messaging publishes messages to the NATS server.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/models"
	"github.com/classtrack/attendance-service/internal/logging"
)

// INatsConn is a NATS connection interface needed for publishing.
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// PublishWebhookEvent publishes a Stream webhook event to NATS for async processing.
func (m *MessageBuilder) PublishWebhookEvent(ctx context.Context, subject string, message models.StreamWebhookEventMessage) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling Stream webhook event into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "publishing Stream webhook event to NATS",
		"subject", subject,
		"event_type", message.EventType,
		"event_id", message.EventID,
	)

	return m.sendMessage(ctx, subject, messageBytes)
}

// Ensure MessageBuilder implements domain.WebhookEventSender
var _ domain.WebhookEventSender = (*MessageBuilder)(nil)
