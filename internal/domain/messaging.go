// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/classtrack/attendance-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// WebhookEventSender enqueues an authenticated webhook event for asynchronous
// processing by the worker subscriptions.
type WebhookEventSender interface {
	PublishWebhookEvent(ctx context.Context, subject string, event models.StreamWebhookEventMessage) error
}
