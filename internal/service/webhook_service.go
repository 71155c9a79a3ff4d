// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

// Package service implements the business logic of the attendance service.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/models"
	"github.com/classtrack/attendance-service/internal/logging"
)

// WebhookService handles Stream webhook event ingestion: it authenticates the
// delivery, filters duplicates, and enqueues the event for asynchronous
// processing. Any event that authenticates is acknowledged, whether or not it
// results in processing.
type WebhookService struct {
	messageSender    domain.WebhookEventSender
	webhookValidator domain.WebhookValidator
	deduplicator     domain.EventDeduplicator
}

// WebhookRequest represents the webhook processing request
type WebhookRequest struct {
	EventID   string
	EventType string
	Attempt   int
	Payload   map[string]any
	Signature string
	APIKey    string
	RawBody   []byte
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(
	messageSender domain.WebhookEventSender,
	webhookValidator domain.WebhookValidator,
	deduplicator domain.EventDeduplicator,
) *WebhookService {
	return &WebhookService{
		messageSender:    messageSender,
		webhookValidator: webhookValidator,
		deduplicator:     deduplicator,
	}
}

// ServiceReady checks if the service is ready to process requests
func (s *WebhookService) ServiceReady() bool {
	return s.messageSender != nil && s.webhookValidator != nil && s.deduplicator != nil
}

// ProcessWebhookEvent processes a Stream webhook event. A non-nil error means
// the delivery must not be acknowledged; every other outcome is an ack, so the
// provider never retries events the service chose to skip.
func (s *WebhookService) ProcessWebhookEvent(ctx context.Context, req WebhookRequest) error {
	// Authenticate before anything else is inspected.
	if err := s.webhookValidator.ValidateSignature(req.RawBody, req.Signature, req.APIKey); err != nil {
		return err
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_type", req.EventType))
	if req.EventID != "" {
		ctx = logging.AppendCtx(ctx, slog.String("event_id", req.EventID))
	}

	// Events without a type cannot be routed; skip but acknowledge so the
	// provider does not retry a payload that will never parse.
	if req.EventType == "" {
		slog.WarnContext(ctx, "webhook event has no event type, skipping")
		return nil
	}

	// Duplicate suppression. Deliveries without an event id cannot be
	// deduplicated and are processed as-is.
	if req.EventID != "" {
		shouldProcess, err := s.deduplicator.ShouldProcess(ctx, req.EventID)
		if err != nil {
			// Fail open: processing an event twice is recoverable
			// downstream, silently dropping one is not.
			slog.ErrorContext(ctx, "event dedup check failed, processing anyway", logging.ErrKey, err)
		} else if !shouldProcess {
			slog.InfoContext(ctx, "duplicate webhook event, skipping", "attempt", req.Attempt)
			return nil
		}
	}

	// Map event type to NATS subject.
	subject := models.StreamWebhookSubject(req.EventType)
	if subject == "" {
		slog.WarnContext(ctx, "unsupported webhook event type, skipping")
		return nil
	}

	webhookMessage := models.StreamWebhookEventMessage{
		EventID:    req.EventID,
		EventType:  req.EventType,
		Attempt:    req.Attempt,
		ReceivedAt: time.Now().UTC(),
		Payload:    req.Payload,
	}

	// Publish to NATS for async processing.
	if err := s.messageSender.PublishWebhookEvent(ctx, subject, webhookMessage); err != nil {
		slog.ErrorContext(ctx, "failed to publish webhook event to NATS", logging.ErrKey, err, "subject", subject)
		return domain.NewInternalError("failed to queue webhook event", err)
	}

	slog.InfoContext(ctx, "webhook event queued for processing", "subject", subject)
	return nil
}
