// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

// Package handlers routes queued webhook events to the domain services.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/models"
	"github.com/classtrack/attendance-service/internal/logging"
	"github.com/classtrack/attendance-service/internal/service"
)

// StreamWebhookEventHandler handles queued Stream webhook events.
type StreamWebhookEventHandler struct {
	attendanceService *service.AttendanceService
	summaryService    *service.SummaryService
}

// NewStreamWebhookEventHandler creates a new StreamWebhookEventHandler
func NewStreamWebhookEventHandler(
	attendanceService *service.AttendanceService,
	summaryService *service.SummaryService,
) *StreamWebhookEventHandler {
	return &StreamWebhookEventHandler{
		attendanceService: attendanceService,
		summaryService:    summaryService,
	}
}

// HandlerReady checks if the handler's services are ready.
func (s *StreamWebhookEventHandler) HandlerReady() bool {
	return s.attendanceService.ServiceReady() && s.summaryService.ServiceReady()
}

// HandleMessage implements [domain.MessageHandler]. Handler errors are logged
// and never propagated; a webhook event that cannot be processed is dropped
// rather than redelivered forever.
func (s *StreamWebhookEventHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]func(ctx context.Context, event models.StreamWebhookEventMessage) error{
		models.StreamWebhookCallSessionStartedSubject: s.attendanceService.HandleCallSessionStarted,
		models.StreamWebhookCallSessionEndedSubject:   s.summaryService.HandleCallSessionEnded,
		models.StreamWebhookParticipantJoinedSubject:  s.attendanceService.HandleParticipantJoined,
		models.StreamWebhookParticipantLeftSubject:    s.attendanceService.HandleParticipantLeft,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		s.respond(ctx, msg, nil)
		return
	}

	event, err := s.parseWebhookEvent(ctx, msg)
	if err != nil {
		s.respond(ctx, msg, nil)
		return
	}

	ctx = logging.AppendCtx(ctx, slog.String("event_type", event.EventType))
	if event.EventID != "" {
		ctx = logging.AppendCtx(ctx, slog.String("event_id", event.EventID))
	}

	if err := handler(ctx, *event); err != nil {
		slog.ErrorContext(ctx, "error handling webhook event", logging.ErrKey, err)
		s.respond(ctx, msg, nil)
		return
	}

	slog.InfoContext(ctx, "successfully processed webhook event")
	s.respond(ctx, msg, nil)
}

// parseWebhookEvent is a helper to parse webhook event messages
func (s *StreamWebhookEventHandler) parseWebhookEvent(ctx context.Context, msg domain.Message) (*models.StreamWebhookEventMessage, error) {
	var webhookEvent models.StreamWebhookEventMessage
	if err := json.Unmarshal(msg.Data(), &webhookEvent); err != nil {
		slog.ErrorContext(ctx, "failed to unmarshal Stream webhook event", logging.ErrKey, err)
		return nil, fmt.Errorf("failed to unmarshal webhook event: %w", err)
	}
	return &webhookEvent, nil
}

// respond acknowledges the message when a reply is expected.
func (s *StreamWebhookEventHandler) respond(ctx context.Context, msg domain.Message, response []byte) {
	if !msg.HasReply() {
		return
	}
	if err := msg.Respond(response); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
	}
}

// Ensure StreamWebhookEventHandler implements domain.MessageHandler
var _ domain.MessageHandler = (*StreamWebhookEventHandler)(nil)
