// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/handlers"
	"github.com/classtrack/attendance-service/internal/logging"
	"github.com/classtrack/attendance-service/internal/middleware"
	"github.com/classtrack/attendance-service/internal/service"
)

// AttendanceAPI is the HTTP surface of the attendance service.
type AttendanceAPI struct {
	webhookService *service.WebhookService
	webhookHandler *handlers.StreamWebhookEventHandler
}

// NewAttendanceAPI creates a new AttendanceAPI.
func NewAttendanceAPI(
	webhookService *service.WebhookService,
	webhookHandler *handlers.StreamWebhookEventHandler,
) *AttendanceAPI {
	return &AttendanceAPI{
		webhookService: webhookService,
		webhookHandler: webhookHandler,
	}
}

// HandleStreamWebhook receives a Stream webhook delivery, authenticates it,
// and enqueues it for asynchronous processing. The 200 response only means
// the delivery was accepted, not that processing succeeded.
func (a *AttendanceAPI) HandleStreamWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rawBody, ok := middleware.GetRawBodyFromContext(ctx)
	if !ok {
		// Middleware did not capture the body; read it directly.
		body, err := io.ReadAll(r.Body)
		if err != nil {
			slog.ErrorContext(ctx, "failed to read webhook request body", logging.ErrKey, err)
			writeJSONError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		rawBody = body
	}

	var payload map[string]any
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		slog.WarnContext(ctx, "failed to parse webhook request body", logging.ErrKey, err)
		writeJSONError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	eventType, _ := payload["type"].(string)
	attempt, _ := strconv.Atoi(r.Header.Get("x-webhook-attempt"))

	req := service.WebhookRequest{
		EventID:   r.Header.Get("x-webhook-id"),
		EventType: eventType,
		Attempt:   attempt,
		Payload:   payload,
		Signature: r.Header.Get("x-signature"),
		APIKey:    r.Header.Get("x-api-key"),
		RawBody:   rawBody,
	}

	if err := a.webhookService.ProcessWebhookEvent(ctx, req); err != nil {
		writeDomainError(w, ctx, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]bool{"received": true})
}

// Livez reports whether the process is running.
func (a *AttendanceAPI) Livez(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Readyz reports whether the service dependencies are wired and ready.
func (a *AttendanceAPI) Readyz(w http.ResponseWriter, _ *http.Request) {
	if !a.webhookService.ServiceReady() || !a.webhookHandler.HandlerReady() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// writeDomainError maps a domain error to an HTTP status code and response.
func writeDomainError(w http.ResponseWriter, ctx context.Context, err error) {
	var status int
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeUnauthorized:
		status = http.StatusUnauthorized
	case domain.ErrorTypeValidation:
		status = http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		status = http.StatusNotFound
	case domain.ErrorTypeConflict:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "webhook processing failed", logging.ErrKey, err)
	}

	writeJSONError(w, status, err.Error())
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
