// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

// Package webhook validates inbound Stream webhook deliveries.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/classtrack/attendance-service/internal/domain"
)

// StreamWebhookValidator handles authentication of Stream webhook deliveries.
// The signature is a hex-encoded HMAC-SHA256 of the raw request body computed
// with the shared secret token; the API key is a shared static credential
// checked alongside it.
type StreamWebhookValidator struct {
	APIKey      string
	SecretToken string
}

// NewStreamWebhookValidator creates a new Stream webhook validator
func NewStreamWebhookValidator(apiKey, secretToken string) *StreamWebhookValidator {
	return &StreamWebhookValidator{
		APIKey:      apiKey,
		SecretToken: secretToken,
	}
}

// ValidateSignature validates a webhook delivery against the raw body bytes.
// The body must be the bytes as received on the wire; hashing any re-encoded
// form breaks verification because re-serialization is not byte-stable.
func (v *StreamWebhookValidator) ValidateSignature(body []byte, signature, apiKey string) error {
	if v.APIKey == "" || v.SecretToken == "" {
		return domain.NewInternalError("webhook credentials not configured")
	}

	if signature == "" || apiKey == "" {
		return domain.NewUnauthorizedError("missing authentication headers")
	}

	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(v.APIKey)) != 1 {
		return domain.NewUnauthorizedError("invalid API key")
	}

	h := hmac.New(sha256.New, []byte(v.SecretToken))
	h.Write(body)
	expectedSignature := hex.EncodeToString(h.Sum(nil))

	// The digest is always computed before the comparison so that a
	// length mismatch cannot short-circuit ahead of the constant-time
	// check.
	if subtle.ConstantTimeCompare([]byte(signature), []byte(expectedSignature)) != 1 {
		return domain.NewUnauthorizedError("invalid signature")
	}

	return nil
}

// IsValidEvent checks if the event type is supported
func (v *StreamWebhookValidator) IsValidEvent(eventType string) bool {
	validEvents := map[string]bool{
		"call.session_started":            true,
		"call.session_ended":              true,
		"call.session_participant_joined": true,
		"call.session_participant_left":   true,
	}

	return validEvents[eventType]
}
