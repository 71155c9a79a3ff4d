// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package domain

// WebhookValidator authenticates inbound webhook deliveries.
type WebhookValidator interface {
	// ValidateSignature checks the delivery signature against the raw body
	// bytes as received on the wire.
	ValidateSignature(body []byte, signature, apiKey string) error
	// IsValidEvent reports whether the event type is one the service handles.
	IsValidEvent(eventType string) bool
}
