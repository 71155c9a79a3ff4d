// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/infrastructure/dedup"
	"github.com/classtrack/attendance-service/internal/infrastructure/email"
	"github.com/classtrack/attendance-service/internal/infrastructure/summarizer"
)

// setupSummarizer configures the OpenAI-backed summary generator.
func setupSummarizer(env environment) *summarizer.Client {
	return summarizer.NewClient(summarizer.Config{
		APIKey:  env.OpenAIAPIKey,
		BaseURL: env.OpenAIBaseURL,
		Model:   env.OpenAIModel,
	})
}

// setupEmailService configures the SMTP email service, falling back to a
// no-op implementation when no SMTP host is configured.
func setupEmailService(env environment) (domain.EmailService, error) {
	if env.SMTPHost == "" {
		slog.Warn("SMTP_HOST not set, email delivery is disabled")
		return email.NewNoOpService(), nil
	}

	return email.NewSMTPService(email.SMTPConfig{
		Host:     env.SMTPHost,
		Port:     env.SMTPPort,
		From:     env.SMTPFrom,
		Username: env.SMTPUsername,
		Password: env.SMTPPassword,
	})
}

// setupDeduplicator picks the webhook deduplication backend. The NATS KV
// backend survives restarts and is shared across instances; the in-memory
// backend is for single-instance deployments without JetStream.
func setupDeduplicator(env environment, repos *storeRepositories) domain.EventDeduplicator {
	if env.DedupBackend == "memory" {
		return dedup.NewMemoryDeduplicator(env.DedupMaxEntries)
	}
	return repos.WebhookDedup
}
