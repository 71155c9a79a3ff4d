// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

// Package main is the attendance service API that receives Stream video
// webhooks over HTTP and handles NATS messages for attendance tracking and
// call summary generation.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/classtrack/attendance-service/internal/handlers"
	"github.com/classtrack/attendance-service/internal/infrastructure/messaging"
	"github.com/classtrack/attendance-service/internal/infrastructure/report"
	"github.com/classtrack/attendance-service/internal/infrastructure/stream/webhook"
	"github.com/classtrack/attendance-service/internal/logging"
	"github.com/classtrack/attendance-service/internal/service"
	"github.com/classtrack/attendance-service/pkg/concurrent"
)

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	// Webhook authentication for inbound Stream deliveries.
	webhookValidator := webhook.NewStreamWebhookValidator(env.StreamAPIKey, env.StreamWebhookSecret)

	// Initialize email service (independent of NATS)
	emailService, err := setupEmailService(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up email service")
		return
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, &gracefulCloseWG, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, natsConn, env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize services
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	deduplicator := setupDeduplicator(env, repos)
	webhookService := service.NewWebhookService(
		messageBuilder,
		webhookValidator,
		deduplicator,
	)
	attendanceService := service.NewAttendanceService(repos.ParticipantSession)
	summaryService := service.NewSummaryService(
		repos.ParticipantSession,
		repos.CallSummary,
		setupSummarizer(env),
		report.NewPDFGenerator(env.ReportOutputDir),
		emailService,
		env.SummaryRecipients,
		concurrent.NewWorkerPool(env.EmailWorkerCount),
	)

	// Initialize handlers
	webhookEventHandler := handlers.NewStreamWebhookEventHandler(
		attendanceService,
		summaryService,
	)

	api := NewAttendanceAPI(webhookService, webhookEventHandler)

	httpServer := setupHTTPServer(flags, api, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	err = createNatsSubscriptions(ctx, webhookEventHandler, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
		return
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)
}

// gracefulShutdown stops accepting HTTP traffic, drains the NATS connection so
// in-flight messages finish, and waits for everything to close.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.With(logging.ErrKey, err).Error("http server shutdown error")
	}
	gracefulCloseWG.Done()

	// Drain fires the closed handler, which releases the wait group. Close
	// does the same, so neither path decrements it here.
	if natsConn != nil && !natsConn.IsClosed() {
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
			natsConn.Close()
		}
	}

	cancel()
	gracefulCloseWG.Wait()
}
