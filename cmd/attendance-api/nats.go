// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/models"
	"github.com/classtrack/attendance-service/internal/infrastructure/store"
	"github.com/classtrack/attendance-service/internal/logging"
)

// natsMsg wraps a *nats.Msg to satisfy [domain.Message].
type natsMsg struct {
	msg *nats.Msg
}

func (m *natsMsg) Subject() string {
	return m.msg.Subject
}

func (m *natsMsg) Data() []byte {
	return m.msg.Data
}

func (m *natsMsg) Respond(data []byte) error {
	return m.msg.Respond(data)
}

func (m *natsMsg) HasReply() bool {
	return m.msg.Reply != ""
}

var _ domain.Message = (*natsMsg)(nil)

// setupNATS establishes the NATS connection used for both publishing and
// queue subscriptions. The closed handler participates in graceful shutdown:
// draining the connection eventually fires it, which releases the wait group.
func setupNATS(ctx context.Context, env environment, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	gracefulCloseWG.Add(1)

	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.DrainTimeout(25*time.Second),
		nats.ConnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "connected to NATS server", "url", nc.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.ErrorContext(ctx, "NATS subscription error", logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue)
				return
			}
			slog.ErrorContext(ctx, "NATS error", logging.ErrKey, err)
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS connection closed")
			gracefulCloseWG.Done()
			// If the connection closed outside of a shutdown, exit.
			select {
			case done <- os.Interrupt:
			default:
			}
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, err
	}

	return natsConn, nil
}

// storeRepositories holds the NATS KV backed repositories for the service.
type storeRepositories struct {
	ParticipantSession *store.NatsParticipantSessionRepository
	CallSummary        *store.NatsCallSummaryRepository
	WebhookDedup       *store.NatsDedupRepository
}

// getKeyValueStores creates or binds the KV buckets used by the service and
// wraps them in repositories. The dedup bucket carries a TTL so seen event IDs
// age out on their own.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn, env environment) (*storeRepositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, err
	}

	participantSessions, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: store.KVStoreNameParticipantSessions,
	})
	if err != nil {
		return nil, err
	}

	callSummaries, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: store.KVStoreNameCallSummaries,
	})
	if err != nil {
		return nil, err
	}

	webhookDedup, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: store.KVStoreNameWebhookDedup,
		TTL:    env.DedupTTL,
	})
	if err != nil {
		return nil, err
	}

	return &storeRepositories{
		ParticipantSession: store.NewNatsParticipantSessionRepository(participantSessions),
		CallSummary:        store.NewNatsCallSummaryRepository(callSummaries),
		WebhookDedup:       store.NewNatsDedupRepository(webhookDedup),
	}, nil
}

// createNatsSubscriptions creates the queue subscriptions for the webhook
// event subjects. All subscriptions share one queue group so each event is
// handled by a single instance.
func createNatsSubscriptions(ctx context.Context, handler domain.MessageHandler, natsConn *nats.Conn) error {
	subjects := []string{
		models.StreamWebhookCallSessionStartedSubject,
		models.StreamWebhookCallSessionEndedSubject,
		models.StreamWebhookParticipantJoinedSubject,
		models.StreamWebhookParticipantLeftSubject,
	}

	for _, subject := range subjects {
		_, err := natsConn.QueueSubscribe(subject, models.AttendanceAPIQueue, func(msg *nats.Msg) {
			handler.HandleMessage(ctx, &natsMsg{msg: msg})
		})
		if err != nil {
			slog.ErrorContext(ctx, "error creating NATS queue subscription", logging.ErrKey, err, "subject", subject)
			return err
		}
		slog.InfoContext(ctx, "created NATS queue subscription", "subject", subject, "queue", models.AttendanceAPIQueue)
	}

	return nil
}
