// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/attendance-service/internal/domain/models"
)

// mockNatsConn implements INatsConn for testing
type mockNatsConn struct {
	connected    bool
	publishError error
	published    []publishedMessage
}

type publishedMessage struct {
	subject string
	data    []byte
}

func (m *mockNatsConn) IsConnected() bool {
	return m.connected
}

func (m *mockNatsConn) Publish(subj string, data []byte) error {
	if m.publishError != nil {
		return m.publishError
	}
	m.published = append(m.published, publishedMessage{subject: subj, data: data})
	return nil
}

func TestPublishWebhookEvent(t *testing.T) {
	conn := &mockNatsConn{connected: true}
	builder := NewMessageBuilder(conn)

	event := models.StreamWebhookEventMessage{
		EventID:   "event-1",
		EventType: models.StreamEventParticipantJoined,
		Attempt:   1,
		Payload:   map[string]any{"call_cid": "default:call-1"},
	}

	err := builder.PublishWebhookEvent(context.Background(), models.StreamWebhookParticipantJoinedSubject, event)
	require.NoError(t, err)

	require.Len(t, conn.published, 1)
	assert.Equal(t, models.StreamWebhookParticipantJoinedSubject, conn.published[0].subject)

	var decoded models.StreamWebhookEventMessage
	require.NoError(t, json.Unmarshal(conn.published[0].data, &decoded))
	assert.Equal(t, "event-1", decoded.EventID)
	assert.Equal(t, models.StreamEventParticipantJoined, decoded.EventType)
	assert.Equal(t, "default:call-1", decoded.Payload["call_cid"])
}

func TestPublishWebhookEventPublishError(t *testing.T) {
	conn := &mockNatsConn{connected: true, publishError: errors.New("connection lost")}
	builder := NewMessageBuilder(conn)

	err := builder.PublishWebhookEvent(context.Background(), models.StreamWebhookParticipantJoinedSubject, models.StreamWebhookEventMessage{})
	assert.Error(t, err)
	assert.Empty(t, conn.published)
}
