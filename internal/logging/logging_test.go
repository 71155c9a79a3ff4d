// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestAppendCtx(t *testing.T) {
	ctx := AppendCtx(context.TODO(), slog.String("call_id", "call-1"))

	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	if !ok {
		t.Fatal("expected slog attributes in context")
	}
	if len(attrs) != 1 {
		t.Fatalf("expected 1 attribute, got %d", len(attrs))
	}
	if attrs[0].Key != "call_id" || attrs[0].Value.String() != "call-1" {
		t.Errorf("unexpected attribute: %v", attrs[0])
	}
}

func TestAppendCtx_Accumulates(t *testing.T) {
	ctx := context.Background()
	ctx = AppendCtx(ctx, slog.String("call_id", "call-1"))
	ctx = AppendCtx(ctx, slog.String("event_id", "evt-1"))
	ctx = AppendCtx(ctx, slog.Int("attempt", 2))

	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	if !ok {
		t.Fatal("expected slog attributes in context")
	}
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	for i, key := range []string{"call_id", "event_id", "attempt"} {
		if attrs[i].Key != key {
			t.Errorf("expected key[%d] %q, got %q", i, key, attrs[i].Key)
		}
	}
}

func TestAppendCtx_NilParent(t *testing.T) {
	//nolint:staticcheck // nil parent is the case under test
	ctx := AppendCtx(nil, slog.String("call_id", "call-1"))
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	if _, ok := ctx.Value(slogFields).([]slog.Attr); !ok {
		t.Error("expected slog attributes in context")
	}
}

func TestContextHandler_Handle(t *testing.T) {
	var captured []string
	inner := &recordingHandler{
		handleFunc: func(_ context.Context, r slog.Record) error {
			r.Attrs(func(a slog.Attr) bool {
				captured = append(captured, a.Key)
				return true
			})
			return nil
		},
	}
	handler := contextHandler{Handler: inner}

	ctx := AppendCtx(context.Background(), slog.String("call_id", "call-1"))
	record := slog.NewRecord(time.Now(), slog.LevelInfo, "session closed", 0)
	record.AddAttrs(slog.String("user_session_id", "us-1"))

	if err := handler.Handle(ctx, record); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	want := map[string]bool{"user_session_id": false, "call_id": false}
	for _, key := range captured {
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, seen := range want {
		if !seen {
			t.Errorf("expected attribute %q on the record", key)
		}
	}
}

func TestInitStructureLogConfig(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel string
	}{
		{"default", ""},
		{"debug level", "debug"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"info level", "info"},
		{"unknown level", "verbose"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tc.logLevel)
			if handler := InitStructureLogConfig(); handler == nil {
				t.Error("expected non-nil handler")
			}
		})
	}
}

func TestPriorityCritical(t *testing.T) {
	attr := PriorityCritical()
	if attr.Key != "priority" {
		t.Errorf("expected key 'priority', got %q", attr.Key)
	}
	if attr.Value.String() != "critical" {
		t.Errorf("expected value 'critical', got %q", attr.Value.String())
	}
}

type recordingHandler struct {
	handleFunc func(context.Context, slog.Record) error
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.handleFunc(ctx, r)
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(string) slog.Handler { return h }
