package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fediwatch/fediwatch-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	handler := func(context.Context, json.RawMessage) error { return nil }

	if err := registry.Register("job", handler); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register("job", handler); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := registry.Register("", handler); err == nil {
		t.Fatalf("expected empty name to be rejected")
	}
}

func TestSyncDispatcherRunsInline(t *testing.T) {
	registry := NewRegistry()
	var gotPayload string
	err := registry.Register("echo", func(_ context.Context, payload json.RawMessage) error {
		gotPayload = string(payload)
		return nil
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	dispatcher := NewSyncDispatcher(registry, testLogger(t))
	job := Job{Name: "echo", Payload: json.RawMessage(`{"x":1}`)}
	if err := dispatcher.Enqueue(context.Background(), job); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if gotPayload != `{"x":1}` {
		t.Fatalf("handler did not run inline, payload %q", gotPayload)
	}
}

func TestSyncDispatcherUnknownJob(t *testing.T) {
	dispatcher := NewSyncDispatcher(NewRegistry(), testLogger(t))
	if err := dispatcher.Enqueue(context.Background(), Job{Name: "ghost"}); err == nil {
		t.Fatalf("expected unknown job to error")
	}
}

func TestSyncDispatcherPropagatesHandlerError(t *testing.T) {
	registry := NewRegistry()
	boom := errors.New("boom")
	_ = registry.Register("fail", func(context.Context, json.RawMessage) error { return boom })

	dispatcher := NewSyncDispatcher(registry, testLogger(t))
	if err := dispatcher.Enqueue(context.Background(), Job{Name: "fail"}); !errors.Is(err, boom) {
		t.Fatalf("expected handler error, got %v", err)
	}
}
