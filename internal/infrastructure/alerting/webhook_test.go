package alerting

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"

	"github.com/crickarena/fantasy-cricket/internal/platform/resilience"
)

func TestWebhookClient_DeliversPayload(t *testing.T) {
	var body atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		body.Store(raw)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewWebhookClient(WebhookConfig{
		Endpoint:    server.URL,
		ServiceName: "fantasy-cricket",
		Environment: "test",
	}, nil)

	err := client.Alert(t.Context(), "contest sibling spawn failed", map[string]string{
		"source_contest_id": "ct-1",
	})
	if err != nil {
		t.Fatalf("alert: %v", err)
	}

	raw, _ := body.Load().([]byte)
	if len(raw) == 0 {
		t.Fatalf("webhook received no body")
	}
	var payload alertPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Title != "contest sibling spawn failed" {
		t.Fatalf("unexpected title: %s", payload.Title)
	}
	if payload.Service != "fantasy-cricket" || payload.Environment != "test" {
		t.Fatalf("identity fields wrong: %+v", payload)
	}
	if payload.Fields["source_contest_id"] != "ct-1" {
		t.Fatalf("fields not carried: %+v", payload.Fields)
	}
}

func TestWebhookClient_BreakerOpensAfterFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewWebhookClient(WebhookConfig{
		Endpoint: server.URL,
		Breaker: resilience.CircuitBreakerConfig{
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, nil)

	for i := 0; i < 2; i++ {
		if err := client.Alert(t.Context(), "failing", nil); err == nil {
			t.Fatalf("expected delivery error on attempt %d", i)
		}
	}

	err := client.Alert(t.Context(), "rejected", nil)
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open breaker, got %v", err)
	}
}

func TestWebhookClient_NoEndpointIsNoop(t *testing.T) {
	client := NewWebhookClient(WebhookConfig{}, nil)
	if client.Enabled() {
		t.Fatalf("client without endpoint reports enabled")
	}
	if err := client.Alert(t.Context(), "dropped", nil); err != nil {
		t.Fatalf("no-endpoint alert should not error: %v", err)
	}
}
