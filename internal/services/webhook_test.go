package services

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNotifyUpgrade(t *testing.T) {
	var received webhookMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Setenv("UPGRADE_WEBHOOK_URL", server.URL)
	client := NewWebhookClient()

	if err := client.NotifyUpgrade("acme", "admin@acme.test"); err != nil {
		t.Fatalf("NotifyUpgrade failed: %v", err)
	}
	if !strings.Contains(received.Text, "acme") || !strings.Contains(received.Text, "admin@acme.test") {
		t.Errorf("message = %q", received.Text)
	}
}

func TestNotifyQuotaHitServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	t.Setenv("UPGRADE_WEBHOOK_URL", server.URL)
	client := NewWebhookClient()

	if err := client.NotifyQuotaHit("acme"); err == nil {
		t.Error("expected error on non-200 webhook response")
	}
}

func TestWebhookDisabled(t *testing.T) {
	t.Setenv("UPGRADE_WEBHOOK_URL", "")
	client := NewWebhookClient()

	if err := client.NotifyUpgrade("acme", "admin@acme.test"); err != nil {
		t.Errorf("disabled webhook should no-op, got %v", err)
	}
}
