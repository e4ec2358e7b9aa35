package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWebhookProviderSend(t *testing.T) {
	var received Notification
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := NewWebhookProvider("test", true, server.URL, 5*time.Second)
	n := &Notification{ID: "1", Title: "Dog bark detected!", Body: "Confidence: 0.95", Tag: "dog-bark"}

	if err := provider.Send(context.Background(), n); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if received.Title != n.Title || received.Body != n.Body || received.Tag != n.Tag {
		t.Errorf("received %+v, want %+v", received, *n)
	}
}

func TestWebhookProviderSendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewWebhookProvider("test", true, server.URL, 5*time.Second)
	if err := provider.Send(context.Background(), &Notification{Title: "t"}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestWebhookProviderDisabledWithoutURL(t *testing.T) {
	provider := NewWebhookProvider("test", true, "", 0)
	if provider.IsEnabled() {
		t.Error("provider without URL must report disabled")
	}
}
