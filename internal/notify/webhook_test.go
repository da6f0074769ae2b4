package notify

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func receivePayload(t *testing.T, ch <-chan WebhookPayload) WebhookPayload {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not called")
		return WebhookPayload{}
	}
}

func TestSourceLostPostsPayload(t *testing.T) {
	received := make(chan WebhookPayload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		received <- p
	}))
	defer srv.Close()

	NewWebhook(srv.URL).SourceLost(errors.New("connection reset"))

	p := receivePayload(t, received)
	if p.Event != "source_lost" {
		t.Errorf("event = %q, want source_lost", p.Event)
	}
	if p.Error != "connection reset" {
		t.Errorf("error = %q, want connection reset", p.Error)
	}
	if _, err := time.Parse(time.RFC3339, p.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC 3339: %v", p.Timestamp, err)
	}
}

func TestSourceRecoveredPostsDowntime(t *testing.T) {
	received := make(chan WebhookPayload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		received <- p
	}))
	defer srv.Close()

	NewWebhook(srv.URL).SourceRecovered(90 * time.Second)

	p := receivePayload(t, received)
	if p.Event != "source_recovered" {
		t.Errorf("event = %q, want source_recovered", p.Event)
	}
	if p.DowntimeSeconds != 90 {
		t.Errorf("downtime = %v, want 90", p.DowntimeSeconds)
	}
}

func TestPostRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL)
	if err := w.post(&WebhookPayload{Event: "source_lost", Timestamp: timestampUTC()}); err == nil {
		t.Error("post accepted a 502 response")
	}
}
