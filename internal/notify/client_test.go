package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew_MissingWebhookURL(t *testing.T) {
	_, err := New("")
	if !errors.Is(err, ErrMissingWebhookURL) {
		t.Errorf("expected ErrMissingWebhookURL, got %v", err)
	}
}

func TestSend(t *testing.T) {
	var received Message

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode webhook payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := client.Send(context.Background(), "email for Juan validated"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if received.Text != "email for Juan validated" {
		t.Errorf("expected notification text, got %q", received.Text)
	}
}

func TestSend_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	client, err := New(server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = client.Send(context.Background(), "notice")
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("expected ErrUnexpectedStatus, got %v", err)
	}
}
