package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spond-whatsapp-bridge/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		GraphBase:     srv.URL,
		PhoneNumberID: "555000",
		WhatsAppToken: "test-token",
	}
	return NewClient(cfg), srv
}

func TestSendText(t *testing.T) {
	var got GenericMessage
	var gotPath, gotAuth string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := client.SendText(context.Background(), "+447700900000", "hello"); err != nil {
		t.Fatalf("SendText() error = %v", err)
	}

	if gotPath != "/555000/messages" {
		t.Errorf("path got = %q, want %q", gotPath, "/555000/messages")
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("auth header got = %q", gotAuth)
	}
	if got.MessagingProduct != "whatsapp" || got.Type != "text" {
		t.Errorf("envelope got = %+v", got)
	}
	if got.Text == nil || got.Text.Body != "hello" {
		t.Errorf("text body got = %+v", got.Text)
	}
}

func TestSendAvailabilityButtons(t *testing.T) {
	var got GenericMessage
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	err := client.SendAvailabilityButtons(context.Background(), "+447700900000", "evt123", "Training")
	if err != nil {
		t.Fatalf("SendAvailabilityButtons() error = %v", err)
	}

	if got.Type != "interactive" || got.Interactive == nil {
		t.Fatalf("expected interactive message, got %+v", got)
	}
	if got.Interactive.Type != "button" {
		t.Errorf("interactive type got = %q", got.Interactive.Type)
	}
	if !strings.Contains(got.Interactive.Body.Text, "Training") {
		t.Errorf("body text got = %q, want event title included", got.Interactive.Body.Text)
	}

	buttons := got.Interactive.Action.Buttons
	if len(buttons) != 3 {
		t.Fatalf("button count got = %d, want 3", len(buttons))
	}
	wantIDs := []string{"EVT:evt123:YES", "EVT:evt123:MAYBE", "EVT:evt123:NO"}
	wantTitles := []string{"Yes", "Maybe", "No"}
	for i, b := range buttons {
		if b.Type != "reply" {
			t.Errorf("button %d type got = %q", i, b.Type)
		}
		if b.Reply.ID != wantIDs[i] {
			t.Errorf("button %d id got = %q, want %q", i, b.Reply.ID, wantIDs[i])
		}
		if b.Reply.Title != wantTitles[i] {
			t.Errorf("button %d title got = %q, want %q", i, b.Reply.Title, wantTitles[i])
		}
	}
}

func TestSendTemplate(t *testing.T) {
	var got GenericMessage
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	err := client.SendTemplate(context.Background(), "+447700900000", "match_reminder", "en_GB", nil)
	if err != nil {
		t.Fatalf("SendTemplate() error = %v", err)
	}
	if got.Template == nil || got.Template.Name != "match_reminder" {
		t.Errorf("template got = %+v", got.Template)
	}
	if got.Template.Language.Code != "en_GB" {
		t.Errorf("language got = %q", got.Template.Language.Code)
	}
}

func TestSendTextUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid recipient"}`, http.StatusBadRequest)
	})

	err := client.SendText(context.Background(), "+447700900000", "hello")
	if err == nil {
		t.Fatal("expected error on non-2xx response")
	}
	if !strings.Contains(err.Error(), "invalid recipient") {
		t.Errorf("error should carry the response detail, got %v", err)
	}
}
