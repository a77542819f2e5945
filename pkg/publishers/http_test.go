package publishers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samvad-hq/giftery-client/internal/domain"
)

func TestHTTPPublisherSuccess(t *testing.T) {
	var received Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %s", got)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "ext-77" {
			t.Errorf("Idempotency-Key = %q", got)
		}
		if got := r.Header.Get("X-Event-Type"); got != EventOrderPlaced {
			t.Errorf("X-Event-Type = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			Headers:        map[string]string{"X-Test": "1"},
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	evt := NewOrderPlacedEvent(domain.PlacedOrder{OrderID: 77, ExternalID: "ext-77"})
	if err := pub.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if received.Type != EventOrderPlaced || received.Order.OrderID != 77 {
		t.Fatalf("server received %+v", received)
	}
}

func TestHTTPPublisherErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unknown hook", http.StatusBadRequest)
	}))
	defer srv.Close()

	pub, err := newHTTPPublisher(context.Background(), PublisherConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPPublisherConfig{
			URL:            srv.URL,
			Method:         http.MethodPost,
			TimeoutSeconds: 1,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPPublisher: %v", err)
	}

	err = pub.Publish(context.Background(), NewOrderPlacedEvent(domain.PlacedOrder{OrderID: 1}))
	if err == nil || !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "unknown hook") {
		t.Fatalf("expected status error with body snippet, got %v", err)
	}
}
