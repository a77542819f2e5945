package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/giftery-client/pkg/httpclient"
)

const maxErrorBody = 512

// httpPublisher posts order events to a webhook. Each request carries an
// Idempotency-Key so receivers can drop redeliveries of the same order.
type httpPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}
	c := cfg.normalized().HTTP

	return &httpPublisher{
		id:      cfg.ID,
		method:  c.Method,
		url:     c.URL,
		headers: c.Headers,
		client:  httpclient.NewRestyHTTPClient(time.Duration(c.TimeoutSeconds) * time.Second),
		log:     ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := evt.marshal()
	if err != nil {
		return err
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeaders(h.headers).
		SetHeader("Content-Type", "application/json").
		SetHeader("Idempotency-Key", evt.DedupKey()).
		SetHeader("X-Event-Type", evt.Type).
		SetBody(payload).
		Execute(h.method, h.url)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("http response status %d: %s", resp.StatusCode(), errorSnippet(resp.Body()))
	}

	h.log.DebugObj("order event delivered", "publisher_delivery", map[string]any{
		"publisher_id": h.id,
		"status":       resp.StatusCode(),
		"dedup_key":    evt.DedupKey(),
	})
	return nil
}

func errorSnippet(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return strings.TrimSpace(string(body))
}
