package publishers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/samvad-hq/giftery-client/internal/domain"
)

// EventOrderPlaced is emitted after the remote API accepted an order.
const EventOrderPlaced = "order.placed"

// Event represents the payload published downstream.
type Event struct {
	Type        string             `json:"type"`
	Order       domain.PlacedOrder `json:"order"`
	PublishedAt time.Time          `json:"published_at"`
}

// NewOrderPlacedEvent constructs an Event for a freshly placed order.
func NewOrderPlacedEvent(order domain.PlacedOrder) Event {
	return Event{
		Type:        EventOrderPlaced,
		Order:       order,
		PublishedAt: time.Now().UTC(),
	}
}

// DedupKey identifies the order across redeliveries. Consumers that see the
// same key twice are looking at the same purchase.
func (e Event) DedupKey() string {
	if e.Order.ExternalID != "" {
		return e.Order.ExternalID
	}
	return "order-" + strconv.FormatInt(e.Order.OrderID, 10)
}

// attributes returns the routing metadata attached to queue/topic messages.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"event_type": e.Type,
		"order_id":   strconv.FormatInt(e.Order.OrderID, 10),
	}
	if e.Order.ExternalID != "" {
		attrs["external_id"] = e.Order.ExternalID
	}
	if e.Order.TestMode {
		attrs["test_mode"] = "true"
	}
	return attrs
}

func (e Event) marshal() ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal %s event: %w", e.Type, err)
	}
	return payload, nil
}
