package domain

import "time"

// Domain contains core models shared by storage, publishers and the app.

// PlacedOrder is a certificate order accepted by the remote API.
type PlacedOrder struct {
	OrderID    int64     `json:"order_id"`
	ExternalID string    `json:"external_id"`
	ProductID  int64     `json:"product_id"`
	Face       int64     `json:"face"`
	EmailTo    string    `json:"email_to,omitempty"`
	TestMode   bool      `json:"test_mode,omitempty"`
	PlacedAt   time.Time `json:"placed_at"`
}
