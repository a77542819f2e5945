package giftery

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Delivery types accepted by makeOrder.
const (
	DeliveryDownload = "download"
	DeliveryEmail    = "email"
)

// OrderData is the makeOrder payload. Field order is fixed by the struct,
// so serialization is deterministic.
type OrderData struct {
	ProductID    int64  `json:"product_id"`
	Face         int64  `json:"face"`
	EmailTo      string `json:"email_to,omitempty"`
	From         string `json:"from,omitempty"`
	To           string `json:"to,omitempty"`
	Text         string `json:"text,omitempty"`
	Comment      string `json:"comment,omitempty"`
	ExternalID   string `json:"external_id,omitempty"`
	DeliveryType string `json:"delivery_type,omitempty"`
	TestMode     bool   `json:"-"`
}

// orderWire adds the integer testmode flag the API expects.
type orderWire struct {
	OrderData
	TestMode int `json:"testmode,omitempty"`
}

// Validate performs the basic checks the remote would otherwise reject.
func (o *OrderData) Validate() error {
	if o == nil {
		return ErrNilOrder
	}
	if o.ProductID <= 0 {
		return fmt.Errorf("%w: product_id must be positive", ErrInvalidOrder)
	}
	if o.Face <= 0 {
		return fmt.Errorf("%w: face must be positive", ErrInvalidOrder)
	}
	switch o.DeliveryType {
	case "", DeliveryDownload:
	case DeliveryEmail:
		if strings.TrimSpace(o.EmailTo) == "" {
			return fmt.Errorf("%w: email_to is required for email delivery", ErrInvalidOrder)
		}
	default:
		return fmt.Errorf("%w: unknown delivery_type %q", ErrInvalidOrder, o.DeliveryType)
	}
	return nil
}

// ToJSON implements RequestData.
func (o *OrderData) ToJSON() (string, error) {
	if o == nil {
		return emptyObject, nil
	}
	w := orderWire{OrderData: *o}
	if o.TestMode {
		w.TestMode = 1
	}
	raw, err := json.Marshal(w)
	if err != nil {
		return "", fmt.Errorf("marshal order: %w", err)
	}
	return string(raw), nil
}
