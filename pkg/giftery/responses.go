package giftery

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const statusOK = "ok"

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code flexInt `json:"code"`
		Text string  `json:"text"`
	} `json:"error"`
}

// unwrap validates the response envelope and returns its data member.
func unwrap(cmd Command, body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &ParseError{Command: cmd, Body: body, Err: err}
	}

	switch strings.ToLower(env.Status) {
	case statusOK:
	case "error":
		apiErr := &APIError{Command: cmd}
		if env.Error != nil {
			apiErr.Code = int(env.Error.Code)
			apiErr.Text = env.Error.Text
		}
		if apiErr.Text == "" {
			apiErr.Text = "unspecified error"
		}
		return nil, apiErr
	default:
		return nil, &ParseError{Command: cmd, Body: body, Err: fmt.Errorf("unexpected status %q", env.Status)}
	}

	data := bytes.TrimSpace(env.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, &ParseError{Command: cmd, Body: body, Err: errors.New("missing data")}
	}
	return data, nil
}

// BalanceResponse is the result of getBalance.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// ParseBalance decodes a getBalance response body.
func ParseBalance(body []byte) (*BalanceResponse, error) {
	data, err := unwrap(CommandGetBalance, body)
	if err != nil {
		return nil, err
	}
	var out BalanceResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ParseError{Command: CommandGetBalance, Body: body, Err: err}
	}
	return &out, nil
}

// Product is a certificate offered in the catalog.
type Product struct {
	ID                int64             `json:"id"`
	Title             string            `json:"title"`
	URL               string            `json:"url"`
	Brief             string            `json:"brief"`
	Disclaimer        string            `json:"disclaimer"`
	DigitalAcceptance string            `json:"digital_acceptance"`
	Faces             []decimal.Decimal `json:"faces"`
	FaceMin           decimal.Decimal   `json:"face_min"`
	FaceMax           decimal.Decimal   `json:"face_max"`
	FaceStep          decimal.Decimal   `json:"face_step"`
	ImageURL          string            `json:"image_url"`
	Categories        []int             `json:"categories"`
}

// productWire tolerates ids sent as strings.
type productWire struct {
	ID flexInt `json:"id"`
	Product
}

// AcceptsFace reports whether face is a valid denomination for the product.
// A fixed list of faces takes precedence over the min/max/step range.
func (p Product) AcceptsFace(face decimal.Decimal) bool {
	if !face.IsPositive() {
		return false
	}
	if len(p.Faces) > 0 {
		for _, f := range p.Faces {
			if f.Equal(face) {
				return true
			}
		}
		return false
	}
	if p.FaceMin.IsZero() && p.FaceMax.IsZero() {
		return false
	}
	if face.LessThan(p.FaceMin) || (!p.FaceMax.IsZero() && face.GreaterThan(p.FaceMax)) {
		return false
	}
	if p.FaceStep.IsPositive() {
		return face.Sub(p.FaceMin).Mod(p.FaceStep).IsZero()
	}
	return true
}

// InCategory reports whether the product is listed under category id.
func (p Product) InCategory(id int) bool {
	for _, c := range p.Categories {
		if c == id {
			return true
		}
	}
	return false
}

// ProductsResponse is the result of getProducts.
type ProductsResponse struct {
	Products []Product
}

// ParseProducts decodes a getProducts response body.
func ParseProducts(body []byte) (*ProductsResponse, error) {
	data, err := unwrap(CommandGetProducts, body)
	if err != nil {
		return nil, err
	}
	var wire []productWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &ParseError{Command: CommandGetProducts, Body: body, Err: err}
	}
	out := &ProductsResponse{Products: make([]Product, 0, len(wire))}
	for _, w := range wire {
		p := w.Product
		p.ID = int64(w.ID)
		out.Products = append(out.Products, p)
	}
	return out, nil
}

// ByID returns the product with the given id.
func (r *ProductsResponse) ByID(id int64) (Product, bool) {
	if r == nil {
		return Product{}, false
	}
	for _, p := range r.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// MakeOrderResponse is the result of makeOrder.
type MakeOrderResponse struct {
	OrderID int64
}

// ParseMakeOrder decodes a makeOrder response body.
func ParseMakeOrder(body []byte) (*MakeOrderResponse, error) {
	data, err := unwrap(CommandMakeOrder, body)
	if err != nil {
		return nil, err
	}
	var wire struct {
		ID flexInt `json:"id"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &ParseError{Command: CommandMakeOrder, Body: body, Err: err}
	}
	if wire.ID <= 0 {
		return nil, &ParseError{Command: CommandMakeOrder, Body: body, Err: errors.New("missing order id")}
	}
	return &MakeOrderResponse{OrderID: int64(wire.ID)}, nil
}

// flexInt decodes integers sent either as JSON numbers or numeric strings.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s", b)
	}
	*f = flexInt(n)
	return nil
}
