package giftery

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/giftery-client/pkg/httpclient"
)

const (
	// DefaultEndpoint is the production API base URL.
	DefaultEndpoint = "https://ssl-api.giftery.ru"

	// Version is reported in the User-Agent header.
	Version = "0.1.0"
)

// DefaultUserAgent identifies this client to the remote service.
var DefaultUserAgent = "Giftery Api client for Go/" + Version

// Client issues signed calls against the Giftery API.
// Methods never mutate the receiver.
type Client struct {
	clientID  int64
	secret    string
	endpoint  string
	mode      Mode
	userAgent string
	http      httpclient.Client
	log       Logger
}

// Option customises a Client at construction.
type Option func(*Client)

// WithEndpoint overrides DefaultEndpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = normalizeEndpoint(endpoint)
	}
}

// WithMode sets the initial transport mode.
func WithMode(mode Mode) Option {
	return func(c *Client) {
		c.mode = mode
	}
}

// WithHTTPClient replaces the default resty transport.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets a debug logger for request metadata.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		c.log = ensureLogger(log)
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// New creates a client for the given credentials. Calls use GET until
// UsePost is applied.
func New(clientID int64, secret string, opts ...Option) *Client {
	c := &Client{
		clientID:  clientID,
		secret:    secret,
		endpoint:  DefaultEndpoint,
		mode:      ModeGet,
		userAgent: DefaultUserAgent,
		log:       noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(0)
	}
	return c
}

// ClientID returns the numeric client identifier.
func (c *Client) ClientID() int64 { return c.clientID }

// Endpoint returns the base URL requests are sent to.
func (c *Client) Endpoint() string { return c.endpoint }

// Mode returns the transport mode used for calls.
func (c *Client) Mode() Mode { return c.mode }

// UseGet returns a copy of c that sends every parameter in the query string.
func (c *Client) UseGet() *Client {
	return c.with(func(cp *Client) { cp.mode = ModeGet })
}

// UsePost returns a copy of c that sends data and sig as a form body.
func (c *Client) UsePost() *Client {
	return c.with(func(cp *Client) { cp.mode = ModePost })
}

// UsingEndpoint returns a copy of c bound to another base URL.
func (c *Client) UsingEndpoint(endpoint string) *Client {
	return c.with(func(cp *Client) { cp.endpoint = normalizeEndpoint(endpoint) })
}

func (c *Client) with(fn func(*Client)) *Client {
	cp := *c
	fn(&cp)
	return &cp
}

// GetBalance returns the current account balance.
func (c *Client) GetBalance(ctx context.Context) (*BalanceResponse, error) {
	return Dispatch(ctx, c, CommandGetBalance, ParseBalance, nil)
}

// GetProducts returns the catalog of certificates available for ordering.
func (c *Client) GetProducts(ctx context.Context) (*ProductsResponse, error) {
	return Dispatch(ctx, c, CommandGetProducts, ParseProducts, nil)
}

// MakeOrder places a new certificate order.
func (c *Client) MakeOrder(ctx context.Context, order *OrderData) (*MakeOrderResponse, error) {
	if order == nil {
		return nil, ErrNilOrder
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return Dispatch(ctx, c, CommandMakeOrder, ParseMakeOrder, order)
}

func (c *Client) String() string {
	return fmt.Sprintf("giftery.Client{id: %d, endpoint: %s, mode: %s}", c.clientID, c.endpoint, c.mode)
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return DefaultEndpoint
	}
	return endpoint
}
