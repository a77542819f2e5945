package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
//
// Implementations report transport failures (no response received) as a
// non-nil error, preferably a *TransportError.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
	PostForm(ctx context.Context, url string, form string, headers map[string]string) (Response, error)
}
