package giftery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samvad-hq/giftery-client/pkg/httpclient"
)

const (
	formatJSON  = "json"
	emptyObject = "{}"
)

// RequestData is a call payload with a deterministic JSON form.
type RequestData interface {
	ToJSON() (string, error)
}

// ResultParser turns a raw 200 response body into a typed result.
type ResultParser[T any] func(body []byte) (T, error)

// param is a single key/value pair; slices of them keep wire order.
type param struct {
	key   string
	value string
}

type request struct {
	method string
	url    string
	form   string
}

// Dispatch performs one signed call of cmd and hands the raw response body
// to parse. Exactly one HTTP attempt is made; nothing is retried.
func Dispatch[T any](ctx context.Context, c *Client, cmd Command, parse ResultParser[T], payload RequestData) (T, error) {
	var zero T

	if cmd == "" {
		return zero, ErrEmptyCommand
	}
	if !cmd.Valid() {
		return zero, fmt.Errorf("%w %q", ErrUnknownCommand, string(cmd))
	}
	if parse == nil {
		return zero, ErrNilParser
	}
	if c == nil {
		return zero, fmt.Errorf("%w: client is nil", ErrInvalidArgument)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data, err := encodePayload(payload)
	if err != nil {
		return zero, err
	}

	req := c.buildRequest(cmd, data)
	body, err := c.send(ctx, cmd, req)
	if err != nil {
		return zero, err
	}
	return parse(body)
}

func encodePayload(payload RequestData) (string, error) {
	if payload == nil {
		return emptyObject, nil
	}
	data, err := payload.ToJSON()
	if err != nil {
		return "", fmt.Errorf("%w: encode payload: %v", ErrInvalidArgument, err)
	}
	return data, nil
}

func (c *Client) buildRequest(cmd Command, data string) request {
	query := []param{
		{key: "cmd", value: string(cmd)},
		{key: "id", value: strconv.FormatInt(c.clientID, 10)},
		{key: "in", value: formatJSON},
		{key: "out", value: formatJSON},
	}
	body := []param{
		{key: "data", value: data},
		{key: "sig", value: Sign(cmd, data, c.secret)},
	}

	if c.mode == ModePost {
		return request{
			method: http.MethodPost,
			url:    c.endpoint + "/?" + encodeParams(query),
			form:   encodeParams(body),
		}
	}

	return request{
		method: http.MethodGet,
		url:    c.endpoint + "/?" + encodeParams(append(query, body...)),
	}
}

func (c *Client) send(ctx context.Context, cmd Command, req request) ([]byte, error) {
	headers := map[string]string{"User-Agent": c.userAgent}
	start := time.Now()

	var (
		resp httpclient.Response
		err  error
	)
	if req.method == http.MethodPost {
		resp, err = c.http.PostForm(ctx, req.url, req.form, headers)
	} else {
		resp, err = c.http.Get(ctx, req.url, headers)
	}
	if err != nil {
		te := httpclient.Classify(err)
		return nil, newTransportError(te.Code, te.Message, err)
	}
	if resp == nil {
		return nil, newTransportError(httpclient.CodeUnknown, "no response received", nil)
	}

	c.log.DebugObj("giftery call completed", "giftery_call", map[string]any{
		"cmd":        string(cmd),
		"method":     req.method,
		"status":     resp.StatusCode(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode() != http.StatusOK {
		return nil, newStatusError(resp.StatusCode())
	}
	return resp.Body(), nil
}

// encodeParams form-encodes params in the given order.
func encodeParams(params []param) string {
	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}
