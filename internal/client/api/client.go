// Package api is the HTTP client of the Themis backend. It attaches the
// stored bearer token, decodes JSON bodies and turns failures into *Error
// values with a Kind.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/themisai/themis/internal/client/authstore"
	"github.com/themisai/themis/internal/logging"
)

type Client struct {
	baseURL string
	store   authstore.Store
	http    *http.Client
	log     logging.Logger
}

type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, store authstore.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		http:    http.DefaultClient,
		log:     logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// body is a prepared request payload. An empty contentType leaves the header
// unset.
type body struct {
	r           io.Reader
	contentType string
}

func jsonBody(v any) (*body, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, &Error{Kind: KindUnknown, Message: "encode request", Err: err}
	}
	return &body{r: bytes.NewReader(b), contentType: "application/json"}, nil
}

func formBody(v url.Values) *body {
	return &body{r: strings.NewReader(v.Encode()), contentType: "application/x-www-form-urlencoded"}
}

// do sends one request. out may be nil when the payload is not needed.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in *body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var r io.Reader
	if in != nil {
		r = in.r
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return &Error{Kind: KindUnknown, Message: "build request", Err: err}
	}

	contentType := "application/json"
	if in != nil && in.contentType != "" {
		contentType = in.contentType
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	token, ok, err := c.store.Token(ctx)
	if err != nil {
		return &Error{Kind: KindUnknown, Message: "read token", Err: err}
	}
	if ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, raw),
		}
	}

	if resp.StatusCode == http.StatusNoContent || out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindUnknown, Status: resp.StatusCode, Message: "decode response", Err: err}
	}
	return nil
}

// errorMessage picks the detail field of a JSON body, then the raw text, then
// the bare status.
func errorMessage(status int, raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Detail) > 0 && string(envelope.Detail) != "null" {
		var s string
		if err := json.Unmarshal(envelope.Detail, &s); err == nil {
			return s
		}
		return string(envelope.Detail)
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
