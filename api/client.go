// Package api is the client side of the map server's HTTP contract.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request id so server logs can be matched
// against client alerts.
const RequestIDHeader = "X-Request-ID"

// ErrTransport wraps failures that never produced an HTTP response.
var ErrTransport = errors.New("network request failed")

// Error is a failure reported by the server: a non-2xx status or an
// `{error}` payload.
type Error struct {
	Status    int
	Message   string
	RequestID string
}

func (e *Error) Error() string {
	if e.RequestID == "" {
		return fmt.Sprintf("server %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server %d: %s (request %s)", e.Status, e.Message, e.RequestID)
}

type Client struct {
	BaseURL string

	hc    *http.Client
	do    func(*http.Request) (*http.Response, error)
	newID func() string
}

// New builds a client for the server at baseURL. A non-positive timeout
// falls back to 60s.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	hc := &http.Client{Timeout: timeout}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		hc:      hc,
		do:      hc.Do,
		newID:   uuid.NewString,
	}
}

// URL resolves path against the base URL. Absolute URLs pass through.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set(RequestIDHeader, c.newID())
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, nil)
}

// send performs req and decodes a 2xx JSON body into out (when non-nil).
// Anything else becomes an *Error or a wrapped ErrTransport.
func (c *Client) send(req *http.Request, out any) error {
	reqID := req.Header.Get(RequestIDHeader)
	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrTransport, req.URL.Path, err)
	}

	var envelope struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(raw, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := envelope.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: msg, RequestID: reqID}
	}
	if envelope.Error != "" {
		return &Error{Status: resp.StatusCode, Message: envelope.Error, RequestID: reqID}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: "malformed response: " + err.Error(), RequestID: reqID}
	}
	return nil
}

// Describe turns a failed action into the text shown to the user. Transport
// failures get a generic message; server failures carry the server's text.
func Describe(action string, err error) string {
	var apiErr *Error
	switch {
	case errors.Is(err, ErrTransport):
		return "Network request failed"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("%s failed: %s", action, apiErr.Message)
	default:
		return fmt.Sprintf("%s failed: %v", action, err)
	}
}
