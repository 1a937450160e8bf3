// Package transport performs the outbound HTTP calls the remote-delegating
// backend needs, normalizing every outcome into an APIResponse so callers
// never touch net/http directly.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const defaultClientTimeout = 30 * time.Second
const defaultResponseBodyLimit int64 = 1 << 20 // 1 MiB

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIResponse is the normalized outcome of one remote call: a success flag,
// the numeric status code, and either a structured payload or error text.
// Transport-level failures surface here with Success false and a zero
// status code; they are not Go errors because a failed remote call is an
// expected outcome for the authentication flow.
type APIResponse struct {
	Success    bool
	StatusCode int
	Payload    map[string]any
	ErrorText  string
}

type Client struct {
	client               HTTPDoer
	defaultHeaders       map[string]string
	maxResponseBodyBytes int64
}

type ClientOption func(*Client)

func WithDefaultHeader(key string, value string) ClientOption {
	return func(c *Client) {
		if strings.TrimSpace(key) == "" {
			return
		}
		c.defaultHeaders[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
}

func WithResponseBodyLimit(limit int64) ClientOption {
	return func(c *Client) {
		if limit > 0 {
			c.maxResponseBodyBytes = limit
		}
	}
}

func NewClient(doer HTTPDoer, opts ...ClientOption) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: defaultClientTimeout}
	}
	client := &Client{
		client:               doer,
		defaultHeaders:       map[string]string{},
		maxResponseBodyBytes: defaultResponseBodyLimit,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(client)
	}
	return client
}

// PostJSON sends one JSON body and interprets the reply. The returned error
// covers caller mistakes only (nil client, unserializable body, bad URL);
// everything the wire can do wrong lands in the APIResponse.
func (c *Client) PostJSON(ctx context.Context, endpoint string, body map[string]any, headers map[string]string) (APIResponse, error) {
	if c == nil || c.client == nil {
		return APIResponse{}, goerrors.New("transport: client is not configured", goerrors.CategoryInternal)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(endpoint) == "" {
		return APIResponse{}, goerrors.New("transport: endpoint is required", goerrors.CategoryBadInput)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return APIResponse{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "transport: encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSpace(endpoint), bytes.NewReader(encoded))
	if err != nil {
		return APIResponse{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "transport: create http request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for key, value := range c.defaultHeaders {
		req.Header.Set(key, value)
	}
	for key, value := range headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		req.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	res, err := c.client.Do(req)
	if err != nil {
		return APIResponse{
			Success:   false,
			ErrorText: fmt.Sprintf("transport: request failed: %v", err),
		}, nil
	}
	defer res.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(res.Body, c.maxResponseBodyBytes+1))
	if readErr != nil {
		return APIResponse{
			Success:    false,
			StatusCode: res.StatusCode,
			ErrorText:  fmt.Sprintf("transport: read response body: %v", readErr),
		}, nil
	}
	if int64(len(raw)) > c.maxResponseBodyBytes {
		return APIResponse{
			Success:    false,
			StatusCode: res.StatusCode,
			ErrorText:  fmt.Sprintf("transport: response exceeds %d bytes", c.maxResponseBodyBytes),
		}, nil
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return APIResponse{
			Success:    false,
			StatusCode: res.StatusCode,
			ErrorText:  errorTextForStatus(res.StatusCode, raw),
		}, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return APIResponse{
			Success:    false,
			StatusCode: res.StatusCode,
			ErrorText:  fmt.Sprintf("transport: decode response body: %v", err),
		}, nil
	}

	return APIResponse{
		Success:    true,
		StatusCode: res.StatusCode,
		Payload:    payload,
	}, nil
}

func errorTextForStatus(status int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return fmt.Sprintf("transport: remote returned status %d", status)
	}
	return fmt.Sprintf("transport: remote returned status %d: %s", status, text)
}
