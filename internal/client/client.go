package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/app"
	"github.com/google/uuid"
)

// Config holds the connection settings for the record store.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	DialTimeout time.Duration
}

// DefaultConfig points at a record store on localhost.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "http://localhost:5000",
		Timeout:     10 * time.Second,
		DialTimeout: 5 * time.Second,
	}
}

// Client implements app.RecordStore over the JSON HTTP API.
// Requests are never retried; a failed write is reported to the caller.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

var _ app.RecordStore = (*Client)(nil)

// New creates a Client. A nil observer discards call events.
func New(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.DialTimeout,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// call performs one request. in is JSON-encoded when non-nil; out is decoded
// from a success body when non-nil.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	start := time.Now()
	requestID := uuid.NewString()

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	status, err := c.doRequest(ctx, requestID, method, path, query, in, out)

	c.observer.OnCallComplete(CallEvent{
		Op:        op,
		Method:    method,
		Path:      path,
		RequestID: requestID,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *Client) doRequest(ctx context.Context, requestID, method, path string, query url.Values, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	target := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %w", app.ErrNetwork, method, path, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, fmt.Errorf("%w: reading response: %v", app.ErrNetwork, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return httpResp.StatusCode, &app.RejectedError{
			Status:  httpResp.StatusCode,
			Message: rejectionMessage(httpResp.StatusCode, respBody),
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return httpResp.StatusCode, &app.RejectedError{
				Status:  httpResp.StatusCode,
				Message: "invalid response: " + err.Error(),
			}
		}
	}
	return httpResp.StatusCode, nil
}

// rejectionMessage prefers the server's message, then its error field.
func rejectionMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return "HTTP " + strconv.Itoa(status)
}

func errorCode(err error) string {
	var rejected *app.RejectedError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return "TIMEOUT"
	case errors.Is(err, app.ErrNetwork):
		return "UNAVAILABLE"
	case errors.As(err, &rejected):
		return "HTTP_" + strconv.Itoa(rejected.Status)
	default:
		return "UNKNOWN"
	}
}
