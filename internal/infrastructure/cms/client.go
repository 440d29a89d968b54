// Package cms talks to the external record store — a headless CMS that
// owns every collection this service touches. Nothing is persisted
// locally; every check re-reads the store.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/campusnest/campusnest-api/internal/metrics"
)

const requestTimeout = 20 * time.Second

// Response carries the store's HTTP status and raw body. Non-2xx
// statuses are NOT errors at this layer — callers interpret the status
// themselves. Errors are reserved for transport failures (DNS,
// connection refused, timeout).
type Response struct {
	Status int
	Body   []byte
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a client for the store at baseURL, authenticating
// every call with the operator-supplied static bearer credential.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Do performs one JSON request against the store. payload, when non-nil,
// is JSON-encoded as the request body. headers are applied on top of the
// defaults and may override them.
func (c *Client) Do(ctx context.Context, method, path string, payload any, headers map[string]string) (*Response, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.StoreRequestDuration.WithLabelValues(method, collectionOf(path), "transport_error").
			Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("store request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read store response: %w", err)
	}

	metrics.StoreRequestDuration.WithLabelValues(method, collectionOf(path), strconv.Itoa(resp.StatusCode)).
		Observe(time.Since(start).Seconds())

	return &Response{Status: resp.StatusCode, Body: raw}, nil
}

// Ping checks that the store answers at all. Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.Do(ctx, http.MethodGet, "/server/ping", nil, nil)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("store ping returned %d", resp.Status)
	}
	return nil
}

// collectionOf extracts the collection segment from an /items/<name>/...
// path for metric labels. Non-item paths are labelled as-is up to the
// first query separator.
func collectionOf(path string) string {
	path, _, _ = strings.Cut(path, "?")
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "items" {
		return parts[1]
	}
	return parts[0]
}
