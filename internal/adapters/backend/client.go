// internal/adapters/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_manager/internal/adapters/observability"
	"hotel_manager/internal/domain"
)

// Client talks to the remote hotel-management API. The API itself lives
// under <base>/api; uploaded photos are served from <base>/storage.
//
// Every authenticated call attaches "Authorization: Bearer <token>". Any 401
// fires the onUnauthorized hook (injected by the composition root) and comes
// back as domain.ErrUnauthorized so the caller's own error handling still
// runs. There is no retry and no backoff: one request per call.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter

	onUnauthorized func()
	now            func() time.Time
}

func New(base string, rps int, onUnauthorized func()) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base:           strings.TrimRight(base, "/"),
		hc:             &http.Client{Timeout: 20 * time.Second},
		rl:             rate.NewLimiter(rate.Limit(rps), rps),
		onUnauthorized: onUnauthorized,
		now:            time.Now,
	}, nil
}

// PhotoURL builds the public URL of an uploaded hotel photo, cache-busted
// with a timestamp query parameter so a re-uploaded image shows immediately.
func (c *Client) PhotoURL(photo string) string {
	if photo == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/%s?t=%d", c.base, strings.TrimLeft(photo, "/"), c.now().UnixMilli())
}

func (c *Client) apiURL(path string) string {
	return c.base + "/api" + path
}

// do performs one request against the API with client-side rate limiting and
// decodes a 2xx JSON body into out (when out is non-nil). endpoint is the
// metrics label: the route pattern, never the concrete URL.
func (c *Client) do(ctx context.Context, method, endpoint, path, token, contentType string, body io.Reader, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL(path), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-manager/1.0")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	observability.ObserveBackend(endpoint, method, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		dec := json.NewDecoder(resp.Body)
		dec.UseNumber()
		return dec.Decode(out)

	case http.StatusNoContent:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil

	case http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return domain.ErrUnauthorized

	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.ErrNotFound

	default:
		return decodeAPIError(resp)
	}
}

func (c *Client) get(ctx context.Context, endpoint, path, token string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, path, token, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, http.MethodPost, endpoint, path, token, "application/json", body, out)
}

// decodeAPIError reads a non-2xx body into the backend's {message, errors}
// shape, falling back to the raw text when the body is not JSON.
func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))

	var payload struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && (payload.Message != "" || len(payload.Errors) > 0) {
		return &domain.APIError{Status: resp.StatusCode, Message: payload.Message, Fields: payload.Errors}
	}
	return &domain.APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
}
