// internal/adapters/backend/client.go
package backend

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/adapters/observability"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/domain"
	"github.com/rahuljha1155/plazasales-dashboard-sub005/internal/reqctx"
)

var _ domain.Backend = (*Client)(nil)

// Client talks to the platform REST backend on behalf of the signed-in admin.
type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int, timeout time.Duration) (*Client, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("backend base URL: %w", err)
	}
	if rps <= 0 {
		rps = 20
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		base: base,
		hc:   &http.Client{Timeout: timeout},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

const maxAttempts = 4

// Do sends one request and decodes a JSON answer into out (nil discards it).
// Only GET is retried: mutations surface their first failure to the admin.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body *domain.Body, out any) error {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	attempts := 1
	if method == http.MethodGet {
		attempts = maxAttempts
	}
	endpoint := endpointLabel(method, path)

	var lastErr error
	for i := 0; i < attempts; i++ {
		// build a fresh request each attempt
		req, err := c.newRequest(ctx, method, u, body)
		if err != nil {
			return err
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("backend", endpoint, 0, time.Since(start))
			// network error or context canceled
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < attempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("backend", endpoint, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			defer resp.Body.Close()
			if out == nil {
				io.Copy(io.Discard, resp.Body)
				return nil
			}
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("decode %s %s: %w", method, path, err)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			wait := retryAfter(resp)
			msg := readMessage(resp.Body)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = &domain.RemoteError{Status: resp.StatusCode, Message: msg}
			if i < attempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			msg := readMessage(resp.Body)
			resp.Body.Close()
			return statusError(resp.StatusCode, msg)
		}
	}
	return lastErr
}

func (c *Client) newRequest(ctx context.Context, method, u string, body *domain.Body) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body.Data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", body.ContentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "plazasales-dashboard/1.0")

	rid, ok := reqctx.RequestID(ctx)
	if !ok {
		rid = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", rid)

	// credentialed request: the backend accepts either form
	if tok, ok := reqctx.Token(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+tok)
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: tok})
	}
	return req, nil
}

func statusError(status int, msg string) error {
	var sentinel error
	switch status {
	case http.StatusNotFound:
		sentinel = domain.ErrNotFound
	case http.StatusUnauthorized:
		sentinel = domain.ErrUnauthorized
	case http.StatusForbidden:
		sentinel = domain.ErrForbidden
	case http.StatusConflict:
		sentinel = domain.ErrConflict
	default:
		return &domain.RemoteError{Status: status, Message: msg}
	}
	// keep the server message while still matching errors.Is
	return fmt.Errorf("%w: %w", sentinel, &domain.RemoteError{Status: status, Message: msg})
}

// readMessage pulls a human message out of a small error body.
func readMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return strings.TrimSpace(string(b))
	}
	row := domain.Row(m)
	for _, p := range []string{"message", "error", "msg", "error.message", "errors.0.message"} {
		if s, ok := row.Lookup(p).(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// endpointLabel keeps metric cardinality bounded: method plus first path segment.
func endpointLabel(method, path string) string {
	seg := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	return method + " /" + seg
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
