// Package content talks to the external hotel content API used to seed a
// tenant's catalogue.
package content

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_saas/internal/adapters/observability"
	"hotel_saas/internal/domain"
)

const maxAttempts = 4

var (
	ErrUnauthorized = fmt.Errorf("content: unauthorized: %w", domain.ErrAccessDenied)
	ErrForbidden    = fmt.Errorf("content: forbidden: %w", domain.ErrAccessDenied)
	ErrNotFound     = fmt.Errorf("content: %w", domain.ErrNotFound)
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, errors.New("content: API key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// GetProperty fetches one property document. 429 and 5xx responses are
// retried with backoff; 401/403 wrap domain.ErrAccessDenied.
func (c *Client) GetProperty(ctx context.Context, id int64) (map[string]any, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/properties/%d", c.base, id)

	var out map[string]any
	var err error
	for i := 0; i < maxAttempts; i++ {
		var wait time.Duration
		wait, err = c.fetch(ctx, url, &out)
		if err == nil || wait < 0 {
			return out, err
		}
		if wait == 0 {
			wait = backoff(i)
		}
		if i == maxAttempts-1 || !sleepCtx(ctx, wait) {
			break
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return nil, err
}

// fetch makes a single attempt. A negative wait means the error is final;
// otherwise it is the server's Retry-After hint, or 0.
func (c *Client) fetch(ctx context.Context, url string, out any) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return -1, err
	}
	req.Header.Set("X-API-Key", c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "hotel-saas/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("content", "property", 0, time.Since(start))
		if ctx.Err() != nil {
			return -1, ctx.Err()
		}
		return 0, err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("content", "property", resp.StatusCode, time.Since(start))

	switch code := resp.StatusCode; {
	case code == http.StatusOK:
		return -1, json.NewDecoder(resp.Body).Decode(out)
	case code == http.StatusNotFound:
		return -1, ErrNotFound
	case code == http.StatusUnauthorized:
		return -1, ErrUnauthorized
	case code == http.StatusForbidden:
		return -1, ErrForbidden
	case code == http.StatusTooManyRequests || code >= 500:
		_, _ = io.Copy(io.Discard, resp.Body)
		return retryAfter(resp.Header.Get("Retry-After")), fmt.Errorf("content: remote %d", code)
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return -1, fmt.Errorf("content: bad status %d: %s", code, strings.TrimSpace(string(b)))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter accepts delta-seconds or an HTTP date; anything else is 0.
func retryAfter(h string) time.Duration {
	h = strings.TrimSpace(h)
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(h); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		return max(time.Until(t), 0)
	}
	return 0
}

// backoff doubles from 200ms per attempt and adds up to 50% jitter.
func backoff(attempt int) time.Duration {
	d := time.Duration(1<<attempt) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return d
	}
	return d + time.Duration(float64(d)*float64(b[0])/510)
}
