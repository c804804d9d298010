package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sydlexius/mbmerge/internal/version"
)

// maxBody caps how much of a response is read.
const maxBody = 4 * 1024 * 1024

// Client performs rate-limited JSON GET requests on behalf of one source and
// maps HTTP failures to the typed source errors.
type Client struct {
	name    Name
	http    *http.Client
	limiter *RateLimiterMap
	logger  *slog.Logger
	header  http.Header
}

// NewClient creates a Client for the named source.
func NewClient(name Name, limiter *RateLimiterMap, logger *slog.Logger) *Client {
	h := http.Header{}
	h.Set("User-Agent", version.UserAgent())
	h.Set("Accept", "application/json")
	return &Client{
		name:    name,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
		logger:  logger,
		header:  h,
	}
}

// SetHeader sets a header sent with every request.
func (c *Client) SetHeader(key, value string) {
	c.header.Set(key, value)
}

// GetJSON fetches reqURL and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, reqURL string, v any) error {
	body, err := c.get(ctx, reqURL)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing %s response: %w", c.name, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.name); err != nil {
			return nil, &ErrSourceUnavailable{
				Source: c.name,
				Cause:  fmt.Errorf("rate limiter: %w", err),
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	c.logger.Debug("requesting", slog.String("url", reqURL))

	resp, err := c.http.Do(req) //nolint:gosec // URL constructed from trusted base + catalog ids
	if err != nil {
		return nil, &ErrSourceUnavailable{Source: c.name, Cause: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
		// continue
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &ErrNotFound{Source: c.name, ID: reqURL}
	case http.StatusUnauthorized, http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &ErrAuthRequired{Source: c.name}
	case http.StatusServiceUnavailable, http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &ErrSourceUnavailable{
			Source:     c.name,
			Cause:      fmt.Errorf("HTTP %d", resp.StatusCode),
			RetryAfter: 2 * time.Second,
		}
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &ErrSourceUnavailable{
			Source: c.name,
			Cause:  fmt.Errorf("unexpected HTTP %d", resp.StatusCode),
		}
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}
