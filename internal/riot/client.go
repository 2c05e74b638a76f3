// Package riot is a minimal, rate-limited client for the Riot account-v1 and
// match-v5 APIs.
package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// Development key limits are 20 req/s and 100 req/2min; stay under both.
	defaultPerSecond = 15
	defaultPer2Min   = 90

	defaultRetryAfter = 10 * time.Second
	maxRetries        = 3
)

// APIError is a non-200 response from the Riot API.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Sprintf("riot: GET %s: HTTP %d - check that the API key is valid and not expired", e.Path, e.StatusCode)
	case http.StatusNotFound:
		return fmt.Sprintf("riot: GET %s: HTTP 404 - player or match does not exist", e.Path)
	}
	if e.Body != "" {
		return fmt.Sprintf("riot: GET %s: HTTP %d: %s", e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("riot: GET %s: HTTP %d", e.Path, e.StatusCode)
}

// Client is a rate-limited Riot API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rateLimiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the regional host (useful for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithRegion selects the regional routing host: americas, europe, asia or sea.
func WithRegion(region string) Option {
	return func(c *Client) {
		if host, ok := regionHosts[strings.ToLower(region)]; ok {
			c.baseURL = host
		}
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithRateLimits sets the request budgets for the 1s and 2min windows.
func WithRateLimits(perSecond, per2Min int) Option {
	return func(c *Client) {
		c.limiter = newRateLimiter(perSecond, per2Min)
	}
}

// WithLogger sets the logger used for rate limit and retry diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// ValidRegion reports whether region names a known routing host.
func ValidRegion(region string) bool {
	_, ok := regionHosts[strings.ToLower(region)]
	return ok
}

// Regions lists the known routing regions.
func Regions() []string {
	out := make([]string, 0, len(regionHosts))
	for r := range regionHosts {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// NewClient returns a client authenticated with apiKey, routed to americas
// unless configured otherwise.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("riot: API key is empty")
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: regionHosts["americas"],
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: newRateLimiter(defaultPerSecond, defaultPer2Min),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// get performs an authenticated, rate-limited GET and returns the body.
// 429 responses are retried after Retry-After, up to maxRetries times.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.wait(ctx, c.logger); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Riot-Token", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("riot: GET %s: %w", path, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("riot: read %s: %w", path, err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries:
			wait := retryAfter(resp.Header.Get("Retry-After"))
			c.logger.Warn("riot rate limited", slog.String("path", path), slog.Duration("wait", wait), slog.Int("attempt", attempt+1))
			if err := sleep(ctx, wait); err != nil {
				return nil, err
			}
			continue
		}

		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Path: path, Body: snippet}
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("riot: decode %s: %w", path, err)
	}
	return nil
}

// AccountByRiotID resolves gameName#tagLine to an account with its puuid.
func (c *Client) AccountByRiotID(ctx context.Context, id RiotID) (*Account, error) {
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s",
		url.PathEscape(id.GameName), url.PathEscape(id.TagLine))

	var a Account
	if err := c.getJSON(ctx, path, nil, &a); err != nil {
		return nil, err
	}
	if a.PUUID == "" {
		return nil, fmt.Errorf("riot: account %s has no puuid", id)
	}
	return &a, nil
}

// MatchIDs lists a player's recent match ids, most recent first.
func (c *Client) MatchIDs(ctx context.Context, puuid string, q MatchQuery) ([]string, error) {
	query := url.Values{
		"start": {strconv.Itoa(q.Start)},
		"count": {strconv.Itoa(q.Count)},
	}
	if q.Type != "" {
		query.Set("type", q.Type)
	}
	if q.Queue != 0 {
		query.Set("queue", strconv.Itoa(q.Queue))
	}
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids", url.PathEscape(puuid))

	var ids []string
	if err := c.getJSON(ctx, path, query, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Timeline returns the raw match-v5 timeline document of a match.
func (c *Client) Timeline(ctx context.Context, matchID string) ([]byte, error) {
	return c.get(ctx, fmt.Sprintf("/lol/match/v5/matches/%s/timeline", url.PathEscape(matchID)), nil)
}

func retryAfter(h string) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultRetryAfter
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
