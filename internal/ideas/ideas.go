// Package ideas is the boundary to the hawky website: an auxiliary,
// non-authoritative cache of external idea records and the process-wide
// login state the popup asks about. Nothing here feeds the capture store.
package ideas

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Client fetches idea records and tracks login state.
type Client struct {
	mu          sync.RWMutex
	cache       []map[string]any
	loggedIn    bool
	userDetails map[string]any

	http *resty.Client
	url  string
	log  zerolog.Logger
}

// NewClient creates a Client for the given ideas endpoint. An empty URL
// yields a client that never fetches and always reports an empty cache.
func NewClient(ideasURL string, log zerolog.Logger) *Client {
	return &Client{
		http: resty.New().SetTimeout(10 * time.Second),
		url:  ideasURL,
		log:  log.With().Str("component", "ideas").Logger(),
	}
}

// Fetch retrieves the current ideas and replaces the cache. Any failure
// leaves the previous cache in place and returns it; callers always get a
// usable (possibly empty) list.
func (c *Client) Fetch(ctx context.Context) []map[string]any {
	if c.url == "" {
		return c.Cached()
	}

	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		c.log.Warn().Err(err).Msg("ideas fetch failed")
		return c.Cached()
	}
	if resp.IsError() {
		c.log.Warn().Int("status", resp.StatusCode()).Msg("ideas fetch rejected")
		return c.Cached()
	}

	var ideas []map[string]any
	if err := json.Unmarshal(resp.Body(), &ideas); err != nil {
		c.log.Warn().Err(err).Msg("ideas response malformed")
		return c.Cached()
	}

	c.mu.Lock()
	c.cache = ideas
	c.mu.Unlock()

	c.log.Debug().Int("ideas", len(ideas)).Msg("ideas cache refreshed")
	return append([]map[string]any{}, ideas...)
}

// Cached returns the last fetched ideas without touching the network.
func (c *Client) Cached() []map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]map[string]any{}, c.cache...)
}

// LoginStatus returns the current login flag and user details.
func (c *Client) LoginStatus() (bool, map[string]any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loggedIn, c.userDetails
}

// SetLoginStatus records a login state change, typically driven by the
// browser side's session check.
func (c *Client) SetLoginStatus(loggedIn bool, details map[string]any) {
	c.mu.Lock()
	changed := c.loggedIn != loggedIn
	c.loggedIn = loggedIn
	c.userDetails = details
	c.mu.Unlock()

	if changed {
		c.log.Info().Bool("loggedIn", loggedIn).Msg("login status changed")
	}
}

// Run refreshes the ideas cache on the given interval until ctx is done.
func (c *Client) Run(ctx context.Context, interval time.Duration) {
	if c.url == "" {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.Fetch(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Fetch(ctx)
		}
	}
}
