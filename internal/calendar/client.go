// Package calendar fetches the economic-calendar feed and filters it by the
// user's display preferences.
package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/challenge-blueprint/internal/config"
	"github.com/yourusername/challenge-blueprint/internal/logger"
	"github.com/yourusername/challenge-blueprint/internal/metrics"
	"github.com/yourusername/challenge-blueprint/internal/models"
)

// ErrDisabled is returned when the calendar feed is not configured.
var ErrDisabled = errors.New("economic calendar is disabled")

const maxFeedBytes = 4 << 20

// feedEvent is the wire shape of one feed entry.
type feedEvent struct {
	Title    string `json:"title"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
	Impact   string `json:"impact"`
	Date     string `json:"date"`
	Forecast string `json:"forecast"`
	Previous string `json:"previous"`
	Actual   string `json:"actual"`
}

// Client reads the economic-calendar feed and keeps the last good copy.
type Client struct {
	url    string
	apiKey string
	http   *RateLimitedHTTPClient
	logger *logrus.Entry

	mu        sync.RWMutex
	events    []models.EconomicEvent
	fetchedAt time.Time
}

// NewClient creates a client for cfg.
func NewClient(cfg config.CalendarConfig, log *logrus.Logger) (*Client, error) {
	if !cfg.Enabled || cfg.URL == "" {
		return nil, ErrDisabled
	}
	if log == nil {
		log = logger.Discard()
	}
	entry := log.WithField("component", "calendar")

	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	httpCfg.RateLimit = cfg.RequestsPerSecond

	return &Client{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		http:   NewRateLimitedHTTPClient(httpCfg, entry),
		logger: entry,
	}, nil
}

// FetchEvents downloads and decodes the feed.
func (c *Client) FetchEvents(ctx context.Context) ([]models.EconomicEvent, error) {
	start := time.Now()
	events, err := c.fetch(ctx)
	metrics.RecordCalendarFetch(err, time.Since(start).Seconds())
	return events, err
}

func (c *Client) fetch(ctx context.Context) ([]models.EconomicEvent, error) {
	header := http.Header{"Accept": []string{"application/json"}}
	if c.apiKey != "" {
		header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Get(ctx, c.url, header)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar feed returned status %d", resp.StatusCode)
	}

	var raw []feedEvent
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedBytes)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode calendar feed: %w", err)
	}

	events := make([]models.EconomicEvent, 0, len(raw))
	for _, r := range raw {
		ev, err := r.toEvent()
		if err != nil {
			c.logger.WithError(err).WithField("title", r.Title).Debug("Skipping calendar entry")
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func (r feedEvent) toEvent() (models.EconomicEvent, error) {
	t, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return models.EconomicEvent{}, fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	currency := r.Currency
	if currency == "" {
		currency = r.Country
	}
	return models.EconomicEvent{
		Title:    r.Title,
		Currency: strings.ToUpper(strings.TrimSpace(currency)),
		Impact:   models.Impact(strings.ToLower(strings.TrimSpace(r.Impact))),
		Time:     t.UTC(),
		Forecast: r.Forecast,
		Previous: r.Previous,
		Actual:   r.Actual,
	}, nil
}

// Refresh fetches the feed and replaces the cached copy. On failure the
// previous copy is kept.
func (c *Client) Refresh(ctx context.Context) error {
	events, err := c.FetchEvents(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Calendar refresh failed, keeping previous events")
		return err
	}
	c.mu.Lock()
	c.events = events
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	c.logger.WithField("events", len(events)).Info("Calendar refreshed")
	return nil
}

// Events returns the cached events, fetching them first if nothing is cached.
func (c *Client) Events(ctx context.Context) ([]models.EconomicEvent, error) {
	c.mu.RLock()
	events, fetched := c.events, !c.fetchedAt.IsZero()
	c.mu.RUnlock()
	if fetched {
		return events, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.events, nil
}

// FetchedAt is when the cache was last refreshed.
func (c *Client) FetchedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchedAt
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.http.Close()
}
