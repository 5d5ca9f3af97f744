// Package theoddsapi implements the upstream client for The Odds API with
// credential rotation, retry, and rate-limit handling.
package theoddsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/XavierBriggs/Delphi/internal/credentials"
	"github.com/XavierBriggs/Delphi/pkg/contracts"
	"github.com/XavierBriggs/Delphi/pkg/models"
	"github.com/XavierBriggs/Delphi/pkg/oddsmath"
)

const (
	defaultBaseURL     = "https://api.the-odds-api.com"
	apiVersion         = "v4"
	userAgent          = "Delphi/1.0 (Fortuna Consensus Engine)"
	defaultTimeout     = 15 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = 500 * time.Millisecond
	defaultBackoffMax  = 8 * time.Second
)

// Config tunes the client. Zero values fall back to defaults.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// Client fetches odds snapshots using keys acquired from a shared credential
// pool. Retry policy: 429 rotates to another key and backs off with jitter;
// 401/403 quarantines the key and retries immediately with the next one;
// network errors and 5xx back off up to the retry ceiling.
type Client struct {
	pool        *credentials.Pool
	httpClient  *http.Client
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
	backoffMax  time.Duration

	mu         sync.RWMutex
	rateLimits models.RateLimits

	log *logrus.Entry
}

var _ contracts.OddsSource = (*Client)(nil)

// NewClient creates a client over the given credential pool.
func NewClient(pool *credentials.Pool, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = defaultBackoffMax
	}

	return &Client{
		pool:        pool,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		backoffMax:  cfg.BackoffMax,
		log:         logrus.WithField("component", "theoddsapi"),
	}
}

// FetchOdds retrieves events with bookmaker quotes for a sport. Malformed
// individual events or bookmaker entries are skipped and logged, never fatal
// to the whole fetch.
func (c *Client) FetchOdds(ctx context.Context, opts *models.FetchOptions) ([]models.EventQuotes, error) {
	endpoint := fmt.Sprintf("%s/%s/sports/%s/odds", c.baseURL, apiVersion, opts.Sport)

	var lastErr error
	attempt := 0
	for attempt < c.maxRetries {
		key, err := c.pool.Acquire()
		if err != nil {
			// Every key quarantined: service-unavailable for this request.
			return nil, fmt.Errorf("fetch odds for %s: %w", opts.Sport, err)
		}

		body, err := c.doRequest(ctx, endpoint, key, opts)
		if err == nil {
			events, perr := c.parseOddsResponse(body, opts.Sport)
			if perr != nil {
				return nil, fmt.Errorf("fetch odds for %s: %w", opts.Sport, perr)
			}
			return events, nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			switch {
			case statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden:
				// Revoked key. Quarantine it and retry immediately with the
				// next one; pool exhaustion bounds this loop.
				c.pool.MarkInvalid(key)
				c.log.WithFields(logrus.Fields{
					"sport":  opts.Sport,
					"status": statusErr.StatusCode,
				}).Warn("credential rejected, rotating to next key")
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				continue
			case statusErr.StatusCode == http.StatusTooManyRequests:
				c.log.WithField("sport", opts.Sport).Warn("rate limited, rotating key and backing off")
			case statusErr.StatusCode >= 500:
				c.log.WithFields(logrus.Fields{
					"sport":  opts.Sport,
					"status": statusErr.StatusCode,
				}).Warn("upstream error, backing off")
			default:
				// Other 4xx responses are not retryable.
				return nil, fmt.Errorf("fetch odds for %s: %w", opts.Sport, err)
			}
		}

		attempt++
		if attempt >= c.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.backoff(attempt)):
		}
	}

	return nil, fmt.Errorf("fetch odds for %s after %d attempts: %w: %s",
		opts.Sport, c.maxRetries, ErrUnavailable, sanitize(lastErr.Error()))
}

// RateLimits returns the provider quota observed on the last response.
func (c *Client) RateLimits() models.RateLimits {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rateLimits
}

// backoff returns the exponential delay for an attempt with jitter, so
// concurrent workers do not synchronize their retries.
func (c *Client) backoff(attempt int) time.Duration {
	d := c.backoffBase << uint(attempt-1)
	if d > c.backoffMax {
		d = c.backoffMax
	}
	half := int64(d / 2)
	if half <= 0 {
		return d
	}
	return time.Duration(half + rand.Int63n(half+1))
}

// doRequest performs a single HTTP request with the given key.
func (c *Client) doRequest(ctx context.Context, endpoint, apiKey string, opts *models.FetchOptions) ([]byte, error) {
	params := url.Values{}
	params.Set("apiKey", apiKey)
	params.Set("regions", strings.Join(opts.Regions, ","))
	params.Set("markets", strings.Join(opts.Markets, ","))
	params.Set("oddsFormat", "decimal")
	params.Set("dateFormat", "iso")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %s", sanitize(err.Error()))
	}
	defer resp.Body.Close()

	c.updateRateLimits(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// updateRateLimits extracts quota info from response headers.
func (c *Client) updateRateLimits(headers http.Header) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if remaining := headers.Get("x-requests-remaining"); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimits.RequestsRemaining = val
		}
	}
	if used := headers.Get("x-requests-used"); used != "" {
		if val, err := strconv.Atoi(used); err == nil {
			c.rateLimits.RequestsUsed = val
		}
	}
}

// parseOddsResponse converts the provider payload into EventQuotes,
// permissively: unknown fields are ignored and malformed entries skipped.
// An undecodable top-level payload is an error, never an empty batch.
func (c *Client) parseOddsResponse(body []byte, sport string) ([]models.EventQuotes, error) {
	receivedAt := time.Now()

	var apiResp []oddsResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, sanitize(err.Error()))
	}

	events := make([]models.EventQuotes, 0, len(apiResp))
	for _, event := range apiResp {
		if event.ID == "" || event.HomeTeam == "" || event.AwayTeam == "" {
			c.log.WithField("sport", sport).Warn("skipping malformed event entry")
			continue
		}
		commenceTime, err := time.Parse(time.RFC3339, event.CommenceTime)
		if err != nil {
			c.log.WithFields(logrus.Fields{
				"sport":    sport,
				"event_id": event.ID,
			}).Warn("skipping event with unparseable commence time")
			continue
		}

		eq := models.EventQuotes{
			ProviderEventID: event.ID,
			SportKey:        event.SportKey,
			HomeTeam:        event.HomeTeam,
			AwayTeam:        event.AwayTeam,
			CommenceTime:    commenceTime,
		}

		for _, book := range event.Bookmakers {
			if book.Key == "" {
				c.log.WithField("event_id", event.ID).Warn("skipping bookmaker entry without key")
				continue
			}
			for _, market := range book.Markets {
				quotes := make([]models.Quote, 0, len(market.Outcomes))
				for _, outcome := range market.Outcomes {
					if outcome.Name == "" || outcome.Price < oddsmath.MinDecimalPrice {
						c.log.WithFields(logrus.Fields{
							"event_id": event.ID,
							"book":     book.Key,
							"price":    outcome.Price,
						}).Debug("skipping malformed outcome entry")
						continue
					}
					quotes = append(quotes, models.Quote{
						OutcomeLabel: outcome.Name,
						Price:        outcome.Price,
					})
				}
				if len(quotes) == 0 {
					continue
				}
				eq.Snapshots = append(eq.Snapshots, models.MarketSnapshot{
					BookKey:   book.Key,
					BookTitle: book.Title,
					MarketKey: market.Key,
					Quotes:    quotes,
					FetchedAt: receivedAt,
				})
			}
		}

		events = append(events, eq)
	}

	return events, nil
}

// Wire structures matching The Odds API JSON format. Extra fields in the
// payload are tolerated by encoding/json.

type oddsResponse struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	SportTitle   string      `json:"sport_title"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []bookmaker `json:"bookmakers"`
}

type bookmaker struct {
	Key        string   `json:"key"`
	Title      string   `json:"title"`
	LastUpdate string   `json:"last_update"`
	Markets    []market `json:"markets"`
}

type market struct {
	Key        string    `json:"key"`
	LastUpdate string    `json:"last_update"`
	Outcomes   []outcome `json:"outcomes"`
}

type outcome struct {
	Name  string   `json:"name"`
	Price float64  `json:"price"`
	Point *float64 `json:"point,omitempty"`
}
