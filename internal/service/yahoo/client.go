package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"FinCast/internal/domain/models"
	drepo "FinCast/internal/domain/repository"
	"FinCast/internal/service/ratelimit"
	"FinCast/internal/statement"
	pkgcache "FinCast/pkg/cache"
	pkghttp "FinCast/pkg/http"
	applogger "FinCast/pkg/logger"
	pkgutil "FinCast/pkg/util"
)

// Client implements MarketData against a Yahoo-style statements REST API.
// Responses are cached by ticker and kind so repeated syncs within the TTL
// do not hit the provider again.
type Client struct {
	baseURL  string
	http     *pkghttp.Client
	cache    pkgcache.Service
	cacheTTL time.Duration
	limiter  *ratelimit.Limiter
	l        *applogger.Logger
}

// Provider request budget per ticker: a short burst, then one request
// every few seconds.
const (
	limitBurst  = 5
	limitRefill = 0.5
)

// ErrThrottled is returned when the per-ticker provider budget is spent.
var ErrThrottled = errors.New("provider request throttled")

// New creates a new market-data client. cache may be nil to disable caching.
func New(baseURL string, httpClient *pkghttp.Client, cache pkgcache.Service, cacheTTL time.Duration) drepo.MarketData {
	return &Client{
		baseURL:  baseURL,
		http:     httpClient,
		cache:    cache,
		cacheTTL: cacheTTL,
		limiter:  ratelimit.New(),
	}
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

// statementPayload is the provider wire format. Rows are keyed by the
// provider's display names, not by schema keys.
type statementPayload struct {
	Ticker   string               `json:"ticker"`
	Currency string               `json:"currency"`
	Dates    []string             `json:"dates"`
	Rows     map[string][]float64 `json:"rows"`
}

// Statement fetches one statement kind for a ticker as a frame with columns
// already mapped to schema metric keys. Provider rows that do not belong to
// the schema are dropped; schema metrics the provider omits stay absent.
func (c *Client) Statement(ctx context.Context, ticker, kind string) (*models.Frame, error) {
	schema, ok := statement.SchemaFor(kind)
	if !ok {
		return nil, fmt.Errorf("unknown statement kind %q", kind)
	}

	raw, err := c.fetch(ctx, ticker, kind)
	if err != nil {
		return nil, err
	}

	var payload statementPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode %s statement for %s: %w", kind, ticker, err)
	}
	if len(payload.Dates) == 0 {
		return nil, fmt.Errorf("empty %s statement for %s", kind, ticker)
	}

	dates := make([]time.Time, len(payload.Dates))
	for i, s := range payload.Dates {
		d, err := pkgutil.ParseDay(s)
		if err != nil {
			return nil, fmt.Errorf("statement date %q: %w", s, err)
		}
		dates[i] = d
	}

	// Provider rows are keyed by display name; resolve each to its schema
	// key and keep only recognized metrics.
	byName := make(map[string]string, len(schema.Metrics()))
	for _, col := range schema.Metrics() {
		byName[col.Name] = col.Key
	}

	frame := models.NewFrame(dates)
	frame.Currency = payload.Currency
	dropped := 0
	for name, values := range payload.Rows {
		key, ok := byName[name]
		if !ok {
			dropped++
			continue
		}
		if err := frame.AddColumn(key, values); err != nil {
			return nil, fmt.Errorf("statement row %q: %w", name, err)
		}
	}
	if c.l != nil {
		c.l.Debug("statement fetched",
			applogger.String("ticker", ticker),
			applogger.String("kind", kind),
			applogger.Int("metrics", len(frame.Columns)),
			applogger.Int("dropped_rows", dropped),
		)
	}
	return frame, nil
}

// fetch returns the raw statement payload, from cache when fresh.
func (c *Client) fetch(ctx context.Context, ticker, kind string) ([]byte, error) {
	cacheKey := fmt.Sprintf("stmt:%s:%s", ticker, kind)
	if c.cache != nil {
		var cached string
		if err := c.cache.Get(ctx, cacheKey, &cached); err == nil {
			return []byte(cached), nil
		} else if !errors.Is(err, pkgcache.ErrCacheMiss) && c.l != nil {
			c.l.Warn("statement cache read failed",
				applogger.String("key", cacheKey),
				applogger.Error(err),
			)
		}
	}

	if !c.limiter.Allow(ticker, limitBurst, limitRefill) {
		return nil, fmt.Errorf("%w: %s", ErrThrottled, ticker)
	}

	var body []byte
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/v1/statements/%s/%s", c.baseURL, ticker, kind),
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s statement for %s: %w", kind, ticker, err)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, body, c.cacheTTL); err != nil && c.l != nil {
			c.l.Warn("statement cache write failed",
				applogger.String("key", cacheKey),
				applogger.Error(err),
			)
		}
	}
	return body, nil
}
