// Package rates fetches the TRY conversion rates for USD, EUR, and GBP.
// A fetch failure never aborts an analysis: the client downgrades to the
// static fallback table and reports that in the returned quote.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/peakstay/parity-cli/internal/config"
	"github.com/peakstay/parity-cli/internal/model"
)

// apiResponse mirrors the frankfurter.app payload for /latest?from=TRY:
// rates are foreign units per 1 TRY and get inverted into TRY-per-unit.
type apiResponse struct {
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Client resolves one rate set per analysis run, TTL-cached. Today's rates
// apply to all historical dates by design; per-date rate history is out of
// scope.
type Client struct {
	cfg     config.RatesConfig
	client  *http.Client
	limiter *rate.Limiter
	now     func() time.Time

	mu     sync.Mutex
	cached *model.RateQuote
}

// NewClient creates a rate client. The limiter keeps repeated cache misses
// (e.g. a flapping network) from hammering the rate API.
func NewClient(cfg config.RatesConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(10*time.Second), 3),
		now:     time.Now,
	}
}

// Get returns the current rate quote, fetching at most once per TTL window.
func (c *Client) Get(ctx context.Context) model.RateQuote {
	c.mu.Lock()
	defer c.mu.Unlock()

	ttl := time.Duration(c.cfg.TTLHours) * time.Hour
	if c.cached != nil && (ttl == 0 || c.now().Sub(c.cached.FetchedAt) < ttl) {
		return *c.cached
	}
	return c.refreshLocked(ctx)
}

// Refresh discards the cached quote and fetches again.
func (c *Client) Refresh(ctx context.Context) model.RateQuote {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshLocked(ctx)
}

func (c *Client) refreshLocked(ctx context.Context) model.RateQuote {
	quote, err := c.fetch(ctx)
	if err != nil {
		zap.L().Warn("rate fetch failed, using fallback rates", zap.Error(err))
		quote = c.fallback()
	}
	c.cached = &quote
	return quote
}

func (c *Client) fetch(ctx context.Context) (model.RateQuote, error) {
	if !c.limiter.Allow() {
		return model.RateQuote{}, eris.New("rates: refresh rate limit exceeded")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIURL, nil)
	if err != nil {
		return model.RateQuote{}, eris.Wrap(err, "rates: create request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return model.RateQuote{}, eris.Wrap(err, "rates: fetch")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return model.RateQuote{}, eris.Errorf("rates: unexpected status %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return model.RateQuote{}, eris.Wrap(err, "rates: decode response")
	}

	set, err := invert(payload.Rates)
	if err != nil {
		return model.RateQuote{}, err
	}

	return model.RateQuote{
		Rates:     set,
		Status:    model.RateStatusLive,
		Source:    fmt.Sprintf("live rates (%s)", payload.Date),
		FetchedAt: c.now(),
	}, nil
}

// invert turns foreign-per-TRY quotes into TRY-per-unit rates.
func invert(quotes map[string]float64) (model.RateSet, error) {
	var set model.RateSet
	for _, cur := range []string{"USD", "EUR", "GBP"} {
		q, ok := quotes[cur]
		if !ok || q <= 0 {
			return model.RateSet{}, eris.Errorf("rates: malformed response, missing %s", cur)
		}
		switch cur {
		case "USD":
			set.USD = 1 / q
		case "EUR":
			set.EUR = 1 / q
		case "GBP":
			set.GBP = 1 / q
		}
	}
	return set, nil
}

func (c *Client) fallback() model.RateQuote {
	return model.RateQuote{
		Rates: model.RateSet{
			USD: 1 / c.cfg.FallbackUSD,
			EUR: 1 / c.cfg.FallbackEUR,
			GBP: 1 / c.cfg.FallbackGBP,
		},
		Status:    model.RateStatusFallback,
		Source:    "static fallback rates",
		FetchedAt: c.now(),
	}
}
