// Package pricefeed supplies the market exchange rate used to express
// satoshi amounts in the account currency. The cached decorator is the only
// thing callers should be handed; the upstream feed rate-limits aggressively.
package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wattpay/wattpay/internal/cache"
	"github.com/wattpay/wattpay/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const satoshisPerCoin = 100_000_000

var ErrUnavailable = errors.New("price_feed_unavailable")

// Provider answers the current fiat rate for one coin.
type Provider interface {
	Rate(ctx context.Context) (float64, error)
	ConvertSatoshis(ctx context.Context, satoshis int64) (float64, error)
}

type httpFeed struct {
	baseURL  string
	coinID   string
	currency string
	httpc    *http.Client
	log      *zap.Logger
}

// NewHTTPFeed builds the uncached upstream feed (CoinGecko simple-price API).
func NewHTTPFeed(cfg config.Config, log *zap.Logger) Provider {
	return &httpFeed{
		baseURL:  cfg.PriceFeed.BaseURL,
		coinID:   cfg.PriceFeed.CoinID,
		currency: cfg.PriceFeed.Currency,
		httpc:    &http.Client{Timeout: time.Duration(cfg.PriceFeed.TimeoutSeconds) * time.Second},
		log:      log.Named("pricefeed"),
	}
}

func (f *httpFeed) Rate(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s", f.baseURL, f.coinID, f.currency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := f.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	rate, ok := payload[f.coinID][f.currency]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("%w: no rate for %s/%s", ErrUnavailable, f.coinID, f.currency)
	}
	return rate, nil
}

func (f *httpFeed) ConvertSatoshis(ctx context.Context, satoshis int64) (float64, error) {
	return convert(ctx, f, satoshis)
}

type cached struct {
	next  Provider
	cache cache.Cache[string, float64]
	ttl   time.Duration
}

// NewCached wraps a Provider with a TTL cache so a burst of payments does not
// turn into a burst of upstream lookups.
func NewCached(next Provider, ttl time.Duration) Provider {
	return &cached{
		next:  next,
		cache: cache.NewTTLCache[string, float64](),
		ttl:   ttl,
	}
}

func (c *cached) Rate(ctx context.Context) (float64, error) {
	if rate, ok := c.cache.Get("rate"); ok {
		return rate, nil
	}

	rate, err := c.next.Rate(ctx)
	if err != nil {
		return 0, err
	}
	c.cache.Set("rate", rate, c.ttl)
	return rate, nil
}

func (c *cached) ConvertSatoshis(ctx context.Context, satoshis int64) (float64, error) {
	return convert(ctx, c, satoshis)
}

func convert(ctx context.Context, p Provider, satoshis int64) (float64, error) {
	rate, err := p.Rate(ctx)
	if err != nil {
		return 0, err
	}
	return float64(satoshis) / satoshisPerCoin * rate, nil
}

func provide(cfg config.Config, log *zap.Logger) Provider {
	ttl := time.Duration(cfg.PriceFeed.CacheTTLSecond) * time.Second
	return NewCached(NewHTTPFeed(cfg, log), ttl)
}

var Module = fx.Module("pricefeed",
	fx.Provide(provide),
)
