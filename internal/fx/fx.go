package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Farwahi/Noor-e-Hadiya/internal/money"
	"github.com/Farwahi/Noor-e-Hadiya/internal/resilience"
)

// DefaultBaseURL points at the public exchange-rate API.
const DefaultBaseURL = "https://open.er-api.com/v6/latest"

// Rates holds the conversion factors from a base currency to each supported
// currency, as fetched from the rate API.
type Rates struct {
	Base      money.Currency             `json:"base"`
	Values    map[money.Currency]float64 `json:"values"`
	FetchedAt time.Time                  `json:"fetchedAt"`
}

// To returns the factor converting one unit of the base currency into target.
// The base converts to itself at 1 regardless of the fetched payload.
func (r Rates) To(target money.Currency) (float64, bool) {
	if target == r.Base {
		return 1, true
	}
	v, ok := r.Values[target]
	return v, ok
}

// Client fetches and caches exchange rates. The Redis cache is optional; when
// absent every call goes to the upstream API.
type Client struct {
	HTTP    resilience.HTTPClient
	BaseURL string
	Redis   *redis.Client
	TTL     time.Duration
	Now     func() time.Time
}

type apiResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Client) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) ttl() time.Duration {
	if c.TTL > 0 {
		return c.TTL
	}
	return 30 * time.Minute
}

func cacheKey(base money.Currency) string {
	return "fx:rates:" + string(base)
}

// Rates returns conversion factors for the given base currency, serving from
// cache within the freshness window. Every supported currency must come back
// as a finite positive or the fetch is rejected.
func (c *Client) Rates(ctx context.Context, base money.Currency) (Rates, error) {
	if c.Redis != nil {
		var cached Rates
		data, err := c.Redis.Get(ctx, cacheKey(base)).Bytes()
		if err == nil && json.Unmarshal(data, &cached) == nil && len(cached.Values) > 0 {
			return cached, nil
		}
	}

	rates, err := c.fetch(ctx, base)
	if err != nil {
		return Rates{}, err
	}

	if c.Redis != nil {
		if data, err := json.Marshal(rates); err == nil {
			_ = c.Redis.Set(ctx, cacheKey(base), data, c.ttl()).Err()
		}
	}
	return rates, nil
}

// Rate is a convenience for a single conversion factor.
func (c *Client) Rate(ctx context.Context, from, to money.Currency) (float64, error) {
	if from == to {
		return 1, nil
	}
	rates, err := c.Rates(ctx, from)
	if err != nil {
		return 0, err
	}
	v, ok := rates.To(to)
	if !ok {
		return 0, fmt.Errorf("fx: no %s rate in %s payload", to, from)
	}
	return v, nil
}

func (c *Client) fetch(ctx context.Context, base money.Currency) (Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+"/"+string(base), nil)
	if err != nil {
		return Rates{}, err
	}
	resp, err := c.HTTP.Do(ctx, req)
	if err != nil {
		return Rates{}, fmt.Errorf("fx: fetch %s rates: %w", base, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return Rates{}, fmt.Errorf("fx: fetch %s rates: %s", base, resp.Status)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Rates{}, fmt.Errorf("fx: decode %s rates: %w", base, err)
	}
	if payload.Result != "" && payload.Result != "success" {
		return Rates{}, fmt.Errorf("fx: %s rates unavailable: %s", base, payload.Result)
	}

	values := make(map[money.Currency]float64, len(money.Currencies))
	for _, cur := range money.Currencies {
		if cur == base {
			values[cur] = 1
			continue
		}
		v, ok := payload.Rates[string(cur)]
		if !ok || !finitePositive(v) {
			return Rates{}, fmt.Errorf("fx: missing %s rate in %s payload", cur, base)
		}
		values[cur] = v
	}

	return Rates{Base: base, Values: values, FetchedAt: c.now()}, nil
}

func finitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
