package metals

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/Farwahi/Noor-e-Hadiya/internal/resilience"
)

// Quote carries spot prices in USD per troy ounce. Both metals must be
// present for a quote to be usable.
type Quote struct {
	GoldPerOunceUSD   float64
	SilverPerOunceUSD float64
}

func (q Quote) valid() bool {
	return finitePositive(q.GoldPerOunceUSD) && finitePositive(q.SilverPerOunceUSD)
}

func finitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// Source is a named spot-price provider. Implementations wrap their upstream
// call in a resilient HTTP client so a flapping provider trips its own
// breaker without affecting the others.
type Source interface {
	Name() string
	Quote(ctx context.Context) (Quote, error)
}

// GoldPriceSource reads the goldprice.org dbXRates feed, which returns both
// metals in one call.
type GoldPriceSource struct {
	HTTP    resilience.HTTPClient
	BaseURL string
}

// DefaultGoldPriceURL is the public dbXRates endpoint for USD quotes.
const DefaultGoldPriceURL = "https://data-asg.goldprice.org/dbXRates/USD"

// Name identifies the source in logs and exhaustion errors.
func (s *GoldPriceSource) Name() string { return "goldprice" }

// Quote fetches the current USD spot prices.
func (s *GoldPriceSource) Quote(ctx context.Context) (Quote, error) {
	url := s.BaseURL
	if url == "" {
		url = DefaultGoldPriceURL
	}
	var payload struct {
		Items []struct {
			XAUPrice float64 `json:"xauPrice"`
			XAGPrice float64 `json:"xagPrice"`
		} `json:"items"`
	}
	if err := s.getJSON(ctx, url, &payload); err != nil {
		return Quote{}, err
	}
	if len(payload.Items) == 0 {
		return Quote{}, fmt.Errorf("metals: %s returned no items", s.Name())
	}
	q := Quote{GoldPerOunceUSD: payload.Items[0].XAUPrice, SilverPerOunceUSD: payload.Items[0].XAGPrice}
	if !q.valid() {
		return Quote{}, fmt.Errorf("metals: %s returned unusable prices", s.Name())
	}
	return q, nil
}

func (s *GoldPriceSource) getJSON(ctx context.Context, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.HTTP.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("metals: %s: %w", s.Name(), err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("metals: %s: %s", s.Name(), resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// GoldAPISource reads gold-api.com, which quotes one symbol per call so a
// full quote costs two requests.
type GoldAPISource struct {
	HTTP    resilience.HTTPClient
	BaseURL string
}

// DefaultGoldAPIURL is the public gold-api.com price endpoint prefix.
const DefaultGoldAPIURL = "https://api.gold-api.com/price"

// Name identifies the source in logs and exhaustion errors.
func (s *GoldAPISource) Name() string { return "gold-api" }

// Quote fetches XAU and XAG in sequence; either failing fails the quote.
func (s *GoldAPISource) Quote(ctx context.Context) (Quote, error) {
	gold, err := s.symbol(ctx, "XAU")
	if err != nil {
		return Quote{}, err
	}
	silver, err := s.symbol(ctx, "XAG")
	if err != nil {
		return Quote{}, err
	}
	q := Quote{GoldPerOunceUSD: gold, SilverPerOunceUSD: silver}
	if !q.valid() {
		return Quote{}, fmt.Errorf("metals: %s returned unusable prices", s.Name())
	}
	return q, nil
}

func (s *GoldAPISource) symbol(ctx context.Context, symbol string) (float64, error) {
	base := s.BaseURL
	if base == "" {
		base = DefaultGoldAPIURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/"+symbol, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.HTTP.Do(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("metals: %s %s: %w", s.Name(), symbol, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("metals: %s %s: %s", s.Name(), symbol, resp.Status)
	}
	var payload struct {
		Price float64 `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}
	return payload.Price, nil
}
