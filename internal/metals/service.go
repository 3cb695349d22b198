package metals

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Farwahi/Noor-e-Hadiya/internal/money"
)

// GramsPerTroyOunce converts ounce-quoted spot prices to per-gram prices.
const GramsPerTroyOunce = 31.1034768

// RateProvider converts an amount factor between currencies. Satisfied by the
// fx client.
type RateProvider interface {
	Rate(ctx context.Context, from, to money.Currency) (float64, error)
}

// PerGram is the per-gram spot price pair in a target currency.
type PerGram struct {
	Currency      money.Currency `json:"currency"`
	GoldPerGram   float64        `json:"goldPerGram"`
	SilverPerGram float64        `json:"silverPerGram"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	Source        string         `json:"sourceUsed"`
}

// ExhaustedError reports that every configured source failed. It lists the
// sources in the order they were attempted.
type ExhaustedError struct {
	Attempted []string
}

func (e *ExhaustedError) Error() string {
	return "metals sources failed: " + strings.Join(e.Attempted, ", ")
}

// Service resolves per-gram prices by walking the configured sources in
// order, converting through FX, and caching per currency.
type Service struct {
	Sources []Source
	FX      RateProvider
	Redis   *redis.Client
	TTL     time.Duration
	Log     zerolog.Logger
	Now     func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 10 * time.Minute
}

func cacheKey(cur money.Currency) string {
	return "metals:pergram:" + string(cur)
}

// PerGram returns the spot prices per gram in the requested currency. The
// first source producing a full quote wins; the redis cache is consulted
// first and a cache error only means a live fetch.
func (s *Service) PerGram(ctx context.Context, cur money.Currency) (PerGram, error) {
	if s.Redis != nil {
		var cached PerGram
		data, err := s.Redis.Get(ctx, cacheKey(cur)).Bytes()
		if err == nil && json.Unmarshal(data, &cached) == nil && cached.GoldPerGram > 0 {
			return cached, nil
		}
	}

	quote, source, err := s.liveQuote(ctx)
	if err != nil {
		return PerGram{}, err
	}

	rate := 1.0
	if cur != money.USD {
		rate, err = s.FX.Rate(ctx, money.USD, cur)
		if err != nil {
			return PerGram{}, fmt.Errorf("metals: convert to %s: %w", cur, err)
		}
	}

	result := PerGram{
		Currency:      cur,
		GoldPerGram:   quote.GoldPerOunceUSD / GramsPerTroyOunce * rate,
		SilverPerGram: quote.SilverPerOunceUSD / GramsPerTroyOunce * rate,
		UpdatedAt:     s.now(),
		Source:        source,
	}

	if s.Redis != nil {
		if data, err := json.Marshal(result); err == nil {
			_ = s.Redis.Set(ctx, cacheKey(cur), data, s.ttl()).Err()
		}
	}
	return result, nil
}

// Refresh warms the cache for every supported currency. Used by the worker.
func (s *Service) Refresh(ctx context.Context) error {
	for _, cur := range money.Currencies {
		if s.Redis != nil {
			_ = s.Redis.Del(ctx, cacheKey(cur)).Err()
		}
		if _, err := s.PerGram(ctx, cur); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) liveQuote(ctx context.Context) (Quote, string, error) {
	attempted := make([]string, 0, len(s.Sources))
	for _, src := range s.Sources {
		attempted = append(attempted, src.Name())
		quote, err := src.Quote(ctx)
		if err != nil {
			sourceFailures.WithLabelValues(src.Name()).Inc()
			s.Log.Warn().Err(err).Str("source", src.Name()).Msg("metals source failed")
			continue
		}
		return quote, src.Name(), nil
	}
	return Quote{}, "", &ExhaustedError{Attempted: attempted}
}
