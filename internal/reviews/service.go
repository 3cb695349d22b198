package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const listKey = "reviews:list"

// DefaultName replaces a blank reviewer name.
const DefaultName = "Customer"

// Review is a customer testimonial.
type Review struct {
	Name   string    `json:"name"`
	Rating int       `json:"rating"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

// Service persists reviews in a redis list, newest first. An empty store
// serves the two seed testimonials the site launched with.
type Service struct {
	R   *redis.Client
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) seeds() []Review {
	now := s.now()
	return []Review{
		{Name: DefaultName, Rating: 5, Text: "Very easy process and quick response on WhatsApp. JazakAllah.", Date: now},
		{Name: DefaultName, Rating: 5, Text: "Clear pricing and respectful service. Highly recommended.", Date: now},
	}
}

// List returns all reviews, newest first.
func (s *Service) List(ctx context.Context) ([]Review, error) {
	raw, err := s.R.LRange(ctx, listKey, 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("reviews: load: %w", err)
	}
	if len(raw) == 0 {
		return s.seeds(), nil
	}
	out := make([]Review, 0, len(raw))
	for _, item := range raw {
		var rev Review
		if err := json.Unmarshal([]byte(item), &rev); err != nil {
			continue
		}
		out = append(out, rev)
	}
	return out, nil
}

// Add validates and stores a review at the head of the list. The name
// defaults and the rating clamps into 1..5; empty text is rejected.
func (s *Service) Add(ctx context.Context, name string, rating int, text string) (Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Review{}, fmt.Errorf("reviews: text is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}

	rev := Review{Name: name, Rating: rating, Text: text, Date: s.now()}

	// Materialize the seeds first so they stay visible under the new entry.
	current, err := s.List(ctx)
	if err != nil {
		return Review{}, err
	}
	n, err := s.R.LLen(ctx, listKey).Result()
	if err != nil && err != redis.Nil {
		return Review{}, fmt.Errorf("reviews: store: %w", err)
	}
	if n == 0 {
		for i := len(current) - 1; i >= 0; i-- {
			data, err := json.Marshal(current[i])
			if err != nil {
				return Review{}, err
			}
			if err := s.R.LPush(ctx, listKey, data).Err(); err != nil {
				return Review{}, fmt.Errorf("reviews: store: %w", err)
			}
		}
	}

	data, err := json.Marshal(rev)
	if err != nil {
		return Review{}, err
	}
	if err := s.R.LPush(ctx, listKey, data).Err(); err != nil {
		return Review{}, fmt.Errorf("reviews: store: %w", err)
	}
	return rev, nil
}
