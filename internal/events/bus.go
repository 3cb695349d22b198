package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Event is an in-process domain event. Key identifies the aggregate the
// event belongs to (cart id, session id, currency).
type Event struct {
	Topic      string
	Key        string
	Payload    json.RawMessage
	OccurredAt time.Time
}

// Notifier reacts to emitted events (logging, metrics, etc.).
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Bus fans emitted events out to the configured notifiers. Unlike the
// storefront's old DOM event this is an explicit observer: emitters name a
// topic and key and every notifier sees the event.
type Bus struct {
	Notifiers []Notifier
	Now       func() time.Time
}

// Emit dispatches the event to all configured notifiers. Notifier errors are
// joined and returned but never stop the fan-out.
func (b *Bus) Emit(ctx context.Context, topic, key string, payload any) (Event, error) {
	if b == nil {
		return Event{}, errors.New("events: bus not configured")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Event{}, errors.New("events: topic is required")
	}
	encoded, err := encodePayload(payload)
	if err != nil {
		return Event{}, fmt.Errorf("events: encode payload: %w", err)
	}
	now := time.Now()
	if b.Now != nil {
		now = b.Now()
	}
	ev := Event{Topic: topic, Key: key, Payload: encoded, OccurredAt: now}

	var joined error
	for _, notifier := range b.Notifiers {
		if notifier == nil {
			continue
		}
		if notifyErr := notifier.Notify(ctx, ev); notifyErr != nil {
			joined = errors.Join(joined, fmt.Errorf("events: notifier: %w", notifyErr))
		}
	}
	return ev, joined
}

func encodePayload(payload any) ([]byte, error) {
	if payload == nil {
		return []byte("{}"), nil
	}
	switch v := payload.(type) {
	case []byte:
		if len(v) == 0 {
			return []byte("{}"), nil
		}
		if !json.Valid(v) {
			return nil, errors.New("payload is not valid json")
		}
		return append([]byte(nil), v...), nil
	case json.RawMessage:
		if len(v) == 0 {
			return []byte("{}"), nil
		}
		if !json.Valid(v) {
			return nil, errors.New("payload is not valid json")
		}
		return append([]byte(nil), v...), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return []byte("{}"), nil
		}
		data := []byte(v)
		if !json.Valid(data) {
			return nil, errors.New("payload is not valid json")
		}
		return data, nil
	default:
		return json.Marshal(v)
	}
}

// LogNotifier writes each event through zerolog.
type LogNotifier struct {
	Log zerolog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(ctx context.Context, event Event) error {
	n.Log.Info().
		Str("topic", event.Topic).
		Str("key", event.Key).
		RawJSON("payload", event.Payload).
		Time("occurredAt", event.OccurredAt).
		Msg("domain event")
	return nil
}

// MetricsNotifier counts emitted events per topic.
type MetricsNotifier struct {
	counter *prometheus.CounterVec
}

// NewMetricsNotifier registers the event counter on the given registerer.
func NewMetricsNotifier(reg prometheus.Registerer) *MetricsNotifier {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "domain_events_total",
		Help: "Domain events emitted, labelled by topic.",
	}, []string{"topic"})
	if reg != nil {
		reg.MustRegister(counter)
	}
	return &MetricsNotifier{counter: counter}
}

// Notify implements Notifier.
func (n *MetricsNotifier) Notify(ctx context.Context, event Event) error {
	n.counter.WithLabelValues(event.Topic).Inc()
	return nil
}
