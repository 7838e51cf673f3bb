package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Reader lists the most recent events, newest first.
type Reader interface {
	Recent(ctx context.Context, n int64) ([]Event, error)
}

// LogSink writes each event as one structured log line.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Write(_ context.Context, event Event) error {
	e := s.Logger.Info()
	if event.Status == StatusFailure {
		e = s.Logger.Warn()
	}
	e = e.Str("request_id", event.RequestID).
		Str("action", event.Action).
		Str("shop_id", event.ShopID).
		Str("status", event.Status).
		Str("ip_address", event.Source.IPAddress).
		Time("occurred_at", event.OccurredAt)
	if event.Changes != nil {
		e = e.Interface("changes", event.Changes)
	}
	if event.ErrorMessage != nil {
		e = e.Str("error_message", *event.ErrorMessage)
	}
	e.Msg("audit")
	return nil
}

// DefaultRedisKey is the list RedisSink pushes to.
const DefaultRedisKey = "audit:volume_discount"

// RedisSink keeps the most recent events as JSON in a capped Redis list, newest first.
type RedisSink struct {
	client *redis.Client
	key    string
	max    int64
}

// NewRedisSink creates a sink that retains at most maxEvents events under key.
func NewRedisSink(client *redis.Client, key string, maxEvents int64) *RedisSink {
	if key == "" {
		key = DefaultRedisKey
	}
	if maxEvents <= 0 {
		maxEvents = 10000
	}
	return &RedisSink{client: client, key: key, max: maxEvents}
}

func (s *RedisSink) Write(ctx context.Context, event Event) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key, b)
	pipe.LTrim(ctx, s.key, 0, s.max-1)
	_, err = pipe.Exec(ctx)
	return err
}

// Recent returns up to n of the newest events.
func (s *RedisSink) Recent(ctx context.Context, n int64) ([]Event, error) {
	if n <= 0 {
		return nil, nil
	}
	raw, err := s.client.LRange(ctx, s.key, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(raw))
	for _, item := range raw {
		var ev Event
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// MemorySink keeps events in memory, mostly for tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func (s *MemorySink) Write(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of the recorded events in write order.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Recent returns up to n of the newest events, newest first.
func (s *MemorySink) Recent(_ context.Context, n int64) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for i := len(s.events) - 1; i >= 0 && int64(len(out)) < n; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
