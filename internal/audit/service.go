// Package audit records who changed a shop's volume discount settings and how.
package audit

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Action constants for audit logging
const (
	ActionUpdated    = "updated"
	ActionDeleted    = "deleted"
	ActionRejected   = "rejected"
	ActionAuthFailed = "auth_failed"
)

// Status constants for audit logging
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Clock interface for testable time operations
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator interface for testable ID generation
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator implements IDGenerator using UUID v4
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string { return uuid.NewString() }

// Source represents request metadata
type Source struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

// Event is one settings change, successful or not.
type Event struct {
	OccurredAt   time.Time      `json:"occurred_at"`
	RequestID    string         `json:"request_id"`
	Source       Source         `json:"source"`
	Action       string         `json:"action"`
	ShopID       string         `json:"shop_id"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Changes      map[string]any `json:"changes,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage *string        `json:"error_message,omitempty"`
}

// Sink persists audit events.
type Sink interface {
	Write(ctx context.Context, event Event) error
}

// Service queues events and writes them to a Sink from a background worker.
// A nil *Service discards everything.
type Service struct {
	sink   Sink
	clock  Clock
	idgen  IDGenerator
	logger zerolog.Logger
	queue  chan Event
	stopCh chan struct{}
	done   chan struct{}
	closed int32
}

// NewService creates a new audit service and starts its worker.
func NewService(sink Sink, logger zerolog.Logger, clock Clock, idgen IDGenerator, queueSize int) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if idgen == nil {
		idgen = UUIDGenerator{}
	}
	if queueSize <= 0 {
		queueSize = 1024
	}

	s := &Service{
		sink:   sink,
		clock:  clock,
		idgen:  idgen,
		logger: logger,
		queue:  make(chan Event, queueSize),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.worker()
	return s
}

func (s *Service) worker() {
	defer close(s.done)
	for {
		select {
		case event := <-s.queue:
			s.write(event)
		case <-s.stopCh:
			for {
				select {
				case event := <-s.queue:
					s.write(event)
				default:
					return
				}
			}
		}
	}
}

func (s *Service) write(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.sink.Write(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("shop_id", event.ShopID).Str("action", event.Action).Msg("audit write failed")
	}
}

// Close stops the worker after the queued events are written.
// Close is safe to call multiple times.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}
	if atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		close(s.stopCh)
	}
	<-s.done
	return nil
}

// Log queues an event. Events are dropped when the queue is full or the service is closed.
func (s *Service) Log(event Event) {
	if s == nil {
		return
	}
	if atomic.LoadInt32(&s.closed) == 1 {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.clock.Now()
	}
	if event.RequestID == "" {
		event.RequestID = s.idgen.Generate()
	}
	if event.Changes == nil {
		event.Changes = ComputeChanges(event.BeforeState, event.AfterState)
	}

	select {
	case s.queue <- event:
	default:
		s.logger.Warn().Str("shop_id", event.ShopID).Str("action", event.Action).Msg("audit queue full, dropping event")
	}
}

// ComputeChanges computes the difference between before and after states
func ComputeChanges(before, after map[string]any) map[string]any {
	if before == nil && after == nil {
		return nil
	}
	if before == nil {
		before = make(map[string]any)
	}
	if after == nil {
		after = make(map[string]any)
	}

	changes := make(map[string]any)
	for key, afterVal := range after {
		beforeVal, existedBefore := before[key]
		beforeJSON, _ := json.Marshal(beforeVal)
		afterJSON, _ := json.Marshal(afterVal)
		if !existedBefore || string(beforeJSON) != string(afterJSON) {
			changes[key] = map[string]any{"before": beforeVal, "after": afterVal}
		}
	}
	for key, beforeVal := range before {
		if _, existsAfter := after[key]; !existsAfter {
			changes[key] = map[string]any{"before": beforeVal, "after": nil}
		}
	}

	if len(changes) == 0 {
		return nil
	}
	return changes
}
