package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// HandlerFunc handles a delivered event envelope.
type HandlerFunc func(ctx context.Context, envelope *Envelope) error

// InProcessBus is an in-memory event bus for local mode (no RabbitMQ).
// Events are delivered synchronously to registered handlers.
type InProcessBus struct {
	logger   *slog.Logger
	mu       sync.Mutex
	handlers map[string][]HandlerFunc
}

// NewInProcessBus creates a new in-process event bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		logger:   logger,
		handlers: make(map[string][]HandlerFunc),
	}
}

// Subscribe registers a handler for a routing-key prefix.
// A prefix of "calendar." receives every calendar event; "" receives all.
func (b *InProcessBus) Subscribe(prefix string, handler HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[prefix] = append(b.handlers[prefix], handler)
}

// Publish dispatches an event envelope synchronously to all matching handlers.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	envelope := &Envelope{}
	if err := json.Unmarshal(payload, envelope); err != nil {
		b.logger.Error("failed to unmarshal event payload",
			"routing_key", routingKey,
			"error", err,
		)
		return nil // Log and skip, local delivery must not fail the caller
	}
	if envelope.RoutingKey == "" {
		envelope.RoutingKey = routingKey
	}

	b.mu.Lock()
	var matched []HandlerFunc
	for prefix, handlers := range b.handlers {
		if strings.HasPrefix(routingKey, prefix) {
			matched = append(matched, handlers...)
		}
	}
	b.mu.Unlock()

	start := time.Now()
	for _, handler := range matched {
		if err := handler(ctx, envelope); err != nil {
			b.logger.Error("event handler failed",
				"routing_key", routingKey,
				"event_id", envelope.EventID,
				"error", err,
			)
		}
	}

	b.logger.Debug("event dispatched",
		"routing_key", routingKey,
		"event_id", envelope.EventID,
		"handlers", len(matched),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}

// Close is a no-op for the in-process bus.
func (b *InProcessBus) Close() error {
	return nil
}
