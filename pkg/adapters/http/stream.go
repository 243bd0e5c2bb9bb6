package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/logstate/internal/logging"
	"github.com/aretw0/logstate/pkg/domain"
)

// StreamManager fans transition events out to active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- []byte]struct{}
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager. A nil logger discards output.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[chan<- []byte]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new listener. The returned func unregisters it and closes the channel.
func (sm *StreamManager) Subscribe() (<-chan []byte, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan []byte, 16)
	sm.subscribers[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			delete(sm.subscribers, ch)
			close(ch)
		})
	}
}

// Subscribers returns the number of active listeners.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

// Broadcast sends an event to every listener without blocking.
func (sm *StreamManager) Broadcast(e *domain.TransitionEvent) {
	payload, err := json.Marshal(e)
	if err != nil {
		sm.logger.Error("StreamManager: encode event failed", "error", err)
		return
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- payload:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping event", "event_id", e.ID)
		}
	}
}

// Hooks returns controller hooks that broadcast every event.
func (sm *StreamManager) Hooks() domain.Hooks {
	return domain.Hooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			sm.Broadcast(e)
		},
	}
}
