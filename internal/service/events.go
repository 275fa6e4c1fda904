package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"logicsim/internal/domain"
)

// EventType names a change the presentation layer should react to
type EventType string

const (
	EventNodeAdded      EventType = "node_added"
	EventNodeMoved      EventType = "node_moved"
	EventInputToggled   EventType = "input_toggled"
	EventLabelChanged   EventType = "label_changed"
	EventNodesConnected EventType = "nodes_connected"
	EventNodeDeleted    EventType = "node_deleted"
	EventSimulated      EventType = "simulated"
	EventUndone         EventType = "undone"
	EventRedone         EventType = "redone"
	EventSchemeLoaded   EventType = "scheme_loaded"
	EventSessionReset   EventType = "session_reset"
	EventTypeSelected   EventType = "type_selected"
	EventConnectPending EventType = "connect_pending"
	EventConnectCleared EventType = "connect_cleared"

	// EventSnapshot carries the full state to a newly connected client
	EventSnapshot EventType = "snapshot"
)

// Event is a change notification published after an editor operation
type Event struct {
	Type    EventType `json:"type"`
	Payload State     `json:"payload"`
}

// EventName names the SSE event the hub frames this event as
func (e Event) EventName() string {
	return string(e.Type)
}

// State is the editor view handed to subscribers and API clients
type State struct {
	Graph         *domain.Graph   `json:"graph"`
	SelectedType  domain.NodeType `json:"selected_type"`
	PendingSource *domain.NodeID  `json:"pending_source,omitempty"`
	CanUndo       bool            `json:"can_undo"`
	CanRedo       bool            `json:"can_redo"`
	HistoryCursor int             `json:"history_cursor"`
	HistoryLength int             `json:"history_length"`
}

// EventBus fans events out to subscriber channels without blocking the publisher
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[int]chan<- Event
	nextID      int
	logger      *zap.Logger
}

// NewEventBus creates a new event bus
func NewEventBus(logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{
		subscribers: make(map[int]chan<- Event),
		logger:      logger,
	}
}

// Subscribe registers ch and returns a function that removes it again
func (eb *EventBus) Subscribe(ch chan<- Event) func() {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id := eb.nextID
	eb.nextID++
	eb.subscribers[id] = ch

	return func() {
		eb.mu.Lock()
		defer eb.mu.Unlock()
		delete(eb.subscribers, id)
	}
}

// Publish sends an event to all subscribers; slow subscribers miss it
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for id, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			eb.logger.Debug("dropping event for slow subscriber",
				zap.Int("subscriber", id),
				zap.String("event", string(event.Type)),
			)
		}
	}
}

// Forward calls fn for every published event until ctx is cancelled
func (eb *EventBus) Forward(ctx context.Context, fn func(Event)) {
	ch := make(chan Event, 64)
	unsubscribe := eb.Subscribe(ch)
	defer unsubscribe()

	for {
		select {
		case evt := <-ch:
			fn(evt)
		case <-ctx.Done():
			return
		}
	}
}
