package eventbus

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"dragline/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventDocumentChanged  = domain.EventDocumentChanged
	EventSelectionChanged = domain.EventSelectionChanged
	EventDragStarted      = domain.EventDragStarted
	EventDragEnded        = domain.EventDragEnded
	EventBlockMoved       = domain.EventBlockMoved
	EventViewScrolled     = domain.EventViewScrolled
	EventEnabledChanged   = domain.EventEnabledChanged
	EventError            = domain.EventError
)

// Re-export domain event types
type DocumentChangedEvent = domain.DocumentChangedEvent
type SelectionChangedEvent = domain.SelectionChangedEvent
type DragStartedEvent = domain.DragStartedEvent
type DragEndedEvent = domain.DragEndedEvent
type BlockMovedEvent = domain.BlockMovedEvent
type ViewScrolledEvent = domain.ViewScrolledEvent
type EnabledChangedEvent = domain.EnabledChangedEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

// bus is the concrete implementation of EventBus. Dispatch is synchronous:
// the indicator engine is single-threaded by contract, and handlers must see
// a document mutation before the event loop processes the next input.
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType]map[int]EventHandler
	nextID   int
	logger   *zap.Logger
}

// New creates a new event bus
func New(logger *zap.Logger) EventBus {
	return &bus{
		handlers: make(map[EventType]map[int]EventHandler),
		logger:   logger,
	}
}

// Publish delivers an event to all subscribers before returning.
func (b *bus) Publish(event DomainEvent) {
	// Skip logging for high-frequency events
	switch event.Type() {
	case EventViewScrolled:
	default:
		b.logger.Debug("publishing event", zap.String("type", string(event.Type())))
	}

	b.mu.RLock()
	handlers := make([]EventHandler, 0, len(b.handlers[event.Type()]))
	for _, h := range b.handlers[event.Type()] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.call(handler, event)
	}
}

func (b *bus) call(handler EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic",
				zap.String("type", string(event.Type())),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	handler(event)
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[int]EventHandler)
	}
	id := b.nextID
	b.nextID++
	b.handlers[eventType][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[eventType], id)
	}
}
