package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventDocumentChanged  EventType = "DocumentChanged"
	EventSelectionChanged EventType = "SelectionChanged"
	EventDragStarted      EventType = "DragStarted"
	EventDragEnded        EventType = "DragEnded"
	EventBlockMoved       EventType = "BlockMoved"
	EventViewScrolled     EventType = "ViewScrolled"
	EventEnabledChanged   EventType = "EnabledChanged"
	EventError            EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// DocumentChangedEvent is emitted after every committed document mutation.
type DocumentChangedEvent struct {
	BlockCount int
}

func (e DocumentChangedEvent) Type() EventType { return EventDocumentChanged }

// SelectionChangedEvent is emitted when the multi-block selection changes.
type SelectionChangedEvent struct {
	Selected []BlockID // document order
	Added    []BlockID
	Removed  []BlockID
}

func (e SelectionChangedEvent) Type() EventType { return EventSelectionChanged }

// DragStartedEvent is emitted when a long-press promotes into a drag session.
type DragStartedEvent struct {
	Source BlockID
}

func (e DragStartedEvent) Type() EventType { return EventDragStarted }

// DragEndedEvent is emitted when a drag session ends, dropped or cancelled.
type DragEndedEvent struct {
	Source    BlockID
	Committed bool
}

func (e DragEndedEvent) Type() EventType { return EventDragEnded }

// BlockMovedEvent is emitted after a successful drag-reorder mutation.
type BlockMovedEvent struct {
	Block BlockID
	From  int
	To    int
}

func (e BlockMovedEvent) Type() EventType { return EventBlockMoved }

// ViewScrolledEvent is emitted by the view layer when the surface scrolls,
// so selected-block geometry can be republished.
type ViewScrolledEvent struct {
	Offset float64
}

func (e ViewScrolledEvent) Type() EventType { return EventViewScrolled }

// EnabledChangedEvent is emitted when the indicator feature is toggled.
type EnabledChangedEvent struct {
	Enabled bool
}

func (e EnabledChangedEvent) Type() EventType { return EventEnabledChanged }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
