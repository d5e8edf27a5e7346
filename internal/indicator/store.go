// Package indicator holds the published indicator state: the single source
// of truth every tracking service writes to and the view layer renders from.
package indicator

import (
	"go.uber.org/zap"

	"dragline/internal/domain"
)

// DropAnimation is the phase of the post-move transition.
type DropAnimation int

const (
	AnimationNone DropAnimation = iota
	AnimationShrinking
	AnimationGrowing
)

func (a DropAnimation) String() string {
	switch a {
	case AnimationShrinking:
		return "shrinking"
	case AnimationGrowing:
		return "growing"
	default:
		return "none"
	}
}

// SelectedBlock is one member of the multi-block selection with its live
// geometry.
type SelectedBlock struct {
	ID   domain.BlockID
	Rect domain.Rect
	Page int
}

// State is the published snapshot. All geometry is document-relative and
// unscaled.
type State struct {
	Visible bool
	Rect    domain.Rect

	LongPressing      bool
	Dragging          bool
	PaginationEnabled bool

	DropIndicatorTop *float64
	SourceOverlay    *domain.Rect

	DropAnimation DropAnimation
	IsAnimating   bool

	SelectedBlocks []SelectedBlock
	LastSelected   domain.BlockID // range-selection anchor, "" when unset
}

// clone returns a snapshot safe to hand to subscribers.
func (s State) clone() State {
	out := s
	if s.DropIndicatorTop != nil {
		v := *s.DropIndicatorTop
		out.DropIndicatorTop = &v
	}
	if s.SourceOverlay != nil {
		v := *s.SourceOverlay
		out.SourceOverlay = &v
	}
	if s.SelectedBlocks != nil {
		out.SelectedBlocks = make([]SelectedBlock, len(s.SelectedBlocks))
		copy(out.SelectedBlocks, s.SelectedBlocks)
	}
	return out
}

// Store is a hot observable over State: Update merges a change into the
// current snapshot and notifies all subscribers synchronously; Subscribe
// immediately replays the current snapshot. There is no queuing and no
// backpressure; publishes are expected to be cheap and subscribers not to
// block.
type Store struct {
	state  State
	subs   map[int]func(State)
	nextID int
	logger *zap.Logger
}

// NewStore creates a store with a hidden indicator.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		subs:   make(map[int]func(State)),
		logger: logger,
	}
}

// State returns a copy of the current snapshot.
func (s *Store) State() State {
	return s.state.clone()
}

// Update applies mutate to the current snapshot and notifies every
// subscriber with the result.
func (s *Store) Update(mutate func(*State)) {
	mutate(&s.state)
	snapshot := s.state.clone()
	for _, fn := range s.subs {
		fn(snapshot)
	}
}

// Subscribe registers fn and invokes it once with the current snapshot.
// The returned function unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	fn(s.state.clone())
	return func() {
		delete(s.subs, id)
	}
}
