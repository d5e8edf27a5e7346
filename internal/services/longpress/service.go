// Package longpress promotes a held mouse-down into a block-drag session.
package longpress

import (
	"math"
	"time"

	"go.uber.org/zap"

	"dragline/internal/clock"
	"dragline/internal/document"
	"dragline/internal/domain"
	"dragline/internal/geometry"
	"dragline/internal/indicator"
)

// Phase is the activator's state.
type Phase int

const (
	Idle Phase = iota
	Pending
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Session is the ephemeral state of one drag gesture, created on long-press
// completion and destroyed on drop or cancellation. SourceNode is a value
// snapshot, never a live reference.
type Session struct {
	SourceID   domain.BlockID
	SourceNode document.Node
	SourceRect domain.Rect
	StartPoint domain.Point
}

// Service is the Idle -> Pending -> Dragging gesture recognizer. A pending
// press is cancelled by excess movement, by release before the timer
// elapses, or by Escape.
type Service struct {
	store  *indicator.Store
	doc    document.Document
	geom   *geometry.Adapter
	clk    clock.Clock
	logger *zap.Logger

	duration      time.Duration
	moveThreshold float64

	nodeFn     func(domain.BlockID) (document.Node, bool)
	onActivate func(*Session)

	phase     Phase
	timer     clock.Timer
	origin    domain.Point
	pendingID domain.BlockID
	session   *Session
}

// NewService creates a long-press activator.
func NewService(store *indicator.Store, doc document.Document, geom *geometry.Adapter, clk clock.Clock, duration time.Duration, moveThreshold float64, logger *zap.Logger) *Service {
	return &Service{
		store:         store,
		doc:           doc,
		geom:          geom,
		clk:           clk,
		duration:      duration,
		moveThreshold: moveThreshold,
		logger:        logger,
	}
}

// SetNodeFunction sets the function used to snapshot a block's node value
// when the drag activates.
func (s *Service) SetNodeFunction(fn func(domain.BlockID) (document.Node, bool)) {
	s.nodeFn = fn
}

// SetActivateFunction sets the hook invoked when a press promotes into a
// drag session.
func (s *Service) SetActivateFunction(fn func(*Session)) {
	s.onActivate = fn
}

// Phase returns the current gesture phase.
func (s *Service) Phase() Phase {
	return s.phase
}

// Session returns the active drag session, or nil.
func (s *Service) Session() *Session {
	return s.session
}

// PointerDown starts the long-press timer when the press lands on a
// resolvable block with no modifier held. Normal text selection is not
// blocked: a short click still behaves as ordinary cursor placement.
func (s *Service) PointerDown(p domain.Point, mods domain.Modifiers) {
	if s.phase != Idle || !mods.None() {
		return
	}
	id, ok := s.doc.ResolveBlockAtPoint(p)
	if !ok {
		return
	}
	if s.geom.Pagination().InForbiddenBand(p.Y) {
		return
	}

	s.phase = Pending
	s.origin = p
	s.pendingID = id
	s.timer = s.clk.AfterFunc(s.duration, s.activate)
	s.store.Update(func(st *indicator.State) {
		st.LongPressing = true
	})
}

// PointerMove cancels a pending press once movement exceeds the threshold.
func (s *Service) PointerMove(p domain.Point) {
	if s.phase != Pending {
		return
	}
	dx := p.X - s.origin.X
	dy := p.Y - s.origin.Y
	if math.Hypot(dx, dy) > s.moveThreshold {
		s.Cancel()
	}
}

// PointerUp ends a pending press without activating; a release during an
// active drag is the drop and is handled elsewhere.
func (s *Service) PointerUp() {
	if s.phase == Pending {
		s.Cancel()
	}
}

// EndDrag destroys the session after a drop. Indicator cleanup is owned by
// the move/animation path.
func (s *Service) EndDrag() {
	if s.phase != Dragging {
		return
	}
	s.phase = Idle
	s.session = nil
}

// Cancel aborts the gesture from any phase and clears all drag-related
// indicator state.
func (s *Service) Cancel() {
	if s.phase == Idle {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.phase = Idle
	s.pendingID = ""
	s.session = nil
	s.store.Update(func(st *indicator.State) {
		st.LongPressing = false
		st.Dragging = false
		st.DropIndicatorTop = nil
		st.SourceOverlay = nil
	})
}

// Close releases the timer on teardown.
func (s *Service) Close() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Service) activate() {
	if s.phase != Pending {
		return
	}
	s.timer = nil

	node, ok := s.snapshotNode(s.pendingID)
	if !ok {
		s.logger.Debug("longpress: source vanished before activation",
			zap.String("block", string(s.pendingID)))
		s.Cancel()
		return
	}
	el, ok := s.doc.ElementForBlock(s.pendingID)
	if !ok {
		s.Cancel()
		return
	}
	rect := s.geom.ToDocumentSpace(el.Bounds)

	s.session = &Session{
		SourceID:   s.pendingID,
		SourceNode: node,
		SourceRect: rect,
		StartPoint: s.origin,
	}
	s.phase = Dragging
	s.pendingID = ""

	s.store.Update(func(st *indicator.State) {
		st.LongPressing = false
		st.Dragging = true
		st.Visible = false
		overlay := rect
		st.SourceOverlay = &overlay
	})

	if s.onActivate != nil {
		s.onActivate(s.session)
	}
}

func (s *Service) snapshotNode(id domain.BlockID) (document.Node, bool) {
	if s.nodeFn != nil {
		return s.nodeFn(id)
	}
	return document.Node{}, false
}
