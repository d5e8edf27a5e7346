// Package animation plays the two-phase shrink/grow transition after a
// successful block move.
package animation

import (
	"time"

	"go.uber.org/zap"

	"dragline/internal/clock"
	"dragline/internal/document"
	"dragline/internal/domain"
	"dragline/internal/geometry"
	"dragline/internal/indicator"
)

// dotSize is the square the indicator shrinks down to at the landing
// position before growing back to block height.
const dotSize = 2.0

// Service sequences Committing -> Shrinking -> Growing -> Done. Once
// started the sequence always runs to completion; there is no cancellation
// path, only the completion ceiling.
type Service struct {
	store  *indicator.Store
	doc    document.Document
	geom   *geometry.Adapter
	clk    clock.Clock
	logger *zap.Logger

	shrink         time.Duration
	grow           time.Duration
	ceiling        time.Duration
	fallbackHeight float64

	active       bool
	landed       domain.BlockID
	landingPoint domain.Point

	phaseTimer   clock.Timer
	ceilingTimer clock.Timer
}

// NewService creates an animation sequencer.
func NewService(store *indicator.Store, doc document.Document, geom *geometry.Adapter, clk clock.Clock, shrink, grow, ceiling time.Duration, fallbackHeight float64, logger *zap.Logger) *Service {
	return &Service{
		store:          store,
		doc:            doc,
		geom:           geom,
		clk:            clk,
		shrink:         shrink,
		grow:           grow,
		ceiling:        ceiling,
		fallbackHeight: fallbackHeight,
		logger:         logger,
	}
}

// Active reports whether a sequence is in flight.
func (s *Service) Active() bool {
	return s.active
}

// Start begins the sequence immediately after a committed move. The
// indicator is first rendered as a horizontal line over the moved block's
// old footprint; the view animates it down to a dot at the landing
// position. A sequence already in flight is finalized first.
func (s *Service) Start(landed domain.BlockID, oldFootprint domain.Rect) {
	if s.active {
		s.finish()
	}
	s.active = true
	s.landed = landed

	landing := oldFootprint
	if el, ok := s.doc.ElementForBlock(landed); ok {
		landing = s.geom.ToDocumentSpace(el.Bounds)
	}
	s.landingPoint = domain.Point{X: landing.Left, Y: landing.Top}

	s.store.Update(func(st *indicator.State) {
		st.IsAnimating = true
		st.DropAnimation = indicator.AnimationShrinking
		st.Dragging = false
		st.DropIndicatorTop = nil
		st.SourceOverlay = nil
		st.Visible = true
		st.Rect = oldFootprint
	})

	s.phaseTimer = s.clk.AfterFunc(s.shrink, s.beginGrow)
	s.ceilingTimer = s.clk.AfterFunc(s.ceiling, s.finish)
}

// NotifyFinished is called by the view layer once the grow transition's
// paint has settled. The ceiling timer covers a view that never calls it.
func (s *Service) NotifyFinished() {
	if !s.active {
		return
	}
	s.finish()
}

// Close releases outstanding timers on teardown.
func (s *Service) Close() {
	s.stopTimers()
}

func (s *Service) beginGrow() {
	if !s.active {
		return
	}

	height := s.fallbackHeight
	if el, ok := s.doc.ElementForBlock(s.landed); ok {
		r := s.geom.ToDocumentSpace(el.Bounds)
		height = r.Height
		s.landingPoint = domain.Point{X: r.Left, Y: r.Top}
	} else {
		// Landed block gone from the render tree; grow to the fixed
		// fallback height rather than failing the sequence.
		s.logger.Debug("animation: landed block not found",
			zap.String("block", string(s.landed)))
	}

	landing := s.landingPoint
	s.store.Update(func(st *indicator.State) {
		st.DropAnimation = indicator.AnimationGrowing
		st.Rect = domain.Rect{
			Top:    landing.Y,
			Left:   landing.X,
			Width:  dotSize,
			Height: height,
		}
	})

	s.phaseTimer = s.clk.AfterFunc(s.grow, s.finish)
}

func (s *Service) finish() {
	if !s.active {
		return
	}
	s.stopTimers()
	s.active = false
	s.landed = ""

	s.store.Update(func(st *indicator.State) {
		st.IsAnimating = false
		st.DropAnimation = indicator.AnimationNone
		st.DropIndicatorTop = nil
		st.SourceOverlay = nil
		st.Visible = false
	})
}

func (s *Service) stopTimers() {
	if s.phaseTimer != nil {
		s.phaseTimer.Stop()
		s.phaseTimer = nil
	}
	if s.ceilingTimer != nil {
		s.ceilingTimer.Stop()
		s.ceilingTimer = nil
	}
}
