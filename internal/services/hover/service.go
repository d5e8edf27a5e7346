// Package hover tracks the pointer over the editing surface and publishes
// the indicator rectangle for the block under it.
package hover

import (
	"go.uber.org/zap"

	"dragline/internal/document"
	"dragline/internal/domain"
	"dragline/internal/geometry"
	"dragline/internal/indicator"
)

// Service resolves the block under the pointer on every move and publishes
// an indicator update only on meaningful change.
type Service struct {
	store  *indicator.Store
	doc    document.Document
	geom   *geometry.Adapter
	logger *zap.Logger

	padding float64

	surfaceFn  func() domain.Rect
	draggingFn func() bool

	current      domain.BlockID
	keyboardMode bool
	lastPoint    domain.Point
	hasPoint     bool
}

// NewService creates a hover tracker. padding is the leave tolerance around
// the editing surface.
func NewService(store *indicator.Store, doc document.Document, geom *geometry.Adapter, padding float64, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		doc:     doc,
		geom:    geom,
		padding: padding,
		logger:  logger,
	}
}

// SetSurfaceFunction sets the function that reports the editing surface
// bounds in document space.
func (s *Service) SetSurfaceFunction(fn func() domain.Rect) {
	s.surfaceFn = fn
}

// SetDraggingFunction sets the function that reports whether a drag session
// is active; hide-on-leave is suppressed while dragging.
func (s *Service) SetDraggingFunction(fn func() bool) {
	s.draggingFn = fn
}

// PointerMove handles a pointer move in document space.
func (s *Service) PointerMove(p domain.Point) {
	if s.keyboardMode {
		// Stay in keyboard mode until the mouse actually moves.
		if s.hasPoint && p == s.lastPoint {
			return
		}
		s.keyboardMode = false
	}
	s.lastPoint = p
	s.hasPoint = true

	if s.surfaceFn != nil {
		surface := s.surfaceFn()
		if !surface.Inset(-s.padding).Contains(p) {
			if !s.dragging() {
				s.hide()
				s.current = ""
			}
			return
		}
		// Minor overshoot inside the padding: retain the last state.
		if !surface.Contains(p) {
			return
		}
	}

	s.track(p)
}

// Refresh recomputes the indicator at the last known pointer position,
// after a document mutation moved blocks under a stationary pointer.
func (s *Service) Refresh() {
	if !s.hasPoint || s.keyboardMode || s.dragging() {
		return
	}
	s.current = ""
	s.track(s.lastPoint)
}

// PointerLeave hides the indicator once the pointer truly leaves the padded
// surface region.
func (s *Service) PointerLeave() {
	if s.dragging() {
		return
	}
	s.hide()
	s.current = ""
}

// KeyDown handles a key press. Any non-modifier key hides the indicator and
// switches tracking into keyboard mode.
func (s *Service) KeyDown(isModifier bool) {
	if isModifier {
		return
	}
	s.keyboardMode = true
	s.hide()
	s.current = ""
}

// Reset clears all tracking state and hides the indicator.
func (s *Service) Reset() {
	s.keyboardMode = false
	s.hasPoint = false
	s.current = ""
	s.hide()
}

func (s *Service) track(p domain.Point) {
	if s.geom.Pagination().InForbiddenBand(p.Y) {
		s.hide()
		s.current = ""
		return
	}

	id, ok := s.doc.ResolveBlockAtPoint(p)
	if !ok {
		s.hide()
		s.current = ""
		return
	}

	if id == s.current && s.store.State().Visible {
		return
	}

	el, ok := s.doc.ElementForBlock(id)
	if !ok {
		// Element unmounted mid-gesture: keep the last published state.
		s.logger.Debug("hover: element unavailable", zap.String("block", string(id)))
		return
	}

	rect := s.geom.ToDocumentSpace(el.Bounds)
	clipped, ok := s.geom.ClipToContentBand(p.Y, rect)
	if !ok {
		s.hide()
		s.current = ""
		return
	}

	s.current = id
	s.store.Update(func(st *indicator.State) {
		st.Visible = true
		st.Rect = clipped
	})
}

func (s *Service) dragging() bool {
	return s.draggingFn != nil && s.draggingFn()
}

func (s *Service) hide() {
	if !s.store.State().Visible {
		return
	}
	s.store.Update(func(st *indicator.State) {
		st.Visible = false
	})
}
