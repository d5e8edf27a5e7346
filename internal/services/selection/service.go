// Package selection implements modifier-click multi-block selection with an
// anchor for range gestures. Selection state is revalidated against the
// live document after every mutation.
package selection

import (
	"go.uber.org/zap"

	"dragline/internal/document"
	"dragline/internal/domain"
	"dragline/internal/eventbus"
	"dragline/internal/geometry"
	"dragline/internal/indicator"
)

// Service handles selection logic.
type Service struct {
	store  *indicator.Store
	doc    document.Document
	geom   *geometry.Adapter
	bus    eventbus.EventBus
	logger *zap.Logger

	selected []domain.BlockID // insertion order, for re-anchoring
	anchor   domain.BlockID
}

// NewService creates a new selection service.
func NewService(store *indicator.Store, doc document.Document, geom *geometry.Adapter, bus eventbus.EventBus, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		doc:    doc,
		geom:   geom,
		bus:    bus,
		logger: logger,
	}
}

// Toggle adds an unselected block to the selection and makes it the anchor,
// or removes a selected one. Removing the anchor re-anchors to the most
// recently added remaining member.
func (s *Service) Toggle(id domain.BlockID) {
	if _, ok := s.indexOf(id); !ok {
		return
	}

	if s.contains(id) {
		s.remove(id)
		if s.anchor == id {
			s.anchor = ""
			if len(s.selected) > 0 {
				s.anchor = s.selected[len(s.selected)-1]
			}
		}
		s.publish(nil, []domain.BlockID{id})
		return
	}

	s.selected = append(s.selected, id)
	s.anchor = id
	s.publish([]domain.BlockID{id}, nil)
}

// ToggleRange applies one operation to the closed range between the anchor
// and id, in document order: if id is currently selected the whole range is
// removed, otherwise the whole range is added. Without an anchor it
// degrades to Toggle.
func (s *Service) ToggleRange(id domain.BlockID) {
	if s.anchor == "" {
		s.Toggle(id)
		return
	}
	a, ok := s.indexOf(s.anchor)
	if !ok {
		s.Toggle(id)
		return
	}
	b, ok := s.indexOf(id)
	if !ok {
		return
	}

	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	blocks := s.doc.TopLevelBlocks()

	if s.contains(id) {
		var removed []domain.BlockID
		for i := lo; i <= hi; i++ {
			bid := blocks[i].ID
			if s.contains(bid) {
				s.remove(bid)
				removed = append(removed, bid)
			}
		}
		if s.anchor != "" && !s.contains(s.anchor) {
			s.anchor = ""
			if len(s.selected) > 0 {
				s.anchor = s.selected[len(s.selected)-1]
			}
		}
		if len(removed) > 0 {
			s.publish(nil, removed)
		}
		return
	}

	var added []domain.BlockID
	for i := lo; i <= hi; i++ {
		bid := blocks[i].ID
		if !s.contains(bid) {
			s.selected = append(s.selected, bid)
			added = append(added, bid)
		}
	}
	if len(added) > 0 {
		s.publish(added, nil)
	}
}

// Clear drops the whole selection: plain click, Escape, click outside the
// surface, or the feature being disabled.
func (s *Service) Clear() {
	if len(s.selected) == 0 && s.anchor == "" {
		return
	}
	removed := s.Selected()
	s.selected = nil
	s.anchor = ""
	s.publish(nil, removed)
}

// Revalidate drops every selected id that no longer resolves to a live
// block. Invalid entries vanish silently; a dropped anchor is cleared.
// Geometry is republished either way, since surviving blocks may have
// moved.
func (s *Service) Revalidate() {
	kept := s.selected[:0]
	var removed []domain.BlockID
	for _, id := range s.selected {
		if _, ok := s.indexOf(id); ok {
			kept = append(kept, id)
		} else {
			removed = append(removed, id)
		}
	}
	s.selected = kept
	if s.anchor != "" && !s.contains(s.anchor) {
		s.anchor = ""
	}
	s.publish(nil, removed)
}

// Republish recomputes selected-block geometry, identically to hover
// geometry including pagination clipping, and publishes it.
func (s *Service) Republish() {
	s.publish(nil, nil)
}

// IsSelected checks if a block is selected.
func (s *Service) IsSelected(id domain.BlockID) bool {
	return s.contains(id)
}

// Selected returns the selection in document order.
func (s *Service) Selected() []domain.BlockID {
	blocks := s.doc.TopLevelBlocks()
	out := make([]domain.BlockID, 0, len(s.selected))
	for _, b := range blocks {
		if s.contains(b.ID) {
			out = append(out, b.ID)
		}
	}
	return out
}

// HasSelection returns true if anything is selected.
func (s *Service) HasSelection() bool {
	return len(s.selected) > 0
}

func (s *Service) contains(id domain.BlockID) bool {
	for _, sel := range s.selected {
		if sel == id {
			return true
		}
	}
	return false
}

func (s *Service) remove(id domain.BlockID) {
	for i, sel := range s.selected {
		if sel == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return
		}
	}
}

func (s *Service) indexOf(id domain.BlockID) (int, bool) {
	for i, b := range s.doc.TopLevelBlocks() {
		if b.ID == id {
			return i, true
		}
	}
	return 0, false
}

// publish pushes fresh geometry into the store and emits a
// SelectionChangedEvent.
func (s *Service) publish(added, removed []domain.BlockID) {
	pag := s.geom.Pagination()
	ordered := s.Selected()
	blocks := make([]indicator.SelectedBlock, 0, len(ordered))
	for _, id := range ordered {
		el, ok := s.doc.ElementForBlock(id)
		if !ok {
			continue
		}
		rect := s.geom.ToDocumentSpace(el.Bounds)
		refY := rect.Top + rect.Height/2
		clipped, ok := s.geom.ClipToContentBand(refY, rect)
		if !ok {
			continue
		}
		blocks = append(blocks, indicator.SelectedBlock{
			ID:   id,
			Rect: clipped,
			Page: pag.PageAt(clipped.Top),
		})
	}

	anchor := s.anchor
	s.store.Update(func(st *indicator.State) {
		st.SelectedBlocks = blocks
		st.LastSelected = anchor
	})

	s.bus.Publish(eventbus.SelectionChangedEvent{
		Selected: ordered,
		Added:    added,
		Removed:  removed,
	})
}
