// Package move commits a drag-reorder as one atomic document mutation.
package move

import (
	"go.uber.org/zap"

	"dragline/internal/document"
	"dragline/internal/eventbus"
	"dragline/internal/indicator"
	"dragline/internal/services/longpress"
)

// Service performs the delete+insert mutation when a drag is released.
type Service struct {
	store  *indicator.Store
	doc    document.Document
	bus    eventbus.EventBus
	logger *zap.Logger

	indexFn func(longpress.Session) (int, bool)
}

// NewService creates a move executor.
func NewService(store *indicator.Store, doc document.Document, bus eventbus.EventBus, logger *zap.Logger) *Service {
	return &Service{store: store, doc: doc, bus: bus, logger: logger}
}

// SetIndexFunction sets the function that resolves the session's source
// block to its current index at mutation time.
func (s *Service) SetIndexFunction(fn func(longpress.Session) (int, bool)) {
	s.indexFn = fn
}

// Drop commits the move of the session's source block to dropPos, the
// insertion index among top-level blocks. It reports whether a mutation was
// committed. A drop on the source's own boundary is a deliberate no-op; a
// source that no longer resolves aborts silently. Either way all transient
// drag indicator state is cleared.
func (s *Service) Drop(sess longpress.Session, dropPos int) bool {
	src, ok := s.sourceIndex(sess)
	if !ok {
		// Document changed under the drag; abort silently.
		s.logger.Debug("move: source no longer resolves",
			zap.String("block", string(sess.SourceID)))
		s.clearDragState()
		return false
	}

	if dropPos == src || dropPos == src+1 {
		s.clearDragState()
		return false
	}

	insert := dropPos
	if dropPos > src {
		// The deletion above the drop slot shifts it up by one.
		insert--
	}

	err := s.doc.Apply(document.Mutation{
		Delete:   &document.DeleteOp{From: src, To: src + 1},
		Insert:   &document.InsertOp{Index: insert, Node: sess.SourceNode},
		CursorTo: insert,
	})
	if err != nil {
		s.logger.Warn("move: mutation rejected", zap.Error(err))
		s.bus.Publish(eventbus.ErrorEvent{Message: "move rejected", Err: err})
		s.clearDragState()
		return false
	}

	s.bus.Publish(eventbus.BlockMovedEvent{
		Block: sess.SourceID,
		From:  src,
		To:    insert,
	})
	return true
}

func (s *Service) sourceIndex(sess longpress.Session) (int, bool) {
	if s.indexFn != nil {
		return s.indexFn(sess)
	}
	for i, b := range s.doc.TopLevelBlocks() {
		if b.ID == sess.SourceID {
			return i, true
		}
	}
	return 0, false
}

func (s *Service) clearDragState() {
	s.store.Update(func(st *indicator.State) {
		st.Dragging = false
		st.DropIndicatorTop = nil
		st.SourceOverlay = nil
	})
}
