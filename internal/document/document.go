// Package document defines the contract the indicator engine consumes from
// the host document/render tree, plus an in-memory implementation used by
// the terminal front-end and the tests.
package document

import (
	"errors"

	"dragline/internal/domain"
)

// ErrInvalidMutation is returned when a mutation references positions that
// do not exist in the document.
var ErrInvalidMutation = errors.New("document: invalid mutation")

// Node is a value snapshot of one top-level block. Snapshots stay valid
// across mutations; live positions do not.
type Node struct {
	ID     domain.BlockID
	Kind   string
	Text   string
	Height float64
}

// RenderedElement is the rendered form of a block, exposing its bounding
// rectangle in viewport coordinates.
type RenderedElement struct {
	Bounds domain.Rect
}

// BlockRef pairs a block id with its rendered element.
type BlockRef struct {
	ID      domain.BlockID
	Element RenderedElement
}

// DeleteOp removes the blocks in the half-open index range [From, To).
type DeleteOp struct {
	From int
	To   int
}

// InsertOp inserts Node so that it ends up at Index.
type InsertOp struct {
	Index int
	Node  Node
}

// Mutation is an atomic document change: the delete, if any, is applied
// first, then the insert. Either the whole mutation applies or none of it
// does. CursorTo places the caret at the start of the block at that index
// after applying; -1 leaves the caret alone.
type Mutation struct {
	Delete   *DeleteOp
	Insert   *InsertOp
	CursorTo int
}

// Document is the host document/render tree as seen by the indicator
// engine.
type Document interface {
	// ResolveBlockAtPoint returns the top-level block under the given
	// document-space point, if any.
	ResolveBlockAtPoint(p domain.Point) (domain.BlockID, bool)

	// ElementForBlock returns the rendered element for a block. The
	// second return value is false when the block no longer resolves.
	ElementForBlock(id domain.BlockID) (RenderedElement, bool)

	// TopLevelBlocks returns all top-level blocks in document order.
	TopLevelBlocks() []BlockRef

	// Apply performs an atomic mutation, all-or-nothing.
	Apply(m Mutation) error

	// CurrentSelectionRange returns the caret/selection as a pair of
	// block indexes, from <= to. Both are -1 when there is no caret.
	CurrentSelectionRange() (from, to int)
}
