package document

import (
	"github.com/google/uuid"

	"dragline/internal/domain"
	"dragline/internal/eventbus"
	"dragline/internal/geometry"
)

// MemoryDocument is an in-memory Document with a simple top-down layout.
// Block tops are recomputed after every mutation; when pagination is active
// a block that would cross into a footer is pushed to the content strip of
// the next page. It publishes a DocumentChangedEvent after every committed
// mutation.
type MemoryDocument struct {
	bus eventbus.EventBus

	blocks  []Node
	bounds  []domain.Rect
	left    float64
	width   float64
	spacing float64

	pagination  geometry.Pagination
	renderScale float64

	selFrom int
	selTo   int
}

// MemoryOption configures a MemoryDocument.
type MemoryOption func(*MemoryDocument)

// WithSurface sets the horizontal extent blocks are laid out in.
func WithSurface(left, width float64) MemoryOption {
	return func(d *MemoryDocument) {
		d.left = left
		d.width = width
	}
}

// WithSpacing sets the vertical gap between consecutive blocks.
func WithSpacing(s float64) MemoryOption {
	return func(d *MemoryDocument) { d.spacing = s }
}

// WithPagination lays blocks out across pages.
func WithPagination(p geometry.Pagination) MemoryOption {
	return func(d *MemoryDocument) { d.pagination = p }
}

// NewMemory creates an empty in-memory document. The bus may be nil.
func NewMemory(bus eventbus.EventBus, opts ...MemoryOption) *MemoryDocument {
	d := &MemoryDocument{
		bus:         bus,
		width:       600,
		spacing:     0,
		renderScale: 1.0,
		selFrom:     -1,
		selTo:       -1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddBlock appends a block and returns its generated id.
func (d *MemoryDocument) AddBlock(kind, text string, height float64) domain.BlockID {
	id := domain.BlockID(uuid.NewString())
	d.blocks = append(d.blocks, Node{ID: id, Kind: kind, Text: text, Height: height})
	d.relayout()
	d.changed()
	return id
}

// SetPagination switches the layout mode and reflows the document.
func (d *MemoryDocument) SetPagination(p geometry.Pagination) {
	d.pagination = p
	d.relayout()
	d.changed()
}

// Pagination returns the current layout's pagination model.
func (d *MemoryDocument) Pagination() geometry.Pagination {
	return d.pagination
}

// Len returns the number of top-level blocks.
func (d *MemoryDocument) Len() int {
	return len(d.blocks)
}

// NodeAt returns a snapshot of the block at index i.
func (d *MemoryDocument) NodeAt(i int) (Node, bool) {
	if i < 0 || i >= len(d.blocks) {
		return Node{}, false
	}
	return d.blocks[i], true
}

// IndexOf returns the current index of a block id.
func (d *MemoryDocument) IndexOf(id domain.BlockID) (int, bool) {
	for i, b := range d.blocks {
		if b.ID == id {
			return i, true
		}
	}
	return 0, false
}

// SetRenderScale sets the factor rendered element bounds are scaled by,
// simulating a zoomed host surface. Layout and hit-testing stay in document
// units.
func (d *MemoryDocument) SetRenderScale(scale float64) {
	if scale <= 0 {
		scale = 1.0
	}
	d.renderScale = scale
}

// SetCaret places the caret at a block index.
func (d *MemoryDocument) SetCaret(index int) {
	d.selFrom = index
	d.selTo = index
}

func (d *MemoryDocument) ResolveBlockAtPoint(p domain.Point) (domain.BlockID, bool) {
	for i, r := range d.bounds {
		if p.Y >= r.Top && p.Y < r.Bottom() {
			return d.blocks[i].ID, true
		}
	}
	return "", false
}

func (d *MemoryDocument) ElementForBlock(id domain.BlockID) (RenderedElement, bool) {
	i, ok := d.IndexOf(id)
	if !ok {
		return RenderedElement{}, false
	}
	return RenderedElement{Bounds: d.scaled(d.bounds[i])}, true
}

func (d *MemoryDocument) TopLevelBlocks() []BlockRef {
	refs := make([]BlockRef, len(d.blocks))
	for i, b := range d.blocks {
		refs[i] = BlockRef{ID: b.ID, Element: RenderedElement{Bounds: d.scaled(d.bounds[i])}}
	}
	return refs
}

func (d *MemoryDocument) Apply(m Mutation) error {
	next := make([]Node, len(d.blocks))
	copy(next, d.blocks)

	if del := m.Delete; del != nil {
		if del.From < 0 || del.To > len(next) || del.From >= del.To {
			return ErrInvalidMutation
		}
		next = append(next[:del.From], next[del.To:]...)
	}
	if ins := m.Insert; ins != nil {
		if ins.Index < 0 || ins.Index > len(next) {
			return ErrInvalidMutation
		}
		next = append(next, Node{})
		copy(next[ins.Index+1:], next[ins.Index:])
		next[ins.Index] = ins.Node
	}

	d.blocks = next
	if m.CursorTo >= 0 && m.CursorTo < len(d.blocks) {
		d.SetCaret(m.CursorTo)
	} else if d.selFrom >= len(d.blocks) {
		d.selFrom = len(d.blocks) - 1
		d.selTo = d.selFrom
	}
	d.relayout()
	d.changed()
	return nil
}

func (d *MemoryDocument) CurrentSelectionRange() (int, int) {
	return d.selFrom, d.selTo
}

// relayout recomputes block bounds top-down.
func (d *MemoryDocument) relayout() {
	d.bounds = make([]domain.Rect, len(d.blocks))
	y := 0.0
	if d.pagination.Enabled {
		y = d.pagination.ContentTop(0)
	}
	for i, b := range d.blocks {
		if d.pagination.Enabled {
			page := d.pagination.PageAt(y)
			if y+b.Height > d.pagination.ContentBottom(page) {
				y = d.pagination.ContentTop(page + 1)
			}
		}
		d.bounds[i] = domain.Rect{Top: y, Left: d.left, Width: d.width, Height: b.Height}
		y += b.Height + d.spacing
	}
}

func (d *MemoryDocument) scaled(r domain.Rect) domain.Rect {
	if d.renderScale == 1.0 {
		return r
	}
	return domain.Rect{
		Top:    r.Top * d.renderScale,
		Left:   r.Left * d.renderScale,
		Width:  r.Width * d.renderScale,
		Height: r.Height * d.renderScale,
	}
}

func (d *MemoryDocument) changed() {
	if d.bus != nil {
		d.bus.Publish(eventbus.DocumentChangedEvent{BlockCount: len(d.blocks)})
	}
}
