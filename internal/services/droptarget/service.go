// Package droptarget computes the inter-block gap nearest the pointer
// during a drag, and the horizontal extent of the drop indicator line.
package droptarget

import (
	"math"

	"go.uber.org/zap"

	"dragline/internal/document"
	"dragline/internal/domain"
	"dragline/internal/geometry"
	"dragline/internal/indicator"
)

// Gap is one candidate drop slot: Pos is the insertion index among
// top-level blocks, Y the vertical coordinate of the gap line.
type Gap struct {
	Pos int
	Y   float64
}

// Service resolves drop targets while a drag session is active.
type Service struct {
	store  *indicator.Store
	doc    document.Document
	geom   *geometry.Adapter
	logger *zap.Logger

	lastPos int
	hasPos  bool
}

// NewService creates a drop-target resolver.
func NewService(store *indicator.Store, doc document.Document, geom *geometry.Adapter, logger *zap.Logger) *Service {
	return &Service{store: store, doc: doc, geom: geom, logger: logger}
}

// Gaps enumerates drop slots top to bottom: the gap before the first block,
// the midpoint between each consecutive pair, and the gap after the last
// block. At a page boundary the gap is pinned to the top of the first block
// of the new page instead of a midpoint.
func (s *Service) Gaps() []Gap {
	blocks := s.doc.TopLevelBlocks()
	if len(blocks) == 0 {
		return nil
	}

	pag := s.geom.Pagination()
	rects := make([]domain.Rect, len(blocks))
	for i, b := range blocks {
		rects[i] = s.geom.ToDocumentSpace(b.Element.Bounds)
	}

	gaps := make([]Gap, 0, len(blocks)+1)
	gaps = append(gaps, Gap{Pos: 0, Y: rects[0].Top})
	for i := 1; i < len(rects); i++ {
		y := (rects[i-1].Bottom() + rects[i].Top) / 2
		if pag.Enabled && pag.PageAt(rects[i].Top) != pag.PageAt(rects[i-1].Top) {
			y = rects[i].Top
		}
		gaps = append(gaps, Gap{Pos: i, Y: y})
	}
	gaps = append(gaps, Gap{Pos: len(rects), Y: rects[len(rects)-1].Bottom()})
	return gaps
}

// Resolve returns the gap whose vertical coordinate is closest to the
// pointer. Ties break to the earlier gap, so identical input always yields
// the same target.
func (s *Service) Resolve(p domain.Point) (Gap, bool) {
	gaps := s.Gaps()
	if len(gaps) == 0 {
		return Gap{}, false
	}
	best := gaps[0]
	bestDist := math.Abs(gaps[0].Y - p.Y)
	for _, g := range gaps[1:] {
		if d := math.Abs(g.Y - p.Y); d < bestDist {
			best = g
			bestDist = d
		}
	}
	return best, true
}

// Track resolves the drop target for the current pointer position and
// publishes the drop line. The indicator's horizontal extent follows the
// block under the pointer, independent of which gap was chosen.
func (s *Service) Track(p domain.Point) {
	gap, ok := s.Resolve(p)
	if !ok {
		return
	}
	s.lastPos = gap.Pos
	s.hasPos = true

	var extent *domain.Rect
	if id, ok := s.doc.ResolveBlockAtPoint(p); ok {
		if el, ok := s.doc.ElementForBlock(id); ok {
			r := s.geom.ToDocumentSpace(el.Bounds)
			extent = &r
		}
	}

	s.store.Update(func(st *indicator.State) {
		y := gap.Y
		st.DropIndicatorTop = &y
		if extent != nil {
			st.Rect.Left = extent.Left
			st.Rect.Width = extent.Width
		}
	})
}

// DropPos returns the most recently resolved drop position.
func (s *Service) DropPos() (int, bool) {
	return s.lastPos, s.hasPos
}

// Reset forgets the resolved target when a drag session ends.
func (s *Service) Reset() {
	s.lastPos = 0
	s.hasPos = false
}
