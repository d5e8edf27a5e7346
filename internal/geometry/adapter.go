// Package geometry converts viewport coordinates into unscaled document
// coordinates and clips rectangles to the content strips of a paginated
// layout.
package geometry

import (
	"dragline/internal/domain"
)

// Adapter performs the coordinate transforms the indicator needs. It holds
// no references into the render tree; every method is a pure query over the
// values it was last given.
type Adapter struct {
	pagination    Pagination
	renderedWidth float64
	layoutWidth   float64
}

// NewAdapter creates an adapter with no scale transform and the given
// pagination model.
func NewAdapter(p Pagination) *Adapter {
	return &Adapter{pagination: p}
}

// SetScale records the rendered pixel width and the unscaled layout width of
// the editing surface. Their ratio is the effective zoom factor.
func (a *Adapter) SetScale(renderedWidth, layoutWidth float64) {
	a.renderedWidth = renderedWidth
	a.layoutWidth = layoutWidth
}

// SetPagination replaces the pagination model.
func (a *Adapter) SetPagination(p Pagination) {
	a.pagination = p
}

// Pagination returns the current pagination model.
func (a *Adapter) Pagination() Pagination {
	return a.pagination
}

// EffectiveZoom returns the rendered/layout width ratio, or 1.0 when no
// scale transform is active.
func (a *Adapter) EffectiveZoom() float64 {
	if a.renderedWidth <= 0 || a.layoutWidth <= 0 {
		return 1.0
	}
	return a.renderedWidth / a.layoutWidth
}

// ToDocumentSpace converts a viewport rectangle into unscaled document
// coordinates.
func (a *Adapter) ToDocumentSpace(r domain.Rect) domain.Rect {
	zoom := a.EffectiveZoom()
	return domain.Rect{
		Top:    r.Top / zoom,
		Left:   r.Left / zoom,
		Width:  r.Width / zoom,
		Height: r.Height / zoom,
	}
}

// PointToDocumentSpace converts a viewport point into unscaled document
// coordinates.
func (a *Adapter) PointToDocumentSpace(p domain.Point) domain.Point {
	zoom := a.EffectiveZoom()
	return domain.Point{X: p.X / zoom, Y: p.Y / zoom}
}

// ClipToContentBand clips r to the content strip containing refY. The second
// return value is false when refY itself falls inside a forbidden band, in
// which case the caller must hide the indicator. With pagination off this is
// the identity clip.
func (a *Adapter) ClipToContentBand(refY float64, r domain.Rect) (domain.Rect, bool) {
	p := a.pagination
	if !p.Enabled {
		return r, true
	}
	if p.InForbiddenBand(refY) {
		return domain.Rect{}, false
	}

	page := p.PageAt(refY)
	top := r.Top
	if min := p.ContentTop(page); top < min {
		top = min
	}
	bottom := r.Bottom()
	if max := p.ContentBottom(page); bottom > max {
		bottom = max
	}
	if bottom < top {
		bottom = top
	}
	return domain.Rect{Top: top, Left: r.Left, Width: r.Width, Height: bottom - top}, true
}
