package geometry

// Pagination describes a paginated layout: fixed-height pages separated by
// gaps, with header and footer strips at the top and bottom of every page.
// Headers, footers and gaps are forbidden bands: the indicator must never
// occupy them. A zero value means pagination is off.
type Pagination struct {
	Enabled      bool
	PageHeight   float64
	HeaderHeight float64
	FooterHeight float64
	GapHeight    float64
}

// Stride is the vertical distance from the top of one page to the next.
func (p Pagination) Stride() float64 {
	return p.PageHeight + p.GapHeight
}

// PageAt returns the page index containing y. Coordinates inside an
// inter-page gap belong to the page above it.
func (p Pagination) PageAt(y float64) int {
	if !p.Enabled || p.Stride() <= 0 {
		return 0
	}
	if y < 0 {
		return 0
	}
	return int(y / p.Stride())
}

// ContentTop returns the first y coordinate of the content strip of a page.
func (p Pagination) ContentTop(page int) float64 {
	return float64(page)*p.Stride() + p.HeaderHeight
}

// ContentBottom returns the y coordinate just past the content strip of a page.
func (p Pagination) ContentBottom(page int) float64 {
	return float64(page)*p.Stride() + p.PageHeight - p.FooterHeight
}

// InForbiddenBand reports whether y falls inside a header, footer or
// inter-page gap.
func (p Pagination) InForbiddenBand(y float64) bool {
	if !p.Enabled {
		return false
	}
	page := p.PageAt(y)
	return y < p.ContentTop(page) || y >= p.ContentBottom(page)
}
