package domain

// BlockID identifies one top-level block in the document tree.
type BlockID string

// Point is a position in unscaled document coordinates.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle in unscaled document coordinates.
type Rect struct {
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

// Bottom returns the y coordinate just below the rectangle.
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Contains reports whether p falls inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Left+r.Width &&
		p.Y >= r.Top && p.Y < r.Top+r.Height
}

// Inset shrinks the rectangle on all sides by d; negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{
		Top:    r.Top + d,
		Left:   r.Left + d,
		Width:  r.Width - 2*d,
		Height: r.Height - 2*d,
	}
}

// Modifiers describes the modifier keys held during a pointer gesture.
type Modifiers struct {
	Command bool // ctrl on most platforms, cmd on mac
	Shift   bool
}

// None reports whether no modifier is held.
func (m Modifiers) None() bool {
	return !m.Command && !m.Shift
}
