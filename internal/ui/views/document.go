package views

import (
	"math"
	"strings"

	"dragline/internal/document"
	"dragline/internal/domain"
	"dragline/internal/geometry"
	"dragline/internal/indicator"
)

const gutterWidth = 3

// Frame is everything the document view needs for one paint.
type Frame struct {
	Doc     *document.MemoryDocument
	State   indicator.State
	Width   int
	Enabled bool
}

// DocumentView paints the block document as a row grid: a narrow gutter
// for the drag indicator plus the block content area. One document unit
// maps to one terminal row.
type DocumentView struct {
	styles *Styles
}

func NewDocumentView(styles *Styles) *DocumentView {
	return &DocumentView{styles: styles}
}

func (v *DocumentView) Render(f Frame) string {
	if f.Width < gutterWidth+4 {
		f.Width = gutterWidth + 4
	}
	textWidth := f.Width - gutterWidth

	rows := v.emptyRows(f, textWidth)
	v.paintBlocks(f, rows, textWidth)
	if f.Enabled {
		v.paintIndicator(f, rows)
		v.paintDropLine(f, rows, textWidth)
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.gutter + r.text
	}
	return strings.Join(lines, "\n")
}

type row struct {
	gutter string
	text   string
}

func (v *DocumentView) emptyRows(f Frame, textWidth int) []*row {
	total := v.totalRows(f)
	rows := make([]*row, total)
	pag := f.Doc.Pagination()
	for y := 0; y < total; y++ {
		r := &row{gutter: strings.Repeat(" ", gutterWidth), text: ""}
		if pag.Enabled {
			r.text = v.bandFill(pag, float64(y), textWidth)
		}
		rows[y] = r
	}
	return rows
}

func (v *DocumentView) totalRows(f Frame) int {
	bottom := 0.0
	for _, b := range f.Doc.TopLevelBlocks() {
		if b.Element.Bounds.Bottom() > bottom {
			bottom = b.Element.Bounds.Bottom()
		}
	}
	pag := f.Doc.Pagination()
	if pag.Enabled {
		// Round the extent up to the end of the page holding the last block.
		page := pag.PageAt(bottom)
		bottom = float64(page+1)*pag.Stride() - pag.GapHeight
	}
	if bottom < 1 {
		bottom = 1
	}
	return int(math.Ceil(bottom))
}

func (v *DocumentView) bandFill(pag geometry.Pagination, y float64, width int) string {
	switch {
	case math.Mod(y, pag.Stride()) >= pag.PageHeight:
		return v.styles.PageGap.Render(strings.Repeat("░", width))
	case pag.InForbiddenBand(y):
		page := pag.PageAt(y)
		top := float64(page) * pag.Stride()
		if y >= top && y < top+pag.HeaderHeight {
			return v.styles.PageBand.Render(pad("┄ header ┄", width, '┄'))
		}
		return v.styles.PageBand.Render(pad("┄ footer ┄", width, '┄'))
	default:
		return ""
	}
}

func (v *DocumentView) paintBlocks(f Frame, rows []*row, textWidth int) {
	selected := make(map[domain.BlockID]bool, len(f.State.SelectedBlocks))
	for _, s := range f.State.SelectedBlocks {
		selected[s.ID] = true
	}

	for _, ref := range f.Doc.TopLevelBlocks() {
		i, ok := f.Doc.IndexOf(ref.ID)
		if !ok {
			continue
		}
		node, _ := f.Doc.NodeAt(i)
		top := toRow(ref.Element.Bounds.Top)
		height := int(math.Round(ref.Element.Bounds.Height))
		if height < 1 {
			height = 1
		}

		ghost := f.State.SourceOverlay != nil &&
			f.State.SourceOverlay.Contains(domain.Point{
				X: ref.Element.Bounds.Left + 1,
				Y: ref.Element.Bounds.Top + ref.Element.Bounds.Height/2,
			})

		for line := 0; line < height; line++ {
			y := top + line
			if y < 0 || y >= len(rows) {
				continue
			}
			text := ""
			if line == 0 {
				text = KindGlyph(node.Kind) + " " + node.Text
			}
			text = pad(text, textWidth, ' ')
			switch {
			case ghost:
				text = v.styles.Ghost.Render(text)
			case selected[ref.ID]:
				text = v.styles.SelectedBg.Render(text)
			case node.Kind == "heading" && line == 0:
				text = v.styles.Title.Render(text)
			default:
				text = v.styles.BlockText.Render(text)
			}
			rows[y].text = text
		}
	}
}

func (v *DocumentView) paintIndicator(f Frame, rows []*row) {
	st := f.State
	if !st.Visible {
		return
	}
	top := toRow(st.Rect.Top)
	height := int(math.Round(st.Rect.Height))
	if height < 1 {
		height = 1
	}

	glyph := v.styles.Indicator.Render("⋮⋮ ")
	switch st.DropAnimation {
	case indicator.AnimationShrinking:
		glyph = v.styles.AnimShrink.Render("── ")
	case indicator.AnimationGrowing:
		glyph = v.styles.AnimGrow.Render("█  ")
	}
	for line := 0; line < height; line++ {
		y := top + line
		if y < 0 || y >= len(rows) {
			continue
		}
		rows[y].gutter = glyph
	}
}

func (v *DocumentView) paintDropLine(f Frame, rows []*row, textWidth int) {
	st := f.State
	if st.DropIndicatorTop == nil {
		return
	}
	y := toRow(*st.DropIndicatorTop)
	if y >= len(rows) {
		y = len(rows) - 1
	}
	if y < 0 {
		return
	}
	rows[y].gutter = v.styles.DropLine.Render("▸▸ ")
	rows[y].text = v.styles.DropLine.Render(strings.Repeat("─", textWidth))
}

func toRow(v float64) int {
	return int(math.Round(v))
}

func pad(s string, width int, fill rune) string {
	if len([]rune(s)) >= width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(string(fill), width-len([]rune(s)))
}
