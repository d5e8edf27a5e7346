package views

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dragline/internal/document"
	"dragline/internal/domain"
	"dragline/internal/eventbus"
	"dragline/internal/geometry"
	"dragline/internal/indicator"
)

func testDoc(t *testing.T) (*document.MemoryDocument, []domain.BlockID) {
	t.Helper()
	bus := eventbus.New(zaptest.NewLogger(t))
	doc := document.NewMemory(bus,
		document.WithSurface(3, 40),
		document.WithSpacing(1),
	)
	ids := []domain.BlockID{
		doc.AddBlock("heading", "Alpha", 1),
		doc.AddBlock("paragraph", "Beta paragraph", 2),
		doc.AddBlock("list", "Gamma item", 1),
	}
	return doc, ids
}

func TestRenderShowsBlockText(t *testing.T) {
	doc, _ := testDoc(t)
	view := NewDocumentView(NewStyles())

	out := view.Render(Frame{Doc: doc, State: indicator.State{}, Width: 46, Enabled: true})

	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Beta paragraph")
	assert.Contains(t, out, "Gamma item")
}

func TestRenderIndicatorGutter(t *testing.T) {
	doc, ids := testDoc(t)
	view := NewDocumentView(NewStyles())

	el, ok := doc.ElementForBlock(ids[1])
	require.True(t, ok)

	out := view.Render(Frame{
		Doc:     doc,
		State:   indicator.State{Visible: true, Rect: el.Bounds},
		Width:   46,
		Enabled: true,
	})
	assert.Contains(t, out, "⋮⋮")
}

func TestRenderDropLine(t *testing.T) {
	doc, _ := testDoc(t)
	view := NewDocumentView(NewStyles())

	top := 2.0
	out := view.Render(Frame{
		Doc:     doc,
		State:   indicator.State{DropIndicatorTop: &top},
		Width:   46,
		Enabled: true,
	})
	assert.Contains(t, out, "▸▸")
	assert.Contains(t, out, "─")
}

func TestRenderPaginationBands(t *testing.T) {
	doc, _ := testDoc(t)
	doc.SetPagination(geometry.Pagination{
		Enabled:      true,
		PageHeight:   14,
		HeaderHeight: 2,
		FooterHeight: 2,
		GapHeight:    1,
	})
	view := NewDocumentView(NewStyles())

	out := view.Render(Frame{Doc: doc, State: indicator.State{}, Width: 46})
	assert.Contains(t, out, "header")
	assert.Contains(t, out, "footer")
}

func TestRenderGhostDuringDrag(t *testing.T) {
	doc, ids := testDoc(t)
	view := NewDocumentView(NewStyles())

	el, ok := doc.ElementForBlock(ids[2])
	require.True(t, ok)
	overlay := el.Bounds

	out := view.Render(Frame{
		Doc:     doc,
		State:   indicator.State{Dragging: true, SourceOverlay: &overlay},
		Width:   46,
		Enabled: true,
	})
	// The ghosted block is still painted.
	assert.Contains(t, out, "Gamma item")
	assert.Greater(t, len(strings.Split(out, "\n")), 3)
}
