package selection

import (
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

type fixture struct {
	store *indicator.Store
	doc   *document.MemoryDocument
	svc   *Service
	ids   []domain.BlockID
}

func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	bus := eventbus.New(logger)
	store := indicator.NewStore(logger)
	doc := document.NewMemory(nil, document.WithSurface(0, 600))

	f := &fixture{store: store, doc: doc}
	for i := 0; i < n; i++ {
		f.ids = append(f.ids, doc.AddBlock("paragraph", "text", 20))
	}
	f.svc = NewService(store, doc, geometry.NewAdapter(geometry.Pagination{}), bus, logger)
	return f
}

func TestToggleAddsAndAnchors(t *testing.T) {
	f := newFixture(t, 5)

	f.svc.Toggle(f.ids[1])

	assert.Equal(t, []domain.BlockID{f.ids[1]}, f.svc.Selected())
	st := f.store.State()
	require.Len(t, st.SelectedBlocks, 1)
	assert.Equal(t, f.ids[1], st.SelectedBlocks[0].ID)
	assert.Equal(t, 20.0, st.SelectedBlocks[0].Rect.Top)
	assert.Equal(t, f.ids[1], st.LastSelected)
}

func TestToggleRemovesAndReanchors(t *testing.T) {
	f := newFixture(t, 5)

	f.svc.Toggle(f.ids[1])
	f.svc.Toggle(f.ids[3])
	require.Equal(t, f.ids[3], f.store.State().LastSelected)

	// Removing the anchor re-anchors to the most recently added
	// remaining member.
	f.svc.Toggle(f.ids[3])
	assert.Equal(t, []domain.BlockID{f.ids[1]}, f.svc.Selected())
	assert.Equal(t, f.ids[1], f.store.State().LastSelected)

	// Removing the last member clears the anchor.
	f.svc.Toggle(f.ids[1])
	assert.Empty(t, f.svc.Selected())
	assert.Equal(t, domain.BlockID(""), f.store.State().LastSelected)
}

func TestRangeSelectsClosedRangeInDocumentOrder(t *testing.T) {
	f := newFixture(t, 5)

	f.svc.Toggle(f.ids[3])
	f.svc.ToggleRange(f.ids[0])

	assert.Equal(t, []domain.BlockID{f.ids[0], f.ids[1], f.ids[2], f.ids[3]}, f.svc.Selected())
}

func TestRangeRemovesWhenTargetSelected(t *testing.T) {
	f := newFixture(t, 5)

	f.svc.Toggle(f.ids[0])
	f.svc.ToggleRange(f.ids[4]) // select everything
	require.Len(t, f.svc.Selected(), 5)

	// Anchor is still ids[0]; a shift-click on the selected ids[2]
	// removes the whole [0..2] range in one operation.
	f.svc.ToggleRange(f.ids[2])
	assert.Equal(t, []domain.BlockID{f.ids[3], f.ids[4]}, f.svc.Selected())
}

func TestRangeWithoutAnchorDegradesToToggle(t *testing.T) {
	f := newFixture(t, 3)

	f.svc.ToggleRange(f.ids[2])
	assert.Equal(t, []domain.BlockID{f.ids[2]}, f.svc.Selected())
}

func TestClear(t *testing.T) {
	f := newFixture(t, 3)

	f.svc.Toggle(f.ids[0])
	f.svc.Toggle(f.ids[2])
	f.svc.Clear()

	assert.Empty(t, f.svc.Selected())
	st := f.store.State()
	assert.Empty(t, st.SelectedBlocks)
	assert.Equal(t, domain.BlockID(""), st.LastSelected)
}

func TestRevalidateDropsDeadBlocksSilently(t *testing.T) {
	f := newFixture(t, 4)

	f.svc.Toggle(f.ids[1])
	f.svc.Toggle(f.ids[2])

	require.NoError(t, f.doc.Apply(document.Mutation{
		Delete:   &document.DeleteOp{From: 1, To: 2},
		CursorTo: -1,
	}))

	assert.NotPanics(t, func() { f.svc.Revalidate() })
	assert.Equal(t, []domain.BlockID{f.ids[2]}, f.svc.Selected())

	for _, b := range f.store.State().SelectedBlocks {
		assert.NotEqual(t, f.ids[1], b.ID)
	}
}

func TestRevalidateClearsDeadAnchor(t *testing.T) {
	f := newFixture(t, 3)

	f.svc.Toggle(f.ids[0])
	f.svc.Toggle(f.ids[2]) // anchor

	require.NoError(t, f.doc.Apply(document.Mutation{
		Delete:   &document.DeleteOp{From: 2, To: 3},
		CursorTo: -1,
	}))
	f.svc.Revalidate()

	assert.Equal(t, []domain.BlockID{f.ids[0]}, f.svc.Selected())
	assert.Equal(t, domain.BlockID(""), f.store.State().LastSelected)
}

func TestSelectedGeometryIsClippedToContentBands(t *testing.T) {
	pag := geometry.Pagination{
		Enabled:      true,
		PageHeight:   100,
		HeaderHeight: 10,
		FooterHeight: 10,
		GapHeight:    20,
	}
	logger := zaptest.NewLogger(t)
	bus := eventbus.New(logger)
	store := indicator.NewStore(logger)
	doc := document.NewMemory(nil, document.WithSurface(0, 600), document.WithPagination(pag))
	id := doc.AddBlock("paragraph", "text", 40)

	svc := NewService(store, doc, geometry.NewAdapter(pag), bus, logger)
	svc.Toggle(id)

	st := store.State()
	require.Len(t, st.SelectedBlocks, 1)
	assert.Equal(t, 10.0, st.SelectedBlocks[0].Rect.Top)
	assert.Equal(t, 0, st.SelectedBlocks[0].Page)
}
