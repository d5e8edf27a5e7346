package droptarget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dragline/internal/document"
	"dragline/internal/domain"
	"dragline/internal/geometry"
	"dragline/internal/indicator"
)

func newService(t *testing.T, pag geometry.Pagination, heights ...float64) (*Service, *indicator.Store) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := indicator.NewStore(logger)

	opts := []document.MemoryOption{document.WithSurface(40, 520)}
	if pag.Enabled {
		opts = append(opts, document.WithPagination(pag))
	}
	doc := document.NewMemory(nil, opts...)
	for _, h := range heights {
		doc.AddBlock("paragraph", "text", h)
	}

	return NewService(store, doc, geometry.NewAdapter(pag), logger), store
}

func TestGapsEnumerateTopToBottom(t *testing.T) {
	svc, _ := newService(t, geometry.Pagination{}, 20, 20, 20)

	gaps := svc.Gaps()
	require.Len(t, gaps, 4)
	assert.Equal(t, Gap{Pos: 0, Y: 0}, gaps[0])
	assert.Equal(t, Gap{Pos: 1, Y: 20}, gaps[1])
	assert.Equal(t, Gap{Pos: 2, Y: 40}, gaps[2])
	assert.Equal(t, Gap{Pos: 3, Y: 60}, gaps[3])
}

func TestResolvePicksNearestGap(t *testing.T) {
	svc, _ := newService(t, geometry.Pagination{}, 20, 20, 20)

	gap, ok := svc.Resolve(domain.Point{X: 10, Y: 25})
	require.True(t, ok)
	assert.Equal(t, 1, gap.Pos)

	gap, ok = svc.Resolve(domain.Point{X: 10, Y: 55})
	require.True(t, ok)
	assert.Equal(t, 3, gap.Pos)
}

func TestResolveIsIdempotent(t *testing.T) {
	svc, _ := newService(t, geometry.Pagination{}, 20, 20, 20)

	p := domain.Point{X: 10, Y: 30} // equidistant from gaps 1 and 2
	first, ok := svc.Resolve(p)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		again, ok := svc.Resolve(p)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, 1, first.Pos, "ties break to the earlier gap")
}

func TestPageBoundaryGapPinsToNextPageTop(t *testing.T) {
	pag := geometry.Pagination{
		Enabled:      true,
		PageHeight:   50,
		HeaderHeight: 10,
		FooterHeight: 10,
		GapHeight:    10,
	}
	// Block 0 at [10,30) on page 0; block 1 does not fit and lands at
	// 70, the content top of page 1.
	svc, _ := newService(t, pag, 20, 20)

	gaps := svc.Gaps()
	require.Len(t, gaps, 3)
	assert.Equal(t, 70.0, gaps[1].Y, "pinned to the first block of the new page, not the midpoint")
}

func TestTrackPublishesDropLineAndExtent(t *testing.T) {
	svc, store := newService(t, geometry.Pagination{}, 20, 20, 20)

	svc.Track(domain.Point{X: 50, Y: 25})

	st := store.State()
	require.NotNil(t, st.DropIndicatorTop)
	assert.Equal(t, 20.0, *st.DropIndicatorTop)
	assert.Equal(t, 40.0, st.Rect.Left, "horizontal extent follows the hovered block")
	assert.Equal(t, 520.0, st.Rect.Width)

	pos, ok := svc.DropPos()
	require.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestResetForgetsTarget(t *testing.T) {
	svc, _ := newService(t, geometry.Pagination{}, 20)

	svc.Track(domain.Point{X: 10, Y: 5})
	_, ok := svc.DropPos()
	require.True(t, ok)

	svc.Reset()
	_, ok = svc.DropPos()
	assert.False(t, ok)
}

func TestEmptyDocumentHasNoGaps(t *testing.T) {
	svc, _ := newService(t, geometry.Pagination{})

	assert.Nil(t, svc.Gaps())
	_, ok := svc.Resolve(domain.Point{})
	assert.False(t, ok)
}
