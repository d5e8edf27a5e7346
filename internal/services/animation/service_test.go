package animation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dragline/internal/clock"
	"dragline/internal/document"
	"dragline/internal/domain"
	"dragline/internal/geometry"
	"dragline/internal/indicator"
)

type fixture struct {
	store *indicator.Store
	doc   *document.MemoryDocument
	clk   *clock.Fake
	svc   *Service
	ids   []domain.BlockID
}

func newFixture(t *testing.T, shrink, grow, ceiling time.Duration) *fixture {
	t.Helper()
	logger := zaptest.NewLogger(t)
	store := indicator.NewStore(logger)
	doc := document.NewMemory(nil, document.WithSurface(0, 600))
	ids := []domain.BlockID{
		doc.AddBlock("paragraph", "a", 20),
		doc.AddBlock("paragraph", "b", 30),
	}
	clk := clock.NewFake()
	svc := NewService(store, doc, geometry.NewAdapter(geometry.Pagination{}), clk,
		shrink, grow, ceiling, 24, logger)
	return &fixture{store: store, doc: doc, clk: clk, svc: svc, ids: ids}
}

func defaults(t *testing.T) *fixture {
	return newFixture(t, 300*time.Millisecond, 400*time.Millisecond, time.Second)
}

func TestSequenceRunsShrinkThenGrowThenDone(t *testing.T) {
	f := defaults(t)
	old := domain.Rect{Top: 80, Left: 0, Width: 600, Height: 30}

	f.svc.Start(f.ids[1], old)

	st := f.store.State()
	require.True(t, st.IsAnimating)
	assert.Equal(t, indicator.AnimationShrinking, st.DropAnimation)
	assert.Equal(t, old, st.Rect, "shrink starts from the old footprint")
	assert.False(t, st.Dragging, "dragging and animating are mutually exclusive")
	assert.Nil(t, st.DropIndicatorTop)
	assert.Nil(t, st.SourceOverlay)

	f.clk.Advance(300 * time.Millisecond)
	st = f.store.State()
	assert.Equal(t, indicator.AnimationGrowing, st.DropAnimation)
	assert.Equal(t, 20.0, st.Rect.Top, "vertical line at the landing position")
	assert.Equal(t, 30.0, st.Rect.Height, "grows to the landed block's height")
	assert.Equal(t, 2.0, st.Rect.Width)

	f.clk.Advance(400 * time.Millisecond)
	st = f.store.State()
	assert.False(t, st.IsAnimating)
	assert.Equal(t, indicator.AnimationNone, st.DropAnimation)
	assert.False(t, f.svc.Active())
}

func TestCeilingForcesCompletionWithoutNotify(t *testing.T) {
	// A grow phase longer than the ceiling: the sequence must still end
	// within the ceiling even though NotifyFinished is never called.
	f := newFixture(t, 300*time.Millisecond, 10*time.Second, time.Second)

	f.svc.Start(f.ids[0], domain.Rect{Top: 0, Height: 20})
	f.clk.Advance(time.Second)

	st := f.store.State()
	assert.False(t, st.IsAnimating)
	assert.Equal(t, indicator.AnimationNone, st.DropAnimation)
}

func TestNotifyFinishedEndsSequenceEarly(t *testing.T) {
	f := defaults(t)

	f.svc.Start(f.ids[0], domain.Rect{Top: 0, Height: 20})
	f.clk.Advance(300 * time.Millisecond)
	f.svc.NotifyFinished()

	assert.False(t, f.svc.Active())
	assert.False(t, f.store.State().IsAnimating)

	// Late timers are dead.
	f.clk.Advance(10 * time.Second)
	assert.Equal(t, indicator.AnimationNone, f.store.State().DropAnimation)
}

func TestNotifyFinishedWhenIdleIsANoOp(t *testing.T) {
	f := defaults(t)
	assert.NotPanics(t, func() { f.svc.NotifyFinished() })
}

func TestMissingLandedBlockFallsBackToFixedHeight(t *testing.T) {
	f := defaults(t)

	f.svc.Start("gone", domain.Rect{Top: 40, Left: 5, Width: 600, Height: 20})
	f.clk.Advance(300 * time.Millisecond)

	st := f.store.State()
	assert.Equal(t, indicator.AnimationGrowing, st.DropAnimation)
	assert.Equal(t, 24.0, st.Rect.Height, "fixed fallback height")
	assert.Equal(t, 40.0, st.Rect.Top, "falls back to the old footprint's corner")

	f.clk.Advance(400 * time.Millisecond)
	assert.False(t, f.store.State().IsAnimating)
}

func TestRestartSupersedesInFlightSequence(t *testing.T) {
	f := defaults(t)

	f.svc.Start(f.ids[0], domain.Rect{Top: 0, Height: 20})
	f.clk.Advance(100 * time.Millisecond)
	f.svc.Start(f.ids[1], domain.Rect{Top: 50, Height: 30})

	st := f.store.State()
	assert.True(t, st.IsAnimating)
	assert.Equal(t, indicator.AnimationShrinking, st.DropAnimation)
	assert.Equal(t, 50.0, st.Rect.Top)

	// Only the second sequence's timers remain.
	f.clk.Advance(300 * time.Millisecond)
	assert.Equal(t, indicator.AnimationGrowing, f.store.State().DropAnimation)
	f.clk.Advance(400 * time.Millisecond)
	assert.False(t, f.store.State().IsAnimating)
}
