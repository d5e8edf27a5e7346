package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dragline/internal/domain"
)

func TestSubscribeReplaysCurrentSnapshot(t *testing.T) {
	s := NewStore(zaptest.NewLogger(t))
	s.Update(func(st *State) {
		st.Visible = true
		st.Rect = domain.Rect{Top: 10, Height: 20}
	})

	var got State
	calls := 0
	unsub := s.Subscribe(func(st State) {
		got = st
		calls++
	})
	defer unsub()

	require.Equal(t, 1, calls)
	assert.True(t, got.Visible)
	assert.Equal(t, 10.0, got.Rect.Top)
}

func TestUpdateNotifiesSynchronously(t *testing.T) {
	s := NewStore(zaptest.NewLogger(t))
	var seen []bool
	unsub := s.Subscribe(func(st State) {
		seen = append(seen, st.Visible)
	})
	defer unsub()

	s.Update(func(st *State) { st.Visible = true })
	s.Update(func(st *State) { st.Visible = false })

	assert.Equal(t, []bool{false, true, false}, seen)
}

func TestUpdateMergesIntoSnapshot(t *testing.T) {
	s := NewStore(zaptest.NewLogger(t))
	s.Update(func(st *State) { st.LongPressing = true })
	s.Update(func(st *State) { st.Dragging = true })

	st := s.State()
	assert.True(t, st.LongPressing, "earlier fields survive later updates")
	assert.True(t, st.Dragging)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	s := NewStore(zaptest.NewLogger(t))
	calls := 0
	unsub := s.Subscribe(func(State) { calls++ })
	require.Equal(t, 1, calls)

	unsub()
	s.Update(func(st *State) { st.Visible = true })
	assert.Equal(t, 1, calls)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := NewStore(zaptest.NewLogger(t))
	top := 42.0
	s.Update(func(st *State) {
		st.DropIndicatorTop = &top
		st.SelectedBlocks = []SelectedBlock{{ID: "a"}}
	})

	snap := s.State()
	*snap.DropIndicatorTop = 0
	snap.SelectedBlocks[0].ID = "mutated"

	st := s.State()
	assert.Equal(t, 42.0, *st.DropIndicatorTop)
	assert.Equal(t, domain.BlockID("a"), st.SelectedBlocks[0].ID)
}
