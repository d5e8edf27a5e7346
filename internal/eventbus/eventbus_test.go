package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dragline/internal/domain"
)

func TestPublishDeliversSynchronously(t *testing.T) {
	bus := New(zaptest.NewLogger(t))

	var got []int
	bus.Subscribe(EventDocumentChanged, func(e DomainEvent) {
		ev, ok := e.(DocumentChangedEvent)
		require.True(t, ok)
		got = append(got, ev.BlockCount)
	})

	bus.Publish(DocumentChangedEvent{BlockCount: 3})
	assert.Equal(t, []int{3}, got, "handler runs before Publish returns")
}

func TestSubscribeFiltersByType(t *testing.T) {
	bus := New(zaptest.NewLogger(t))

	docEvents := 0
	selEvents := 0
	bus.Subscribe(EventDocumentChanged, func(DomainEvent) { docEvents++ })
	bus.Subscribe(EventSelectionChanged, func(DomainEvent) { selEvents++ })

	bus.Publish(DocumentChangedEvent{})
	bus.Publish(SelectionChangedEvent{})
	bus.Publish(DocumentChangedEvent{})

	assert.Equal(t, 2, docEvents)
	assert.Equal(t, 1, selEvents)
}

func TestUnsubscribeRemovesHandler(t *testing.T) {
	bus := New(zaptest.NewLogger(t))

	calls := 0
	unsub := bus.Subscribe(EventDocumentChanged, func(DomainEvent) { calls++ })
	bus.Publish(DocumentChangedEvent{})
	unsub()
	bus.Publish(DocumentChangedEvent{})

	assert.Equal(t, 1, calls)
}

func TestHandlerPanicDoesNotStopDispatch(t *testing.T) {
	bus := New(zaptest.NewLogger(t))

	bus.Subscribe(EventDragStarted, func(DomainEvent) { panic("boom") })
	survived := false
	bus.Subscribe(EventDragStarted, func(DomainEvent) { survived = true })

	assert.NotPanics(t, func() {
		bus.Publish(DragStartedEvent{Source: domain.BlockID("b")})
	})
	assert.True(t, survived)
}
