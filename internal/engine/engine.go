// Package engine wires the tracking services together and exposes the
// surface the view layer consumes: state subscriptions, input entry points
// and the kill switch.
package engine

import (
	"time"

	"go.uber.org/zap"

	"dragline/internal/clock"
	"dragline/internal/config"
	"dragline/internal/document"
	"dragline/internal/domain"
	"dragline/internal/eventbus"
	"dragline/internal/geometry"
	"dragline/internal/indicator"
	"dragline/internal/services/animation"
	"dragline/internal/services/droptarget"
	"dragline/internal/services/hover"
	"dragline/internal/services/longpress"
	"dragline/internal/services/move"
	"dragline/internal/services/selection"
)

// Key is a normalized key event fed into the engine.
type Key struct {
	Name string
}

// IsEscape reports whether this is the Escape key.
func (k Key) IsEscape() bool {
	return k.Name == "esc" || k.Name == "escape"
}

// IsModifier reports whether this is a bare modifier press.
func (k Key) IsModifier() bool {
	switch k.Name {
	case "ctrl", "shift", "alt", "meta", "cmd":
		return true
	}
	return false
}

// Options bundles the engine's dependencies. Doc and Logger are required;
// nil Bus, Clock or Config fall back to defaults.
type Options struct {
	Doc    document.Document
	Bus    eventbus.EventBus
	Config *config.Config
	Clock  clock.Clock
	Logger *zap.Logger
}

// Engine is the indicator engine: a single injected service object
// constructed once at application start. All methods must be called from
// one goroutine; the engine serializes nothing itself.
type Engine struct {
	cfg    *config.Config
	logger *zap.Logger
	bus    eventbus.EventBus
	clk    clock.Clock

	doc   document.Document
	geom  *geometry.Adapter
	store *indicator.Store

	hover      *hover.Service
	longpress  *longpress.Service
	droptarget *droptarget.Service
	move       *move.Service
	selection  *selection.Service
	animation  *animation.Service

	enabled     bool
	surface     domain.Rect
	lastPointer domain.Point
	hasPointer  bool

	pollTimer     clock.Timer
	lastCaretFrom int

	unsubscribe []func()
}

// New constructs the engine and subscribes it to document events.
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bus := opts.Bus
	if bus == nil {
		bus = eventbus.New(logger)
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}

	geom := geometry.NewAdapter(geometry.Pagination{
		Enabled:      cfg.Pagination.Enabled,
		PageHeight:   cfg.Pagination.PageHeight,
		HeaderHeight: cfg.Pagination.HeaderHeight,
		FooterHeight: cfg.Pagination.FooterHeight,
		GapHeight:    cfg.Pagination.GapHeight,
	})
	store := indicator.NewStore(logger)

	e := &Engine{
		cfg:           cfg,
		logger:        logger,
		bus:           bus,
		clk:           clk,
		doc:           opts.Doc,
		geom:          geom,
		store:         store,
		enabled:       true,
		lastCaretFrom: -1,
	}

	e.hover = hover.NewService(store, opts.Doc, geom, cfg.Gesture.LeavePaddingPx, logger)
	e.longpress = longpress.NewService(store, opts.Doc, geom, clk,
		time.Duration(cfg.Gesture.LongPressMs)*time.Millisecond,
		cfg.Gesture.MoveCancelPx, logger)
	e.droptarget = droptarget.NewService(store, opts.Doc, geom, logger)
	e.move = move.NewService(store, opts.Doc, bus, logger)
	e.selection = selection.NewService(store, opts.Doc, geom, bus, logger)
	e.animation = animation.NewService(store, opts.Doc, geom, clk,
		time.Duration(cfg.Animation.ShrinkMs)*time.Millisecond,
		time.Duration(cfg.Animation.GrowMs)*time.Millisecond,
		time.Duration(cfg.Animation.CeilingMs)*time.Millisecond,
		cfg.Animation.FallbackHeightPx, logger)

	e.wireServices()
	e.subscribeToEvents()

	store.Update(func(st *indicator.State) {
		st.PaginationEnabled = cfg.Pagination.Enabled
	})

	if cfg.Gesture.FocusPollMs > 0 {
		e.schedulePoll()
	}

	return e
}

// wireServices connects services with their dependencies.
func (e *Engine) wireServices() {
	e.hover.SetSurfaceFunction(func() domain.Rect {
		return e.surface
	})
	e.hover.SetDraggingFunction(func() bool {
		return e.longpress.Phase() == longpress.Dragging
	})

	e.longpress.SetNodeFunction(func(id domain.BlockID) (document.Node, bool) {
		for i, b := range e.doc.TopLevelBlocks() {
			if b.ID == id {
				if snap, ok := e.nodeSnapshot(i, id); ok {
					return snap, true
				}
			}
		}
		return document.Node{}, false
	})
	e.longpress.SetActivateFunction(func(sess *longpress.Session) {
		e.bus.Publish(eventbus.DragStartedEvent{Source: sess.SourceID})
	})

	e.move.SetIndexFunction(func(sess longpress.Session) (int, bool) {
		for i, b := range e.doc.TopLevelBlocks() {
			if b.ID == sess.SourceID {
				return i, true
			}
		}
		return 0, false
	})
}

// subscribeToEvents sets up event handlers.
func (e *Engine) subscribeToEvents() {
	e.unsubscribe = append(e.unsubscribe,
		e.bus.Subscribe(eventbus.EventDocumentChanged, func(eventbus.DomainEvent) {
			e.selection.Revalidate()
			e.hover.Refresh()
		}),
		e.bus.Subscribe(eventbus.EventViewScrolled, func(eventbus.DomainEvent) {
			e.selection.Republish()
		}),
	)
}

// nodeSnapshot captures the node value at index i, preferring the concrete
// document's snapshot accessor when available.
func (e *Engine) nodeSnapshot(i int, id domain.BlockID) (document.Node, bool) {
	type snapshotter interface {
		NodeAt(int) (document.Node, bool)
	}
	if sd, ok := e.doc.(snapshotter); ok {
		return sd.NodeAt(i)
	}
	el, ok := e.doc.ElementForBlock(id)
	if !ok {
		return document.Node{}, false
	}
	return document.Node{ID: id, Height: el.Bounds.Height}, true
}

// Subscribe registers a view-layer callback for every indicator state
// publish. The callback fires once immediately with the current snapshot.
func (e *Engine) Subscribe(fn func(indicator.State)) func() {
	return e.store.Subscribe(fn)
}

// SubscribeToSelection registers a callback for selection membership
// changes, replayed once immediately.
func (e *Engine) SubscribeToSelection(fn func([]domain.BlockID)) func() {
	fn(e.selection.Selected())
	return e.bus.Subscribe(eventbus.EventSelectionChanged, func(ev eventbus.DomainEvent) {
		if sel, ok := ev.(eventbus.SelectionChangedEvent); ok {
			fn(sel.Selected)
		}
	})
}

// NotifyAnimationFinished must be called by the view once the grow
// transition's paint has settled.
func (e *Engine) NotifyAnimationFinished() {
	e.animation.NotifyFinished()
}

// Enabled reports whether tracking is active.
func (e *Engine) Enabled() bool {
	return e.enabled
}

// SetEnabled is the global kill switch. Disabling hides the indicator,
// clears all selections and stops every tracking handler until re-enabled.
func (e *Engine) SetEnabled(enabled bool) {
	if enabled == e.enabled {
		return
	}
	e.enabled = enabled
	if !enabled {
		e.longpress.Cancel()
		e.droptarget.Reset()
		e.selection.Clear()
		e.hover.Reset()
		e.stopPoll()
	} else if e.cfg.Gesture.FocusPollMs > 0 {
		e.schedulePoll()
	}
	e.bus.Publish(eventbus.EnabledChangedEvent{Enabled: enabled})
}

// SetSurface records the editing surface bounds in document space.
func (e *Engine) SetSurface(r domain.Rect) {
	e.surface = r
}

// SetScale records the rendered and layout widths of the surface for the
// zoom transform.
func (e *Engine) SetScale(renderedWidth, layoutWidth float64) {
	e.geom.SetScale(renderedWidth, layoutWidth)
}

// SetPagination swaps the pagination model at runtime.
func (e *Engine) SetPagination(p geometry.Pagination) {
	e.geom.SetPagination(p)
	e.store.Update(func(st *indicator.State) {
		st.PaginationEnabled = p.Enabled
	})
	e.selection.Republish()
}

// State returns the current indicator snapshot.
func (e *Engine) State() indicator.State {
	return e.store.State()
}

// PointerMove feeds a pointer move in viewport coordinates.
func (e *Engine) PointerMove(p domain.Point) {
	if !e.enabled {
		return
	}
	p = e.geom.PointToDocumentSpace(p)
	e.lastPointer = p
	e.hasPointer = true

	e.longpress.PointerMove(p)
	if e.longpress.Phase() == longpress.Dragging {
		e.droptarget.Track(p)
		return
	}
	if e.animation.Active() {
		// The drop animation owns the indicator rect until it finishes.
		return
	}
	e.hover.PointerMove(p)
}

// PointerDown feeds a mouse-down. A plain press clears the selection and
// arms the long-press recognizer; a modifier press drives selection.
func (e *Engine) PointerDown(p domain.Point, mods domain.Modifiers) {
	if !e.enabled {
		return
	}
	p = e.geom.PointToDocumentSpace(p)
	e.lastPointer = p
	e.hasPointer = true

	if !e.surface.Contains(p) {
		// Click outside the editing surface clears the selection.
		e.selection.Clear()
		return
	}

	if mods.Command {
		id, ok := e.doc.ResolveBlockAtPoint(p)
		if !ok {
			return
		}
		if mods.Shift {
			e.selection.ToggleRange(id)
		} else {
			e.selection.Toggle(id)
		}
		return
	}

	if !e.animation.Active() {
		e.longpress.PointerDown(p, mods)
	}
}

// PointerUp feeds a mouse-up: the drop when dragging, otherwise the end of
// a pending press. A completed plain click clears the selection; a click
// that became a drag leaves it alone.
func (e *Engine) PointerUp(p domain.Point, mods domain.Modifiers) {
	if !e.enabled {
		return
	}
	p = e.geom.PointToDocumentSpace(p)

	if e.longpress.Phase() != longpress.Dragging {
		e.longpress.PointerUp()
		if mods.None() && e.surface.Contains(p) {
			e.selection.Clear()
		}
		return
	}

	sess := e.longpress.Session()
	e.droptarget.Track(p)
	pos, ok := e.droptarget.DropPos()
	e.droptarget.Reset()
	e.longpress.EndDrag()

	if sess == nil || !ok {
		e.clearDragIndicator()
		return
	}

	moved := e.move.Drop(*sess, pos)
	e.bus.Publish(eventbus.DragEndedEvent{Source: sess.SourceID, Committed: moved})
	if moved {
		e.animation.Start(sess.SourceID, sess.SourceRect)
	}
}

// PointerLeave hides the indicator once the pointer exits the padded
// surface region.
func (e *Engine) PointerLeave() {
	if !e.enabled || e.animation.Active() {
		return
	}
	e.hover.PointerLeave()
}

// KeyDown feeds a key press. Escape cancels any gesture and clears the
// selection; any other non-modifier key switches into keyboard mode.
func (e *Engine) KeyDown(k Key) {
	if !e.enabled {
		return
	}

	if k.IsEscape() {
		e.longpress.Cancel()
		e.droptarget.Reset()
		e.selection.Clear()
		if !e.animation.Active() {
			e.hover.Reset()
		}
		return
	}

	if e.animation.Active() {
		return
	}
	e.hover.KeyDown(k.IsModifier())
}

// WindowBlur cancels a pending press outright; an active drag survives a
// brief focus loss unless the pointer has strayed past the blur threshold.
func (e *Engine) WindowBlur() {
	if !e.enabled {
		return
	}
	switch e.longpress.Phase() {
	case longpress.Pending:
		e.longpress.Cancel()
	case longpress.Dragging:
		if !e.hasPointer || !e.surface.Inset(-e.cfg.Gesture.BlurCancelPx).Contains(e.lastPointer) {
			e.longpress.Cancel()
			e.droptarget.Reset()
		}
	}
}

// Close cancels timers and event subscriptions on teardown.
func (e *Engine) Close() {
	e.stopPoll()
	e.longpress.Close()
	e.animation.Close()
	for _, unsub := range e.unsubscribe {
		unsub()
	}
	e.unsubscribe = nil
}

func (e *Engine) clearDragIndicator() {
	e.store.Update(func(st *indicator.State) {
		st.Dragging = false
		st.DropIndicatorTop = nil
		st.SourceOverlay = nil
	})
}

// schedulePoll arms the containment-poll fallback for hosts that deliver no
// focus-change notification. Off by default; the DocumentChanged
// subscription covers the same ground when the host publishes events.
func (e *Engine) schedulePoll() {
	interval := time.Duration(e.cfg.Gesture.FocusPollMs) * time.Millisecond
	e.pollTimer = e.clk.AfterFunc(interval, func() {
		e.pollCaret()
		if e.enabled && e.pollTimer != nil {
			e.schedulePoll()
		}
	})
}

func (e *Engine) stopPoll() {
	if e.pollTimer != nil {
		e.pollTimer.Stop()
		e.pollTimer = nil
	}
}

// pollCaret hides the indicator when the caret has moved since the last
// poll: caret motion without pointer motion means the user is editing with
// the keyboard.
func (e *Engine) pollCaret() {
	from, _ := e.doc.CurrentSelectionRange()
	if from != e.lastCaretFrom {
		if e.lastCaretFrom >= 0 {
			e.hover.KeyDown(false)
		}
		e.lastCaretFrom = from
	}
}
