package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"dragline/internal/config"
	"dragline/internal/document"
	"dragline/internal/domain"
	"dragline/internal/engine"
	"dragline/internal/geometry"
	"dragline/internal/indicator"
	"dragline/internal/ui/views"
)

// surfaceZone is the bubblezone id for the editing surface, used to map
// terminal mouse coordinates into document space.
const surfaceZone = "surface"

// GutterWidth is the width of the indicator gutter, in cells. Blocks are
// laid out to the right of it.
const GutterWidth = 3

// DocWidth is the width of the demo document, gutter included, in cells.
const DocWidth = 46

// DemoPagination returns the cell-scale pagination used by the demo. One
// document unit is one terminal row.
func DemoPagination() geometry.Pagination {
	return geometry.Pagination{
		PageHeight:   14,
		HeaderHeight: 2,
		FooterHeight: 2,
		GapHeight:    1,
	}
}

// SurfaceRect returns the editing surface rectangle covering every block
// in the document.
func SurfaceRect(doc *document.MemoryDocument) domain.Rect {
	r := domain.Rect{Width: float64(DocWidth)}
	for _, b := range doc.TopLevelBlocks() {
		if bottom := b.Element.Bounds.Bottom(); bottom > r.Height {
			r.Height = bottom
		}
	}
	return r
}

// Model is the bubbletea model for the demo editor surface. It translates
// terminal mouse and key input into engine calls and repaints from the
// published indicator state.
type Model struct {
	eng *engine.Engine
	doc *document.MemoryDocument
	cfg *config.Config

	events chan tea.Msg
	unsubs []func()

	state     indicator.State
	selection []domain.BlockID
	prevAnim  indicator.DropAnimation

	keys      KeyMap
	help      help.Model
	styles    *views.Styles
	docView   *views.DocumentView
	width     int
	height    int
	paginated bool
	status    string
}

// NewModel creates a new UI model wired to the engine and document.
func NewModel(eng *engine.Engine, doc *document.MemoryDocument, cfg *config.Config) *Model {
	m := &Model{
		eng:    eng,
		doc:    doc,
		cfg:    cfg,
		events: make(chan tea.Msg, 64),
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
	m.styles = views.NewStyles()
	m.docView = views.NewDocumentView(m.styles)

	m.unsubs = append(m.unsubs, eng.Subscribe(func(s indicator.State) {
		select {
		case m.events <- StateMsg{State: s}:
		default:
		}
	}))
	m.unsubs = append(m.unsubs, eng.SubscribeToSelection(func(ids []domain.BlockID) {
		select {
		case m.events <- SelectionMsg{Blocks: ids}:
		default:
		}
	}))
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.cfg.Pagination.Enabled {
		m.applyPagination(true)
	}
	return m.waitForEvent()
}

// waitForEvent blocks until the engine publishes something.
func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case StateMsg:
		cmd := m.onState(msg.State)
		return m, tea.Batch(m.waitForEvent(), cmd)

	case SelectionMsg:
		m.selection = msg.Blocks
		return m, m.waitForEvent()

	case animSettleMsg:
		m.eng.NotifyAnimationFinished()
		return m, nil

	case tea.BlurMsg:
		m.eng.WindowBlur()
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// onState records a new indicator snapshot and, at the start of the grow
// phase, schedules the finished notification so the sequencer does not
// have to wait for its ceiling timer.
func (m *Model) onState(s indicator.State) tea.Cmd {
	var cmd tea.Cmd
	if s.DropAnimation == indicator.AnimationGrowing && m.prevAnim != indicator.AnimationGrowing {
		settle := time.Duration(m.cfg.Animation.GrowMs) * time.Millisecond
		cmd = tea.Tick(settle+50*time.Millisecond, func(time.Time) tea.Msg {
			return animSettleMsg{}
		})
	}
	m.prevAnim = s.DropAnimation
	m.state = s
	return cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.eng.KeyDown(engine.Key{Name: "esc"})
		m.status = "cancelled"

	case key.Matches(msg, m.keys.TogglePagination):
		m.applyPagination(!m.paginated)

	case key.Matches(msg, m.keys.ToggleEnabled):
		m.eng.SetEnabled(!m.eng.Enabled())
		if m.eng.Enabled() {
			m.status = "drag handles on"
		} else {
			m.status = "drag handles off"
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	default:
		m.eng.KeyDown(engine.Key{Name: msg.String()})
	}
	return m, nil
}

func (m *Model) applyPagination(on bool) {
	m.paginated = on
	pag := DemoPagination()
	pag.Enabled = on
	m.doc.SetPagination(pag)
	m.eng.SetPagination(pag)
	m.eng.SetSurface(SurfaceRect(m.doc))
	if on {
		m.status = "pagination on"
	} else {
		m.status = "pagination off"
	}
}

// handleMouse maps terminal mouse events onto the editing surface.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	z := zone.Get(surfaceZone)
	if z.IsZero() {
		return
	}
	p := domain.Point{
		X: float64(msg.X - z.StartX),
		Y: float64(msg.Y - z.StartY),
	}
	mods := domain.Modifiers{
		Command: msg.Ctrl || msg.Alt,
		Shift:   msg.Shift,
	}

	switch {
	case msg.Action == tea.MouseActionMotion:
		m.eng.PointerMove(p)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.eng.PointerDown(p, mods)
	case msg.Action == tea.MouseActionRelease:
		m.eng.PointerUp(p, mods)
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("dragline demo"))
	b.WriteString("\n")

	frame := views.Frame{
		Doc:     m.doc,
		State:   m.state,
		Width:   DocWidth,
		Enabled: m.eng.Enabled(),
	}
	b.WriteString(zone.Mark(surfaceZone, m.docView.Render(frame)))
	b.WriteString("\n")
	b.WriteString(m.styles.Status.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))

	return zone.Scan(m.styles.Main.Render(b.String()))
}

func (m *Model) statusLine() string {
	parts := []string{fmt.Sprintf("%d blocks", m.doc.Len())}
	if n := len(m.selection); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	switch {
	case m.state.Dragging:
		parts = append(parts, "dragging")
	case m.state.LongPressing:
		parts = append(parts, "press…")
	case m.state.IsAnimating:
		parts = append(parts, "settling")
	}
	if !m.eng.Enabled() {
		parts = append(parts, m.styles.Disabled.Render("handles off"))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	return strings.Join(parts, " · ")
}

// Close tears down the engine subscriptions.
func (m *Model) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
}
