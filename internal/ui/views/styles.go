package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Status      lipgloss.Style
	Help        lipgloss.Style
	Main        lipgloss.Style
	Block       lipgloss.Style
	BlockText   lipgloss.Style
	SelectedBg  lipgloss.Style
	Ghost       lipgloss.Style
	Indicator   lipgloss.Style
	DropLine    lipgloss.Style
	AnimShrink  lipgloss.Style
	AnimGrow    lipgloss.Style
	PageBand    lipgloss.Style
	PageGap     lipgloss.Style
	StatusError lipgloss.Style
	Disabled    lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Block:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		BlockText:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		SelectedBg:  lipgloss.NewStyle().Background(lipgloss.Color("24")),
		Ghost:       lipgloss.NewStyle().Faint(true).Strikethrough(false),
		Indicator:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		DropLine:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		AnimShrink:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		AnimGrow:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		PageBand:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		PageGap:     lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Disabled:    lipgloss.NewStyle().Faint(true).Italic(true),
	}
}

// KindGlyph returns the gutter glyph for a block kind.
func KindGlyph(kind string) string {
	switch kind {
	case "heading":
		return "#"
	case "list":
		return "-"
	case "quote":
		return ">"
	default:
		return " "
	}
}
