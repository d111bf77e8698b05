package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/kanban/internal/domain"
)

// Palette holds the board colors. Status colors match the column they tint.
type Palette struct {
	Accent     lipgloss.Color
	Dim        lipgloss.Color
	Alert      lipgloss.Color
	Panel      lipgloss.Color
	Text       lipgloss.Color
	Highlight  lipgloss.Color
	New        lipgloss.Color
	InProgress lipgloss.Color
	Done       lipgloss.Color
}

// Colors is the default palette.
var Colors = Palette{
	Accent:     lipgloss.Color("#7AA2F7"),
	Dim:        lipgloss.Color("#565F89"),
	Alert:      lipgloss.Color("#F7768E"),
	Panel:      lipgloss.Color("#1F2335"),
	Text:       lipgloss.Color("#C0CAF5"),
	Highlight:  lipgloss.Color("#E0AF68"),
	New:        lipgloss.Color("#7DCFFF"),
	InProgress: lipgloss.Color("#E0AF68"),
	Done:       lipgloss.Color("#9ECE6A"),
}

// Styles contains the lipgloss styles of the board.
type Styles struct {
	App        lipgloss.Style
	Header     lipgloss.Style
	HeaderText lipgloss.Style

	Column        lipgloss.Style
	ColumnFocused lipgloss.Style
	ColumnTitle   lipgloss.Style

	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	ItemChild    lipgloss.Style // Indent for subtasks under their epic
	ItemMeta     lipgloss.Style

	StatusNew        lipgloss.Style
	StatusInProgress lipgloss.Style
	StatusDone       lipgloss.Style

	Footer   lipgloss.Style
	ErrorMsg lipgloss.Style
	Dialog   lipgloss.Style

	DetailTitle lipgloss.Style
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style
}

// DefaultStyles builds the board styles from Colors.
func DefaultStyles() Styles {
	p := Colors
	text := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	boxed := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c).Padding(0, 1)
	}

	return Styles{
		App:        lipgloss.NewStyle().Padding(1, 2),
		Header:     text(p.Accent).MarginBottom(1),
		HeaderText: lipgloss.NewStyle().Bold(true),

		Column:        boxed(p.Dim),
		ColumnFocused: boxed(p.Accent),
		ColumnTitle:   lipgloss.NewStyle().Bold(true).MarginBottom(1),

		Item:         text(p.Text),
		ItemSelected: text(p.Highlight).Bold(true),
		ItemChild:    lipgloss.NewStyle().PaddingLeft(2),
		ItemMeta:     text(p.Dim),

		StatusNew:        text(p.New),
		StatusInProgress: text(p.InProgress),
		StatusDone:       text(p.Done),

		Footer:   text(p.Dim).MarginTop(1),
		ErrorMsg: text(p.Alert).Bold(true),
		Dialog:   boxed(p.Alert),

		DetailTitle: text(p.Accent).Bold(true),
		DetailLabel: text(p.Dim).Width(10),
		DetailValue: text(p.Text),
	}
}

// StatusStyle returns the style for a given status.
func (s Styles) StatusStyle(status domain.Status) lipgloss.Style {
	switch status {
	case domain.StatusInProgress:
		return s.StatusInProgress
	case domain.StatusDone:
		return s.StatusDone
	default:
		return s.StatusNew
	}
}

// StatusIcon returns an icon for a given status.
func StatusIcon(status domain.Status) string {
	switch status {
	case domain.StatusInProgress:
		return "●"
	case domain.StatusDone:
		return "✔"
	default:
		return "○"
	}
}
