// Package tui provides the terminal kanban board.
package tui

// Mode represents the current UI mode.
type Mode int

const (
	ModeBoard   Mode = iota // Column navigation
	ModeDetail              // Item detail view
	ModeConfirm             // Confirmation dialog
	ModeHelp                // Help overlay
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeBoard:
		return "board"
	case ModeDetail:
		return "detail"
	case ModeConfirm:
		return "confirm"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}
