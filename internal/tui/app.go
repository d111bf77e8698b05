package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/kanban/internal/app"
	"github.com/runoshun/kanban/internal/domain"
	"github.com/runoshun/kanban/internal/usecase"
)

// Model is the bubbletea model for the kanban board.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	detail    *usecase.ShowItemOutput
	err       error

	// State
	columns []usecase.BoardColumn
	cursors []int // Selected row per column

	// Components
	keys           KeyMap
	styles         Styles
	help           help.Model
	detailViewport viewport.Model

	mode     Mode
	column   int // Focused column
	width    int
	height   int
	deleteID int // Item awaiting delete confirmation
}

// New creates a new board Model backed by the container.
func New(c *app.Container) *Model {
	statuses := domain.AllStatuses()
	columns := make([]usecase.BoardColumn, len(statuses))
	for i, s := range statuses {
		columns[i].Status = s
	}
	return &Model{
		container: c,
		columns:   columns,
		cursors:   make([]int, len(statuses)),
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		help:      help.New(),
		mode:      ModeBoard,
	}
}

// Run starts the board and blocks until the user quits or ctx is done.
func Run(ctx context.Context, c *app.Container) error {
	_, err := tea.NewProgram(New(c), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return m.loadBoard()
}

// loadBoard returns a command that groups all items by status.
func (m *Model) loadBoard() tea.Cmd {
	return func() tea.Msg {
		out, err := m.container.LoadBoardUseCase().Execute(context.Background())
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgBoardLoaded{Columns: out.Columns}
	}
}

// showItem opens an item. Opening counts as a visit.
func (m *Model) showItem(item domain.Entity) tea.Cmd {
	in := usecase.ShowItemInput{Kind: item.EntityKind(), ID: item.EntityID()}
	return func() tea.Msg {
		out, err := m.container.ShowItemUseCase().Execute(context.Background(), in)
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgItemShown{Out: out}
	}
}

// moveStatus moves a task or subtask one step along the workflow.
func (m *Model) moveStatus(item domain.Entity, step int) tea.Cmd {
	status, ok := shiftStatus(item.EntityStatus(), step)
	if !ok {
		return nil
	}
	in := usecase.EditItemInput{Kind: item.EntityKind(), ID: item.EntityID(), Status: &status}
	return func() tea.Msg {
		if _, err := m.container.EditItemUseCase().Execute(context.Background(), in); err != nil {
			return MsgError{Err: err}
		}
		return MsgItemUpdated{ID: in.ID}
	}
}

// deleteItem removes an item.
func (m *Model) deleteItem(item domain.Entity) tea.Cmd {
	in := usecase.DeleteItemInput{Kind: item.EntityKind(), ID: item.EntityID()}
	return func() tea.Msg {
		if _, err := m.container.DeleteItemUseCase().Execute(context.Background(), in); err != nil {
			return MsgError{Err: err}
		}
		return MsgItemDeleted{ID: in.ID}
	}
}

// SelectedItem returns the item under the cursor, or nil if the
// focused column is empty.
func (m *Model) SelectedItem() domain.Entity {
	if m.column >= len(m.columns) {
		return nil
	}
	items := m.columns[m.column].Items
	row := m.cursors[m.column]
	if row < 0 || row >= len(items) {
		return nil
	}
	return items[row]
}

// shiftStatus returns the status step places away from s.
// ok is false at either end of the workflow.
func shiftStatus(s domain.Status, step int) (domain.Status, bool) {
	statuses := domain.AllStatuses()
	for i, v := range statuses {
		if v == s.OrNew() {
			j := i + step
			if j < 0 || j >= len(statuses) {
				return "", false
			}
			return statuses[j], true
		}
	}
	return "", false
}
