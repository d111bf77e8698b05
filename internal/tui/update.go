package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.mode == ModeDetail {
			m.initDetailViewport()
		}
		return m, nil

	case MsgBoardLoaded:
		m.columns = msg.Columns
		m.clampCursors()
		return m, nil

	case MsgItemShown:
		m.err = nil
		m.detail = msg.Out
		m.mode = ModeDetail
		m.initDetailViewport()
		return m, nil

	case MsgItemUpdated, MsgItemDeleted:
		m.err = nil
		m.mode = ModeBoard
		m.deleteID = 0
		return m, m.loadBoard()

	case MsgError:
		m.err = msg.Err
		m.mode = ModeBoard
		m.deleteID = 0
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeHelp:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) {
			m.mode = ModeBoard
		}
		return m, nil

	case ModeConfirm:
		return m.handleConfirmMode(msg)

	case ModeDetail:
		return m.handleDetailMode(msg)

	case ModeBoard:
		return m.handleBoardMode(msg)
	}
	return m, nil
}

func (m *Model) handleBoardMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if len(m.columns) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursors[m.column] > 0 {
			m.cursors[m.column]--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursors[m.column] < len(m.columns[m.column].Items)-1 {
			m.cursors[m.column]++
		}
		return m, nil

	case key.Matches(msg, m.keys.Left):
		if m.column > 0 {
			m.column--
		}
		return m, nil

	case key.Matches(msg, m.keys.Right):
		if m.column < len(m.columns)-1 {
			m.column++
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.err = nil
		return m, m.loadBoard()

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil
	}

	item := m.SelectedItem()
	if item == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Enter):
		return m, m.showItem(item)

	case key.Matches(msg, m.keys.Advance):
		return m, m.moveStatus(item, 1)

	case key.Matches(msg, m.keys.Revert):
		return m, m.moveStatus(item, -1)

	case key.Matches(msg, m.keys.Delete):
		m.mode = ModeConfirm
		m.deleteID = item.EntityID()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	item := m.SelectedItem()
	m.mode = ModeBoard
	if !key.Matches(msg, m.keys.Confirm) || item == nil || item.EntityID() != m.deleteID {
		m.deleteID = 0
		return m, nil
	}
	return m, m.deleteItem(item)
}

func (m *Model) handleDetailMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Enter):
		m.mode = ModeBoard
		m.detail = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

// clampCursors keeps every column cursor within its items.
func (m *Model) clampCursors() {
	if len(m.cursors) != len(m.columns) {
		m.cursors = make([]int, len(m.columns))
	}
	for i, col := range m.columns {
		m.cursors[i] = max(0, min(m.cursors[i], len(col.Items)-1))
	}
	if m.column >= len(m.columns) {
		m.column = 0
	}
}

func (m *Model) initDetailViewport() {
	width := max(m.width-12, 40)
	height := max(m.height-8, 10)
	m.detailViewport = viewport.New(width, height)
	m.detailViewport.Style = lipgloss.NewStyle().Background(Colors.Panel)
	m.detailViewport.SetContent(m.detailContent())
}
