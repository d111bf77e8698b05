package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/kanban/internal/domain"
)

const timeLayout = "2006-01-02 15:04"

// View renders the board.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeDetail:
		content = m.viewDetail()
	case ModeBoard, ModeConfirm:
		content = m.viewBoard()
	}

	return m.styles.App.Render(content)
}

func (m *Model) viewBoard() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n\n")
	}

	width := m.columnWidth()
	rendered := make([]string, 0, len(m.columns))
	for i := range m.columns {
		rendered = append(rendered, m.viewColumn(i, width))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))

	if m.mode == ModeConfirm {
		b.WriteString("\n")
		b.WriteString(m.styles.Dialog.Render(fmt.Sprintf("Delete #%d? (y/N)", m.deleteID)))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return b.String()
}

// viewHeader renders the title and the item count.
func (m *Model) viewHeader() string {
	total := 0
	for _, col := range m.columns {
		total += len(col.Items)
	}
	title := m.styles.HeaderText.Render("Kanban")
	count := m.styles.ItemMeta.Render(fmt.Sprintf("%d items", total))
	return m.styles.Header.Render(title + "  " + count)
}

func (m *Model) columnWidth() int {
	if len(m.columns) == 0 {
		return 0
	}
	// 6 for app padding, 4 per column for border and padding.
	return max((m.width-6)/len(m.columns)-4, 20)
}

func (m *Model) viewColumn(i, width int) string {
	col := m.columns[i]
	style := m.styles.Column
	if i == m.column {
		style = m.styles.ColumnFocused
	}

	var b strings.Builder
	title := fmt.Sprintf("%s %s (%d)", StatusIcon(col.Status), col.Status.Display(), len(col.Items))
	b.WriteString(m.styles.ColumnTitle.Inherit(m.styles.StatusStyle(col.Status)).Render(title))
	b.WriteString("\n")

	if len(col.Items) == 0 {
		b.WriteString(m.styles.ItemMeta.Render("(empty)"))
	}
	for row, item := range col.Items {
		if row > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.viewItem(item, i == m.column && row == m.cursors[i], width))
	}

	return style.Width(width).Render(b.String())
}

func (m *Model) viewItem(item domain.Entity, selected bool, width int) string {
	cursor := "  "
	nameStyle := m.styles.Item
	if selected {
		cursor = "> "
		nameStyle = m.styles.ItemSelected
	}

	label := fmt.Sprintf("#%d %s", item.EntityID(), item.EntityName())
	if item.EntityKind() == domain.KindEpic {
		label = fmt.Sprintf("#%d [epic] %s", item.EntityID(), item.EntityName())
	}
	line := cursor + nameStyle.Render(truncate(label, width-2))
	if meta := scheduleSummary(item); meta != "" {
		line += "\n  " + m.styles.ItemMeta.Render(truncate(meta, width-2))
	}
	if item.EntityKind() == domain.KindSubTask {
		return m.styles.ItemChild.Render(line)
	}
	return line
}

func (m *Model) viewDetail() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.detailViewport.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("esc back • ↑/↓ scroll • q quit"))
	return b.String()
}

// detailContent renders the opened item.
func (m *Model) detailContent() string {
	if m.detail == nil {
		return "No item selected"
	}
	item := m.detail.Item

	var lines []string
	title := fmt.Sprintf("%s #%d", item.EntityKind(), item.EntityID())
	lines = append(lines, m.styles.DetailTitle.Render(title), m.styles.ItemSelected.Render(item.EntityName()), "")

	field := func(label, value string) {
		lines = append(lines, m.styles.DetailLabel.Render(label)+m.styles.DetailValue.Render(value))
	}
	lines = append(lines, m.styles.DetailLabel.Render("Status")+
		m.styles.StatusStyle(item.EntityStatus()).Render(item.EntityStatus().Display()))

	var description string
	switch v := item.(type) {
	case *domain.Task:
		description = v.Description
		scheduleFields(field, v.Start, v.Duration)
	case *domain.SubTask:
		description = v.Description
		field("Epic", fmt.Sprintf("#%d", v.EpicID))
		scheduleFields(field, v.Start, v.Duration)
	case *domain.EpicView:
		description = v.Description
		if v.Timeline.Start != nil {
			field("Start", v.Timeline.Start.Format(timeLayout))
		}
		if v.Timeline.End != nil {
			field("End", v.Timeline.End.Format(timeLayout))
		}
		field("Duration", v.Timeline.Duration.String())
		if len(m.detail.SubTasks) > 0 {
			lines = append(lines, "", m.styles.DetailLabel.Render("Subtasks"))
			for _, st := range m.detail.SubTasks {
				lines = append(lines, fmt.Sprintf("  %s #%d %s", StatusIcon(st.Status), st.ID, st.Name))
			}
		}
	}

	if description != "" {
		lines = append(lines, "", description)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.HeaderText.Render("Keybindings"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("Press ? or esc to close"))
	return b.String()
}

func scheduleFields(field func(label, value string), start *time.Time, d *time.Duration) {
	if start != nil {
		field("Start", start.Format(timeLayout))
		if d != nil {
			field("End", start.Add(*d).Format(timeLayout))
		}
	}
	if d != nil {
		field("Duration", d.String())
	}
}

// scheduleSummary returns a one-line schedule for a card, or "" when
// the item is unscheduled.
func scheduleSummary(item domain.Entity) string {
	switch v := item.(type) {
	case *domain.Task:
		return taskSummary(v)
	case *domain.SubTask:
		return taskSummary(&v.Task)
	case *domain.EpicView:
		if v.Timeline.Start == nil {
			return fmt.Sprintf("%d subtasks", len(v.SubTaskIDs))
		}
		return fmt.Sprintf("%s (%s), %d subtasks", v.Timeline.Start.Format(timeLayout), v.Timeline.Duration, len(v.SubTaskIDs))
	}
	return ""
}

func taskSummary(t *domain.Task) string {
	if t.Start == nil {
		return ""
	}
	if t.Duration == nil {
		return t.Start.Format(timeLayout)
	}
	return fmt.Sprintf("%s (%s)", t.Start.Format(timeLayout), *t.Duration)
}

// truncate shortens s to at most width runes, marking the cut with "…".
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
