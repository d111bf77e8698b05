package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/runoshun/kanban/internal/domain"
)

// displayLayout is how times are printed.
const displayLayout = "2006-01-02 15:04"

// inputLayouts are accepted by --start, tried in order. All are UTC.
var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"02.01.2006T15:04:05",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use YYYY-MM-DDTHH:MM", s)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(displayLayout)
}

func formatDuration(d *time.Duration) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

// schedule returns start, end and duration of any item.
func schedule(e domain.Entity) (start, end *time.Time, duration *time.Duration) {
	var t *domain.Task
	switch v := e.(type) {
	case *domain.Task:
		t = v
	case *domain.SubTask:
		t = &v.Task
	case *domain.EpicView:
		d := v.Timeline.Duration
		return v.Timeline.Start, v.Timeline.End, &d
	}
	if t == nil {
		return nil, nil, nil
	}
	if v, ok := t.End(); ok {
		end = &v
	}
	return t.Start, end, t.Duration
}

// printItems prints items in TSV format.
func printItems(w io.Writer, items []domain.Entity) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	// Header
	_, _ = fmt.Fprintln(tw, "ID\tKIND\tSTATUS\tSTART\tEND\tDURATION\tNAME")

	// Rows
	for _, e := range items {
		start, end, duration := schedule(e)
		kind := e.EntityKind().Label()
		if st, ok := e.(*domain.SubTask); ok {
			kind = fmt.Sprintf("subtask(#%d)", st.EpicID)
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.EntityID(), kind, e.EntityStatus(),
			formatTime(start), formatTime(end), formatDuration(duration),
			e.EntityName(),
		)
	}
}

// printDetails prints one item.
func printDetails(w io.Writer, e domain.Entity) {
	start, end, duration := schedule(e)

	label := e.EntityKind().Label()
	_, _ = fmt.Fprintf(w, "%s%s #%d: %s\n\n", strings.ToUpper(label[:1]), label[1:], e.EntityID(), e.EntityName())
	_, _ = fmt.Fprintf(w, "Status:   %s\n", e.EntityStatus().Display())

	switch v := e.(type) {
	case *domain.SubTask:
		_, _ = fmt.Fprintf(w, "Epic:     #%d\n", v.EpicID)
	case *domain.EpicView:
		ids := make([]string, 0, len(v.SubTaskIDs))
		for _, id := range v.SubTaskIDs {
			ids = append(ids, fmt.Sprintf("#%d", id))
		}
		if len(ids) == 0 {
			ids = append(ids, "-")
		}
		_, _ = fmt.Fprintf(w, "Subtasks: %s\n", strings.Join(ids, ", "))
	}

	_, _ = fmt.Fprintf(w, "Start:    %s\n", formatTime(start))
	_, _ = fmt.Fprintf(w, "End:      %s\n", formatTime(end))
	_, _ = fmt.Fprintf(w, "Duration: %s\n", formatDuration(duration))

	if desc := description(e); desc != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", desc)
	}
}

func description(e domain.Entity) string {
	switch v := e.(type) {
	case *domain.Task:
		return v.Description
	case *domain.SubTask:
		return v.Description
	case *domain.EpicView:
		return v.Description
	}
	return ""
}
