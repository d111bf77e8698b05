package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/runoshun/kanban/internal/domain"
	"github.com/runoshun/kanban/internal/usecase"
)

// newItemCommand creates the "task", "epic" or "subtask" command group.
func newItemCommand(s *state, kind domain.Kind) *cobra.Command {
	label := kind.Label()
	cmd := &cobra.Command{
		Use:   label,
		Short: fmt.Sprintf("Manage %ss", label),
	}

	cmd.AddCommand(
		newAddCommand(s, kind),
		newListCommand(s, kind),
		newShowCommand(s, kind),
		newUpdateCommand(s, kind),
		newRemoveCommand(s, kind),
		newClearCommand(s, kind),
	)
	if kind == domain.KindEpic {
		cmd.AddCommand(newEpicSubTasksCommand(s))
	}
	return cmd
}

// scheduleFlags holds the --start and --duration flags shared by tasks
// and subtasks.
type scheduleFlags struct {
	Start    string
	Duration time.Duration
}

func (f *scheduleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Start, "start", "", "Planned start, e.g. 2024-03-01T09:00 (UTC)")
	cmd.Flags().DurationVar(&f.Duration, "duration", 0, "Planned duration in whole minutes, e.g. 1h30m")
}

// parse returns the flags that were set on cmd as optional values.
func (f *scheduleFlags) parse(cmd *cobra.Command) (*time.Time, *time.Duration, error) {
	var start *time.Time
	if cmd.Flags().Changed("start") {
		t, err := parseTime(f.Start)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}
	var duration *time.Duration
	if cmd.Flags().Changed("duration") {
		d := f.Duration
		if err := (&domain.Task{Duration: &d}).CheckDuration(); err != nil {
			return nil, nil, fmt.Errorf("--duration: %w", err)
		}
		duration = &d
	}
	return start, duration, nil
}

func newAddCommand(s *state, kind domain.Kind) *cobra.Command {
	var opts struct {
		schedule    scheduleFlags
		Name        string
		Description string
		ID          int
		EpicID      int
	}

	label := kind.Label()
	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Create a new %s", label),
		Long: fmt.Sprintf(`Create a new %s with status NEW.

The id is assigned automatically unless --id is given.`, label),
		Example: addExample(kind),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := s.Container
			ctx := cmd.Context()
			id := usecase.AutoID
			if cmd.Flags().Changed("id") {
				id = opts.ID
			}

			switch kind {
			case domain.KindEpic:
				out, err := c.CreateEpicUseCase().Execute(ctx, usecase.CreateEpicInput{
					ID:          id,
					Name:        opts.Name,
					Description: opts.Description,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created epic #%d: %s\n", out.Epic.ID, out.Epic.Name)
				return nil
			}

			start, duration, err := opts.schedule.parse(cmd)
			if err != nil {
				return err
			}

			if kind == domain.KindSubTask {
				out, err := c.CreateSubTaskUseCase().Execute(ctx, usecase.CreateSubTaskInput{
					ID:          id,
					EpicID:      opts.EpicID,
					Name:        opts.Name,
					Description: opts.Description,
					Start:       start,
					Duration:    duration,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created subtask #%d in epic #%d: %s (epic is %s)\n",
					out.SubTask.ID, out.Epic.ID, out.SubTask.Name, out.Epic.Status.Display())
				return nil
			}

			out, err := c.CreateTaskUseCase().Execute(ctx, usecase.CreateTaskInput{
				ID:          id,
				Name:        opts.Name,
				Description: opts.Description,
				Start:       start,
				Duration:    duration,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task #%d: %s\n", out.Task.ID, out.Task.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Name (required)")
	cmd.Flags().StringVarP(&opts.Description, "desc", "d", "", "Description")
	cmd.Flags().IntVar(&opts.ID, "id", 0, "Explicit id")
	_ = cmd.MarkFlagRequired("name")
	if kind != domain.KindEpic {
		opts.schedule.register(cmd)
	}
	if kind == domain.KindSubTask {
		cmd.Flags().IntVarP(&opts.EpicID, "epic", "e", 0, "Owning epic id (required)")
		_ = cmd.MarkFlagRequired("epic")
	}
	return cmd
}

func addExample(kind domain.Kind) string {
	switch kind {
	case domain.KindEpic:
		return `  kanban epic add --name "Release 1.0"`
	case domain.KindSubTask:
		return `  kanban subtask add --epic 1 --name "Tag" --start 2024-03-01T09:00 --duration 30m`
	default:
		return `  kanban task add --name "Write report" --desc "Q1 numbers"
  kanban task add --name "Standup" --start 2024-03-01T09:00 --duration 15m`
	}
}

func newListCommand(s *state, kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %ss", kind.Label()),
		Long: fmt.Sprintf(`Display all %ss ordered by id.

Output columns: ID, KIND, STATUS, START, END, DURATION, NAME.
Listing does not count as a visit.`, kind.Label()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := s.Container.Manager
			var items []domain.Entity
			switch kind {
			case domain.KindEpic:
				items = entities(m.Epics())
			case domain.KindSubTask:
				items = entities(m.SubTasks())
			default:
				items = entities(m.Tasks())
			}
			printItems(cmd.OutOrStdout(), items)
			return nil
		},
	}
}

func newShowCommand(s *state, kind domain.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show %s details", kind.Label()),
		Long:  "Display one item. Showing an item records a visit in the history.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out, err := s.Container.ShowItemUseCase().Execute(cmd.Context(), usecase.ShowItemInput{Kind: kind, ID: id})
			if err != nil {
				return err
			}
			printDetails(cmd.OutOrStdout(), out.Item)
			return nil
		},
	}
}

func newUpdateCommand(s *state, kind domain.Kind) *cobra.Command {
	var opts struct {
		schedule    scheduleFlags
		Name        string
		Description string
		Status      string
		Unschedule  bool
	}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s", kind.Label()),
		Long: `Change the given fields and keep the others.

Epic status and schedule are derived from subtasks and cannot be set.`,
		Example: `  kanban task update 3 --status in_progress
  kanban subtask update 5 --start 2024-03-01T13:00 --duration 45m
  kanban task update 3 --unschedule`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			input := usecase.EditItemInput{Kind: kind, ID: id}
			if cmd.Flags().Changed("name") {
				input.Name = &opts.Name
			}
			if cmd.Flags().Changed("desc") {
				input.Description = &opts.Description
			}
			if kind != domain.KindEpic {
				if cmd.Flags().Changed("status") {
					status, err := domain.ParseStatus(opts.Status)
					if err != nil {
						return err
					}
					input.Status = &status
				}
				if input.Start, input.Duration, err = opts.schedule.parse(cmd); err != nil {
					return err
				}
				input.ClearSchedule = opts.Unschedule
			}

			out, err := s.Container.EditItemUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s #%d (%s)\n",
				kind.Label(), id, out.Item.EntityStatus().Display())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "New name")
	cmd.Flags().StringVarP(&opts.Description, "desc", "d", "", "New description")
	if kind != domain.KindEpic {
		cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "New status: new, in_progress or done")
		cmd.Flags().BoolVar(&opts.Unschedule, "unschedule", false, "Drop start and duration")
		opts.schedule.register(cmd)
	}
	return cmd
}

func newRemoveCommand(s *state, kind domain.Kind) *cobra.Command {
	long := "Remove an item. It is also dropped from the history."
	if kind == domain.KindEpic {
		long = `Remove an epic together with its subtasks.

The epic is only removed when every subtask is DONE.`
	}
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   fmt.Sprintf("Remove a %s", kind.Label()),
		Long:    long,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := s.Container.DeleteItemUseCase().Execute(cmd.Context(), usecase.DeleteItemInput{Kind: kind, ID: id}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s #%d\n", kind.Label(), id)
			return nil
		},
	}
}

func newClearCommand(s *state, kind domain.Kind) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: fmt.Sprintf("Remove all %ss", kind.Label()),
		Long: fmt.Sprintf(`Remove every %s. Requires --yes.

Epics with unfinished subtasks are kept and reported.`, kind.Label()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to remove all %ss without --yes", kind.Label())
			}
			m := s.Container.Manager
			var err error
			switch kind {
			case domain.KindEpic:
				err = m.RemoveAllEpics()
			case domain.KindSubTask:
				err = m.RemoveAllSubTasks()
			default:
				err = m.RemoveAllTasks()
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed all %ss\n", kind.Label())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm removal")
	return cmd
}

func newEpicSubTasksCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "subtasks <epic-id>",
		Short: "List the subtasks of an epic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			subtasks, err := s.Container.Manager.EpicSubTasks(id)
			if err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), entities(subtasks))
			return nil
		},
	}
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

// entities widens a typed slice to []domain.Entity.
func entities[E domain.Entity](items []E) []domain.Entity {
	out := make([]domain.Entity, 0, len(items))
	for _, e := range items {
		out = append(out, e)
	}
	return out
}
