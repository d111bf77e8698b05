package cli

import (
	"github.com/spf13/cobra"

	"github.com/runoshun/kanban/internal/tui"
)

// launchBoardFunc starts the interactive board. Tests replace it.
var launchBoardFunc = tui.Run

func newBoardCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive kanban board",
		Long: `Open a terminal board with one column per status.

Keys:
  h/l      switch column
  j/k      move within a column
  enter    show details (records a visit)
  n/p      move a task or subtask to the next/previous status
  d        delete the selected item
  ?        help
  q        quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return launchBoardFunc(cmd.Context(), s.Container)
		},
	}
}
