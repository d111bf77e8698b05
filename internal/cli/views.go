package cli

import (
	"github.com/spf13/cobra"
)

func newHistoryCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recently viewed items",
		Long: `List items shown with "show", least recently viewed first.

Each item appears once, at the position of its latest visit. Removed
items disappear from the history. The history lives in memory, so a
new process starts with an empty history unless it is served.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printItems(cmd.OutOrStdout(), s.Container.Manager.History())
			return nil
		},
	}
}

func newPrioritizedCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:     "prioritized",
		Aliases: []string{"prio"},
		Short:   "List scheduled tasks and subtasks by start time",
		Long: `List every task and subtask that has a start time, earliest first.
Items with the same start are ordered by id. Epics are not listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printItems(cmd.OutOrStdout(), s.Container.Manager.Prioritized())
			return nil
		},
	}
}
