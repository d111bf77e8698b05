package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSnapshotCommand(s *state) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Copy the current backup or list copies",
		Long: `Write a timestamped copy of the current backup.

CSV backups are copied under snapshots/ next to the backup file; git
backups get a ref under refs/<namespace>/snapshots/. With --list the
existing snapshots are printed oldest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := s.Container
			if list {
				out, err := c.ListSnapshotsUseCase().Execute(cmd.Context())
				if err != nil {
					return err
				}
				for _, name := range out.Names {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			out, err := c.TakeSnapshotUseCase().Execute(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created snapshot %s\n", out.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List snapshots instead of creating one")
	return cmd
}
