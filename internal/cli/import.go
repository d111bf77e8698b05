package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/runoshun/kanban/internal/usecase"
)

func newImportCommand(s *state) *cobra.Command {
	var opts struct {
		From   string
		DryRun bool
	}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create tasks, epics and subtasks from a YAML plan",
		Long: `Create items from a YAML plan. Tasks are created first, then each
epic followed by its subtasks. Creation stops at the first error; items
created before it are kept.

Use "--from -" to read the plan from stdin.

File format:
  tasks:
    - name: Write report
      start: 2024-03-01T09:00:00Z
      duration: 1h
  epics:
    - name: Release
      description: Ship 1.0
      subtasks:
        - name: Tag
          start: 2024-03-01T11:00:00Z
          duration: 30m
        - name: Announce`,
		Example: `  kanban import --from plan.yaml
  kanban import --from plan.yaml --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, err := readInput(cmd.InOrStdin(), opts.From)
			if err != nil {
				return err
			}

			out, err := s.Container.ImportPlanUseCase().Execute(cmd.Context(), usecase.ImportPlanInput{
				Content: string(content),
				DryRun:  opts.DryRun,
			})
			if out != nil {
				w := cmd.OutOrStdout()
				for _, item := range out.Items {
					switch {
					case opts.DryRun:
						_, _ = fmt.Fprintf(w, "Would create %s: %s\n", item.Kind.Label(), item.Name)
					case item.EpicID != 0:
						_, _ = fmt.Fprintf(w, "Created %s #%d in epic #%d: %s\n", item.Kind.Label(), item.ID, item.EpicID, item.Name)
					default:
						_, _ = fmt.Fprintf(w, "Created %s #%d: %s\n", item.Kind.Label(), item.ID, item.Name)
					}
				}
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.From, "from", "f", "", "Plan file (\"-\" for stdin)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validate and print without creating")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return data, nil
}
