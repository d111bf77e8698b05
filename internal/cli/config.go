package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/kanban/internal/domain"
	"github.com/runoshun/kanban/internal/infra/config"
)

func newConfigCommand(s *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the configuration",
		Long: `Manage config.toml in the data directory.

Settings are merged in this order: defaults, config file, KANBAN_*
environment variables.`,
	}

	cmd.AddCommand(newConfigShowCommand(s), newConfigInitCommand(s))
	return cmd
}

func newConfigShowCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := s.configPath()
			cfg, err := config.NewLoader(path).Load()
			if err != nil {
				return err
			}
			content, err := config.Render(cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			info := config.NewManager(path).Info()
			if info.Exists {
				_, _ = fmt.Fprintf(w, "# %s\n", info.Path)
			} else {
				_, _ = fmt.Fprintf(w, "# %s (not found, showing defaults)\n", info.Path)
			}
			_, _ = w.Write(content)
			return nil
		},
	}
}

func newConfigInitCommand(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := s.configPath()
			if err := config.NewManager(path).Init(domain.NewDefaultConfig()); err != nil {
				if errors.Is(err, domain.ErrConfigExists) {
					return fmt.Errorf("%s: %w", path, err)
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}
}
