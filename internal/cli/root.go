// Package cli provides the command-line interface for kanban.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/kanban/internal/app"
	"github.com/runoshun/kanban/internal/domain"
)

// Command group IDs.
const (
	groupItems  = "items"
	groupViews  = "views"
	groupServer = "server"
)

// state carries the container between the root command's hooks and the
// subcommands. The container is built after flags are parsed, so
// subcommands read it at run time rather than at construction.
type state struct {
	Container *app.Container
	release   func()
	opts      app.Options
	// prebuilt is set when the container was injected and must not be
	// locked or loaded again (tests).
	prebuilt bool
}

// open builds the container and restores the backup.
func (s *state) open(ctx context.Context) error {
	if s.prebuilt {
		return nil
	}
	c, err := app.New(ctx, s.opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	release, err := c.Open(ctx)
	if err != nil {
		_ = c.Close()
		return err
	}
	s.Container = c
	s.release = release
	return nil
}

// configPath returns the config file chosen by the flags.
func (s *state) configPath() string {
	if s.opts.ConfigPath != "" {
		return s.opts.ConfigPath
	}
	return domain.ConfigPath(s.opts.DataDir)
}

// close drops the lock and closes the container.
func (s *state) close() {
	if s.prebuilt || s.Container == nil {
		return
	}
	if s.release != nil {
		s.release()
	}
	_ = s.Container.Close()
}

// Execute runs the kanban command line with args.
func Execute(ctx context.Context, version string, args []string) error {
	s := &state{}
	root := newRootCommand(s, version)
	root.SetArgs(args)
	defer s.close()
	return root.ExecuteContext(ctx)
}

// NewRootCommand creates the root command around an already opened
// container. It is used by tests and embedders.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	return newRootCommand(&state{Container: c, prebuilt: true}, version)
}

func newRootCommand(s *state, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "kanban",
		Short: "Track tasks, epics and subtasks",
		Long: `kanban tracks standalone tasks, epics and the subtasks they own.

Epic status and schedule are derived from their subtasks. Timed items may
not overlap. Every change is written to the configured backup (CSV on
local disk or S3, or a git repository).`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !needsStore(cmd) {
				return nil
			}
			return s.open(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&s.opts.DataDir, "data-dir", domain.DefaultDataDir, "Directory holding config, logs and local backups")
	root.PersistentFlags().StringVar(&s.opts.ConfigPath, "config", "", "Config file (default: <data-dir>/config.toml)")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupItems, Title: "Items:"},
		&cobra.Group{ID: groupViews, Title: "Views:"},
		&cobra.Group{ID: groupServer, Title: "Server, backups and config:"},
	)

	for _, cmd := range []*cobra.Command{
		newItemCommand(s, domain.KindTask),
		newItemCommand(s, domain.KindEpic),
		newItemCommand(s, domain.KindSubTask),
		newImportCommand(s),
	} {
		cmd.GroupID = groupItems
		root.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		newHistoryCommand(s),
		newPrioritizedCommand(s),
		newBoardCommand(s),
	} {
		cmd.GroupID = groupViews
		root.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		newServeCommand(s),
		newSnapshotCommand(s),
		newConfigCommand(s),
	} {
		cmd.GroupID = groupServer
		root.AddCommand(cmd)
	}

	return root
}

// needsStore reports whether cmd reads or writes items. Help, completion
// and config commands run without locking the data directory.
func needsStore(cmd *cobra.Command) bool {
	if !cmd.Runnable() || cmd == cmd.Root() {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", "config", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}
