package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"github.com/runoshun/kanban/internal/app"
	"github.com/runoshun/kanban/internal/httpapi"
	"github.com/runoshun/kanban/internal/infra/scheduler"
)

// shutdownTimeout bounds how long serve waits for in-flight requests.
const shutdownTimeout = 10 * time.Second

func newServeCommand(s *state) *cobra.Command {
	var opts struct {
		Host string
		Port int
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP/JSON API until interrupted.

The server holds the data directory for its lifetime, so other kanban
commands on the same directory fail while it runs. When snapshot.schedule
is configured, snapshots are taken on that cron schedule.

Routes:
  /tasks, /tasks/{id}
  /epics, /epics/{id}, /epics/{id}/subtasks
  /subtasks, /subtasks/{id}
  /history, /prioritized, /health`,
		Example: `  kanban serve
  kanban serve --port 9090
  KANBAN_HTTP_PORT=9090 kanban serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := s.Container
			httpCfg := c.Config.HTTP
			if cmd.Flags().Changed("host") {
				httpCfg.Host = opts.Host
			}
			if cmd.Flags().Changed("port") {
				httpCfg.Port = opts.Port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, c, httpCfg.Addr())
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "Listen host (overrides http.host)")
	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "Listen port (overrides http.port)")
	return cmd
}

// runServer serves addr and runs the snapshot schedule until ctx is done
// or one of them fails.
func runServer(ctx context.Context, c *app.Container, addr string) error {
	srv := httpapi.New(c.Manager, httpapi.Options{
		Addr:   addr,
		CORS:   c.Config.HTTP.CORS,
		Logger: c.Logger,
		Events: c.Events,
	})

	var sched *scheduler.Scheduler
	if spec := c.Config.Snapshot.Schedule; spec != "" {
		take := c.TakeSnapshotUseCase()
		var err error
		sched, err = scheduler.New("snapshot", spec, func(ctx context.Context) error {
			_, err := take.Execute(ctx)
			return err
		}, c.Logger)
		if err != nil {
			return fmt.Errorf("snapshot.schedule: %w", err)
		}
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(srv.ListenAndServe)
	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		c.Logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if sched != nil {
		p.Go(sched.Run)
	}

	return p.Wait()
}
