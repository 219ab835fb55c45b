package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/babybond/internal/cli/formatter"
	"github.com/alexanderramin/babybond/internal/syncqueue"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Inspect and drive the offline sync queue",
	}

	cmd.AddCommand(
		newSyncStatusCmd(app),
		newSyncNowCmd(app),
		newSyncWatchCmd(app),
		newSyncEvictionsCmd(app),
	)

	return cmd
}

func newSyncStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue state and pending changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := app.Sync.Status(ctx)
			if err != nil {
				return err
			}
			items, err := app.Sync.Pending(ctx)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSyncStatus(formatter.SyncSummary{
				Status:    snap.Status,
				Online:    snap.Online,
				LastDrain: snap.LastDrain,
				LastError: snap.LastError,
				Items:     items,
			}, app.now()))
			return nil
		},
	}
}

func newSyncNowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Send pending changes immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Syncing")
			}
			report, err := app.Sync.ForceSync(cmd.Context())
			stop()

			if errors.Is(err, syncqueue.ErrOffline) {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleYellow.Render("Offline.")+" Changes stay queued until the connection returns.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSyncReport(report.Attempted, report.Synced, report.Retried, report.Evicted))
			return nil
		},
	}
}

func newSyncWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep syncing in the foreground until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var srv *http.Server
			errCh := make(chan error, 1)
			if app.Metrics != nil && app.MetricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", app.Metrics)
				srv = &http.Server{Addr: app.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						errCh <- err
					}
				}()
				fmt.Fprintf(cmd.OutOrStdout(), "Metrics on http://%s/metrics\n", app.MetricsAddr)
			}

			if app.Monitor != nil {
				go app.Monitor.Start(ctx)
			}

			var runErr error
			if app.interactive() {
				p := tea.NewProgram(newWatchModel(ctx, app),
					tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout()), tea.WithInput(cmd.InOrStdin()))
				if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
					runErr = err
				}
				stop()
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Watching sync queue. Press Ctrl+C to stop.")
				select {
				case <-ctx.Done():
				case runErr = <-errCh:
					stop()
					runErr = fmt.Errorf("metrics server: %w", runErr)
				}
			}

			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
					runErr = err
				}
			}
			if app.Monitor != nil {
				app.Monitor.Wait()
			}
			return runErr
		},
	}
}

func newSyncEvictionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "evictions",
		Short: "List changes dropped after too many failed attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			evs, err := app.Sync.Evictions(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEvictions(evs, app.now()))
			return nil
		},
	}
}
