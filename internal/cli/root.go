// Package cli is the babybond command tree.
package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/alexanderramin/babybond/internal/clock"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/service"
	"github.com/alexanderramin/babybond/internal/syncqueue"
	"github.com/spf13/cobra"
)

// CatalogReader is the read side of the activity catalog.
type CatalogReader interface {
	All() []*domain.ActivityTemplate
	ByAgeGroup(group domain.AgeGroup) []*domain.ActivityTemplate
	Get(id string) (*domain.ActivityTemplate, error)
}

// SyncController is the part of the sync queue the CLI drives.
type SyncController interface {
	Status(ctx context.Context) (syncqueue.Snapshot, error)
	Pending(ctx context.Context) ([]*domain.SyncQueueItem, error)
	Evictions(ctx context.Context) ([]*domain.SyncEviction, error)
	ForceSync(ctx context.Context) (syncqueue.Report, error)
	Wait()
}

// Watcher runs until its context is cancelled.
type Watcher interface {
	Start(ctx context.Context)
	Wait()
}

// App holds references to all services used by CLI commands.
type App struct {
	Profiles   service.ProfileService
	Plans      service.PlanService
	Activities service.ActivityService
	Content    service.ContentService
	Catalog    CatalogReader
	Sync       SyncController

	// Monitor probes connectivity during "sync watch". Nil skips probing.
	Monitor Watcher
	// Metrics is served on MetricsAddr during "sync watch" when both are set.
	Metrics     http.Handler
	MetricsAddr string

	Clock    clock.Clock
	Location *time.Location

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	return clock.OrSystem(a.Clock).Now()
}

func (a *App) loc() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// titles maps template ids to display titles.
func (a *App) titles() map[string]string {
	all := a.Catalog.All()
	out := make(map[string]string, len(all))
	for _, t := range all {
		out[t.ID] = t.Title
	}
	return out
}

// NewRootCmd creates the top-level "babybond" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "babybond",
		Short:         "Bonding activities for expecting and new parents",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Let queued changes finish sending before the process exits.
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Sync != nil {
				app.Sync.Wait()
			}
		},
	}

	root.AddCommand(
		newProfileCmd(app),
		newPlanCmd(app),
		newActivityCmd(app),
		newCatalogCmd(app),
		newContentCmd(app),
		newSyncCmd(app),
	)

	return root
}
