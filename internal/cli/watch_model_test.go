package cli

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"

	"github.com/alexanderramin/babybond/internal/syncqueue"
	"github.com/alexanderramin/babybond/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatchDriver(t *testing.T, app *App) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newWatchModel(context.Background(), app), teatest.WithSize(120, 40))
	d.DrainInit()
	return d
}

func TestWatchModel_LoadsQueueOnStart(t *testing.T) {
	app, _ := testApp(t)
	createPregnantProfile(t, app)

	d := newWatchDriver(t, app)

	view := d.View()
	assert.NotContains(t, view, "Loading sync queue")
	assert.Contains(t, view, "profile")
	assert.Contains(t, view, "s sync now")
}

func TestWatchModel_SyncKeyDrains(t *testing.T) {
	app, rec := testApp(t)
	createPregnantProfile(t, app)
	d := newWatchDriver(t, app)

	d.PressKey('s')

	assert.Equal(t, 1, rec.count())
	assert.Contains(t, d.View(), "Sent 1 changes")
	m := d.Model.(watchModel)
	assert.False(t, m.syncing)
	assert.Empty(t, m.summary.Items)
}

func TestWatchModel_SyncWhileOffline(t *testing.T) {
	app, rec := testApp(t, syncqueue.WithOnline(false))
	createPregnantProfile(t, app)
	d := newWatchDriver(t, app)

	d.PressKey('s')

	assert.Zero(t, rec.count())
	assert.Contains(t, d.View(), "Offline.")
	assert.Contains(t, d.View(), "OFFLINE")
}

func TestWatchModel_Quit(t *testing.T) {
	app, _ := testApp(t)

	d := newWatchDriver(t, app)
	d.PressKey('q')
	assert.True(t, d.Quitting)

	d = newWatchDriver(t, app)
	d.PressCtrlC()
	assert.True(t, d.Quitting)
}

type fakeWatcher struct {
	started atomic.Bool
	done    chan struct{}
}

func (w *fakeWatcher) Start(ctx context.Context) {
	w.started.Store(true)
	<-ctx.Done()
	close(w.done)
}

func (w *fakeWatcher) Wait() { <-w.done }

func TestSyncWatch_StopsWhenContextEnds(t *testing.T) {
	app, _ := testApp(t)
	w := &fakeWatcher{done: make(chan struct{})}
	app.Monitor = w

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := NewRootCmd(app)
	root.SetArgs([]string{"sync", "watch"})
	var out bytes.Buffer
	root.SetOut(&out)
	require.NoError(t, root.ExecuteContext(ctx))

	assert.True(t, w.started.Load())
	assert.Contains(t, out.String(), "Watching sync queue")
}
