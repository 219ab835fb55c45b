package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/babybond/internal/cli/formatter"
	"github.com/alexanderramin/babybond/internal/syncqueue"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const watchRefreshInterval = time.Second

type watchKeyMap struct {
	Sync key.Binding
	Quit key.Binding
}

func defaultWatchKeyMap() watchKeyMap {
	return watchKeyMap{
		Sync: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync now")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type (
	watchTickMsg  time.Time
	watchStateMsg struct {
		summary formatter.SyncSummary
		err     error
	}
	watchSyncedMsg struct {
		report syncqueue.Report
		err    error
	}
)

// watchModel is the live queue view behind "sync watch" on a terminal.
type watchModel struct {
	ctx  context.Context
	app  *App
	keys watchKeyMap
	spin spinner.Model

	summary  formatter.SyncSummary
	loaded   bool
	syncing  bool
	lastNote string
	err      error
}

func newWatchModel(ctx context.Context, app *App) watchModel {
	return watchModel{
		ctx:  ctx,
		app:  app,
		keys: defaultWatchKeyMap(),
		spin: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.load(), m.tick())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Sync):
			if m.syncing {
				return m, nil
			}
			m.syncing = true
			return m, m.forceSync()
		}
		return m, nil

	case watchTickMsg:
		return m, tea.Batch(m.load(), m.tick())

	case watchStateMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.summary = msg.summary
		}
		return m, nil

	case watchSyncedMsg:
		m.syncing = false
		switch {
		case errors.Is(msg.err, syncqueue.ErrOffline):
			m.lastNote = formatter.StyleYellow.Render("Offline.") + " Changes stay queued until the connection returns."
		case msg.err != nil:
			m.lastNote = formatter.StyleRed.Render("Sync failed: " + msg.err.Error())
		default:
			r := msg.report
			m.lastNote = strings.TrimSpace(formatter.FormatSyncReport(r.Attempted, r.Synced, r.Retried, r.Evicted))
		}
		return m, m.load()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	if !m.loaded {
		return m.spin.View() + " Loading sync queue...\n"
	}

	var b strings.Builder
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	} else {
		b.WriteString(formatter.FormatSyncStatus(m.summary, m.app.now()))
	}
	if m.syncing {
		b.WriteString(m.spin.View() + " Syncing\n")
	} else if m.lastNote != "" {
		b.WriteString(m.lastNote + "\n")
	}

	help := make([]string, 0, 2)
	for _, k := range []key.Binding{m.keys.Sync, m.keys.Quit} {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString(formatter.Dim(strings.Join(help, " · ")) + "\n")
	return b.String()
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(watchRefreshInterval, func(t time.Time) tea.Msg { return watchTickMsg(t) })
}

func (m watchModel) load() tea.Cmd {
	ctx, sync := m.ctx, m.app.Sync
	return func() tea.Msg {
		snap, err := sync.Status(ctx)
		if err != nil {
			return watchStateMsg{err: err}
		}
		items, err := sync.Pending(ctx)
		if err != nil {
			return watchStateMsg{err: err}
		}
		return watchStateMsg{summary: formatter.SyncSummary{
			Status:    snap.Status,
			Online:    snap.Online,
			LastDrain: snap.LastDrain,
			LastError: snap.LastError,
			Items:     items,
		}}
	}
}

func (m watchModel) forceSync() tea.Cmd {
	ctx, sync := m.ctx, m.app.Sync
	return func() tea.Msg {
		report, err := sync.ForceSync(ctx)
		return watchSyncedMsg{report: report, err: err}
	}
}
