package syncqueue

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/babybond/internal/remote"
)

// Monitor probes the remote on an interval and feeds the result to the
// queue's connectivity state.
type Monitor struct {
	queue            *Queue
	prober           remote.Prober
	interval         time.Duration
	logger           *slog.Logger
	shutdownComplete chan struct{}
}

func NewMonitor(q *Queue, prober remote.Prober, interval time.Duration, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		queue:            q,
		prober:           prober,
		interval:         interval,
		logger:           logger,
		shutdownComplete: make(chan struct{}),
	}
}

// Check probes once and updates the queue. It reports reachability.
func (m *Monitor) Check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, m.interval)
	err := m.prober.Probe(pctx)
	cancel()

	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		m.logger.DebugContext(ctx, "remote probe failed", "error", err)
	}
	m.queue.SetOnline(ctx, err == nil)
	return err == nil
}

// Start probes immediately and then on every tick until ctx is done. It
// should be called in a goroutine.
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer func() {
		ticker.Stop()
		close(m.shutdownComplete)
	}()

	for {
		m.Check(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Wait waits until the monitor stops.
func (m *Monitor) Wait() {
	<-m.shutdownComplete
}
