// Package syncqueue holds pending mutations in the local store and delivers
// them to the remote when it is reachable.
package syncqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/babybond/internal/clock"
	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/remote"
	"github.com/alexanderramin/babybond/internal/repository"
	"github.com/alexanderramin/babybond/internal/scheduler"
)

const defaultWorkers = 4

// Report summarises one drain pass.
type Report struct {
	Attempted     int
	Synced        int
	Retried       int
	Evicted       int
	DispatchOrder []string
	Skipped       bool
}

// Snapshot is the queue-wide state shown to users.
type Snapshot struct {
	Status    domain.SyncStatus
	Online    bool
	Pending   int
	LastDrain time.Time
	LastError error
}

// EvictionHook observes items dropped after retry exhaustion. err wraps
// ErrRetryExhausted and the final delivery error.
type EvictionHook func(ctx context.Context, ev *domain.SyncEviction, err error)

// Option configures a Queue.
type Option func(*Queue)

func WithClock(clk clock.Clock) Option {
	return func(q *Queue) { q.clock = clk }
}

func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) { q.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(q *Queue) { q.metrics = m }
}

// WithWorkers bounds concurrent deliveries within one pass.
func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}

// WithMaxRetries sets the retry budget for requests that do not carry one.
func WithMaxRetries(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.maxRetries = n
		}
	}
}

// WithAutoDrain controls whether Notify starts a background drain.
func WithAutoDrain(enabled bool) Option {
	return func(q *Queue) { q.autoDrain = enabled }
}

func WithOnEvicted(hook EvictionHook) Option {
	return func(q *Queue) { q.onEvicted = hook }
}

// WithOnline sets the initial connectivity state.
func WithOnline(online bool) Option {
	return func(q *Queue) { q.online = online }
}

// Queue is the offline sync queue. Drains are serialised: a drain requested
// while another is running returns a skipped report.
type Queue struct {
	repo      repository.SyncQueueRepo
	evictions repository.SyncEvictionRepo
	uow       db.UnitOfWork
	acceptor  remote.Acceptor

	clock      clock.Clock
	logger     *slog.Logger
	metrics    *Metrics
	workers    int
	maxRetries int
	autoDrain  bool
	onEvicted  EvictionHook

	mu        sync.Mutex
	online    bool
	busy      bool
	rerun     bool
	status    domain.SyncStatus
	lastErr   error
	lastDrain time.Time

	bg sync.WaitGroup
}

func New(
	repo repository.SyncQueueRepo,
	evictions repository.SyncEvictionRepo,
	uow db.UnitOfWork,
	acceptor remote.Acceptor,
	opts ...Option,
) *Queue {
	q := &Queue{
		repo:       repo,
		evictions:  evictions,
		uow:        uow,
		acceptor:   acceptor,
		workers:    defaultWorkers,
		maxRetries: domain.DefaultSyncMaxRetries,
		autoDrain:  true,
		online:     true,
		status:     domain.SyncIdle,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.clock = clock.OrSystem(q.clock)
	if q.logger == nil {
		q.logger = slog.Default()
	}
	return q
}

// Enqueue persists a pending mutation and kicks a background drain when
// possible.
func (q *Queue) Enqueue(ctx context.Context, req Request) (*domain.SyncQueueItem, error) {
	item, err := NewItem(req, q.clock.Now(), q.maxRetries)
	if err != nil {
		return nil, err
	}
	if err := q.repo.Put(ctx, item); err != nil {
		return nil, fmt.Errorf("enqueueing %s %s: %w", item.Action, item.EntityType, err)
	}
	q.Notify()
	return item, nil
}

// EnqueueTx writes a pending mutation through the caller's transaction, so
// it commits or rolls back with the change it describes. Call Notify once
// the transaction has committed.
func (q *Queue) EnqueueTx(ctx context.Context, tx db.DBTX, req Request) (*domain.SyncQueueItem, error) {
	item, err := NewItem(req, q.clock.Now(), q.maxRetries)
	if err != nil {
		return nil, err
	}
	if err := repository.NewSQLiteSyncQueueRepo(tx).Put(ctx, item); err != nil {
		return nil, fmt.Errorf("enqueueing %s %s: %w", item.Action, item.EntityType, err)
	}
	return item, nil
}

// Notify starts a background drain if the queue is online and auto-drain
// is enabled.
func (q *Queue) Notify() {
	q.mu.Lock()
	ok := q.online && q.autoDrain
	q.mu.Unlock()
	if ok {
		q.kick()
	}
}

// Wait blocks until background drains started so far have finished.
func (q *Queue) Wait() {
	q.bg.Wait()
}

func (q *Queue) kick() {
	q.bg.Add(1)
	go func() {
		defer q.bg.Done()
		ctx := context.Background()
		if _, err := q.Drain(ctx); err != nil {
			q.logger.ErrorContext(ctx, "background sync drain failed", "error", err)
		}
	}()
}

func (q *Queue) Online() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.online
}

// SetOnline records connectivity. Going online with items waiting starts a
// background drain.
func (q *Queue) SetOnline(ctx context.Context, online bool) {
	q.mu.Lock()
	was := q.online
	q.online = online
	q.mu.Unlock()

	if was == online {
		return
	}
	q.logger.InfoContext(ctx, "sync connectivity changed", "online", online)
	if !online {
		return
	}

	n, err := q.repo.Count(ctx)
	if err != nil {
		q.logger.WarnContext(ctx, "counting sync queue", "error", err)
		return
	}
	if n > 0 {
		q.kick()
	}
}

// ForceSync drains immediately. It fails with ErrOffline while offline.
func (q *Queue) ForceSync(ctx context.Context) (Report, error) {
	if !q.Online() {
		return Report{}, ErrOffline
	}
	return q.Drain(ctx)
}

func (q *Queue) Status(ctx context.Context) (Snapshot, error) {
	n, err := q.repo.Count(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("counting sync queue: %w", err)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return Snapshot{
		Status:    q.status,
		Online:    q.online,
		Pending:   n,
		LastDrain: q.lastDrain,
		LastError: q.lastErr,
	}, nil
}

// Pending lists queued items in drain order.
func (q *Queue) Pending(ctx context.Context) ([]*domain.SyncQueueItem, error) {
	return q.repo.List(ctx)
}

// Evictions lists dropped items, most recent first.
func (q *Queue) Evictions(ctx context.Context) ([]*domain.SyncEviction, error) {
	return q.evictions.List(ctx)
}

// Drain runs one delivery pass over every pending item.
func (q *Queue) Drain(ctx context.Context) (Report, error) {
	if !q.begin() {
		return Report{Skipped: true}, nil
	}

	start := time.Now()
	report, err := q.drain(ctx)
	q.metrics.observeDrain(time.Since(start).Seconds())
	if q.finish(err) {
		q.kick()
	}

	if err != nil {
		return report, err
	}
	if report.Attempted > 0 {
		q.logger.InfoContext(ctx, "sync drain finished",
			"attempted", report.Attempted,
			"synced", report.Synced,
			"retried", report.Retried,
			"evicted", report.Evicted,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return report, nil
}

// begin claims the drain slot. A trigger that finds a pass running is
// remembered so the pass is followed by another one.
func (q *Queue) begin() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.busy {
		q.rerun = true
		return false
	}
	q.busy = true
	q.rerun = false
	q.status = domain.SyncSyncing
	return true
}

// finish releases the drain slot and reports whether a follow-up pass is
// owed to a trigger that arrived mid-pass.
func (q *Queue) finish(err error) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.busy = false
	q.lastDrain = q.clock.Now()
	q.lastErr = err
	if err != nil {
		q.status = domain.SyncError
	} else {
		q.status = domain.SyncIdle
	}
	again := q.rerun && err == nil && q.online && q.autoDrain
	q.rerun = false
	return again
}

func (q *Queue) drain(ctx context.Context) (Report, error) {
	items, err := q.claim(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("claiming sync items: %w", err)
	}

	report := Report{Attempted: len(items)}
	if len(items) > 0 {
		var results []error
		results, report.DispatchOrder = q.dispatch(ctx, items)

		cancelled := ctx.Err() != nil
		// Settle outcomes even if the caller has given up; deliveries that
		// already succeeded must not be retried.
		sctx := context.WithoutCancel(ctx)
		for i, item := range items {
			if err := q.settle(sctx, item, results[i], cancelled, &report); err != nil {
				return report, err
			}
		}
	}

	if n, err := q.repo.Count(context.WithoutCancel(ctx)); err == nil {
		q.metrics.setPending(n)
	}
	return report, nil
}

// claim recovers items stranded by an interrupted pass, then marks every
// pending item as in flight and returns them in drain order.
func (q *Queue) claim(ctx context.Context) ([]*domain.SyncQueueItem, error) {
	var items []*domain.SyncQueueItem
	err := q.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteSyncQueueRepo(tx)

		recovered, err := repo.ResetInFlight(ctx)
		if err != nil {
			return err
		}
		if recovered > 0 {
			q.logger.DebugContext(ctx, "recovered in-flight sync items", "count", recovered)
		}

		pending, err := repo.ListPending(ctx)
		if err != nil {
			return err
		}
		scheduler.SortForDrain(pending)

		ids := make([]string, len(pending))
		for i, item := range pending {
			ids[i] = item.ID
		}
		if err := repo.MarkSyncing(ctx, ids); err != nil {
			return err
		}
		items = pending
		return nil
	})
	return items, err
}

// dispatch delivers items on a bounded pool of workers. Items are handed
// out in slice order, which is also the returned dispatch order.
func (q *Queue) dispatch(ctx context.Context, items []*domain.SyncQueueItem) ([]error, []string) {
	results := make([]error, len(items))
	order := make([]string, 0, len(items))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(q.workers, len(items)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = q.acceptor.Accept(ctx, remote.MutationFromItem(items[i]))
			}
		}()
	}
	for i, item := range items {
		order = append(order, item.ID)
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results, order
}

func (q *Queue) settle(ctx context.Context, item *domain.SyncQueueItem, deliveryErr error, cancelled bool, report *Report) error {
	if deliveryErr == nil {
		if err := q.repo.Delete(ctx, item.ID); err != nil {
			return fmt.Errorf("removing synced item %s: %w", item.ID, err)
		}
		report.Synced++
		q.metrics.recordSynced()
		return nil
	}

	// An attempt cut short by the caller does not count against the item.
	if cancelled && (errors.Is(deliveryErr, context.Canceled) || errors.Is(deliveryErr, context.DeadlineExceeded)) {
		item.Status = domain.SyncItemPending
		if err := q.repo.Put(ctx, item); err != nil {
			return fmt.Errorf("releasing sync item %s: %w", item.ID, err)
		}
		return nil
	}

	if !item.RecordFailure(deliveryErr) {
		if err := q.repo.Put(ctx, item); err != nil {
			return fmt.Errorf("requeueing sync item %s: %w", item.ID, err)
		}
		report.Retried++
		q.metrics.recordRetried()
		q.logger.DebugContext(ctx, "sync delivery failed, will retry",
			"id", item.ID,
			"attempt", item.RetryCount,
			"max_retries", item.MaxRetries,
			"error", deliveryErr,
		)
		return nil
	}

	return q.evict(ctx, item, deliveryErr, report)
}

func (q *Queue) evict(ctx context.Context, item *domain.SyncQueueItem, deliveryErr error, report *Report) error {
	ev := domain.NewSyncEviction(item, q.clock.Now())
	err := q.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteSyncQueueRepo(tx).Delete(ctx, item.ID); err != nil {
			return err
		}
		return repository.NewSQLiteSyncEvictionRepo(tx).Put(ctx, ev)
	})
	if err != nil {
		return fmt.Errorf("evicting sync item %s: %w", item.ID, err)
	}

	report.Evicted++
	q.metrics.recordEvicted()

	exhausted := fmt.Errorf("%w: %s %s %s after %d attempts: %w",
		ErrRetryExhausted, item.Action, item.EntityType, item.ID, item.RetryCount, deliveryErr)
	q.logger.WarnContext(ctx, "sync item evicted",
		"id", item.ID,
		"action", item.Action,
		"entity_type", item.EntityType,
		"attempts", item.RetryCount,
		"error", deliveryErr,
	)
	if q.onEvicted != nil {
		q.onEvicted(ctx, ev, exhausted)
	}
	return nil
}
