package syncqueue

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/remote"
	"github.com/alexanderramin/babybond/internal/repository"
	"github.com/alexanderramin/babybond/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAcceptor records deliveries and fails the ids listed in failures.
type fakeAcceptor struct {
	mu       sync.Mutex
	failures map[string]error
	calls    []string
}

func (f *fakeAcceptor) Accept(_ context.Context, m remote.Mutation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, m.ID)
	return f.failures[m.ID]
}

func (f *fakeAcceptor) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type queueFixture struct {
	db      *sql.DB
	repo    *repository.SQLiteSyncQueueRepo
	queue   *Queue
	metrics *Metrics
}

func newQueueFixture(t *testing.T, acc remote.Acceptor, opts ...Option) *queueFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLiteSyncQueueRepo(database)
	metrics := NewMetrics(prometheus.NewRegistry())
	base := []Option{
		WithAutoDrain(false),
		WithClock(testutil.NewFixedClock(testutil.RefTime)),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(metrics),
	}
	q := New(repo, repository.NewSQLiteSyncEvictionRepo(database), testutil.NewTestUoW(database), acc, append(base, opts...)...)
	return &queueFixture{db: database, repo: repo, queue: q, metrics: metrics}
}

func (f *queueFixture) put(t *testing.T, items ...*domain.SyncQueueItem) {
	t.Helper()
	for _, item := range items {
		require.NoError(t, f.repo.Put(context.Background(), item))
	}
}

func TestDrain_DeliversInPriorityOrder(t *testing.T) {
	acc := &fakeAcceptor{}
	f := newQueueFixture(t, acc, WithWorkers(1))
	base := testutil.RefTime
	f.put(t,
		testutil.NewTestSyncItem("low", base, testutil.WithPriority(domain.PriorityLow)),
		testutil.NewTestSyncItem("medium", base.Add(time.Minute)),
		testutil.NewTestSyncItem("high-late", base.Add(2*time.Minute), testutil.WithPriority(domain.PriorityHigh)),
		testutil.NewTestSyncItem("high-early", base.Add(time.Minute), testutil.WithPriority(domain.PriorityHigh)),
	)

	report, err := f.queue.Drain(context.Background())
	require.NoError(t, err)

	want := []string{"high-early", "high-late", "medium", "low"}
	assert.Equal(t, want, report.DispatchOrder)
	assert.Equal(t, want, acc.Calls())
	assert.Equal(t, 4, report.Attempted)
	assert.Equal(t, 4, report.Synced)

	n, err := f.repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 4.0, promtestutil.ToFloat64(f.metrics.synced))
	assert.Equal(t, 0.0, promtestutil.ToFloat64(f.metrics.pending))
}

func TestDrain_FailureIsRetriedAndIsolated(t *testing.T) {
	acc := &fakeAcceptor{failures: map[string]error{"bad": remote.ErrUnreachable}}
	f := newQueueFixture(t, acc)
	f.put(t,
		testutil.NewTestSyncItem("bad", testutil.RefTime),
		testutil.NewTestSyncItem("good", testutil.RefTime.Add(time.Second)),
	)

	report, err := f.queue.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Synced)
	assert.Equal(t, 1, report.Retried)

	bad, err := f.repo.Get(context.Background(), "bad")
	require.NoError(t, err)
	assert.Equal(t, 1, bad.RetryCount)
	assert.Equal(t, domain.SyncItemPending, bad.Status)
	assert.Contains(t, bad.LastError, "remote unreachable")

	_, err = f.repo.Get(context.Background(), "good")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(f.metrics.retried))
}

func TestDrain_EvictsAfterMaxRetries(t *testing.T) {
	acc := &fakeAcceptor{failures: map[string]error{"doomed": &remote.RejectedError{Status: 500}}}

	var hookCalls []error
	var evicted []*domain.SyncEviction
	hook := func(_ context.Context, ev *domain.SyncEviction, err error) {
		evicted = append(evicted, ev)
		hookCalls = append(hookCalls, err)
	}
	f := newQueueFixture(t, acc, WithOnEvicted(hook))
	f.put(t, testutil.NewTestSyncItem("doomed", testutil.RefTime, testutil.WithRetries(0, 3)))
	ctx := context.Background()

	for pass := 1; pass <= 2; pass++ {
		report, err := f.queue.Drain(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Retried, "pass %d", pass)
	}

	report, err := f.queue.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Evicted)
	assert.Zero(t, report.Retried)

	_, err = f.repo.Get(ctx, "doomed")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	ledger, err := f.queue.Evictions(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "doomed", ledger[0].ItemID)
	assert.Equal(t, 3, ledger[0].RetryCount)
	assert.Equal(t, testutil.RefTime, ledger[0].EvictedAt)

	require.Len(t, hookCalls, 1)
	assert.ErrorIs(t, hookCalls[0], ErrRetryExhausted)
	var rejected *remote.RejectedError
	assert.ErrorAs(t, hookCalls[0], &rejected)
	assert.Equal(t, "doomed", evicted[0].ItemID)
	assert.Equal(t, 1.0, promtestutil.ToFloat64(f.metrics.evicted))

	snap, err := f.queue.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.SyncIdle, snap.Status, "eviction is not a pass failure")
}

// blockingAcceptor holds every delivery until release is closed.
type blockingAcceptor struct {
	entered  chan struct{}
	release  chan struct{}
	inFlight atomic.Int32
	peak     atomic.Int32
}

func newBlockingAcceptor() *blockingAcceptor {
	return &blockingAcceptor{entered: make(chan struct{}, 16), release: make(chan struct{})}
}

func (b *blockingAcceptor) Accept(ctx context.Context, _ remote.Mutation) error {
	n := b.inFlight.Add(1)
	defer b.inFlight.Add(-1)
	for {
		peak := b.peak.Load()
		if n <= peak || b.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	b.entered <- struct{}{}
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestDrain_OverlappingPassIsSkipped(t *testing.T) {
	acc := newBlockingAcceptor()
	f := newQueueFixture(t, acc)
	f.put(t, testutil.NewTestSyncItem("slow", testutil.RefTime))

	done := make(chan Report)
	go func() {
		report, _ := f.queue.Drain(context.Background())
		done <- report
	}()
	<-acc.entered

	report, err := f.queue.Drain(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Skipped)

	close(acc.release)
	first := <-done
	assert.False(t, first.Skipped)
	assert.Equal(t, 1, first.Synced)
}

func TestDrain_TriggerDuringPassRunsAgain(t *testing.T) {
	acc := newBlockingAcceptor()
	f := newQueueFixture(t, acc, WithAutoDrain(true))
	ctx := context.Background()
	f.put(t, testutil.NewTestSyncItem("first", testutil.RefTime))
	f.queue.Notify()
	<-acc.entered

	// Queued after the running pass claimed its batch.
	f.put(t, testutil.NewTestSyncItem("second", testutil.RefTime.Add(time.Minute)))
	report, err := f.queue.Drain(ctx)
	require.NoError(t, err)
	assert.True(t, report.Skipped)

	close(acc.release)
	f.queue.Wait()

	n, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "the late item is delivered without another trigger")
}

func TestDrain_NoFollowUpWithoutAutoDrain(t *testing.T) {
	acc := newBlockingAcceptor()
	f := newQueueFixture(t, acc)
	ctx := context.Background()
	f.put(t, testutil.NewTestSyncItem("first", testutil.RefTime))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.queue.Drain(ctx)
	}()
	<-acc.entered

	f.put(t, testutil.NewTestSyncItem("second", testutil.RefTime.Add(time.Minute)))
	report, err := f.queue.Drain(ctx)
	require.NoError(t, err)
	assert.True(t, report.Skipped)

	close(acc.release)
	<-done
	f.queue.Wait()

	n, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "manual queues drain only when asked")
}

func TestDrain_WorkerBound(t *testing.T) {
	acc := newBlockingAcceptor()
	f := newQueueFixture(t, acc, WithWorkers(2))
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		f.put(t, testutil.NewTestSyncItem(id, testutil.RefTime))
	}

	done := make(chan Report)
	go func() {
		report, _ := f.queue.Drain(context.Background())
		done <- report
	}()
	<-acc.entered
	<-acc.entered
	close(acc.release)

	report := <-done
	assert.Equal(t, 5, report.Synced)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, report.DispatchOrder)
	assert.LessOrEqual(t, acc.peak.Load(), int32(2))
}

func TestDrain_CancelledAttemptIsNotCounted(t *testing.T) {
	acc := newBlockingAcceptor()
	f := newQueueFixture(t, acc)
	f.put(t, testutil.NewTestSyncItem("interrupted", testutil.RefTime))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Report)
	go func() {
		report, _ := f.queue.Drain(ctx)
		done <- report
	}()
	<-acc.entered
	cancel()
	report := <-done

	assert.Zero(t, report.Retried)
	item, err := f.repo.Get(context.Background(), "interrupted")
	require.NoError(t, err)
	assert.Zero(t, item.RetryCount)
	assert.Equal(t, domain.SyncItemPending, item.Status)
}

func TestDrain_RecoversStrandedItems(t *testing.T) {
	acc := &fakeAcceptor{}
	f := newQueueFixture(t, acc)
	stranded := testutil.NewTestSyncItem("stranded", testutil.RefTime)
	stranded.Status = domain.SyncItemSyncing
	f.put(t, stranded)

	report, err := f.queue.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Synced)
}

func TestDrain_StoreFailureSetsErrorStatus(t *testing.T) {
	f := newQueueFixture(t, &fakeAcceptor{})
	require.NoError(t, f.db.Close())

	_, err := f.queue.Drain(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrStoreUnavailable)

	f.queue.mu.Lock()
	defer f.queue.mu.Unlock()
	assert.Equal(t, domain.SyncError, f.queue.status)
	assert.Error(t, f.queue.lastErr)
}

func TestForceSync_Offline(t *testing.T) {
	f := newQueueFixture(t, &fakeAcceptor{}, WithOnline(false))

	_, err := f.queue.ForceSync(context.Background())
	assert.ErrorIs(t, err, ErrOffline)
}

func TestSetOnline_TransitionDrainsPending(t *testing.T) {
	acc := &fakeAcceptor{}
	f := newQueueFixture(t, acc, WithOnline(false))
	ctx := context.Background()
	f.put(t, testutil.NewTestSyncItem("waiting", testutil.RefTime))

	f.queue.SetOnline(ctx, true)
	f.queue.Wait()

	assert.Equal(t, []string{"waiting"}, acc.Calls())
	n, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f.queue.SetOnline(ctx, true)
	f.queue.Wait()
	assert.Len(t, acc.Calls(), 1, "no transition, no drain")
}

func TestEnqueue_AutoDrain(t *testing.T) {
	acc := &fakeAcceptor{}
	f := newQueueFixture(t, acc, WithAutoDrain(true))
	ctx := context.Background()

	item, err := f.queue.Enqueue(ctx, Request{
		Action:     domain.SyncUpdate,
		EntityType: domain.EntityProfile,
		Payload:    map[string]string{"language": "es"},
		Priority:   domain.PriorityHigh,
	})
	require.NoError(t, err)
	f.queue.Wait()

	assert.Equal(t, []string{item.ID}, acc.Calls())
}

func TestEnqueue_OfflineStaysQueued(t *testing.T) {
	acc := &fakeAcceptor{}
	f := newQueueFixture(t, acc, WithAutoDrain(true), WithOnline(false))
	ctx := context.Background()

	item, err := f.queue.Enqueue(ctx, Request{Action: domain.SyncCreate, EntityType: domain.EntityProgress, Payload: 1})
	require.NoError(t, err)
	f.queue.Wait()

	assert.Empty(t, acc.Calls())
	got, err := f.repo.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, got.Priority)
	assert.Equal(t, domain.DefaultSyncMaxRetries, got.MaxRetries)
	assert.Equal(t, testutil.RefTime, got.EnqueuedAt)
}

func TestEnqueueTx_RollsBackWithCaller(t *testing.T) {
	f := newQueueFixture(t, &fakeAcceptor{})
	ctx := context.Background()
	boom := errors.New("boom")

	err := testutil.NewTestUoW(f.db).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := f.queue.EnqueueTx(ctx, tx, Request{Action: domain.SyncCreate, EntityType: domain.EntitySchedule}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := f.repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
