package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/alexanderramin/babybond/internal/catalog"
	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/remote"
	"github.com/alexanderramin/babybond/internal/repository"
	"github.com/alexanderramin/babybond/internal/syncqueue"
	"github.com/alexanderramin/babybond/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db        *sql.DB
	uow       db.UnitOfWork
	clock     *testutil.FixedClock
	profiles  *repository.SQLiteUserProfileRepo
	plans     *repository.SQLiteWeeklyPlanRepo
	scheduled *repository.SQLiteScheduledActivityRepo
	history   *repository.SQLiteHistoryRepo
	content   *repository.SQLiteGeneratedContentRepo
	syncItems *repository.SQLiteSyncQueueRepo
	catalog   *catalog.Catalog
	queue     *syncqueue.Queue
}

// newFixture wires the services' collaborators over an in-memory store.
// The queue never drains on its own. A nil seed uses two prenatal and two
// newborn templates.
func newFixture(t *testing.T, seed []*domain.ActivityTemplate) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	clk := testutil.NewFixedClock(testutil.RefTime)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if seed == nil {
		seed = []*domain.ActivityTemplate{
			testutil.NewTestTemplate("prenatal-a", domain.AgeGroupPrenatal),
			testutil.NewTestTemplate("prenatal-b", domain.AgeGroupPrenatal, testutil.WithTemplateType(domain.ContentSongs)),
			testutil.NewTestTemplate("newborn-a", domain.AgeGroupNewborn),
			testutil.NewTestTemplate("newborn-b", domain.AgeGroupNewborn),
		}
	}
	cat := catalog.New(repository.NewSQLiteTemplateRepo(database), uow,
		catalog.WithSeed(seed), catalog.WithClock(clk), catalog.WithLogger(logger))
	require.NoError(t, cat.Load(context.Background()))

	syncItems := repository.NewSQLiteSyncQueueRepo(database)
	accept := remote.AcceptorFunc(func(context.Context, remote.Mutation) error { return nil })
	queue := syncqueue.New(syncItems, repository.NewSQLiteSyncEvictionRepo(database), uow, accept,
		syncqueue.WithAutoDrain(false), syncqueue.WithClock(clk), syncqueue.WithLogger(logger))

	return &fixture{
		db:        database,
		uow:       uow,
		clock:     clk,
		profiles:  repository.NewSQLiteUserProfileRepo(database),
		plans:     repository.NewSQLiteWeeklyPlanRepo(database),
		scheduled: repository.NewSQLiteScheduledActivityRepo(database),
		history:   repository.NewSQLiteHistoryRepo(database),
		content:   repository.NewSQLiteGeneratedContentRepo(database),
		syncItems: syncItems,
		catalog:   cat,
		queue:     queue,
	}
}

// pendingSync returns the queued mutations as "action/entity/priority".
func (f *fixture) pendingSync(t *testing.T) []string {
	t.Helper()
	items, err := f.syncItems.List(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(items))
	for _, i := range items {
		out = append(out, string(i.Action)+"/"+string(i.EntityType)+"/"+string(i.Priority))
	}
	return out
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) Events() []UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]UseCaseEvent(nil), o.events...)
}

func TestLoadProfile_PrefersDefaultID(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	other := testutil.NewTestProfile()
	other.ID = "another"
	require.NoError(t, f.profiles.Put(ctx, other))

	got, err := loadProfile(ctx, f.profiles)
	require.NoError(t, err)
	assert.Equal(t, "another", got.ID, "falls back to the first stored profile")

	require.NoError(t, f.profiles.Put(ctx, testutil.NewTestProfile()))
	got, err = loadProfile(ctx, f.profiles)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProfileID, got.ID)
}

func TestLoadProfile_Empty(t *testing.T) {
	f := newFixture(t, nil)
	_, err := loadProfile(context.Background(), f.profiles)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestNewLogUseCaseObserver_NilLoggerIsNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestLogUseCaseObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "plan.generate", Fields: map[string]any{"tier": "busy", "activities": 3}})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "activity.complete", Err: invalid("rating must be between 1 and 5")})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "profile.update", Err: errors.New("disk full")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "level=INFO")
	assert.Contains(t, lines[0], "activities=3 tier=busy", "fields are sorted by key")
	assert.Contains(t, lines[1], "level=WARN")
	assert.Contains(t, lines[2], "level=ERROR")
	assert.Contains(t, lines[2], `error="disk full"`)
}

func TestUseCaseObserverOrNoop_FansOut(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}
	obs := useCaseObserverOrNoop([]UseCaseObserver{a, nil, b})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "x"})

	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
}
