package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/babybond/internal/catalog"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/remote"
	"github.com/alexanderramin/babybond/internal/repository"
	"github.com/alexanderramin/babybond/internal/service"
	"github.com/alexanderramin/babybond/internal/syncqueue"
	"github.com/alexanderramin/babybond/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRemote struct {
	mu   sync.Mutex
	seen []remote.Mutation
	err  error
}

func (r *recordingRemote) Accept(_ context.Context, m remote.Mutation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, m)
	return r.err
}

func (r *recordingRemote) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

// testApp wires a full App backed by an in-memory DB for CLI integration
// tests. The queue only drains when asked to.
func testApp(t *testing.T, queueOpts ...syncqueue.Option) (*App, *recordingRemote) {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	clk := testutil.NewFixedClock(testutil.RefTime)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cat := catalog.New(repository.NewSQLiteTemplateRepo(database), uow,
		catalog.WithSeed([]*domain.ActivityTemplate{
			testutil.NewTestTemplate("prenatal-a", domain.AgeGroupPrenatal),
			testutil.NewTestTemplate("prenatal-b", domain.AgeGroupPrenatal, testutil.WithTemplateType(domain.ContentSongs)),
			testutil.NewTestTemplate("newborn-a", domain.AgeGroupNewborn),
		}),
		catalog.WithClock(clk), catalog.WithLogger(logger))
	require.NoError(t, cat.Load(context.Background()))

	rec := &recordingRemote{}
	opts := append([]syncqueue.Option{
		syncqueue.WithAutoDrain(false),
		syncqueue.WithClock(clk),
		syncqueue.WithLogger(logger),
	}, queueOpts...)
	queue := syncqueue.New(repository.NewSQLiteSyncQueueRepo(database),
		repository.NewSQLiteSyncEvictionRepo(database), uow, rec, opts...)

	profiles := repository.NewSQLiteUserProfileRepo(database)
	scheduled := repository.NewSQLiteScheduledActivityRepo(database)

	return &App{
		Profiles: service.NewProfileService(profiles, uow, queue, clk),
		Plans: service.NewPlanService(repository.NewSQLiteWeeklyPlanRepo(database), profiles, cat, uow, queue, clk,
			service.PlanConfig{FirstDay: time.Sunday, Location: time.UTC}),
		Activities: service.NewActivityService(scheduled, repository.NewSQLiteHistoryRepo(database), uow, queue, clk, time.UTC),
		Content: service.NewContentService(repository.NewSQLiteGeneratedContentRepo(database), profiles, cat, clk,
			service.ContentConfig{}),
		Catalog:  cat,
		Sync:     queue,
		Clock:    clk,
		Location: time.UTC,
	}, rec
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func createPregnantProfile(t *testing.T, app *App) {
	t.Helper()
	_, err := executeCmd(t, app, "profile", "create", "--due", "2025-06-01", "--time", "moderate")
	require.NoError(t, err)
}

// --- Profile ---

func TestProfileShow_NoProfile(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "profile", "show")
	assert.ErrorIs(t, err, service.ErrProfileNotFound)
}

func TestProfileCreate_WithFlags(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "profile", "create", "--due", "2025-06-01", "--time", "busy", "--approach", "science")
	require.NoError(t, err)
	assert.Contains(t, out, "Prenatal, due Jun 1, 2025")
	assert.Contains(t, out, "science")

	p, err := app.Profiles.GetProfile(context.Background())
	require.NoError(t, err)
	assert.True(t, p.IsPregnant)
	assert.Equal(t, domain.TimeBusy, p.Preferences.TimeAvailability)
}

func TestProfileCreate_NoFlagsNonInteractiveUsesDefaults(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "profile", "create")
	require.NoError(t, err)

	p, err := app.Profiles.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProfileID, p.ID)
	assert.Equal(t, domain.TimeModerate, p.Preferences.TimeAvailability)
}

func TestProfileCreate_BadDate(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "profile", "create", "--due", "06/01/2025")
	assert.Error(t, err)
}

func TestProfileUpdate_RequiresAFlag(t *testing.T) {
	app, _ := testApp(t)
	createPregnantProfile(t, app)

	_, err := executeCmd(t, app, "profile", "update")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestProfileUpdate_BirthSwitchesStage(t *testing.T) {
	app, _ := testApp(t)
	createPregnantProfile(t, app)

	out, err := executeCmd(t, app, "profile", "update", "--birth", "2025-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Newborn")

	p, err := app.Profiles.GetProfile(context.Background())
	require.NoError(t, err)
	assert.False(t, p.IsPregnant)
}

func TestProfileOnboard(t *testing.T) {
	app, _ := testApp(t)
	createPregnantProfile(t, app)

	out, err := executeCmd(t, app, "profile", "onboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Onboarding complete")

	p, err := app.Profiles.GetProfile(context.Background())
	require.NoError(t, err)
	assert.True(t, p.Onboarded)
}

// --- Plan ---

func TestPlanShow_NoPlanYet(t *testing.T) {
	app, _ := testApp(t)
	createPregnantProfile(t, app)

	out, err := executeCmd(t, app, "plan", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No plan for that week")
}

func TestPlanGenerate_ThenShow(t *testing.T) {
	app, _ := testApp(t)
	createPregnantProfile(t, app)

	out, err := executeCmd(t, app, "plan", "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "WEEK OF MAR 2")
	assert.Contains(t, out, "Template prenatal-")
	assert.NotContains(t, out, "Template newborn-a")

	out, err = executeCmd(t, app, "plan", "show", "--week", "2025-03-07")
	require.NoError(t, err)
	assert.Contains(t, out, "WEEK OF MAR 2")
}

func TestPlanGenerate_WithoutProfile(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "plan", "generate")
	assert.ErrorIs(t, err, service.ErrProfileNotFound)
}

// --- Activity ---

func TestActivityComplete_RecordsHistory(t *testing.T) {
	app, _ := testApp(t)
	createPregnantProfile(t, app)
	_, err := executeCmd(t, app, "plan", "generate")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "activity", "complete", "prenatal-a", "--engagement", "high", "--rating", "4", "--notes", "lovely")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged 10m of Template prenatal-a")

	out, err = executeCmd(t, app, "activity", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Template prenatal-a")
	assert.Contains(t, out, "lovely")

	hist, err := app.Activities.History(context.Background())
	require.NoError(t, err)
	require.Len(t, hist, 1)
	require.NotNil(t, hist[0].Rating)
	assert.Equal(t, 4, *hist[0].Rating)
	assert.Equal(t, domain.EngagementHigh, hist[0].Engagement)
}

func TestActivityComplete_Invalid(t *testing.T) {
	app, _ := testApp(t)
	createPregnantProfile(t, app)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown template", []string{"activity", "complete", "nope"}},
		{"bad engagement", []string{"activity", "complete", "prenatal-a", "--engagement", "wild"}},
		{"rating out of range", []string{"activity", "complete", "prenatal-a", "--rating", "9"}},
		{"missing template", []string{"activity", "complete"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, app, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestActivityHistory_Range(t *testing.T) {
	app, _ := testApp(t)
	createPregnantProfile(t, app)
	_, err := executeCmd(t, app, "activity", "complete", "prenatal-a")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "activity", "history", "--from", "2025-03-05", "--to", "2025-03-05")
	require.NoError(t, err)
	assert.Contains(t, out, "Template prenatal-a")

	out, err = executeCmd(t, app, "activity", "history", "--from", "2025-03-06", "--to", "2025-03-08")
	require.NoError(t, err)
	assert.Contains(t, out, "No completed activities yet")

	_, err = executeCmd(t, app, "activity", "history", "--from", "2025-03-08", "--to", "2025-03-06")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestActivityTodayAndUpcoming(t *testing.T) {
	app, _ := testApp(t)
	createPregnantProfile(t, app)
	plan, err := app.Plans.GenerateWeeklyPlan(context.Background(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, plan.Activities)

	// A mid-week plan starts tomorrow.
	out, err := executeCmd(t, app, "activity", "today")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing scheduled.")

	_, err = executeCmd(t, app, "activity", "reschedule", plan.Activities[0].ID, "--at", "2025-03-05 18:00")
	require.NoError(t, err)
	out, err = executeCmd(t, app, "activity", "today")
	require.NoError(t, err)
	assert.Contains(t, out, "Wed Mar 5")

	out, err = executeCmd(t, app, "activity", "upcoming", "--days", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "NEXT 2 DAYS")
	assert.Contains(t, out, "Template prenatal-")
}

func TestActivityReschedule(t *testing.T) {
	app, _ := testApp(t)
	createPregnantProfile(t, app)
	plan, err := app.Plans.GenerateWeeklyPlan(context.Background(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, plan.Activities)
	id := plan.Activities[0].ID

	out, err := executeCmd(t, app, "activity", "reschedule", id, "--at", "2025-03-07 18:30")
	require.NoError(t, err)
	assert.Contains(t, out, "Fri Mar 7 18:30")

	_, err = executeCmd(t, app, "activity", "reschedule", id)
	assert.Error(t, err, "--at is required")

	_, err = executeCmd(t, app, "activity", "reschedule", "missing", "--at", "2025-03-07 18:30")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// --- Catalog and content ---

func TestCatalogList(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Template prenatal-a")
	assert.Contains(t, out, "Template newborn-a")

	out, err = executeCmd(t, app, "catalog", "list", "--age", "newborn")
	require.NoError(t, err)
	assert.Contains(t, out, "Template newborn-a")
	assert.NotContains(t, out, "Template prenatal-a")

	_, err = executeCmd(t, app, "catalog", "list", "--age", "teen")
	assert.Error(t, err)
}

func TestContentShow_PersonalizesSteps(t *testing.T) {
	app, _ := testApp(t)
	createPregnantProfile(t, app)

	out, err := executeCmd(t, app, "content", "show", "prenatal-a")
	require.NoError(t, err)
	assert.Contains(t, out, "Hold your little one close")

	out, err = executeCmd(t, app, "content", "cleanup")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 expired guide(s).")
}

// --- Sync ---

func TestSyncStatusAndNow(t *testing.T) {
	app, rec := testApp(t)
	createPregnantProfile(t, app)

	out, err := executeCmd(t, app, "sync", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "profile")
	assert.Contains(t, out, "create")

	out, err = executeCmd(t, app, "sync", "now")
	require.NoError(t, err)
	assert.Contains(t, out, "Sent 1 changes")
	assert.Equal(t, 1, rec.count())

	out, err = executeCmd(t, app, "sync", "now")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to sync.")
}

func TestSyncNow_Offline(t *testing.T) {
	app, rec := testApp(t, syncqueue.WithOnline(false))
	createPregnantProfile(t, app)

	out, err := executeCmd(t, app, "sync", "now")
	require.NoError(t, err)
	assert.Contains(t, out, "Offline.")
	assert.Zero(t, rec.count())

	out, err = executeCmd(t, app, "sync", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "OFFLINE")
}

func TestSyncEvictions(t *testing.T) {
	app, rec := testApp(t, syncqueue.WithMaxRetries(1))
	rec.err = errors.New("remote rejected")
	createPregnantProfile(t, app)

	out, err := executeCmd(t, app, "sync", "evictions")
	require.NoError(t, err)
	assert.Contains(t, out, "No changes have been dropped.")

	_, err = executeCmd(t, app, "sync", "now")
	require.NoError(t, err)

	out, err = executeCmd(t, app, "sync", "evictions")
	require.NoError(t, err)
	assert.Contains(t, out, "remote rejected")
}
