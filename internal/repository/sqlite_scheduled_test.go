package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledActivityRepo_RoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduledActivityRepo(db)
	ctx := context.Background()

	s := testutil.NewTestScheduled("t1", testutil.RefTime.Add(2*time.Hour))
	s.Rescheduled = true
	require.NoError(t, repo.Put(ctx, s))

	got, err := repo.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s, got)
	assert.Empty(t, got.PlanID)
}

func TestScheduledActivityRepo_Queries(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduledActivityRepo(db)
	ctx := context.Background()
	base := testutil.RefTime

	past := testutil.NewTestScheduled("t1", base.Add(-time.Hour))
	soon := testutil.NewTestScheduled("t1", base.Add(time.Hour))
	done := testutil.NewTestScheduled("t2", base.Add(2*time.Hour), testutil.WithCompleted())
	later := testutil.NewTestScheduled("t2", base.Add(72*time.Hour))
	for _, s := range []*domain.ScheduledActivity{later, done, soon, past} {
		require.NoError(t, repo.Put(ctx, s))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{past.ID, soon.ID, done.ID, later.ID}, scheduledIDs(all), "chronological default order")

	window, err := repo.ListBetween(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{soon.ID, done.ID}, scheduledIDs(window))

	pending, err := repo.ListPendingBetween(ctx, base, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{soon.ID}, scheduledIDs(pending))

	completed, err := repo.ListByCompleted(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{done.ID}, scheduledIDs(completed))
}

func TestScheduledActivityRepo_FirstPendingByTemplate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduledActivityRepo(db)
	ctx := context.Background()
	base := testutil.RefTime

	completed := testutil.NewTestScheduled("t1", base.Add(-2*time.Hour), testutil.WithCompleted())
	first := testutil.NewTestScheduled("t1", base.Add(time.Hour))
	second := testutil.NewTestScheduled("t1", base.Add(25*time.Hour))
	for _, s := range []*domain.ScheduledActivity{second, completed, first} {
		require.NoError(t, repo.Put(ctx, s))
	}

	got, err := repo.FirstPendingByTemplate(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	_, err = repo.FirstPendingByTemplate(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduledActivityRepo_UnknownPlanRejected(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteScheduledActivityRepo(db)

	s := testutil.NewTestScheduled("t1", testutil.RefTime, testutil.WithPlanID("no-such-plan"))
	assert.Error(t, repo.Put(context.Background(), s), "plan_id must reference an existing plan")
}

func scheduledIDs(ss []*domain.ScheduledActivity) []string {
	ids := make([]string, len(ss))
	for i, s := range ss {
		ids[i] = s.ID
	}
	return ids
}
