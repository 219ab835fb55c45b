package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSortForDrain_PriorityThenAge(t *testing.T) {
	base := testutil.RefTime
	items := []*domain.SyncQueueItem{
		testutil.NewTestSyncItem("low", base.Add(-time.Hour), testutil.WithPriority(domain.PriorityLow)),
		testutil.NewTestSyncItem("medium-new", base.Add(time.Minute)),
		testutil.NewTestSyncItem("high", base.Add(time.Hour), testutil.WithPriority(domain.PriorityHigh)),
		testutil.NewTestSyncItem("medium-old", base),
	}

	SortForDrain(items)

	assert.Equal(t, []string{"high", "medium-old", "medium-new", "low"}, ids(items))
}

func TestSortForDrain_IDTiebreak(t *testing.T) {
	items := []*domain.SyncQueueItem{
		testutil.NewTestSyncItem("b", testutil.RefTime),
		testutil.NewTestSyncItem("a", testutil.RefTime),
	}

	SortForDrain(items)

	assert.Equal(t, []string{"a", "b"}, ids(items))
}

func TestRankForAffinity(t *testing.T) {
	plain := testutil.NewTestTemplate("plain", domain.AgeGroupNewborn)
	brain := testutil.NewTestTemplate("brain", domain.AgeGroupNewborn, testutil.WithBenefits("Stimulates brain development"))
	calm := testutil.NewTestTemplate("calm", domain.AgeGroupNewborn)
	motor := testutil.NewTestTemplate("motor", domain.AgeGroupNewborn, testutil.WithBenefits("Promotes motor skills"))

	templates := []*domain.ActivityTemplate{plain, brain, calm, motor}
	RankForAffinity(templates, domain.AffinityScience)
	assert.Equal(t, []*domain.ActivityTemplate{brain, motor, plain, calm}, templates)

	balanced := []*domain.ActivityTemplate{plain, brain, calm, motor}
	RankForAffinity(balanced, domain.AffinityBalanced)
	assert.Equal(t, []*domain.ActivityTemplate{plain, brain, calm, motor}, balanced)
}

func ids(items []*domain.SyncQueueItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
