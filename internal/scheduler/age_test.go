package scheduler

import (
	"testing"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAgeGroupFor(t *testing.T) {
	now := testutil.RefTime
	daysAgo := func(d int) time.Time { return now.AddDate(0, 0, -d) }

	// A stale birth date left on a pregnant profile must not win.
	pregnantWithBirth := testutil.NewTestProfile(testutil.WithPregnancy(now.AddDate(0, 3, 0)))
	staleBirth := daysAgo(200)
	pregnantWithBirth.BirthDate = &staleBirth

	tests := []struct {
		name    string
		profile *domain.UserProfile
		want    domain.AgeGroup
	}{
		{"pregnant", testutil.NewTestProfile(testutil.WithPregnancy(now.AddDate(0, 3, 0))), domain.AgeGroupPrenatal},
		{"pregnant with birth date", pregnantWithBirth, domain.AgeGroupPrenatal},
		{"no dates", testutil.NewTestProfile(), domain.AgeGroupPrenatal},
		{"nil profile", nil, domain.AgeGroupPrenatal},
		{"born today", testutil.NewTestProfile(testutil.WithBirthDate(now)), domain.AgeGroupNewborn},
		{"29 days", testutil.NewTestProfile(testutil.WithBirthDate(daysAgo(29))), domain.AgeGroupNewborn},
		{"30 days", testutil.NewTestProfile(testutil.WithBirthDate(daysAgo(30))), domain.AgeGroup0To3Months},
		{"119 days", testutil.NewTestProfile(testutil.WithBirthDate(daysAgo(119))), domain.AgeGroup0To3Months},
		{"120 days", testutil.NewTestProfile(testutil.WithBirthDate(daysAgo(120))), domain.AgeGroup3To6Months},
		{"209 days", testutil.NewTestProfile(testutil.WithBirthDate(daysAgo(209))), domain.AgeGroup3To6Months},
		{"210 days", testutil.NewTestProfile(testutil.WithBirthDate(daysAgo(210))), domain.AgeGroup6To12Months},
		{"future birth", testutil.NewTestProfile(testutil.WithBirthDate(now.AddDate(0, 0, 10))), domain.AgeGroupNewborn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeGroupFor(tt.profile, now))
		})
	}
}

func TestMaxDurationFor(t *testing.T) {
	assert.Equal(t, 10, MaxDurationFor(domain.TimeBusy))
	assert.Equal(t, 20, MaxDurationFor(domain.TimeModerate))
	assert.Equal(t, 60, MaxDurationFor(domain.TimeFlexible))
	assert.Equal(t, 20, MaxDurationFor("whenever"), "unknown tier falls back to moderate")
}

func TestActivitiesPerDay(t *testing.T) {
	assert.Equal(t, 1, ActivitiesPerDay(domain.TimeBusy))
	assert.Equal(t, 2, ActivitiesPerDay(domain.TimeModerate))
	assert.Equal(t, 3, ActivitiesPerDay(domain.TimeFlexible))
	assert.Equal(t, 2, ActivitiesPerDay(""))
}
