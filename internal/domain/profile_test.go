package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultProfile(t *testing.T) {
	now := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	p := NewDefaultProfile(now)

	assert.Equal(t, DefaultProfileID, p.ID)
	assert.False(t, p.Onboarded)
	assert.Equal(t, AffinityBalanced, p.Preferences.ActivityType)
	assert.Equal(t, TimeModerate, p.Preferences.TimeAvailability)
	assert.True(t, p.Preferences.Reminders.Enabled)
	assert.Equal(t, []string{"09:00", "15:00"}, p.Preferences.Reminders.PreferredTimes)
	assert.Equal(t, QuietHours{Start: "22:00", End: "07:00"}, p.Preferences.Reminders.QuietHours)
	assert.Equal(t, "en", p.Language)
	assert.Equal(t, now, p.CreatedAt)
}

func TestReferenceDate_FollowsPregnancyFlag(t *testing.T) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	birth := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	p := &UserProfile{IsPregnant: true, DueDate: &due, BirthDate: &birth}

	assert.Equal(t, &due, p.ReferenceDate())

	p.IsPregnant = false
	assert.Equal(t, &birth, p.ReferenceDate())
}

func TestProfilePatch_Apply(t *testing.T) {
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := created.Add(48 * time.Hour)
	p := NewDefaultProfile(created)

	pregnant := true
	due := time.Date(2025, 8, 20, 0, 0, 0, 0, time.UTC)
	tier := TimeBusy
	lang := "es"
	patch := ProfilePatch{
		IsPregnant:          &pregnant,
		DueDate:             &due,
		TimeAvailability:    &tier,
		CulturalPreferences: []string{"latin"},
		Language:            &lang,
	}
	assert.False(t, patch.Empty())
	patch.Apply(p, now)

	assert.True(t, p.IsPregnant)
	assert.Equal(t, due, *p.DueDate)
	assert.Equal(t, TimeBusy, p.Preferences.TimeAvailability)
	assert.Equal(t, AffinityBalanced, p.Preferences.ActivityType, "untouched fields keep their value")
	assert.Equal(t, []string{"latin"}, p.Preferences.CulturalPreferences)
	assert.Equal(t, "es", p.Language)
	assert.Equal(t, "es", p.Preferences.Language)
	assert.Equal(t, created, p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)

	// The stored date must not alias the caller's value.
	due = due.AddDate(0, 1, 0)
	assert.NotEqual(t, due, *p.DueDate)
}

func TestProfilePatch_Empty(t *testing.T) {
	assert.True(t, ProfilePatch{}.Empty())
}
