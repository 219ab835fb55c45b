package domain

import "time"

// DefaultProfileID is the identifier of the single local profile.
const DefaultProfileID = "default-user"

// UserProfile describes the parent (or expecting parent) the plan is built
// for. Exactly one of DueDate and BirthDate is meaningful, selected by
// IsPregnant.
type UserProfile struct {
	ID          string
	IsPregnant  bool
	DueDate     *time.Time
	BirthDate   *time.Time
	Preferences Preferences
	Timezone    string
	Language    string
	Onboarded   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Preferences struct {
	ActivityType        ActivityAffinity `json:"activityType"`
	TimeAvailability    TimeAvailability `json:"timeAvailability"`
	CulturalPreferences []string         `json:"culturalPreferences"`
	ContentPreferences  []ContentType    `json:"contentPreferences"`
	Reminders           ReminderSettings `json:"reminderSettings"`
	Language            string           `json:"language"`
}

type ReminderSettings struct {
	Enabled        bool       `json:"enabled"`
	Frequency      string     `json:"frequency"`
	PreferredTimes []string   `json:"preferredTimes"`
	QuietHours     QuietHours `json:"quietHours"`
}

type QuietHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewDefaultProfile returns the profile a fresh install starts from.
func NewDefaultProfile(now time.Time) *UserProfile {
	return &UserProfile{
		ID:       DefaultProfileID,
		Language: "en",
		Preferences: Preferences{
			ActivityType:        AffinityBalanced,
			TimeAvailability:    TimeModerate,
			CulturalPreferences: []string{},
			ContentPreferences:  []ContentType{},
			Reminders: ReminderSettings{
				Enabled:        true,
				Frequency:      "daily",
				PreferredTimes: []string{"09:00", "15:00"},
				QuietHours:     QuietHours{Start: "22:00", End: "07:00"},
			},
			Language: "en",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ReferenceDate returns the date that drives age bucketing: the due date
// while pregnant, the birth date otherwise.
func (p *UserProfile) ReferenceDate() *time.Time {
	if p.IsPregnant {
		return p.DueDate
	}
	return p.BirthDate
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	IsPregnant          *bool
	DueDate             *time.Time
	BirthDate           *time.Time
	ActivityType        *ActivityAffinity
	TimeAvailability    *TimeAvailability
	CulturalPreferences []string
	ContentPreferences  []ContentType
	RemindersEnabled    *bool
	ReminderTimes       []string
	Timezone            *string
	Language            *string
}

// Apply merges the patch into p and stamps UpdatedAt.
func (patch ProfilePatch) Apply(p *UserProfile, now time.Time) {
	p.IsPregnant = valueOr(patch.IsPregnant, p.IsPregnant)
	if patch.DueDate != nil {
		d := patch.DueDate.UTC()
		p.DueDate = &d
	}
	if patch.BirthDate != nil {
		d := patch.BirthDate.UTC()
		p.BirthDate = &d
	}
	if patch.ActivityType != nil {
		p.Preferences.ActivityType = *patch.ActivityType
	}
	if patch.TimeAvailability != nil {
		p.Preferences.TimeAvailability = *patch.TimeAvailability
	}
	if patch.CulturalPreferences != nil {
		p.Preferences.CulturalPreferences = append([]string(nil), patch.CulturalPreferences...)
	}
	if patch.ContentPreferences != nil {
		p.Preferences.ContentPreferences = append([]ContentType(nil), patch.ContentPreferences...)
	}
	p.Preferences.Reminders.Enabled = valueOr(patch.RemindersEnabled, p.Preferences.Reminders.Enabled)
	if patch.ReminderTimes != nil {
		p.Preferences.Reminders.PreferredTimes = append([]string(nil), patch.ReminderTimes...)
	}
	p.Timezone = valueOr(patch.Timezone, p.Timezone)
	// An empty language keeps the current one.
	if patch.Language != nil && *patch.Language != "" {
		p.Language = *patch.Language
		p.Preferences.Language = p.Language
	}
	p.UpdatedAt = now
}

// Empty reports whether the patch changes nothing.
func (patch ProfilePatch) Empty() bool {
	return patch.IsPregnant == nil && patch.DueDate == nil && patch.BirthDate == nil &&
		patch.ActivityType == nil && patch.TimeAvailability == nil &&
		patch.CulturalPreferences == nil && patch.ContentPreferences == nil &&
		patch.RemindersEnabled == nil && patch.ReminderTimes == nil &&
		patch.Timezone == nil && patch.Language == nil
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
