package testutil

import (
	"encoding/json"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/google/uuid"
)

// RefTime is the default "now" for fixtures: Wednesday 5 March 2025, 10:00 UTC.
var RefTime = time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

// Profile options
type ProfileOption func(*domain.UserProfile)

func WithPregnancy(due time.Time) ProfileOption {
	return func(p *domain.UserProfile) {
		p.IsPregnant = true
		p.DueDate = &due
		p.BirthDate = nil
	}
}

func WithBirthDate(birth time.Time) ProfileOption {
	return func(p *domain.UserProfile) {
		p.IsPregnant = false
		p.BirthDate = &birth
		p.DueDate = nil
	}
}

func WithTimeAvailability(tier domain.TimeAvailability) ProfileOption {
	return func(p *domain.UserProfile) {
		p.Preferences.TimeAvailability = tier
	}
}

func WithAffinity(a domain.ActivityAffinity) ProfileOption {
	return func(p *domain.UserProfile) {
		p.Preferences.ActivityType = a
	}
}

func WithContentPreferences(types ...domain.ContentType) ProfileOption {
	return func(p *domain.UserProfile) {
		p.Preferences.ContentPreferences = types
	}
}

func WithCulturalPreferences(prefs ...string) ProfileOption {
	return func(p *domain.UserProfile) {
		p.Preferences.CulturalPreferences = prefs
	}
}

func WithOnboarded() ProfileOption {
	return func(p *domain.UserProfile) {
		p.Onboarded = true
	}
}

// NewTestProfile returns a default profile created at RefTime.
func NewTestProfile(opts ...ProfileOption) *domain.UserProfile {
	p := domain.NewDefaultProfile(RefTime)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Template options
type TemplateOption func(*domain.ActivityTemplate)

func WithTemplateType(ct domain.ContentType) TemplateOption {
	return func(t *domain.ActivityTemplate) {
		t.Type = ct
	}
}

func WithTemplateDuration(min int) TemplateOption {
	return func(t *domain.ActivityTemplate) {
		t.DurationMin = min
	}
}

func WithBenefits(benefits ...string) TemplateOption {
	return func(t *domain.ActivityTemplate) {
		t.Benefits = benefits
	}
}

func WithInstructions(steps ...string) TemplateOption {
	return func(t *domain.ActivityTemplate) {
		t.Instructions = steps
	}
}

// NewTestTemplate returns a ten-minute easy educational template.
func NewTestTemplate(id string, group domain.AgeGroup, opts ...TemplateOption) *domain.ActivityTemplate {
	t := &domain.ActivityTemplate{
		ID:           id,
		Title:        "Template " + id,
		Description:  "Test template",
		Instructions: []string{"Hold your baby close", "Talk softly"},
		Type:         domain.ContentEducational,
		AgeGroup:     group,
		DurationMin:  10,
		Difficulty:   domain.DifficultyEasy,
		Benefits:     []string{"Builds bonding"},
		Materials:    []string{},
		Tips:         []string{"Relax"},
		CreatedAt:    RefTime,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Scheduled activity options
type ScheduledOption func(*domain.ScheduledActivity)

func WithPlanID(id string) ScheduledOption {
	return func(s *domain.ScheduledActivity) {
		s.PlanID = id
	}
}

func WithCompleted() ScheduledOption {
	return func(s *domain.ScheduledActivity) {
		s.Completed = true
	}
}

func NewTestScheduled(templateID string, at time.Time, opts ...ScheduledOption) *domain.ScheduledActivity {
	s := &domain.ScheduledActivity{
		ID:          uuid.New().String(),
		TemplateID:  templateID,
		ScheduledAt: at,
		CreatedAt:   RefTime,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewTestHistory(templateID string, at time.Time) *domain.ActivityHistory {
	return &domain.ActivityHistory{
		ID:          uuid.New().String(),
		TemplateID:  templateID,
		CompletedAt: at,
		DurationMin: 10,
		Engagement:  domain.EngagementHigh,
		Photos:      []string{},
	}
}

// Sync item options
type SyncItemOption func(*domain.SyncQueueItem)

func WithPriority(p domain.SyncPriority) SyncItemOption {
	return func(i *domain.SyncQueueItem) {
		i.Priority = p
	}
}

func WithRetries(count, max int) SyncItemOption {
	return func(i *domain.SyncQueueItem) {
		i.RetryCount = count
		i.MaxRetries = max
	}
}

func WithEntity(e domain.SyncEntityType) SyncItemOption {
	return func(i *domain.SyncQueueItem) {
		i.EntityType = e
	}
}

// NewTestSyncItem returns a pending medium-priority progress item.
func NewTestSyncItem(id string, enqueuedAt time.Time, opts ...SyncItemOption) *domain.SyncQueueItem {
	payload, _ := json.Marshal(map[string]string{"id": id})
	i := &domain.SyncQueueItem{
		ID:         id,
		Action:     domain.SyncCreate,
		EntityType: domain.EntityProgress,
		Payload:    payload,
		EnqueuedAt: enqueuedAt,
		Priority:   domain.PriorityMedium,
		MaxRetries: domain.DefaultSyncMaxRetries,
		Status:     domain.SyncItemPending,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}
