package service

import (
	"context"
	"time"

	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/syncqueue"
)

type ProfileService interface {
	GetProfile(ctx context.Context) (*domain.UserProfile, error)
	CreateProfile(ctx context.Context, patch domain.ProfilePatch) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (*domain.UserProfile, error)
	CompleteOnboarding(ctx context.Context) (*domain.UserProfile, error)
}

type PlanService interface {
	GenerateWeeklyPlan(ctx context.Context, profile *domain.UserProfile) (*domain.WeeklyPlan, error)
	CurrentPlan(ctx context.Context) (*domain.WeeklyPlan, error)
	PlanForWeek(ctx context.Context, t time.Time) (*domain.WeeklyPlan, error)
}

// CompleteRequest records one finished activity.
type CompleteRequest struct {
	TemplateID  string
	DurationMin int
	Engagement  domain.Engagement
	Notes       string
	Photos      []string
	Rating      *int
}

type ActivityService interface {
	CompleteActivity(ctx context.Context, req CompleteRequest) (*domain.ActivityHistory, error)
	RescheduleActivity(ctx context.Context, id string, at time.Time) (*domain.ScheduledActivity, error)
	UpcomingActivities(ctx context.Context, horizonDays int) ([]*domain.ScheduledActivity, error)
	TodaysActivities(ctx context.Context) ([]*domain.ScheduledActivity, error)
	History(ctx context.Context) ([]*domain.ActivityHistory, error)
	HistoryBetween(ctx context.Context, from, to time.Time) ([]*domain.ActivityHistory, error)
}

type ContentService interface {
	Personalize(ctx context.Context, templateID string) (*domain.GeneratedContent, error)
	CleanupExpired(ctx context.Context) (int, error)
}

// SyncRecorder queues outbound mutations through a service transaction.
// *syncqueue.Queue implements it.
type SyncRecorder interface {
	EnqueueTx(ctx context.Context, tx db.DBTX, req syncqueue.Request) (*domain.SyncQueueItem, error)
	Notify()
}
