package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
)

type UserProfileRepo interface {
	Get(ctx context.Context, id string) (*domain.UserProfile, error)
	List(ctx context.Context) ([]*domain.UserProfile, error)
	Put(ctx context.Context, p *domain.UserProfile) error
	Delete(ctx context.Context, id string) error
	ListByOnboarded(ctx context.Context, onboarded bool) ([]*domain.UserProfile, error)
}

type TemplateRepo interface {
	Get(ctx context.Context, id string) (*domain.ActivityTemplate, error)
	List(ctx context.Context) ([]*domain.ActivityTemplate, error)
	Put(ctx context.Context, t *domain.ActivityTemplate) error
	Delete(ctx context.Context, id string) error
	ListByAgeGroup(ctx context.Context, group domain.AgeGroup) ([]*domain.ActivityTemplate, error)
	ListByContentType(ctx context.Context, ct domain.ContentType) ([]*domain.ActivityTemplate, error)
	ListByDurationRange(ctx context.Context, minMin, maxMin int) ([]*domain.ActivityTemplate, error)
	Count(ctx context.Context) (int, error)
}

type GeneratedContentRepo interface {
	Get(ctx context.Context, id string) (*domain.GeneratedContent, error)
	List(ctx context.Context) ([]*domain.GeneratedContent, error)
	Put(ctx context.Context, c *domain.GeneratedContent) error
	Delete(ctx context.Context, id string) error
	ListByTemplate(ctx context.Context, templateID string) ([]*domain.GeneratedContent, error)
	ListValidByTemplate(ctx context.Context, templateID string, now time.Time) ([]*domain.GeneratedContent, error)
	ListExpiredBefore(ctx context.Context, t time.Time) ([]*domain.GeneratedContent, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type HistoryRepo interface {
	Get(ctx context.Context, id string) (*domain.ActivityHistory, error)
	List(ctx context.Context) ([]*domain.ActivityHistory, error)
	Put(ctx context.Context, h *domain.ActivityHistory) error
	Delete(ctx context.Context, id string) error
	ListByTemplate(ctx context.Context, templateID string) ([]*domain.ActivityHistory, error)
	ListCompletedBetween(ctx context.Context, from, to time.Time) ([]*domain.ActivityHistory, error)
}

type ScheduledActivityRepo interface {
	Get(ctx context.Context, id string) (*domain.ScheduledActivity, error)
	List(ctx context.Context) ([]*domain.ScheduledActivity, error)
	Put(ctx context.Context, s *domain.ScheduledActivity) error
	Delete(ctx context.Context, id string) error
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.ScheduledActivity, error)
	ListPendingBetween(ctx context.Context, from, to time.Time) ([]*domain.ScheduledActivity, error)
	ListByCompleted(ctx context.Context, completed bool) ([]*domain.ScheduledActivity, error)
	ListByPlan(ctx context.Context, planID string) ([]*domain.ScheduledActivity, error)
	FirstPendingByTemplate(ctx context.Context, templateID string) (*domain.ScheduledActivity, error)
}

type WeeklyPlanRepo interface {
	Get(ctx context.Context, id string) (*domain.WeeklyPlan, error)
	List(ctx context.Context) ([]*domain.WeeklyPlan, error)
	Put(ctx context.Context, p *domain.WeeklyPlan) error
	Delete(ctx context.Context, id string) error
	GetByWeekStart(ctx context.Context, weekStart time.Time) (*domain.WeeklyPlan, error)
}

type SyncQueueRepo interface {
	Get(ctx context.Context, id string) (*domain.SyncQueueItem, error)
	List(ctx context.Context) ([]*domain.SyncQueueItem, error)
	Put(ctx context.Context, item *domain.SyncQueueItem) error
	Delete(ctx context.Context, id string) error
	ListByPriority(ctx context.Context, p domain.SyncPriority) ([]*domain.SyncQueueItem, error)
	ListEnqueuedBetween(ctx context.Context, from, to time.Time) ([]*domain.SyncQueueItem, error)
	ListPending(ctx context.Context) ([]*domain.SyncQueueItem, error)
	MarkSyncing(ctx context.Context, ids []string) error
	ResetInFlight(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

type SyncEvictionRepo interface {
	Put(ctx context.Context, e *domain.SyncEviction) error
	List(ctx context.Context) ([]*domain.SyncEviction, error)
	ListSince(ctx context.Context, since time.Time) ([]*domain.SyncEviction, error)
}
