package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/babybond/internal/catalog"
	"github.com/alexanderramin/babybond/internal/clock"
	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/repository"
	"github.com/alexanderramin/babybond/internal/scheduler"
	"github.com/alexanderramin/babybond/internal/syncqueue"
	"github.com/google/uuid"
)

// TemplateSource is the read side of the activity catalog.
type TemplateSource interface {
	Get(id string) (*domain.ActivityTemplate, error)
	ByPreferences(group domain.AgeGroup, f catalog.Filter) []*domain.ActivityTemplate
}

// PlanConfig controls week boundaries and slot randomness.
type PlanConfig struct {
	FirstDay time.Weekday
	// Location is where weeks and slots are computed. Nil means UTC.
	Location *time.Location
	// Rand drives the per-day shuffle. Nil keeps catalog order.
	Rand Rand
}

type planService struct {
	plans    repository.WeeklyPlanRepo
	profiles repository.UserProfileRepo
	catalog  TemplateSource
	uow      db.UnitOfWork
	sync     SyncRecorder
	clock    clock.Clock
	cfg      PlanConfig
	rng      scheduler.Shuffler
	observer UseCaseObserver
}

func NewPlanService(
	plans repository.WeeklyPlanRepo,
	profiles repository.UserProfileRepo,
	templates TemplateSource,
	uow db.UnitOfWork,
	sync SyncRecorder,
	clk clock.Clock,
	cfg PlanConfig,
	observers ...UseCaseObserver,
) PlanService {
	s := &planService{
		plans:    plans,
		profiles: profiles,
		catalog:  templates,
		uow:      uow,
		sync:     sync,
		clock:    clock.OrSystem(clk),
		cfg:      cfg,
		observer: useCaseObserverOrNoop(observers),
	}
	if cfg.Rand != nil {
		s.rng = &lockedRand{rng: cfg.Rand}
	}
	return s
}

// GenerateWeeklyPlan returns the plan for the current week, building and
// storing one if none exists. A nil profile loads the stored profile.
func (s *planService) GenerateWeeklyPlan(ctx context.Context, profile *domain.UserProfile) (plan *domain.WeeklyPlan, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "plan.generate", time.Now(), fields, &err)

	if profile == nil {
		if profile, err = loadProfile(ctx, s.profiles); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now().UTC()
	weekStart := scheduler.WeekStart(now, s.cfg.FirstDay, s.cfg.Location)
	key := weekStart.UTC()
	fields["week_start"] = key.Format(time.DateOnly)

	existing, err := s.plans.GetByWeekStart(ctx, key)
	if err == nil {
		fields["existing"] = true
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	group := scheduler.AgeGroupFor(profile, now)
	fields["age_group"] = string(group)
	templates := s.catalog.ByPreferences(group, catalog.FilterFor(profile))
	if len(templates) == 0 {
		return nil, fmt.Errorf("%w for age group %s", ErrNoSuitableActivities, group)
	}

	perDay := scheduler.ActivitiesPerDay(profile.Preferences.TimeAvailability)
	placements := scheduler.BuildWeek(templates, weekStart, now, perDay, s.rng)

	plan = &domain.WeeklyPlan{
		ID:          uuid.New().String(),
		WeekStart:   key,
		Activities:  make([]domain.ScheduledActivity, 0, len(placements)),
		GeneratedAt: now,
	}
	for _, p := range placements {
		plan.Activities = append(plan.Activities, domain.ScheduledActivity{
			ID:          uuid.New().String(),
			PlanID:      plan.ID,
			TemplateID:  p.TemplateID,
			ScheduledAt: p.At,
			CreatedAt:   now,
		})
	}
	fields["activities"] = len(plan.Activities)

	created := false
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLiteWeeklyPlanRepo(tx)
		txScheduled := repository.NewSQLiteScheduledActivityRepo(tx)

		// Another generator may have committed since the first lookup.
		winner, err := txPlans.GetByWeekStart(ctx, key)
		if err == nil {
			plan = winner
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if err := txPlans.Put(ctx, plan); err != nil {
			return err
		}
		for i := range plan.Activities {
			if err := txScheduled.Put(ctx, &plan.Activities[i]); err != nil {
				return err
			}
		}
		if _, err := s.sync.EnqueueTx(ctx, tx, syncqueue.Request{
			Action:     domain.SyncCreate,
			EntityType: domain.EntitySchedule,
			Payload:    plan,
			Priority:   domain.PriorityLow,
		}); err != nil {
			return err
		}
		created = true
		return nil
	})
	if db.IsUniqueViolation(err) {
		return s.plans.GetByWeekStart(ctx, key)
	}
	if err != nil {
		return nil, fmt.Errorf("storing weekly plan: %w", err)
	}
	if created {
		s.sync.Notify()
	}
	return plan, nil
}

// CurrentPlan returns this week's plan, or repository.ErrNotFound.
func (s *planService) CurrentPlan(ctx context.Context) (*domain.WeeklyPlan, error) {
	return s.PlanForWeek(ctx, s.clock.Now())
}

// PlanForWeek returns the plan of the week containing t.
func (s *planService) PlanForWeek(ctx context.Context, t time.Time) (*domain.WeeklyPlan, error) {
	key := scheduler.WeekStart(t, s.cfg.FirstDay, s.cfg.Location).UTC()
	return s.plans.GetByWeekStart(ctx, key)
}
