package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/babybond/internal/clock"
	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/repository"
	"github.com/alexanderramin/babybond/internal/syncqueue"
	"github.com/google/uuid"
)

const defaultUpcomingDays = 7

type activityService struct {
	scheduled repository.ScheduledActivityRepo
	history   repository.HistoryRepo
	uow       db.UnitOfWork
	sync      SyncRecorder
	clock     clock.Clock
	loc       *time.Location
	observer  UseCaseObserver
}

// NewActivityService builds the completion tracker. loc defines "today";
// nil means UTC.
func NewActivityService(
	scheduled repository.ScheduledActivityRepo,
	history repository.HistoryRepo,
	uow db.UnitOfWork,
	sync SyncRecorder,
	clk clock.Clock,
	loc *time.Location,
	observers ...UseCaseObserver,
) ActivityService {
	if loc == nil {
		loc = time.UTC
	}
	return &activityService{
		scheduled: scheduled,
		history:   history,
		uow:       uow,
		sync:      sync,
		clock:     clock.OrSystem(clk),
		loc:       loc,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// CompleteActivity appends a history record and marks the earliest pending
// instance of the template completed, if there is one.
func (s *activityService) CompleteActivity(ctx context.Context, req CompleteRequest) (h *domain.ActivityHistory, err error) {
	fields := map[string]any{"template_id": req.TemplateID}
	defer observe(ctx, s.observer, "activity.complete", time.Now(), fields, &err)

	if err := validateCompletion(req); err != nil {
		return nil, err
	}

	photos := req.Photos
	if photos == nil {
		photos = []string{}
	}
	h = &domain.ActivityHistory{
		ID:          uuid.New().String(),
		TemplateID:  req.TemplateID,
		CompletedAt: s.clock.Now().UTC(),
		DurationMin: req.DurationMin,
		Engagement:  req.Engagement,
		Notes:       req.Notes,
		Photos:      photos,
		Rating:      req.Rating,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txScheduled := repository.NewSQLiteScheduledActivityRepo(tx)

		instance, err := txScheduled.FirstPendingByTemplate(ctx, req.TemplateID)
		switch {
		case err == nil:
			instance.Completed = true
			if err := txScheduled.Put(ctx, instance); err != nil {
				return err
			}
			fields["instance_id"] = instance.ID
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		if err := repository.NewSQLiteHistoryRepo(tx).Put(ctx, h); err != nil {
			return err
		}
		_, err = s.sync.EnqueueTx(ctx, tx, syncqueue.Request{
			Action:     domain.SyncCreate,
			EntityType: domain.EntityProgress,
			Payload:    h,
			Priority:   domain.PriorityMedium,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.sync.Notify()
	return h, nil
}

func (s *activityService) RescheduleActivity(ctx context.Context, id string, at time.Time) (a *domain.ScheduledActivity, err error) {
	defer observe(ctx, s.observer, "activity.reschedule", time.Now(), map[string]any{"instance_id": id}, &err)

	if at.IsZero() {
		return nil, invalid("reschedule time is required")
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txScheduled := repository.NewSQLiteScheduledActivityRepo(tx)
		a, err = txScheduled.Get(ctx, id)
		if err != nil {
			return err
		}
		a.Reschedule(at.UTC())
		if err := txScheduled.Put(ctx, a); err != nil {
			return err
		}
		_, err = s.sync.EnqueueTx(ctx, tx, syncqueue.Request{
			Action:     domain.SyncUpdate,
			EntityType: domain.EntitySchedule,
			Payload:    a,
			Priority:   domain.PriorityLow,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.sync.Notify()
	return a, nil
}

// UpcomingActivities lists pending instances in [now, now+horizonDays],
// soonest first. A non-positive horizon means seven days.
func (s *activityService) UpcomingActivities(ctx context.Context, horizonDays int) ([]*domain.ScheduledActivity, error) {
	if horizonDays <= 0 {
		horizonDays = defaultUpcomingDays
	}
	now := s.clock.Now()
	return s.scheduled.ListPendingBetween(ctx, now, now.AddDate(0, 0, horizonDays))
}

// TodaysActivities lists every instance, completed or not, falling on the
// current local day.
func (s *activityService) TodaysActivities(ctx context.Context) ([]*domain.ScheduledActivity, error) {
	local := s.clock.Now().In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return s.scheduled.ListBetween(ctx, start, end)
}

func (s *activityService) History(ctx context.Context) ([]*domain.ActivityHistory, error) {
	return s.history.List(ctx)
}

func (s *activityService) HistoryBetween(ctx context.Context, from, to time.Time) ([]*domain.ActivityHistory, error) {
	if to.Before(from) {
		return nil, invalid("range end %s before start %s", to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	return s.history.ListCompletedBetween(ctx, from, to)
}

func validateCompletion(req CompleteRequest) error {
	if req.TemplateID == "" {
		return invalid("template id is required")
	}
	if req.DurationMin < 0 {
		return invalid("duration %d", req.DurationMin)
	}
	if !req.Engagement.Valid() {
		return invalid("engagement %q", req.Engagement)
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return invalid("rating %d out of range 1-5", *req.Rating)
	}
	return nil
}
