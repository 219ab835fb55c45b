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
)

type profileService struct {
	profiles repository.UserProfileRepo
	uow      db.UnitOfWork
	sync     SyncRecorder
	clock    clock.Clock
	observer UseCaseObserver
}

func NewProfileService(
	profiles repository.UserProfileRepo,
	uow db.UnitOfWork,
	sync SyncRecorder,
	clk clock.Clock,
	observers ...UseCaseObserver,
) ProfileService {
	return &profileService{
		profiles: profiles,
		uow:      uow,
		sync:     sync,
		clock:    clock.OrSystem(clk),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *profileService) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	return loadProfile(ctx, s.profiles)
}

// CreateProfile stores a new default profile with patch applied. An existing
// default profile is overwritten.
func (s *profileService) CreateProfile(ctx context.Context, patch domain.ProfilePatch) (p *domain.UserProfile, err error) {
	defer observe(ctx, s.observer, "profile.create", time.Now(), nil, &err)

	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	p = domain.NewDefaultProfile(now)
	patch.Apply(p, now)

	if err := s.save(ctx, p, domain.SyncCreate); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfile merges patch into the stored profile, creating it from
// defaults when none exists.
func (s *profileService) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (p *domain.UserProfile, err error) {
	defer observe(ctx, s.observer, "profile.update", time.Now(), nil, &err)

	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	action := domain.SyncUpdate
	p, err = loadProfile(ctx, s.profiles)
	if errors.Is(err, ErrProfileNotFound) {
		p = domain.NewDefaultProfile(now)
		action = domain.SyncCreate
	} else if err != nil {
		return nil, err
	}
	patch.Apply(p, now)

	if err := s.save(ctx, p, action); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) CompleteOnboarding(ctx context.Context) (p *domain.UserProfile, err error) {
	defer observe(ctx, s.observer, "profile.onboard", time.Now(), nil, &err)

	p, err = loadProfile(ctx, s.profiles)
	if err != nil {
		return nil, err
	}
	p.Onboarded = true
	p.UpdatedAt = s.clock.Now().UTC()

	if err := s.save(ctx, p, domain.SyncUpdate); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *profileService) save(ctx context.Context, p *domain.UserProfile, action domain.SyncAction) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteUserProfileRepo(tx).Put(ctx, p); err != nil {
			return err
		}
		_, err := s.sync.EnqueueTx(ctx, tx, syncqueue.Request{
			Action:     action,
			EntityType: domain.EntityProfile,
			Payload:    p,
			Priority:   domain.PriorityHigh,
		})
		return err
	})
	if err != nil {
		return err
	}
	s.sync.Notify()
	return nil
}

func validatePatch(patch domain.ProfilePatch) error {
	if patch.ActivityType != nil && !patch.ActivityType.Valid() {
		return invalid("activity type %q", *patch.ActivityType)
	}
	if patch.TimeAvailability != nil && !patch.TimeAvailability.Valid() {
		return invalid("time availability %q", *patch.TimeAvailability)
	}
	for _, ct := range patch.ContentPreferences {
		if !ct.Valid() {
			return invalid("content type %q", ct)
		}
	}
	if patch.Timezone != nil && *patch.Timezone != "" {
		if _, err := time.LoadLocation(*patch.Timezone); err != nil {
			return invalid("timezone %q", *patch.Timezone)
		}
	}
	for _, hm := range patch.ReminderTimes {
		if _, err := time.Parse("15:04", hm); err != nil {
			return invalid("reminder time %q", hm)
		}
	}
	if patch.IsPregnant != nil && *patch.IsPregnant && patch.BirthDate != nil {
		return invalid("birth date set on a pregnancy profile")
	}
	return nil
}
