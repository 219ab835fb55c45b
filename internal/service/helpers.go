package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/repository"
	"github.com/alexanderramin/babybond/internal/scheduler"
)

// loadProfile returns the default profile, else the first stored one.
func loadProfile(ctx context.Context, profiles repository.UserProfileRepo) (*domain.UserProfile, error) {
	p, err := profiles.Get(ctx, domain.DefaultProfileID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	all, err := profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, ErrProfileNotFound
	}
	return all[0], nil
}

// Rand is the randomness services draw from. *math/rand/v2.Rand satisfies it.
type Rand interface {
	scheduler.Shuffler
	IntN(n int) int
}

// lockedRand serialises access to a Rand that is not safe for concurrent use.
type lockedRand struct {
	mu  sync.Mutex
	rng Rand
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rng.Shuffle(n, swap)
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.IntN(n)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
