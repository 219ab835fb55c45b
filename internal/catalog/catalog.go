// Package catalog holds the activity template catalog: the built-in corpus,
// its one-time seeding into the store, and the filtered views the plan
// generator draws from.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/babybond/internal/clock"
	"github.com/alexanderramin/babybond/internal/db"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/repository"
	"github.com/alexanderramin/babybond/internal/scheduler"
)

// ErrNotLoaded is returned by lookups made before Load succeeded.
var ErrNotLoaded = errors.New("catalog not loaded")

// Filter narrows an age group's templates to what fits a profile.
type Filter struct {
	ContentTypes   []domain.ContentType
	MaxDurationMin int
	Affinity       domain.ActivityAffinity
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithSeed overrides the corpus written into an empty store.
func WithSeed(templates []*domain.ActivityTemplate) Option {
	return func(c *Catalog) { c.seed = templates }
}

func WithClock(clk clock.Clock) Option {
	return func(c *Catalog) { c.clock = clk }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) { c.logger = logger }
}

// Catalog caches the store's templates. It is safe for concurrent use.
type Catalog struct {
	repo   repository.TemplateRepo
	uow    db.UnitOfWork
	seed   []*domain.ActivityTemplate
	clock  clock.Clock
	logger *slog.Logger

	mu        sync.RWMutex
	loaded    bool
	templates []*domain.ActivityTemplate
	byID      map[string]*domain.ActivityTemplate
}

func New(repo repository.TemplateRepo, uow db.UnitOfWork, opts ...Option) *Catalog {
	c := &Catalog{repo: repo, uow: uow}
	for _, opt := range opts {
		opt(c)
	}
	c.clock = clock.OrSystem(c.clock)
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Load reads the templates from the store, seeding an empty store with the
// built-in corpus first.
func (c *Catalog) Load(ctx context.Context) error {
	templates, err := c.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	if len(templates) == 0 {
		if err := c.seedStore(ctx); err != nil {
			return err
		}
		if templates, err = c.repo.List(ctx); err != nil {
			return fmt.Errorf("reloading catalog: %w", err)
		}
	}

	byID := make(map[string]*domain.ActivityTemplate, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}

	c.mu.Lock()
	c.templates = templates
	c.byID = byID
	c.loaded = true
	c.mu.Unlock()
	return nil
}

func (c *Catalog) seedStore(ctx context.Context) error {
	seed := c.seed
	if seed == nil {
		var err error
		if seed, err = SeedTemplates(); err != nil {
			return err
		}
	}

	now := c.clock.Now().Truncate(time.Second)
	err := c.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRepo := repository.NewSQLiteTemplateRepo(tx)
		for _, t := range seed {
			cp := *t
			if cp.CreatedAt.IsZero() {
				cp.CreatedAt = now
			}
			if err := txRepo.Put(ctx, &cp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seeding catalog: %w", err)
	}
	c.logger.InfoContext(ctx, "seeded activity catalog", "templates", len(seed))
	return nil
}

// All returns every template ordered by id.
func (c *Catalog) All() []*domain.ActivityTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.templates)
}

func (c *Catalog) Get(id string) (*domain.ActivityTemplate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, ErrNotLoaded
	}
	t, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("template %s: %w", id, repository.ErrNotFound)
	}
	return t, nil
}

// ByAgeGroup returns the templates of exactly one age group.
func (c *Catalog) ByAgeGroup(group domain.AgeGroup) []*domain.ActivityTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*domain.ActivityTemplate
	for _, t := range c.templates {
		if t.AgeGroup == group {
			out = append(out, t)
		}
	}
	return out
}

// ByPreferences applies, in order: the age group, the duration cap, the
// content allow-list (ignored when empty), and the affinity ranking. An
// empty result is valid.
func (c *Catalog) ByPreferences(group domain.AgeGroup, f Filter) []*domain.ActivityTemplate {
	var out []*domain.ActivityTemplate
	for _, t := range c.ByAgeGroup(group) {
		if t.DurationMin > f.MaxDurationMin {
			continue
		}
		if len(f.ContentTypes) > 0 && !slices.Contains(f.ContentTypes, t.Type) {
			continue
		}
		out = append(out, t)
	}
	scheduler.RankForAffinity(out, f.Affinity)
	return out
}

// FilterFor derives the catalog filter a profile implies.
func FilterFor(p *domain.UserProfile) Filter {
	return Filter{
		ContentTypes:   p.Preferences.ContentPreferences,
		MaxDurationMin: scheduler.MaxDurationFor(p.Preferences.TimeAvailability),
		Affinity:       p.Preferences.ActivityType,
	}
}
