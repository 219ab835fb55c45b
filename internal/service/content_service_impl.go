package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/alexanderramin/babybond/internal/clock"
	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/repository"
	"github.com/google/uuid"
)

// DefaultContentTTL is how long personalised content stays servable.
const DefaultContentTTL = 7 * 24 * time.Hour

const generalCulture = "general"

var babyReference = regexp.MustCompile(`(?i)\b(?:your\s+child|(?:your\s+)?baby)\b`)

var encouragements = map[domain.ContentType][]string{
	domain.ContentStories: {
		"Reading to your baby helps build language skills from the very beginning!",
		"Your voice is the most beautiful sound your baby knows.",
		"Every story you share creates lasting memories and bonds.",
	},
	domain.ContentSongs: {
		"Singing to your baby promotes brain development and emotional bonding.",
		"Don't worry about being perfect - your baby loves your voice!",
		"Music helps regulate emotions and creates joyful moments together.",
	},
	domain.ContentMovement: {
		"Gentle movement helps develop your baby's motor skills and coordination.",
		"Moving together strengthens your bond and promotes healthy development.",
		"Every gentle stretch and movement supports your baby's growth.",
	},
	domain.ContentEducational: {
		"These activities support your baby's cognitive development in fun ways.",
		"Learning happens naturally through play and interaction.",
		"You're giving your baby the best start through loving engagement.",
	},
	domain.ContentSensory: {
		"Sensory experiences help build important neural pathways.",
		"Your baby is discovering the world through safe, loving exploration.",
		"These gentle activities support healthy sensory development.",
	},
	domain.ContentMeditation: {
		"Taking time for mindfulness benefits both you and your baby.",
		"Peaceful moments together create a foundation of calm and security.",
		"Your relaxed state helps your baby feel safe and loved.",
	},
}

// ContentConfig controls personalised content expiry and selection.
type ContentConfig struct {
	TTL time.Duration
	// Rand picks among cached items and encouragement messages. Nil always
	// picks the first.
	Rand Rand
}

type contentService struct {
	content  repository.GeneratedContentRepo
	profiles repository.UserProfileRepo
	catalog  TemplateSource
	clock    clock.Clock
	ttl      time.Duration
	rng      Rand
	observer UseCaseObserver
}

func NewContentService(
	content repository.GeneratedContentRepo,
	profiles repository.UserProfileRepo,
	templates TemplateSource,
	clk clock.Clock,
	cfg ContentConfig,
	observers ...UseCaseObserver,
) ContentService {
	s := &contentService{
		content:  content,
		profiles: profiles,
		catalog:  templates,
		clock:    clock.OrSystem(clk),
		ttl:      cfg.TTL,
		observer: useCaseObserverOrNoop(observers),
	}
	if s.ttl <= 0 {
		s.ttl = DefaultContentTTL
	}
	if cfg.Rand != nil {
		s.rng = &lockedRand{rng: cfg.Rand}
	}
	return s
}

// Personalize serves a still-valid cached rendering of the template, or
// builds and stores a fresh one for the current profile.
func (s *contentService) Personalize(ctx context.Context, templateID string) (c *domain.GeneratedContent, err error) {
	fields := map[string]any{"template_id": templateID}
	defer observe(ctx, s.observer, "content.personalize", time.Now(), fields, &err)

	tmpl, err := s.catalog.Get(templateID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	cached, err := s.content.ListValidByTemplate(ctx, templateID, now)
	if err != nil {
		return nil, err
	}
	if len(cached) > 0 {
		fields["cached"] = true
		return cached[s.pick(len(cached))], nil
	}

	profile, err := loadProfile(ctx, s.profiles)
	if errors.Is(err, ErrProfileNotFound) {
		profile = domain.NewDefaultProfile(now)
	} else if err != nil {
		return nil, err
	}

	c = s.build(tmpl, profile, now)
	if err := s.content.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CleanupExpired purges content whose expiry has passed.
func (s *contentService) CleanupExpired(ctx context.Context) (n int, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "content.cleanup", time.Now(), fields, &err)

	n, err = s.content.DeleteExpired(ctx, s.clock.Now())
	fields["purged"] = n
	return n, err
}

func (s *contentService) build(t *domain.ActivityTemplate, p *domain.UserProfile, now time.Time) *domain.GeneratedContent {
	instructions := make([]string, len(t.Instructions))
	for i, step := range t.Instructions {
		instructions[i] = personalizeStep(step, p.IsPregnant)
	}

	messages, ok := encouragements[t.Type]
	if !ok {
		messages = encouragements[domain.ContentEducational]
	}

	culture := generalCulture
	if len(p.Preferences.CulturalPreferences) > 0 {
		culture = p.Preferences.CulturalPreferences[0]
	}

	return &domain.GeneratedContent{
		ID:          uuid.New().String(),
		TemplateID:  t.ID,
		ContentType: domain.GeneratedInstructions,
		Data: domain.PersonalizedData{
			Title:                t.Title,
			Description:          t.Description,
			Instructions:         instructions,
			Tips:                 append([]string{}, t.Tips...),
			Benefits:             append([]string{}, t.Benefits...),
			EstimatedDurationMin: t.DurationMin,
			PersonalizedMessage:  messages[s.pick(len(messages))],
		},
		GeneratedAt:     now,
		ExpiresAt:       now.Add(s.ttl),
		CulturalContext: culture,
		Language:        p.Language,
		Personalized:    true,
	}
}

func (s *contentService) pick(n int) int {
	if s.rng == nil || n <= 1 {
		return 0
	}
	return s.rng.IntN(n)
}

// personalizeStep rewrites references to the baby for the parent's stage.
func personalizeStep(step string, pregnant bool) string {
	replacement := "your baby"
	if pregnant {
		replacement = "your little one"
	}
	return babyReference.ReplaceAllStringFunc(step, func(match string) string {
		if r := match[0]; r >= 'A' && r <= 'Z' {
			return "Y" + replacement[1:]
		}
		return replacement
	})
}
