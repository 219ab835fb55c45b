package service

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/repository"
	"github.com/alexanderramin/babybond/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentService(f *fixture, cfg ContentConfig) ContentService {
	return NewContentService(f.content, f.profiles, f.catalog, f.clock, cfg)
}

func TestPersonalizeStep(t *testing.T) {
	tests := []struct {
		step     string
		pregnant bool
		want     string
	}{
		{"Talk to baby softly", true, "Talk to your little one softly"},
		{"Talk to your baby softly", true, "Talk to your little one softly"},
		{"Rock your child gently", false, "Rock your baby gently"},
		{"Hold your baby close", false, "Hold your baby close"},
		{"Baby will enjoy the rhythm", true, "Your little one will enjoy the rhythm"},
		{"Watch your baby's reactions", false, "Watch your baby's reactions"},
		{"Babysitters welcome", false, "Babysitters welcome"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, personalizeStep(tt.step, tt.pregnant), tt.step)
	}
}

func TestPersonalize_BuildsFromTemplateAndProfile(t *testing.T) {
	f := newFixture(t, []*domain.ActivityTemplate{
		testutil.NewTestTemplate("prenatal-a", domain.AgeGroupPrenatal,
			testutil.WithTemplateType(domain.ContentSongs),
			testutil.WithInstructions("Sing to baby", "Rest a hand on your belly"),
			testutil.WithBenefits("Bonding", "Calm")),
	})
	ctx := context.Background()
	require.NoError(t, f.profiles.Put(ctx, testutil.NewTestProfile(
		testutil.WithPregnancy(testutil.RefTime.AddDate(0, 3, 0)),
		testutil.WithCulturalPreferences("lullabies-es", "nordic"),
	)))
	svc := newContentService(f, ContentConfig{Rand: rand.New(rand.NewPCG(7, 7))})

	c, err := svc.Personalize(ctx, "prenatal-a")
	require.NoError(t, err)

	assert.Equal(t, domain.GeneratedInstructions, c.ContentType)
	assert.True(t, c.Personalized)
	assert.Equal(t, "lullabies-es", c.CulturalContext)
	assert.Equal(t, "en", c.Language)
	assert.Equal(t, testutil.RefTime, c.GeneratedAt)
	assert.Equal(t, testutil.RefTime.Add(DefaultContentTTL), c.ExpiresAt)
	assert.Equal(t, []string{"Sing to your little one", "Rest a hand on your belly"}, c.Data.Instructions)
	assert.Equal(t, []string{"Bonding", "Calm"}, c.Data.Benefits)
	assert.Equal(t, 10, c.Data.EstimatedDurationMin)
	assert.Contains(t, encouragements[domain.ContentSongs], c.Data.PersonalizedMessage)

	stored, err := f.content.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Data, stored.Data)
}

func TestPersonalize_ReusesValidCache(t *testing.T) {
	f := newFixture(t, nil)
	svc := newContentService(f, ContentConfig{TTL: time.Hour})
	ctx := context.Background()

	first, err := svc.Personalize(ctx, "prenatal-a")
	require.NoError(t, err)
	assert.Equal(t, generalCulture, first.CulturalContext, "no profile falls back to defaults")

	f.clock.Advance(30 * time.Minute)
	again, err := svc.Personalize(ctx, "prenatal-a")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	f.clock.Advance(30 * time.Minute)
	fresh, err := svc.Personalize(ctx, "prenatal-a")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, fresh.ID, "content expiring exactly now is not served")
}

func TestPersonalize_UnknownTemplate(t *testing.T) {
	f := newFixture(t, nil)
	_, err := newContentService(f, ContentConfig{}).Personalize(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCleanupExpired(t *testing.T) {
	f := newFixture(t, nil)
	svc := newContentService(f, ContentConfig{TTL: time.Hour})
	ctx := context.Background()

	_, err := svc.Personalize(ctx, "prenatal-a")
	require.NoError(t, err)
	f.clock.Advance(30 * time.Minute)
	_, err = svc.Personalize(ctx, "newborn-a")
	require.NoError(t, err)

	f.clock.Advance(45 * time.Minute)
	n, err := svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	remaining, err := f.content.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "newborn-a", remaining[0].TemplateID)
}
