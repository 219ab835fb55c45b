package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/babybond/internal/domain"
	"github.com/alexanderramin/babybond/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTemplates(t *testing.T, repo *SQLiteTemplateRepo, templates ...*domain.ActivityTemplate) {
	t.Helper()
	for _, tpl := range templates {
		require.NoError(t, repo.Put(context.Background(), tpl))
	}
}

func TestTemplateRepo_RoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTemplateRepo(db)
	ctx := context.Background()

	tpl := testutil.NewTestTemplate("prenatal-yoga", domain.AgeGroupPrenatal,
		testutil.WithTemplateType(domain.ContentMovement),
		testutil.WithTemplateDuration(15),
		testutil.WithBenefits("Improves flexibility", "Reduces stress"),
	)
	tpl.Difficulty = domain.DifficultyMedium
	tpl.ImageURL = "https://example.com/yoga.jpg"
	require.NoError(t, repo.Put(ctx, tpl))

	got, err := repo.Get(ctx, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, tpl, got)
}

func TestTemplateRepo_IndexQueries(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTemplateRepo(db)
	ctx := context.Background()

	seedTemplates(t, repo,
		testutil.NewTestTemplate("a", domain.AgeGroupPrenatal, testutil.WithTemplateDuration(10)),
		testutil.NewTestTemplate("b", domain.AgeGroupPrenatal,
			testutil.WithTemplateDuration(20), testutil.WithTemplateType(domain.ContentSongs)),
		testutil.NewTestTemplate("c", domain.AgeGroupNewborn, testutil.WithTemplateDuration(5)),
	)

	prenatal, err := repo.ListByAgeGroup(ctx, domain.AgeGroupPrenatal)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, templateIDs(prenatal))

	songs, err := repo.ListByContentType(ctx, domain.ContentSongs)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, templateIDs(songs))

	short, err := repo.ListByDurationRange(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, templateIDs(short), "ordered by duration")

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	none, err := repo.ListByAgeGroup(ctx, domain.AgeGroup6To12Months)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTemplateRepo_RejectsNonPositiveDuration(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTemplateRepo(db)

	err := repo.Put(context.Background(),
		testutil.NewTestTemplate("zero", domain.AgeGroupNewborn, testutil.WithTemplateDuration(0)))
	assert.Error(t, err)
}

func TestTemplateRepo_GetNotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := NewSQLiteTemplateRepo(db).Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func templateIDs(ts []*domain.ActivityTemplate) []string {
	ids := make([]string, len(ts))
	for i, t := range ts {
		ids[i] = t.ID
	}
	return ids
}
