package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptvault/promptvault/internal/model"
	"github.com/promptvault/promptvault/internal/store/fsstore"
)

var (
	fixedNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	laterNow = time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
)

func newTestService(t *testing.T) *PromptService {
	t.Helper()
	st := fsstore.New(t.TempDir(), nil, zerolog.Nop())
	n := 0
	return NewPromptService(st,
		WithIDGenerator(func() string {
			n++
			return string(rune('a'-1+n)) + "-id"
		}),
		WithClock(func() time.Time { return fixedNow }),
	)
}

func TestCreatePromptAppliesDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, model.CreatePromptRequest{
		Name:     "Greeting",
		Content:  "Hello {{name}}",
		Category: model.CategoryPersonal,
	})
	require.NoError(t, err)
	assert.Equal(t, "a-id", p.ID)
	assert.Equal(t, "1.0.0", p.Version)
	assert.NotNil(t, p.Tags)
	assert.Empty(t, p.Tags)
	assert.True(t, p.CreatedAt.Equal(fixedNow))
	assert.True(t, p.UpdatedAt.Equal(fixedNow))

	stored, err := svc.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Greeting", stored.Name)
}

func TestUpdatePromptStampsUpdatedAt(t *testing.T) {
	st := fsstore.New(t.TempDir(), nil, zerolog.Nop())
	now := fixedNow
	svc := NewPromptService(st, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, model.CreatePromptRequest{Name: "N", Content: "C"})
	require.NoError(t, err)

	now = laterNow
	desc := "updated description"
	got, err := svc.UpdatePrompt(ctx, model.UpdatePromptRequest{
		ID:           p.ID,
		PromptUpdate: model.PromptUpdate{Description: &desc},
	})
	require.NoError(t, err)
	assert.Equal(t, "updated description", got.Description)
	assert.Equal(t, "N", got.Name)
	assert.True(t, got.UpdatedAt.Equal(laterNow))
	assert.True(t, got.CreatedAt.Equal(fixedNow))
}

func TestUpdatePromptUnknownID(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.UpdatePrompt(context.Background(), model.UpdatePromptRequest{ID: "nope"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdatePromptFavoriteFlagOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, model.CreatePromptRequest{Name: "N", Content: "C"})
	require.NoError(t, err)

	fav := true
	got, err := svc.UpdatePrompt(ctx, model.UpdatePromptRequest{ID: p.ID, IsFavorite: &fav})
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)
}

func TestDeletePromptSoftMiss(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, model.CreatePromptRequest{Name: "N", Content: "C"})
	require.NoError(t, err)

	ok, err := svc.DeletePrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.DeletePrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRenderPromptEndToEnd(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	def := model.StringValue("friend")
	p, err := svc.CreatePrompt(ctx, model.CreatePromptRequest{
		Name:    "Greeting",
		Content: "Hello {{name}}, you have {{count}} tasks",
		Variables: []model.Variable{
			{Name: "name", Description: "who", Type: model.TypeString, DefaultValue: &def},
			{Name: "count", Description: "how many", Type: model.TypeNumber, Required: true},
		},
	})
	require.NoError(t, err)

	res, err := svc.RenderPrompt(ctx, model.RenderPromptRequest{
		ID:     p.ID,
		Values: map[string]model.Value{"count": model.NumberValue(2)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello friend, you have 2 tasks", res.Rendered)
	assert.Empty(t, res.Errors)
	assert.NotNil(t, res.Errors)
}

func TestRenderPromptValidationIsAdvisory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, model.CreatePromptRequest{
		Name:    "N",
		Content: "value: {{v}}",
		Variables: []model.Variable{
			{Name: "v", Description: "d", Type: model.TypeNumber, Required: true},
		},
	})
	require.NoError(t, err)

	// Missing required value still renders, with the problem reported.
	res, err := svc.RenderPrompt(ctx, model.RenderPromptRequest{ID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, "value: ", res.Rendered)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "required")
}

func TestSetFavoritePersists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePrompt(ctx, model.CreatePromptRequest{Name: "N", Content: "C"})
	require.NoError(t, err)

	got, err := svc.SetFavorite(ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)
	assert.True(t, got.UpdatedAt.Equal(p.UpdatedAt))

	stored, err := svc.GetPrompt(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsFavorite)
}

func TestCategoryStatisticsTotals(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, cat := range []model.Category{model.CategoryWork, model.CategoryWork, model.CategoryPersonal} {
		_, err := svc.CreatePrompt(ctx, model.CreatePromptRequest{Name: "N", Content: "C", Category: cat})
		require.NoError(t, err)
	}

	stats, err := svc.CategoryStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Categories[model.CategoryWork])
	assert.Equal(t, 1, stats.Categories[model.CategoryPersonal])
	assert.Equal(t, 0, stats.Categories[model.CategoryShared])
}

func TestValidatePromptData(t *testing.T) {
	svc := newTestService(t)

	errs := svc.ValidatePromptData(model.CreatePromptRequest{})
	assert.Len(t, errs, 3)

	errs = svc.ValidatePromptData(model.CreatePromptRequest{
		Name: "N", Description: "D", Content: "C", Category: "bogus",
	})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "category")

	errs = svc.ValidatePromptData(model.CreatePromptRequest{
		Name: "N", Description: "D", Content: "C",
		Variables: []model.Variable{{Name: "", Description: "", Type: "weird"}},
	})
	assert.Len(t, errs, 3)

	errs = svc.ValidatePromptData(model.CreatePromptRequest{
		Name: "N", Description: "D", Content: "C", Category: model.CategoryWork,
		Variables: []model.Variable{{Name: "v", Description: "d", Type: model.TypeString}},
	})
	assert.Empty(t, errs)
}
