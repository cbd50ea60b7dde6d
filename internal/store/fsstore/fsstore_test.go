package fsstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptvault/promptvault/internal/model"
	"github.com/promptvault/promptvault/internal/store"
	"github.com/promptvault/promptvault/internal/store/storetest"
)

func TestFsStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, stats store.StatsProvider) store.Store {
		return New(t.TempDir(), stats, zerolog.Nop())
	})
}

func TestCorruptFilesAreSkipped(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "work")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	s := New(root, nil, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, model.Prompt{
		ID:       "p1",
		Name:     "Good",
		Content:  "ok",
		Category: model.CategoryWork,
	}))

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, "p1", all[0].ID)
}

func TestSaveWritesSluggedFilePerCategory(t *testing.T) {
	root := t.TempDir()
	s := New(root, nil, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, model.Prompt{
		ID:       "p1",
		Name:     "My Cool Prompt!",
		Content:  "x",
		Category: model.CategoryPersonal,
	}))

	_, err := os.Stat(filepath.Join(root, "personal", "my-cool-prompt.json"))
	assert.NoError(t, err)
}

func TestRenameLeavesOldFileBehind(t *testing.T) {
	root := t.TempDir()
	s := New(root, nil, zerolog.Nop())
	ctx := context.Background()

	p := model.Prompt{ID: "p1", Name: "Old Name", Content: "x", Category: model.CategoryWork}
	require.NoError(t, s.Save(ctx, p))

	p.Name = "New Name"
	require.NoError(t, s.Save(ctx, p))

	// The file for the previous name stays on disk; delete only removes the
	// file for the current name.
	_, err := os.Stat(filepath.Join(root, "work", "old-name.json"))
	assert.NoError(t, err)

	ok, err := s.Delete(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = os.Stat(filepath.Join(root, "work", "new-name.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "work", "old-name.json"))
	assert.NoError(t, err)
}

func TestSearchRanksByFuzzyScore(t *testing.T) {
	s := New(t.TempDir(), nil, zerolog.Nop())
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	exact := model.Prompt{
		ID: "exact", Name: "review", Content: "x",
		Category: model.CategoryWork, UpdatedAt: base,
	}
	partial := model.Prompt{
		ID: "partial", Name: "review helper", Content: "x",
		Category: model.CategoryWork, UpdatedAt: base.Add(time.Hour),
	}
	require.NoError(t, s.Save(ctx, exact))
	require.NoError(t, s.Save(ctx, partial))

	// The exact name match outranks the fresher partial match.
	got, err := s.Search(ctx, model.SearchCriteria{Query: "review"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "exact", got[0].ID)
}

func TestSearchCombinesFuzzyAndUsageScores(t *testing.T) {
	stats := func() model.UsageStats {
		return model.UsageStats{Favorites: []string{"plain"}}
	}
	s := New(t.TempDir(), stats, zerolog.Nop())
	ctx := context.Background()

	// Both contain the query; the favorite bonus (+50) must outweigh the
	// fuzzy edge of the name starting with the query.
	a := model.Prompt{ID: "plain", Name: "review helper", Content: "x", Category: model.CategoryWork}
	b := model.Prompt{ID: "lead", Name: "helper for review", Content: "x", Category: model.CategoryWork}
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Save(ctx, b))

	got, err := s.Search(ctx, model.SearchCriteria{Query: "helper"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "plain", got[0].ID)
}

func TestNotFoundError(t *testing.T) {
	s := New(t.TempDir(), nil, zerolog.Nop())
	_, err := s.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "code-review", slugify("Code Review"))
	assert.Equal(t, "my-cool-prompt", slugify("  My   Cool Prompt! "))
	assert.Equal(t, "a-b-c", slugify("a/b\\c"))
}
