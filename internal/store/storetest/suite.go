// Package storetest holds a compliance suite run against every store
// implementation. Backends must be observably equivalent from the caller's
// perspective; this suite is the contract check.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/promptvault/promptvault/internal/model"
	"github.com/promptvault/promptvault/internal/store"
)

// Factory provides a clean, isolated store. The suite passes a nil provider
// except in the usage-ranking checks.
type Factory func(t *testing.T, stats store.StatsProvider) store.Store

// Run exercises the repository contract against a store implementation.
func Run(t *testing.T, makeStore Factory) {
	t.Helper()

	t.Run("RoundTrip", func(t *testing.T) { testRoundTrip(t, makeStore) })
	t.Run("UpsertOverwrites", func(t *testing.T) { testUpsert(t, makeStore) })
	t.Run("SearchCombinesCriteria", func(t *testing.T) { testSearchAnd(t, makeStore) })
	t.Run("SearchQueryContainment", func(t *testing.T) { testSearchQuery(t, makeStore) })
	t.Run("SearchAuthorAndLimit", func(t *testing.T) { testAuthorAndLimit(t, makeStore) })
	t.Run("DeleteIdempotent", func(t *testing.T) { testDelete(t, makeStore) })
	t.Run("CategoryCountsZeroFilled", func(t *testing.T) { testCounts(t, makeStore) })
	t.Run("DefaultOrdering", func(t *testing.T) { testDefaultOrdering(t, makeStore) })
	t.Run("UsageRanking", func(t *testing.T) { testUsageRanking(t, makeStore) })
	t.Run("FindByTags", func(t *testing.T) { testFindByTags(t, makeStore) })
}

func at(day int) time.Time {
	return time.Date(2026, 3, day, 12, 0, 0, 0, time.UTC)
}

func samplePrompt(name string, cat model.Category, tags []string) model.Prompt {
	return model.Prompt{
		ID:        uuid.NewString(),
		Name:      name,
		Content:   "body of " + name,
		Category:  cat,
		Tags:      tags,
		CreatedAt: at(1),
		UpdatedAt: at(1),
		Version:   "1.0.0",
	}
}

func testRoundTrip(t *testing.T, makeStore Factory) {
	s := makeStore(t, nil)
	ctx := context.Background()

	def := model.NumberValue(3)
	p := model.Prompt{
		ID:          uuid.NewString(),
		Name:        "Code Review",
		Description: "Review checklist prompt",
		Content:     "Review {{file}} with depth {{depth}}",
		Category:    model.CategoryWork,
		Tags:        []string{"code", "review"},
		CreatedAt:   at(1),
		UpdatedAt:   at(2),
		Version:     "1.0.0",
		Author:      "sam",
		Variables: []model.Variable{
			{Name: "file", Description: "target file", Type: model.TypeString, Required: true},
			{Name: "depth", Description: "passes", Type: model.TypeNumber, DefaultValue: &def},
		},
		IsFavorite: true,
	}
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Name != p.Name || got.Description != p.Description || got.Content != p.Content ||
		got.Category != p.Category || got.Version != p.Version || got.Author != p.Author ||
		got.IsFavorite != p.IsFavorite {
		t.Fatalf("round trip mismatch: got %+v", got)
	}
	if !got.CreatedAt.Equal(p.CreatedAt) || !got.UpdatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("timestamps mismatch: %v / %v", got.CreatedAt, got.UpdatedAt)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "code" || got.Tags[1] != "review" {
		t.Fatalf("tags mismatch: %v", got.Tags)
	}
	if len(got.Variables) != 2 || got.Variables[0].Name != "file" || !got.Variables[0].Required {
		t.Fatalf("variables mismatch: %+v", got.Variables)
	}
	if got.Variables[1].DefaultValue == nil || got.Variables[1].DefaultValue.String() != "3" {
		t.Fatalf("default value mismatch: %+v", got.Variables[1].DefaultValue)
	}

	ok, err := s.Exists(ctx, p.ID)
	if err != nil || !ok {
		t.Fatalf("Exists: ok=%v err=%v", ok, err)
	}
	if ok, err := s.Exists(ctx, "missing"); err != nil || ok {
		t.Fatalf("Exists missing: ok=%v err=%v", ok, err)
	}
	if _, err := s.FindByID(ctx, "missing"); err == nil {
		t.Fatalf("FindByID missing: expected error")
	}
}

func testUpsert(t *testing.T, makeStore Factory) {
	s := makeStore(t, nil)
	ctx := context.Background()

	p := samplePrompt("Daily Standup", model.CategoryWork, []string{"meeting"})
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p.Description = "updated"
	p.UpdatedAt = at(3)
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	all, err := s.FindAll(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("FindAll after upsert: n=%d err=%v", len(all), err)
	}
	if all[0].Description != "updated" || !all[0].UpdatedAt.Equal(at(3)) {
		t.Fatalf("upsert did not overwrite: %+v", all[0])
	}
}

func testSearchAnd(t *testing.T, makeStore Factory) {
	s := makeStore(t, nil)
	ctx := context.Background()

	work := samplePrompt("Code Review", model.CategoryWork, []string{"code", "review"})
	personal := samplePrompt("Story Starter", model.CategoryPersonal, []string{"creative", "writing"})
	for _, p := range []model.Prompt{work, personal} {
		if err := s.Save(ctx, p); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.Search(ctx, model.SearchCriteria{Category: model.CategoryWork, Tags: []string{"creative"}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("conjunctive criteria should exclude all, got %d", len(got))
	}

	got, err = s.Search(ctx, model.SearchCriteria{Category: model.CategoryWork})
	if err != nil || len(got) != 1 || got[0].ID != work.ID {
		t.Fatalf("category search: n=%d err=%v", len(got), err)
	}
}

func testSearchQuery(t *testing.T, makeStore Factory) {
	s := makeStore(t, nil)
	ctx := context.Background()

	match := samplePrompt("Refactoring Guide", model.CategoryWork, []string{"code"})
	other := samplePrompt("Meal Plan", model.CategoryPersonal, []string{"food"})
	for _, p := range []model.Prompt{match, other} {
		if err := s.Save(ctx, p); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.Search(ctx, model.SearchCriteria{Query: "refactoring"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].ID != match.ID {
		t.Fatalf("query search: n=%d", len(got))
	}
}

func testAuthorAndLimit(t *testing.T, makeStore Factory) {
	s := makeStore(t, nil)
	ctx := context.Background()

	a := samplePrompt("One", model.CategoryWork, nil)
	a.Author = "Alice Smith"
	b := samplePrompt("Two", model.CategoryWork, nil)
	b.Author = "Bob Jones"
	b.UpdatedAt = at(2)
	c := samplePrompt("Three", model.CategoryWork, nil)
	c.Author = "alice cooper"
	c.UpdatedAt = at(3)
	for _, p := range []model.Prompt{a, b, c} {
		if err := s.Save(ctx, p); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.Search(ctx, model.SearchCriteria{Author: "alice"})
	if err != nil || len(got) != 2 {
		t.Fatalf("author search should be case-insensitive substring: n=%d err=%v", len(got), err)
	}

	got, err = s.Search(ctx, model.SearchCriteria{Limit: 2})
	if err != nil || len(got) != 2 {
		t.Fatalf("limit: n=%d err=%v", len(got), err)
	}
	if got[0].ID != c.ID {
		t.Fatalf("limit should keep the top-ranked entries, got %s first", got[0].Name)
	}
}

func testDelete(t *testing.T, makeStore Factory) {
	s := makeStore(t, nil)
	ctx := context.Background()

	p := samplePrompt("Ephemeral", model.CategoryShared, nil)
	if err := s.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ok, err := s.Delete(ctx, p.ID)
	if err != nil || !ok {
		t.Fatalf("Delete existing: ok=%v err=%v", ok, err)
	}
	ok, err = s.Delete(ctx, p.ID)
	if err != nil || ok {
		t.Fatalf("Delete repeated should soft-miss: ok=%v err=%v", ok, err)
	}
	ok, err = s.Delete(ctx, "never-existed")
	if err != nil || ok {
		t.Fatalf("Delete unknown should soft-miss: ok=%v err=%v", ok, err)
	}
}

func testCounts(t *testing.T, makeStore Factory) {
	s := makeStore(t, nil)
	ctx := context.Background()

	for _, p := range []model.Prompt{
		samplePrompt("W1", model.CategoryWork, nil),
		samplePrompt("W2", model.CategoryWork, nil),
		samplePrompt("P1", model.CategoryPersonal, nil),
	} {
		if err := s.Save(ctx, p); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	counts, err := s.CountByCategory(ctx)
	if err != nil {
		t.Fatalf("CountByCategory: %v", err)
	}
	if counts[model.CategoryWork] != 2 || counts[model.CategoryPersonal] != 1 || counts[model.CategoryShared] != 0 {
		t.Fatalf("counts mismatch: %v", counts)
	}
	if _, ok := counts[model.CategoryShared]; !ok {
		t.Fatalf("empty categories must be zero-filled: %v", counts)
	}
}

func testDefaultOrdering(t *testing.T, makeStore Factory) {
	s := makeStore(t, nil)
	ctx := context.Background()

	older := samplePrompt("Older", model.CategoryWork, nil)
	newer := samplePrompt("Newer", model.CategoryWork, nil)
	newer.UpdatedAt = at(5)
	for _, p := range []model.Prompt{older, newer} {
		if err := s.Save(ctx, p); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	all, err := s.FindAll(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("FindAll: n=%d err=%v", len(all), err)
	}
	if all[0].ID != newer.ID {
		t.Fatalf("default order must be UpdatedAt descending, got %s first", all[0].Name)
	}

	cat, err := s.FindByCategory(ctx, model.CategoryWork)
	if err != nil || len(cat) != 2 || cat[0].ID != newer.ID {
		t.Fatalf("FindByCategory ordering: n=%d err=%v", len(cat), err)
	}
}

func testUsageRanking(t *testing.T, makeStore Factory) {
	var favID string
	provider := func() model.UsageStats {
		return model.UsageStats{Favorites: []string{favID}}
	}
	s := makeStore(t, provider)
	ctx := context.Background()

	// Equal UpdatedAt so only the favorite bonus separates them.
	plain := samplePrompt("Plain", model.CategoryWork, nil)
	favorite := samplePrompt("Favorite", model.CategoryWork, nil)
	favID = favorite.ID
	for _, p := range []model.Prompt{plain, favorite} {
		if err := s.Save(ctx, p); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	all, err := s.FindAll(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("FindAll: n=%d err=%v", len(all), err)
	}
	if all[0].ID != favorite.ID {
		t.Fatalf("favorited prompt must rank first with a stats provider")
	}
}

func testFindByTags(t *testing.T, makeStore Factory) {
	s := makeStore(t, nil)
	ctx := context.Background()

	tagged := samplePrompt("Tagged", model.CategoryWork, []string{"go", "testing"})
	other := samplePrompt("Other", model.CategoryWork, []string{"python"})
	for _, p := range []model.Prompt{tagged, other} {
		if err := s.Save(ctx, p); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	got, err := s.FindByTags(ctx, []string{"testing", "absent"})
	if err != nil || len(got) != 1 || got[0].ID != tagged.ID {
		t.Fatalf("FindByTags: n=%d err=%v", len(got), err)
	}
}
