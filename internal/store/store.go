// Package store defines the storage-agnostic prompt repository contract.
// Implementations live under internal/store/<driver>/ (fsstore, postgres,
// sqlite) and must produce observably equivalent results for identical inputs.
package store

import (
	"context"
	"sync"

	"github.com/promptvault/promptvault/internal/model"
)

// Store persists prompts and answers queries over them.
//
// Ordering: FindAll, FindByCategory and FindByTags return prompts by UpdatedAt
// descending, re-ordered by usage score (primary key, UpdatedAt tie-break)
// when the store was built with a StatsProvider. Search applies the same rule
// when no text query is set; ranking under a text query is backend-specific
// and documented on each implementation.
type Store interface {
	// FindByID returns the prompt or an error wrapping model.ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Prompt, error)
	FindAll(ctx context.Context) ([]model.Prompt, error)
	// Search filters by the set criteria fields, combined conjunctively.
	Search(ctx context.Context, c model.SearchCriteria) ([]model.Prompt, error)
	// Save upserts by ID, overwriting all mutable fields. Callers supply the
	// full merged record; there is no partial patching.
	Save(ctx context.Context, p model.Prompt) error
	// Delete reports whether a record existed. A missing ID is not an error.
	Delete(ctx context.Context, id string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
	FindByCategory(ctx context.Context, c model.Category) ([]model.Prompt, error)
	// FindByTags returns prompts carrying at least one of the given tags.
	FindByTags(ctx context.Context, tags []string) ([]model.Prompt, error)
	// CountByCategory returns one entry per known category, zero-filled.
	CountByCategory(ctx context.Context) (map[model.Category]int, error)
}

// StatsProvider supplies a usage-stats snapshot. The store fetches it once,
// lazily, and caches it for the lifetime of the store instance; construct a
// new store to observe updated stats.
type StatsProvider func() model.UsageStats

// StatsCache wraps a StatsProvider with fetch-once semantics shared by all
// backends.
type StatsCache struct {
	provider StatsProvider
	once     sync.Once
	stats    *model.UsageStats
}

// NewStatsCache builds a cache over provider. A nil provider is valid and
// yields nil stats, which disables usage-aware ordering.
func NewStatsCache(provider StatsProvider) *StatsCache {
	return &StatsCache{provider: provider}
}

// Stats returns the cached snapshot, fetching it on first use.
func (c *StatsCache) Stats() *model.UsageStats {
	if c == nil || c.provider == nil {
		return nil
	}
	c.once.Do(func() {
		s := c.provider()
		c.stats = &s
	})
	return c.stats
}

// Enabled reports whether a provider is configured.
func (c *StatsCache) Enabled() bool { return c != nil && c.provider != nil }
