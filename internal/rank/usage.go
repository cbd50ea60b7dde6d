// Package rank holds the pure scoring functions shared by every storage
// backend so that ranking cannot drift between implementations.
package rank

import (
	"sort"
	"time"

	"github.com/promptvault/promptvault/internal/model"
)

const (
	favoriteBonus      = 50.0
	recencyWindowDays  = 30.0
	recentPositionSpan = 10.0
)

// UsageScore computes the ranking bonus for a prompt from usage signals:
// +50 when favorited, a linear recency bonus decaying to zero at 30 days, and
// a position bonus for the first ten slots of the recents list. No usage data
// scores zero.
func UsageScore(promptID string, stats *model.UsageStats, now time.Time) float64 {
	if stats == nil {
		return 0
	}
	var score float64
	for _, id := range stats.Favorites {
		if id == promptID {
			score += favoriteBonus
			break
		}
	}
	for i, rec := range stats.Recents {
		if rec.ID != promptID {
			continue
		}
		days := now.Sub(rec.UsedAt).Hours() / 24
		if bonus := recencyWindowDays - days; bonus > 0 {
			score += bonus
		}
		if bonus := recentPositionSpan - float64(i); bonus > 0 {
			score += bonus
		}
		break
	}
	return score
}

// SortByUsage orders prompts by usage score descending with UpdatedAt
// descending as the tie-break. With nil stats the usage score is uniformly
// zero, so the order degrades to UpdatedAt descending.
func SortByUsage(prompts []model.Prompt, stats *model.UsageStats, now time.Time) {
	sort.SliceStable(prompts, func(i, j int) bool {
		si := UsageScore(prompts[i].ID, stats, now)
		sj := UsageScore(prompts[j].ID, stats, now)
		if si != sj {
			return si > sj
		}
		return prompts[i].UpdatedAt.After(prompts[j].UpdatedAt)
	})
}
