package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptvault/promptvault/internal/model"
)

func TestMatchesQuerySubstringGate(t *testing.T) {
	p := &model.Prompt{
		Name:        "Code Review",
		Description: "Checklist for PRs",
		Content:     "Look at error handling",
		Tags:        []string{"golang"},
	}

	assert.True(t, MatchesQuery(p, ""))
	assert.True(t, MatchesQuery(p, "code"))
	assert.True(t, MatchesQuery(p, "CHECKLIST"))
	assert.True(t, MatchesQuery(p, "error hand"))
	assert.True(t, MatchesQuery(p, "golang"))
	assert.False(t, MatchesQuery(p, "kubernetes"))
}

func TestFuzzyScoreExactBeatsSubstring(t *testing.T) {
	exact := &model.Prompt{Name: "review"}
	partial := &model.Prompt{Name: "review helper"}
	unrelated := &model.Prompt{Name: "meal plan"}

	se := FuzzyScore(exact, "review")
	sp := FuzzyScore(partial, "review")
	su := FuzzyScore(unrelated, "review")

	assert.Greater(t, se, sp)
	assert.Greater(t, sp, su)
	assert.Zero(t, su)
}

func TestFuzzyScoreEarlierMatchScoresHigher(t *testing.T) {
	early := &model.Prompt{Name: "review of changes in the tree"}
	late := &model.Prompt{Name: "a very long preamble before review"}

	assert.Greater(t, FuzzyScore(early, "review"), FuzzyScore(late, "review"))
}

func TestFuzzyScoreTagMatch(t *testing.T) {
	tagged := &model.Prompt{Name: "x", Tags: []string{"review"}}
	assert.Greater(t, FuzzyScore(tagged, "review"), 0.0)
}

func TestFuzzyScoreEmptyQuery(t *testing.T) {
	p := &model.Prompt{Name: "anything"}
	assert.Zero(t, FuzzyScore(p, ""))
}

func TestFuzzyScoreRegexMetacharactersSafe(t *testing.T) {
	p := &model.Prompt{Name: "a+b (special)"}
	assert.NotPanics(t, func() { FuzzyScore(p, "a+b (") })
	assert.True(t, MatchesQuery(p, "a+b ("))
}
