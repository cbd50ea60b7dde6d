package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptvault/promptvault/internal/model"
	"github.com/promptvault/promptvault/internal/store"
	"github.com/promptvault/promptvault/internal/store/storetest"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestStore(t *testing.T, stats store.StatsProvider) *SqliteStore {
	t.Helper()
	s, err := New(openTestDB(t), stats)
	require.NoError(t, err)
	return s
}

func TestSqliteStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, stats store.StatsProvider) store.Store {
		return newTestStore(t, stats)
	})
}

func TestFtsSearchMatchesTokens(t *testing.T) {
	s := newTestStore(t, nil)
	require.True(t, s.fts, "FTS5 should be available in the modernc build")
	ctx := context.Background()

	p := model.Prompt{
		ID: "p1", Name: "Refactoring Guide", Content: "extract methods safely",
		Category: model.CategoryWork, Tags: []string{"golang"},
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Save(ctx, p))

	for _, q := range []string{"refactoring", "extract", "golang", "refact"} {
		got, err := s.Search(ctx, model.SearchCriteria{Query: q})
		require.NoError(t, err, q)
		assert.Len(t, got, 1, q)
	}

	got, err := s.Search(ctx, model.SearchCriteria{Query: "kubernetes"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFtsQueryOperatorsAreLiteral(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	p := model.Prompt{
		ID: "p1", Name: "Plain", Content: "x", Category: model.CategoryWork,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Save(ctx, p))

	// FTS5 operators and quotes in user input must not break the query.
	for _, q := range []string{`a OR b`, `"quoted"`, `NEAR(x)`, `col:val`} {
		_, err := s.Search(ctx, model.SearchCriteria{Query: q})
		assert.NoError(t, err, q)
	}
}

func TestFtsStaysInSyncAcrossUpdateAndDelete(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	p := model.Prompt{
		ID: "p1", Name: "Original", Content: "x", Category: model.CategoryWork,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Save(ctx, p))

	p.Name = "Renamed"
	require.NoError(t, s.Save(ctx, p))

	got, err := s.Search(ctx, model.SearchCriteria{Query: "original"})
	require.NoError(t, err)
	assert.Empty(t, got, "stale FTS row for the old name")

	got, err = s.Search(ctx, model.SearchCriteria{Query: "renamed"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = s.Delete(ctx, "p1")
	require.NoError(t, err)
	got, err = s.Search(ctx, model.SearchCriteria{Query: "renamed"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNotFoundError(t *testing.T) {
	s := newTestStore(t, nil)
	_, err := s.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestHealthPing(t *testing.T) {
	s := newTestStore(t, nil)
	assert.NoError(t, s.HealthPing(context.Background()))
}

func TestFtsQueryEscaping(t *testing.T) {
	assert.Equal(t, `"hello"*`, ftsQuery("hello"))
	assert.Equal(t, `"he said ""hi"""*`, ftsQuery(`he said "hi"`))
}
