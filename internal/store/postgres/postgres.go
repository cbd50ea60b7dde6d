// Package postgres implements the prompt store on PostgreSQL using the pgx
// stdlib driver. Tags live in a native array column, variables in JSONB, and
// text queries run as case-insensitive pattern matches over the indexed
// columns plus an unnest-based tag check.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/promptvault/promptvault/internal/model"
	"github.com/promptvault/promptvault/internal/rank"
	"github.com/promptvault/promptvault/internal/store"
)

// Open opens a PostgreSQL connection and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New constructs a Postgres-backed prompt store over an existing connection.
// Stats may be nil.
func New(db *sql.DB, stats store.StatsProvider) *PgStore {
	return &PgStore{db: db, stats: store.NewStatsCache(stats)}
}

// PgStore relies on the database's own connection-pool concurrency; saves are
// last-write-wins with no application-level locking.
type PgStore struct {
	db    *sql.DB
	stats *store.StatsCache
}

var _ store.Store = (*PgStore)(nil)

const promptColumns = `id, name, description, content, category,
       array_to_json(tags)::text, created_at, updated_at, version, author,
       variables, is_favorite`

func (s *PgStore) FindByID(ctx context.Context, id string) (*model.Prompt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+promptColumns+` FROM prompts WHERE id=$1`, id)
	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: prompt %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find failed for prompt %s: %w", id, err)
	}
	return p, nil
}

func (s *PgStore) FindAll(ctx context.Context) ([]model.Prompt, error) {
	return s.query(ctx, `SELECT `+promptColumns+` FROM prompts ORDER BY updated_at DESC`)
}

// Search filters at the storage layer. With a text query active the results
// are ordered by updated_at only (no fuzzy score); this asymmetry with the
// filesystem backend is accepted behavior, not an oversight. Without a text
// query the usage-score ordering applies in application code.
func (s *PgStore) Search(ctx context.Context, c model.SearchCriteria) ([]model.Prompt, error) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if c.Query != "" {
		pat := arg("%" + c.Query + "%")
		conds = append(conds, fmt.Sprintf(
			`(name ILIKE %[1]s OR description ILIKE %[1]s OR content ILIKE %[1]s
			  OR EXISTS (SELECT 1 FROM unnest(tags) AS t WHERE t ILIKE %[1]s))`, pat))
	}
	if c.Category != "" {
		conds = append(conds, "category = "+arg(string(c.Category)))
	}
	if len(c.Tags) > 0 {
		conds = append(conds, "tags && "+arg(c.Tags))
	}
	if c.Author != "" {
		conds = append(conds, "author ILIKE "+arg("%"+c.Author+"%"))
	}

	q := `SELECT ` + promptColumns + ` FROM prompts`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY updated_at DESC"

	if c.Query != "" {
		// Ranking is settled in SQL; the limit can be pushed down.
		if c.Limit > 0 {
			q += fmt.Sprintf(" LIMIT %d", c.Limit)
		}
		return s.queryNoRerank(ctx, q, args...)
	}

	out, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if c.Limit > 0 && len(out) > c.Limit {
		out = out[:c.Limit]
	}
	return out, nil
}

func (s *PgStore) Save(ctx context.Context, p model.Prompt) error {
	varsJSON, err := marshalVariables(p.Variables)
	if err != nil {
		return fmt.Errorf("save failed for prompt %s: %w", p.ID, err)
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO prompts (id, name, description, content, category, tags,
                             created_at, updated_at, version, author, variables, is_favorite)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        ON CONFLICT (id) DO UPDATE SET
            name=EXCLUDED.name, description=EXCLUDED.description,
            content=EXCLUDED.content, category=EXCLUDED.category,
            tags=EXCLUDED.tags, created_at=EXCLUDED.created_at,
            updated_at=EXCLUDED.updated_at, version=EXCLUDED.version,
            author=EXCLUDED.author, variables=EXCLUDED.variables,
            is_favorite=EXCLUDED.is_favorite
    `, p.ID, p.Name, p.Description, p.Content, string(p.Category), tags,
		p.CreatedAt, p.UpdatedAt, p.Version, p.Author, varsJSON, p.IsFavorite)
	if err != nil {
		return fmt.Errorf("save failed for prompt %s: %w", p.ID, err)
	}
	return nil
}

func (s *PgStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete failed for prompt %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete failed for prompt %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *PgStore) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM prompts WHERE id=$1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists failed for prompt %s: %w", id, err)
	}
	return true, nil
}

func (s *PgStore) FindByCategory(ctx context.Context, c model.Category) ([]model.Prompt, error) {
	return s.query(ctx, `SELECT `+promptColumns+` FROM prompts WHERE category=$1 ORDER BY updated_at DESC`, string(c))
}

func (s *PgStore) FindByTags(ctx context.Context, tags []string) ([]model.Prompt, error) {
	return s.query(ctx, `SELECT `+promptColumns+` FROM prompts WHERE tags && $1 ORDER BY updated_at DESC`, tags)
}

func (s *PgStore) CountByCategory(ctx context.Context) (map[model.Category]int, error) {
	counts := make(map[model.Category]int, len(model.Categories()))
	for _, c := range model.Categories() {
		counts[c] = 0
	}
	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM prompts GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("count by category failed: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, fmt.Errorf("count by category failed: %w", err)
		}
		counts[model.Category(cat)] = n
	}
	return counts, rows.Err()
}

// HealthPing verifies database connectivity.
func (s *PgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// query runs a prompt query and applies the usage-score re-ranking when a
// stats provider is configured.
func (s *PgStore) query(ctx context.Context, q string, args ...interface{}) ([]model.Prompt, error) {
	out, err := s.queryNoRerank(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if s.stats.Enabled() {
		rank.SortByUsage(out, s.stats.Stats(), time.Now().UTC())
	}
	return out, nil
}

func (s *PgStore) queryNoRerank(ctx context.Context, q string, args ...interface{}) ([]model.Prompt, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("prompt query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()
	out := make([]model.Prompt, 0)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("prompt query failed: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPrompt(row rowScanner) (*model.Prompt, error) {
	var p model.Prompt
	var cat, tagsJSON string
	var vars sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Content, &cat,
		&tagsJSON, &p.CreatedAt, &p.UpdatedAt, &p.Version, &p.Author,
		&vars, &p.IsFavorite); err != nil {
		return nil, err
	}
	p.Category = model.Category(cat)
	if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if vars.Valid {
		if err := json.Unmarshal([]byte(vars.String), &p.Variables); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func marshalVariables(vars []model.Variable) (interface{}, error) {
	if len(vars) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(vars)
	if err != nil {
		return nil, err
	}
	return b, nil
}
