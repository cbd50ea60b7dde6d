// Package sqlite implements the prompt store on an embedded SQLite database
// via modernc.org/sqlite. The logical schema matches the Postgres backend but
// tags and variables are JSON-encoded text columns, and full-text search uses
// an FTS5 virtual table kept in sync by triggers, with a LIKE fallback when
// FTS is unavailable.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/promptvault/promptvault/internal/model"
	"github.com/promptvault/promptvault/internal/rank"
	"github.com/promptvault/promptvault/internal/store"
)

// SqliteStore serializes access through the embedded connection. Another
// process writing the same database file is out of scope.
type SqliteStore struct {
	db    *sql.DB
	fts   bool
	stats *store.StatsCache
}

// New prepares the schema on db and returns the store. Stats may be nil.
func New(db *sql.DB, stats store.StatsProvider) (*SqliteStore, error) {
	fts, err := EnsureSchema(db)
	if err != nil {
		return nil, err
	}
	return &SqliteStore{db: db, fts: fts, stats: store.NewStatsCache(stats)}, nil
}

var _ store.Store = (*SqliteStore)(nil)

const promptColumns = `id, name, description, content, category, tags,
       created_at, updated_at, version, author, variables, is_favorite`

// qualified column list for queries joining prompts_fts, whose columns shadow
// the prompt ones.
const promptColumnsQualified = `p.id, p.name, p.description, p.content, p.category, p.tags,
       p.created_at, p.updated_at, p.version, p.author, p.variables, p.is_favorite`

func (s *SqliteStore) FindByID(ctx context.Context, id string) (*model.Prompt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+promptColumns+` FROM prompts WHERE id = ?`, id)
	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: prompt %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("find failed for prompt %s: %w", id, err)
	}
	return p, nil
}

func (s *SqliteStore) FindAll(ctx context.Context) ([]model.Prompt, error) {
	return s.query(ctx, `SELECT `+promptColumns+` FROM prompts ORDER BY updated_at DESC`)
}

// Search filters at the storage layer. Like the Postgres backend, an active
// text query orders by updated_at only; the filesystem backend's fuzzy
// ranking does not apply here. This asymmetry is accepted behavior.
func (s *SqliteStore) Search(ctx context.Context, c model.SearchCriteria) ([]model.Prompt, error) {
	var conds []string
	var args []interface{}

	base := `SELECT ` + promptColumnsQualified + ` FROM prompts p`
	if c.Query != "" {
		if s.fts {
			base += ` JOIN prompts_fts f ON p.id = f.id`
			conds = append(conds, `prompts_fts MATCH ?`)
			args = append(args, ftsQuery(c.Query))
		} else {
			pat := "%" + c.Query + "%"
			conds = append(conds, `(p.name LIKE ? OR p.description LIKE ? OR p.content LIKE ?
                OR EXISTS (SELECT 1 FROM json_each(p.tags) WHERE json_each.value LIKE ?))`)
			args = append(args, pat, pat, pat, pat)
		}
	}
	if c.Category != "" {
		conds = append(conds, `p.category = ?`)
		args = append(args, string(c.Category))
	}
	if len(c.Tags) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(c.Tags)), ",")
		conds = append(conds, `EXISTS (SELECT 1 FROM json_each(p.tags) WHERE json_each.value IN (`+placeholders+`))`)
		for _, t := range c.Tags {
			args = append(args, t)
		}
	}
	if c.Author != "" {
		conds = append(conds, `p.author LIKE ?`)
		args = append(args, "%"+c.Author+"%")
	}

	q := base
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY p.updated_at DESC"

	if c.Query != "" {
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

func (s *SqliteStore) Save(ctx context.Context, p model.Prompt) error {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("save failed for prompt %s: %w", p.ID, err)
	}
	var varsJSON interface{}
	if len(p.Variables) > 0 {
		b, err := json.Marshal(p.Variables)
		if err != nil {
			return fmt.Errorf("save failed for prompt %s: %w", p.ID, err)
		}
		varsJSON = string(b)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO prompts (id, name, description, content, category, tags,
                             created_at, updated_at, version, author, variables, is_favorite)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
        ON CONFLICT(id) DO UPDATE SET
            name=excluded.name, description=excluded.description,
            content=excluded.content, category=excluded.category,
            tags=excluded.tags, created_at=excluded.created_at,
            updated_at=excluded.updated_at, version=excluded.version,
            author=excluded.author, variables=excluded.variables,
            is_favorite=excluded.is_favorite
    `, p.ID, p.Name, p.Description, p.Content, string(p.Category), string(tagsJSON),
		p.CreatedAt.UTC(), p.UpdatedAt.UTC(), p.Version, p.Author, varsJSON, p.IsFavorite)
	if err != nil {
		return fmt.Errorf("save failed for prompt %s: %w", p.ID, err)
	}
	return nil
}

func (s *SqliteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete failed for prompt %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete failed for prompt %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *SqliteStore) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM prompts WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists failed for prompt %s: %w", id, err)
	}
	return true, nil
}

func (s *SqliteStore) FindByCategory(ctx context.Context, c model.Category) ([]model.Prompt, error) {
	return s.query(ctx, `SELECT `+promptColumns+` FROM prompts WHERE category = ? ORDER BY updated_at DESC`, string(c))
}

func (s *SqliteStore) FindByTags(ctx context.Context, tags []string) ([]model.Prompt, error) {
	if len(tags) == 0 {
		return []model.Prompt{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tags)), ",")
	args := make([]interface{}, len(tags))
	for i, t := range tags {
		args[i] = t
	}
	return s.query(ctx, `SELECT `+promptColumns+` FROM prompts
        WHERE EXISTS (SELECT 1 FROM json_each(tags) WHERE json_each.value IN (`+placeholders+`))
        ORDER BY updated_at DESC`, args...)
}

func (s *SqliteStore) CountByCategory(ctx context.Context) (map[model.Category]int, error) {
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
func (s *SqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SqliteStore) query(ctx context.Context, q string, args ...interface{}) ([]model.Prompt, error) {
	out, err := s.queryNoRerank(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if s.stats.Enabled() {
		rank.SortByUsage(out, s.stats.Stats(), time.Now().UTC())
	}
	return out, nil
}

func (s *SqliteStore) queryNoRerank(ctx context.Context, q string, args ...interface{}) ([]model.Prompt, error) {
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

// ftsQuery turns free text into a quoted prefix query so FTS5 operators in
// user input are treated literally.
func ftsQuery(q string) string {
	return `"` + strings.ReplaceAll(q, `"`, `""`) + `"*`
}
