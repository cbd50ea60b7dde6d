package sqlite

import "database/sql"

// baseSchema holds the prompts table and its indexes. tags and variables are
// JSON-encoded text columns; SQLite has no native array type.
var baseSchema = []string{
	`CREATE TABLE IF NOT EXISTS prompts (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        content TEXT NOT NULL,
        category TEXT NOT NULL,
        tags TEXT NOT NULL DEFAULT '[]',
        created_at TIMESTAMP NOT NULL,
        updated_at TIMESTAMP NOT NULL,
        version TEXT NOT NULL DEFAULT '1.0.0',
        author TEXT NOT NULL DEFAULT '',
        variables TEXT,
        is_favorite INTEGER NOT NULL DEFAULT 0
    );`,
	`CREATE INDEX IF NOT EXISTS prompts_category_idx ON prompts(category);`,
	`CREATE INDEX IF NOT EXISTS prompts_name_idx ON prompts(name);`,
	`CREATE INDEX IF NOT EXISTS prompts_author_idx ON prompts(author);`,
	`CREATE INDEX IF NOT EXISTS prompts_updated_at_idx ON prompts(updated_at DESC);`,
}

// ftsSchema mirrors the searchable columns into an FTS5 virtual table kept in
// sync by triggers on the prompts table.
var ftsSchema = []string{
	`CREATE VIRTUAL TABLE IF NOT EXISTS prompts_fts USING fts5(
        id UNINDEXED, name, description, content, category, tags
    );`,
	`CREATE TRIGGER IF NOT EXISTS prompts_fts_insert AFTER INSERT ON prompts BEGIN
        INSERT INTO prompts_fts (id, name, description, content, category, tags)
        VALUES (new.id, new.name, new.description, new.content, new.category, new.tags);
    END;`,
	`CREATE TRIGGER IF NOT EXISTS prompts_fts_delete AFTER DELETE ON prompts BEGIN
        DELETE FROM prompts_fts WHERE id = old.id;
    END;`,
	`CREATE TRIGGER IF NOT EXISTS prompts_fts_update AFTER UPDATE ON prompts BEGIN
        DELETE FROM prompts_fts WHERE id = old.id;
        INSERT INTO prompts_fts (id, name, description, content, category, tags)
        VALUES (new.id, new.name, new.description, new.content, new.category, new.tags);
    END;`,
}

// EnsureSchema creates the tables, indexes, FTS virtual table and sync
// triggers. It reports whether FTS is available; when the build lacks FTS5 the
// store falls back to pattern-match search.
func EnsureSchema(db *sql.DB) (ftsAvailable bool, err error) {
	for _, stmt := range baseSchema {
		if _, err := db.Exec(stmt); err != nil {
			return false, err
		}
	}
	for _, stmt := range ftsSchema {
		if _, err := db.Exec(stmt); err != nil {
			return false, nil
		}
	}
	return true, nil
}
