package store

import (
	"context"
	"fmt"
)

// migrations are applied in order, starting after whatever schema_version is
// already recorded. Re-running the full list against an up-to-date store is
// a no-op (§6.1: "migrations are idempotent").
var migrations = []string{
	// v1: base schema.
	`
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS file (
		id INTEGER PRIMARY KEY,
		path TEXT UNIQUE NOT NULL,
		inode INTEGER,
		device INTEGER
	);

	CREATE TABLE IF NOT EXISTS tag (
		id INTEGER PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		category TEXT
	);

	CREATE TABLE IF NOT EXISTS file_tag (
		id INTEGER PRIMARY KEY,
		file_id INTEGER NOT NULL REFERENCES file(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tag(id) ON DELETE CASCADE,
		parent_id INTEGER REFERENCES file_tag(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_file_tag_parent ON file_tag(parent_id);
	CREATE INDEX IF NOT EXISTS idx_file_tag_file ON file_tag(file_id);
	-- SQLite treats every NULL as distinct for a plain UNIQUE constraint,
	-- which would let multiple roots with the same tag through. Two partial
	-- unique indexes enforce "UNIQUE(file_id, tag_id, parent_id)" (§6.1) for
	-- both the root (parent_id IS NULL) and non-root case.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_file_tag_unique_root
		ON file_tag(file_id, tag_id) WHERE parent_id IS NULL;
	CREATE UNIQUE INDEX IF NOT EXISTS idx_file_tag_unique_child
		ON file_tag(file_id, tag_id, parent_id) WHERE parent_id IS NOT NULL;

	CREATE TABLE IF NOT EXISTS tagalong (
		tag_id INTEGER NOT NULL REFERENCES tag(id) ON DELETE CASCADE,
		tagalong_id INTEGER NOT NULL REFERENCES tag(id) ON DELETE CASCADE,
		PRIMARY KEY(tag_id, tagalong_id)
	);

	CREATE TABLE IF NOT EXISTS query (
		id INTEGER PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		select_tags TEXT NOT NULL,
		exclude_tags TEXT NOT NULL,
		pattern TEXT NOT NULL DEFAULT '.*',
		ignore_case INTEGER NOT NULL DEFAULT 0,
		invert_match INTEGER NOT NULL DEFAULT 0,
		ignore_tag_case INTEGER NOT NULL DEFAULT 0
	);
	`,
}

func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	row := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1")
	var v int
	if err := row.Scan(&v); err != nil {
		// schema_version table itself may not exist yet on a brand new DB.
		return 0, nil
	}
	return v, nil
}

// migrate brings the store up to len(migrations), applying only the scripts
// past the currently recorded version. It is always safe to call again.
func (s *Store) migrate(ctx context.Context) error {
	// schema_version may not exist yet; create it first so schemaVersion can read it.
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for i := current; i < len(migrations); i++ {
		if _, err := s.db.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}

	if current < len(migrations) {
		if err := s.setSchemaVersion(ctx, len(migrations)); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) setSchemaVersion(ctx context.Context, v int) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("clear schema_version: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_version(version) VALUES (?)", v); err != nil {
		return fmt.Errorf("set schema_version: %w", err)
	}
	return nil
}

// SchemaVersion reports the store's current schema version (§6.1, §9 global
// defaults: schema_version).
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	return s.schemaVersion(ctx)
}
