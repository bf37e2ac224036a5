package db

import "database/sql"

// SchemaSQL is the complete schema for fresh installs. It reflects the
// state after all migrations.
//
// Tests build their databases from GetSchemaSQL() so repository code
// referencing a missing column fails with "no such column" at test time.
// When adding columns or tables, add a migration and update SchemaSQL.
const SchemaSQL = `
-- Workspaces (one row per workspace; position orders the list)
CREATE TABLE IF NOT EXISTS workspaces (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	name TEXT NOT NULL,
	icon TEXT,
	color TEXT,
	hotkey TEXT,
	launch_on_startup INTEGER NOT NULL DEFAULT 0,
	background_json TEXT,
	root_json TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_workspaces_position ON workspaces(position);

-- Workspace events (audit history)
CREATE TABLE IF NOT EXISTS workspace_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	actor_id TEXT,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT
);

CREATE INDEX IF NOT EXISTS idx_workspace_events_entity ON workspace_events(entity_id);
CREATE INDEX IF NOT EXISTS idx_workspace_events_timestamp ON workspace_events(timestamp);
`

const schemaVersionSQL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)
`

// InitSchema creates the database schema
func InitSchema(conn *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(conn)
	}

	// Fresh install - create the current schema directly and mark every
	// migration as applied
	if _, err := conn.Exec(SchemaSQL); err != nil {
		return err
	}
	if _, err := conn.Exec(schemaVersionSQL); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
