package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_workspaces_table",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_hotkey_and_background_to_workspaces",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "create_workspace_events_table",
		Up:      migrationV3,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations(conn *sql.DB) error {
	if _, err := conn.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	// Get current schema version
	var currentVersion int
	err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("running migration", "version", migration.Version, "name", migration.Name)

		tx, err := conn.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the workspaces table
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS workspaces (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			icon TEXT,
			color TEXT,
			launch_on_startup INTEGER NOT NULL DEFAULT 0,
			root_json TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_workspaces_position ON workspaces(position);
	`)
	return err
}

// migrationV2 adds hotkey and background columns
func migrationV2(tx *sql.Tx) error {
	if _, err := tx.Exec(`ALTER TABLE workspaces ADD COLUMN hotkey TEXT`); err != nil {
		return fmt.Errorf("failed to add hotkey column: %w", err)
	}
	if _, err := tx.Exec(`ALTER TABLE workspaces ADD COLUMN background_json TEXT`); err != nil {
		return fmt.Errorf("failed to add background_json column: %w", err)
	}
	return nil
}

// migrationV3 creates the workspace_events audit table
func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`
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
	`)
	return err
}
