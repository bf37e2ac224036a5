// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/tabbyspaces/internal/models"
	"github.com/example/tabbyspaces/internal/ports/secondary"
)

// WorkspaceRepository implements secondary.WorkspaceRepository with SQLite.
// The tree is stored as JSON in root_json; list order is the position column.
type WorkspaceRepository struct {
	db *sql.DB
}

// NewWorkspaceRepository creates a new SQLite workspace repository.
func NewWorkspaceRepository(db *sql.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// Load retrieves every workspace in position order.
func (r *WorkspaceRepository) Load(ctx context.Context) ([]*models.Workspace, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, icon, color, hotkey, launch_on_startup, background_json, root_json
		 FROM workspaces ORDER BY position ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspaces: %w", err)
	}
	defer rows.Close()

	var workspaces []*models.Workspace
	for rows.Next() {
		var (
			icon, color, hotkey, background sql.NullString
			launchOnStartup                 bool
			rootJSON                        string
		)
		ws := &models.Workspace{}
		if err := rows.Scan(&ws.ID, &ws.Name, &icon, &color, &hotkey, &launchOnStartup, &background, &rootJSON); err != nil {
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}

		ws.Icon = icon.String
		ws.Color = color.String
		ws.Hotkey = hotkey.String
		ws.LaunchOnStartup = launchOnStartup

		ws.Root = &models.Split{}
		if err := json.Unmarshal([]byte(rootJSON), ws.Root); err != nil {
			return nil, fmt.Errorf("failed to decode layout of workspace %s: %w", ws.ID, err)
		}
		if background.Valid && background.String != "" {
			ws.Background = &models.Background{}
			if err := json.Unmarshal([]byte(background.String), ws.Background); err != nil {
				return nil, fmt.Errorf("failed to decode background of workspace %s: %w", ws.ID, err)
			}
		}

		workspaces = append(workspaces, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load workspaces: %w", err)
	}

	return workspaces, nil
}

// Save replaces the stored list with workspaces inside one transaction.
func (r *WorkspaceRepository) Save(ctx context.Context, workspaces []*models.Workspace) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM workspaces"); err != nil {
		return fmt.Errorf("failed to clear workspaces: %w", err)
	}

	for i, ws := range workspaces {
		rootJSON, err := json.Marshal(ws.Root)
		if err != nil {
			return fmt.Errorf("failed to encode layout of workspace %s: %w", ws.ID, err)
		}

		var background sql.NullString
		if ws.Background != nil {
			data, err := json.Marshal(ws.Background)
			if err != nil {
				return fmt.Errorf("failed to encode background of workspace %s: %w", ws.ID, err)
			}
			background = sql.NullString{String: string(data), Valid: true}
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO workspaces (id, position, name, icon, color, hotkey, launch_on_startup, background_json, root_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ws.ID, i, ws.Name,
			nullString(ws.Icon), nullString(ws.Color), nullString(ws.Hotkey),
			ws.LaunchOnStartup, background, string(rootJSON),
		)
		if err != nil {
			return fmt.Errorf("failed to save workspace %s: %w", ws.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit workspaces: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure WorkspaceRepository implements the interface
var _ secondary.WorkspaceRepository = (*WorkspaceRepository)(nil)
