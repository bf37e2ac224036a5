// Package sqlite_test contains integration tests for SQLite repositories.
//
// Every test database is built from db.GetSchemaSQL() so tests run against
// the authoritative schema. Do not hardcode CREATE TABLE statements here.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/tabbyspaces/internal/db"
	"github.com/example/tabbyspaces/internal/models"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// A single connection keeps every query on the same in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// testWorkspace builds a workspace with a nested two-level layout.
func testWorkspace(id, name string) *models.Workspace {
	return &models.Workspace{
		ID:    id,
		Name:  name,
		Icon:  "code",
		Color: "#3b82f6",
		Root: &models.Split{
			Orientation: models.Horizontal,
			Ratios:      []float64{0.6, 0.4},
			Children: []*models.Node{
				models.PaneNode(&models.Pane{ID: id + "-a", ProfileID: "local:zsh", Cwd: "/src"}),
				models.SplitNode(&models.Split{
					Orientation: models.Vertical,
					Ratios:      []float64{0.5, 0.5},
					Children: []*models.Node{
						models.PaneNode(&models.Pane{ID: id + "-b", StartupCommand: "npm run dev"}),
						models.PaneNode(&models.Pane{ID: id + "-c", Title: "logs"}),
					},
				}),
			},
		},
	}
}
