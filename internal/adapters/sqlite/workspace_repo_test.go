package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/tabbyspaces/internal/adapters/sqlite"
	"github.com/example/tabbyspaces/internal/models"
)

func TestWorkspaceRepository_SaveAndLoad(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewWorkspaceRepository(db)
	ctx := context.Background()

	ws := testWorkspace("ws-1", "Full Stack")
	ws.Hotkey = "ctrl-alt-1"
	ws.LaunchOnStartup = true
	ws.Background = &models.Background{Type: models.BackgroundColor, Value: "#101010"}

	if err := repo.Save(ctx, []*models.Workspace{ws}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 workspace, got %d", len(loaded))
	}

	got := loaded[0]
	if got.Name != "Full Stack" || got.Hotkey != "ctrl-alt-1" || !got.LaunchOnStartup {
		t.Errorf("metadata not preserved: %+v", got)
	}
	if got.Background == nil || got.Background.Value != "#101010" {
		t.Errorf("expected background to round trip, got %+v", got.Background)
	}

	inner := got.Root.Children[1]
	if inner.Kind != models.KindSplit || inner.Split.Orientation != models.Vertical {
		t.Fatalf("expected nested vertical split, got %+v", inner)
	}
	if cmd := inner.Split.Children[0].Pane.StartupCommand; cmd != "npm run dev" {
		t.Errorf("expected startup command preserved, got %q", cmd)
	}
	if r := got.Root.Ratios; r[0] != 0.6 || r[1] != 0.4 {
		t.Errorf("expected ratios [0.6 0.4], got %v", r)
	}
}

func TestWorkspaceRepository_SaveReplacesWholeList(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewWorkspaceRepository(db)
	ctx := context.Background()

	first := []*models.Workspace{testWorkspace("a", "A"), testWorkspace("b", "B"), testWorkspace("c", "C")}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second := []*models.Workspace{testWorkspace("c", "C"), testWorkspace("a", "A")}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(loaded) != 2 || loaded[0].ID != "c" || loaded[1].ID != "a" {
		ids := []string{}
		for _, w := range loaded {
			ids = append(ids, w.ID)
		}
		t.Errorf("expected [c a], got %v", ids)
	}
}

func TestWorkspaceRepository_FailedSaveKeepsPreviousList(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewWorkspaceRepository(db)
	ctx := context.Background()

	if err := repo.Save(ctx, []*models.Workspace{testWorkspace("a", "A")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Duplicate primary keys abort the transaction mid-way.
	dup := []*models.Workspace{testWorkspace("x", "X"), testWorkspace("x", "X again")}
	if err := repo.Save(ctx, dup); err == nil {
		t.Fatal("expected error for duplicate ids")
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(loaded) != 1 || loaded[0].ID != "a" {
		t.Errorf("expected previous list to survive, got %d workspaces", len(loaded))
	}
}

func TestWorkspaceRepository_LoadEmpty(t *testing.T) {
	repo := sqlite.NewWorkspaceRepository(setupTestDB(t))

	loaded, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty list, got %d", len(loaded))
	}
}
