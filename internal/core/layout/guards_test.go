package layout

import (
	"strings"
	"testing"

	"github.com/example/tabbyspaces/internal/models"
)

func TestCanRemovePane(t *testing.T) {
	tests := []struct {
		name        string
		ctx         RemovePaneContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "can remove one of several panes",
			ctx:         RemovePaneContext{WorkspaceID: "ws-1", PaneID: "p1", PaneExists: true, PaneCount: 3},
			wantAllowed: true,
		},
		{
			name:        "cannot remove last pane",
			ctx:         RemovePaneContext{WorkspaceID: "ws-1", PaneID: "p1", PaneExists: true, PaneCount: 1},
			wantAllowed: false,
			wantReason:  "cannot remove pane p1: it is the last pane in workspace ws-1",
		},
		{
			name:        "cannot remove missing pane",
			ctx:         RemovePaneContext{WorkspaceID: "ws-1", PaneID: "p9", PaneExists: false, PaneCount: 3},
			wantAllowed: false,
			wantReason:  "pane p9 not found in workspace ws-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanRemovePane(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanEditPane(t *testing.T) {
	if r := CanEditPane(EditPaneContext{WorkspaceID: "ws-1", PaneID: "p1", PaneExists: true}); !r.Allowed {
		t.Errorf("expected existing pane to be editable, got %q", r.Reason)
	}
	r := CanEditPane(EditPaneContext{WorkspaceID: "ws-1", PaneID: "p1"})
	if r.Allowed {
		t.Fatal("expected missing pane to be rejected")
	}
	if r.Error() == nil {
		t.Error("expected Error() to return an error when not allowed")
	}
}

func TestCanResize(t *testing.T) {
	tests := []struct {
		name        string
		ctx         ResizeContext
		wantAllowed bool
	}{
		{"first of two", ResizeContext{Index: 0, RatioCount: 2}, true},
		{"last of two", ResizeContext{Index: 1, RatioCount: 2}, true},
		{"past end", ResizeContext{Index: 2, RatioCount: 2}, false},
		{"negative", ResizeContext{Index: -1, RatioCount: 2}, false},
		{"pair needs neighbour", ResizeContext{Index: 1, RatioCount: 2, Pair: true}, false},
		{"pair with neighbour", ResizeContext{Index: 0, RatioCount: 2, Pair: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanResize(tt.ctx).Allowed; got != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", got, tt.wantAllowed)
			}
		})
	}
}

func TestGuardResult_ErrorNilWhenAllowed(t *testing.T) {
	if err := (GuardResult{Allowed: true}).Error(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestValidateTree(t *testing.T) {
	tests := []struct {
		name    string
		root    *models.Split
		wantErr string
	}{
		{
			name: "valid nested tree",
			root: split(models.Horizontal, []float64{0.5, 0.5},
				pane("a"),
				nested(models.Vertical, []float64{0.5, 0.5}, pane("b"), pane("c")),
			),
		},
		{name: "nil root", root: nil, wantErr: "no root split"},
		{
			name:    "ratio count mismatch",
			root:    split(models.Horizontal, []float64{1}, pane("a"), pane("b")),
			wantErr: "1 ratios for 2 children",
		},
		{
			name:    "empty split",
			root:    split(models.Horizontal, nil),
			wantErr: "split has no children",
		},
		{
			name:    "duplicate pane id",
			root:    split(models.Horizontal, []float64{0.5, 0.5}, pane("a"), pane("a")),
			wantErr: "duplicate pane id a",
		},
		{
			name:    "bad orientation",
			root:    split("diagonal", []float64{1}, pane("a")),
			wantErr: "invalid orientation",
		},
		{
			name:    "zero ratio",
			root:    split(models.Horizontal, []float64{0, 1}, pane("a"), pane("b")),
			wantErr: "ratio 0 out of range",
		},
		{
			name: "kind payload mismatch",
			root: split(models.Horizontal, []float64{1},
				&models.Node{Kind: models.KindSplit, Pane: &models.Pane{ID: "a"}},
			),
			wantErr: "split node has wrong payload",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTree(tt.root)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
