package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/tabbyspaces/internal/logging"
	"github.com/example/tabbyspaces/internal/models"
)

func newTestProfileService(list ...*models.Workspace) (*ProfileServiceImpl, *mockProfileSyncer) {
	syncer := newMockProfileSyncer()
	svc := NewProfileService(newMockWorkspaceRepository(list...), newMockProfileCatalog(), syncer, logging.Discard())
	return svc, syncer
}

func TestProfileListAvailable_Groups(t *testing.T) {
	svc, _ := newTestProfileService()

	groups, err := svc.ListAvailable(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got := map[string][]string{}
	var order []string
	for _, g := range groups {
		order = append(order, g.Name)
		for _, p := range g.Profiles {
			got[g.Name] = append(got[g.Name], p.ID)
		}
	}
	if strings.Join(order, ",") != "Built-in,Custom,Shells" {
		t.Errorf("unexpected group order %v", order)
	}
	if len(got["Built-in"]) != 1 || got["Built-in"][0] != "local:bash" {
		t.Errorf("unexpected built-in group %v", got["Built-in"])
	}
	for _, ids := range got {
		for _, id := range ids {
			if strings.HasPrefix(id, "ssh:") || strings.HasPrefix(id, "split-layout:") {
				t.Errorf("expected %s to be filtered out", id)
			}
		}
	}
}

func TestSyncProfiles(t *testing.T) {
	a := testWorkspace("w1", "Alpha")
	a.Background = &models.Background{Type: models.BackgroundColor, Value: "#112233"}
	svc, syncer := newTestProfileService(a, testWorkspace("w2", "Beta"))

	resp, err := svc.SyncProfiles(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Added != 2 || resp.Path == "" {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(syncer.profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(syncer.profiles))
	}
	if id := syncer.profiles[0].ID; id != "split-layout:tabbyspaces:alpha:w1" {
		t.Errorf("unexpected profile id %s", id)
	}
	if !strings.Contains(syncer.css, "#112233") || strings.Contains(syncer.css, "w2") {
		t.Errorf("expected only Alpha's background rules, got %q", syncer.css)
	}

	// A second sync replaces rather than appends.
	resp, err = svc.SyncProfiles(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Removed != 2 || resp.Added != 2 {
		t.Errorf("expected 2 removed and 2 added, got %+v", resp)
	}
}

func TestSyncProfiles_Error(t *testing.T) {
	svc, syncer := newTestProfileService(testWorkspace("w1", "Alpha"))
	syncer.syncErr = errors.New("read-only")

	if _, err := svc.SyncProfiles(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
	if err := svc.SyncWorkspaces(context.Background(), nil); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGetWorkspaceProfile(t *testing.T) {
	svc, _ := newTestProfileService(testWorkspace("w1", "Alpha"))

	profile, err := svc.GetWorkspaceProfile(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if profile.Type != models.ProfileTypeSplitLayout || profile.Name != "Alpha" {
		t.Errorf("unexpected profile %+v", profile)
	}
	root := profile.Options.RecoveryToken
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 root children, got %d", len(root.Children))
	}
	if leaf := root.Children[0]; leaf.Profile == nil || leaf.Profile.ID != "local:bash" {
		t.Errorf("expected first leaf bound to local:bash, got %+v", leaf.Profile)
	}

	if _, err := svc.GetWorkspaceProfile(context.Background(), "nope"); !errors.Is(err, ErrWorkspaceNotFound) {
		t.Errorf("expected ErrWorkspaceNotFound, got %v", err)
	}
}
