package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/tabbyspaces/internal/ports/primary"
	"github.com/example/tabbyspaces/internal/ports/secondary"
)

func TestListLogs(t *testing.T) {
	repo := &mockEventRepository{}
	_ = repo.Create(context.Background(), &secondary.EventRecord{
		Timestamp:  "2026-10-01T10:00:00Z",
		ActorID:    "cli:me",
		EntityType: "workspace",
		EntityID:   "w1",
		Action:     "update",
		FieldName:  "name",
		OldValue:   "A",
		NewValue:   "B",
	})
	svc := NewLogService(repo)

	entries, err := svc.ListLogs(context.Background(), primary.LogFilters{EntityID: "w1", Action: "update", Limit: 5})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.ID != 1 || e.ActorID != "cli:me" || e.FieldName != "name" || e.NewValue != "B" {
		t.Errorf("unexpected entry %+v", e)
	}
	want := secondary.EventFilters{EntityID: "w1", Action: "update", Limit: 5}
	if repo.lastFilter != want {
		t.Errorf("expected filters %+v, got %+v", want, repo.lastFilter)
	}
}

func TestListLogs_Error(t *testing.T) {
	repo := &mockEventRepository{listErr: errors.New("locked")}
	svc := NewLogService(repo)

	if _, err := svc.ListLogs(context.Background(), primary.LogFilters{}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestListLogs_Filters(t *testing.T) {
	repo := &mockEventRepository{}
	svc := NewLogService(repo)

	if _, err := svc.ListLogs(context.Background(), primary.LogFilters{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.lastFilter.Limit != DefaultHistoryLimit {
		t.Errorf("expected default limit %d, got %d", DefaultHistoryLimit, repo.lastFilter.Limit)
	}

	if _, err := svc.ListLogs(context.Background(), primary.LogFilters{Action: "rename"}); err == nil {
		t.Error("expected unknown action to be rejected")
	}
}

func TestPruneLogs(t *testing.T) {
	repo := &mockEventRepository{pruned: 3}
	svc := NewLogService(repo)

	n, err := svc.PruneLogs(context.Background(), 30)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 3 || repo.pruneDays != 30 {
		t.Errorf("expected 3 pruned at 30 days, got %d at %d", n, repo.pruneDays)
	}

	if _, err := svc.PruneLogs(context.Background(), -1); err == nil {
		t.Error("expected negative days to be rejected")
	}
}
