package app

import (
	"context"
	"fmt"

	"github.com/example/tabbyspaces/internal/ports/primary"
	"github.com/example/tabbyspaces/internal/ports/secondary"
)

// LogServiceImpl implements the LogService interface.
type LogServiceImpl struct {
	eventRepo secondary.EventRepository
}

// NewLogService creates a new LogService with injected dependencies.
func NewLogService(eventRepo secondary.EventRepository) *LogServiceImpl {
	return &LogServiceImpl{
		eventRepo: eventRepo,
	}
}

// DefaultHistoryLimit caps ListLogs when the caller sets no limit.
const DefaultHistoryLimit = 50

// ListLogs retrieves history entries matching the given filters.
func (s *LogServiceImpl) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	switch filters.Action {
	case "", secondary.ActionCreate, secondary.ActionUpdate, secondary.ActionDelete:
	default:
		return nil, fmt.Errorf("unknown action %q (want create, update or delete)", filters.Action)
	}
	if filters.Limit <= 0 {
		filters.Limit = DefaultHistoryLimit
	}

	records, err := s.eventRepo.List(ctx, secondary.EventFilters{
		EntityID: filters.EntityID,
		Action:   filters.Action,
		Limit:    filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]*primary.LogEntry, len(records))
	for i, r := range records {
		entries[i] = recordToLogEntry(r)
	}
	return entries, nil
}

// PruneLogs deletes entries older than the specified number of days.
func (s *LogServiceImpl) PruneLogs(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 0 {
		return 0, fmt.Errorf("days must not be negative, got %d", olderThanDays)
	}
	n, err := s.eventRepo.Prune(ctx, olderThanDays)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return n, nil
}

func recordToLogEntry(r *secondary.EventRecord) *primary.LogEntry {
	return &primary.LogEntry{
		ID:         r.ID,
		Timestamp:  r.Timestamp,
		ActorID:    r.ActorID,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Action:     r.Action,
		FieldName:  r.FieldName,
		OldValue:   r.OldValue,
		NewValue:   r.NewValue,
	}
}

var _ primary.LogService = (*LogServiceImpl)(nil)
