package primary

import "context"

// LogService defines the primary port for workspace history.
type LogService interface {
	// ListLogs retrieves history entries matching the given filters, newest first.
	ListLogs(ctx context.Context, filters LogFilters) ([]*LogEntry, error)

	// PruneLogs deletes entries older than the specified number of days.
	PruneLogs(ctx context.Context, olderThanDays int) (int, error)
}

// LogEntry represents a workspace history entry at the port boundary.
type LogEntry struct {
	ID         int64
	Timestamp  string
	ActorID    string
	EntityType string
	EntityID   string
	Action     string // 'create', 'update', 'delete'
	FieldName  string // For updates only
	OldValue   string
	NewValue   string
}

// LogFilters contains filter options for querying history.
type LogFilters struct {
	EntityID string
	Action   string
	Limit    int
}
