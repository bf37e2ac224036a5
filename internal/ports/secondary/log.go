package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations extract the actor from context.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error

	// LogDelete logs a delete operation for an entity.
	LogDelete(ctx context.Context, entityType, entityID string) error
}

// Event actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// EventRecord is one row of the workspace event log.
type EventRecord struct {
	ID         int64
	Timestamp  string
	ActorID    string
	EntityType string
	EntityID   string
	Action     string // one of the Action constants
	FieldName  string
	OldValue   string
	NewValue   string
}

// EventFilters narrows event log queries.
type EventFilters struct {
	EntityID string
	Action   string
	Limit    int
}

// EventRepository stores workspace audit events.
type EventRepository interface {
	Create(ctx context.Context, record *EventRecord) error
	List(ctx context.Context, filters EventFilters) ([]*EventRecord, error)
	Prune(ctx context.Context, olderThanDays int) (int, error)
}
