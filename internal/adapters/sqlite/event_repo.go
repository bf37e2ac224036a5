package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/tabbyspaces/internal/ports/secondary"
)

// EventRepository implements secondary.EventRepository with SQLite.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new SQLite workspace event repository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create persists a new event.
func (r *EventRepository) Create(ctx context.Context, record *secondary.EventRecord) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO workspace_events (actor_id, entity_type, entity_id, action, field_name, old_value, new_value) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullString(record.ActorID),
		record.EntityType,
		record.EntityID,
		record.Action,
		nullString(record.FieldName),
		nullString(record.OldValue),
		nullString(record.NewValue),
	)
	if err != nil {
		return fmt.Errorf("failed to create workspace event: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		record.ID = id
	}
	return nil
}

// List retrieves events matching the filters, newest first.
func (r *EventRepository) List(ctx context.Context, filters secondary.EventFilters) ([]*secondary.EventRecord, error) {
	query := `SELECT id, timestamp, actor_id, entity_type, entity_id, action, field_name, old_value, new_value FROM workspace_events WHERE 1=1`
	args := []any{}

	if filters.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filters.EntityID)
	}

	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.EventRecord
	for rows.Next() {
		var (
			actorID   sql.NullString
			fieldName sql.NullString
			oldValue  sql.NullString
			newValue  sql.NullString
			timestamp time.Time
		)

		record := &secondary.EventRecord{}
		err := rows.Scan(&record.ID, &timestamp, &actorID, &record.EntityType, &record.EntityID,
			&record.Action, &fieldName, &oldValue, &newValue)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workspace event: %w", err)
		}

		record.Timestamp = timestamp.Format(time.RFC3339)
		record.ActorID = actorID.String
		record.FieldName = fieldName.String
		record.OldValue = oldValue.String
		record.NewValue = newValue.String
		events = append(events, record)
	}

	return events, rows.Err()
}

// Prune deletes events older than the given number of days.
func (r *EventRepository) Prune(ctx context.Context, olderThanDays int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM workspace_events WHERE timestamp < datetime('now', ?)",
		fmt.Sprintf("-%d days", olderThanDays),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune workspace events: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

// Ensure EventRepository implements the interface
var _ secondary.EventRepository = (*EventRepository)(nil)
