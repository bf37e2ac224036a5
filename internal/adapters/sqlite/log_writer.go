package sqlite

import (
	"context"
	"unicode/utf8"

	"github.com/example/tabbyspaces/internal/ctxutil"
	"github.com/example/tabbyspaces/internal/ports/secondary"
)

// SystemActor is recorded for changes made without an actor in context,
// such as migrations or startup launches run from a hook.
const SystemActor = "system"

// maxValueRunes bounds stored old/new values. Layout changes are logged as
// outlines, which grow with the pane count.
const maxValueRunes = 240

// HistoryWriter records workspace changes as event rows.
type HistoryWriter struct {
	events secondary.EventRepository
}

// NewHistoryWriter creates a HistoryWriter on top of an event repository.
func NewHistoryWriter(events secondary.EventRepository) *HistoryWriter {
	return &HistoryWriter{events: events}
}

func (w *HistoryWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	return w.record(ctx, &secondary.EventRecord{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     secondary.ActionCreate,
	})
}

// LogUpdate records one field change. Unchanged values are skipped.
func (w *HistoryWriter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	if oldValue == newValue {
		return nil
	}
	return w.record(ctx, &secondary.EventRecord{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     secondary.ActionUpdate,
		FieldName:  fieldName,
		OldValue:   clipValue(oldValue),
		NewValue:   clipValue(newValue),
	})
}

func (w *HistoryWriter) LogDelete(ctx context.Context, entityType, entityID string) error {
	return w.record(ctx, &secondary.EventRecord{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     secondary.ActionDelete,
	})
}

func (w *HistoryWriter) record(ctx context.Context, rec *secondary.EventRecord) error {
	rec.ActorID = ctxutil.ActorFromContext(ctx)
	if rec.ActorID == "" {
		rec.ActorID = SystemActor
	}
	return w.events.Create(ctx, rec)
}

func clipValue(v string) string {
	if utf8.RuneCountInString(v) <= maxValueRunes {
		return v
	}
	r := []rune(v)
	return string(r[:maxValueRunes-3]) + "..."
}

var _ secondary.LogWriter = (*HistoryWriter)(nil)
