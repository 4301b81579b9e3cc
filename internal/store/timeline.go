package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
)

// TimelineStore defines the interface for reading timeline events. Events
// are written by the lead and task stores alongside the change they record.
type TimelineStore interface {
	List(ctx context.Context, leadID string) ([]*domain.TimelineEvent, error)
}

// SQLiteTimelineStore implements TimelineStore backed by SQLite.
type SQLiteTimelineStore struct {
	db *sql.DB
}

// NewSQLiteTimelineStore creates a new SQLiteTimelineStore.
func NewSQLiteTimelineStore(db *sql.DB) *SQLiteTimelineStore {
	return &SQLiteTimelineStore{db: db}
}

// List returns a lead's events, newest first.
func (s *SQLiteTimelineStore) List(ctx context.Context, leadID string) ([]*domain.TimelineEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, type, title, description, metadata, created_by_name, created_by_email, created_at
		 FROM timeline_events WHERE lead_id = ? ORDER BY created_at DESC, rowid DESC`,
		leadID,
	)
	if err != nil {
		return nil, fmt.Errorf("list timeline: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := []*domain.TimelineEvent{}
	for rows.Next() {
		var (
			ev              domain.TimelineEvent
			typ, createdAt  string
			metadata        sql.NullString
			cbName, cbEmail sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ev.LeadID, &typ, &ev.Title, &ev.Description, &metadata, &cbName, &cbEmail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan timeline event: %w", err)
		}
		ev.Type = domain.EventType(typ)
		ev.CreatedBy = actorFrom(cbName, cbEmail)
		ev.CreatedAt = parseTime(createdAt)
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &ev.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata: %w", err)
			}
		}
		events = append(events, &ev)
	}
	return events, rows.Err()
}

func insertEvent(ctx context.Context, q querier, ev *domain.TimelineEvent) error {
	if ev.ID == "" {
		ev.ID = newID()
	}
	var metadata any
	if len(ev.Metadata) > 0 {
		b, err := json.Marshal(ev.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		metadata = string(b)
	}
	cbName, cbEmail := actorArgs(ev.CreatedBy)
	_, err := q.ExecContext(ctx,
		`INSERT INTO timeline_events (id, lead_id, type, title, description, metadata, created_by_name, created_by_email, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.LeadID, string(ev.Type), ev.Title, ev.Description, metadata, cbName, cbEmail, formatTime(ev.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert timeline event: %w", err)
	}
	return nil
}

func leadCreatedEvent(l *domain.Lead, actor *domain.Actor, ts time.Time) *domain.TimelineEvent {
	title := "Lead created"
	if l.Source == domain.SourceImport {
		title = "Lead imported"
	}
	return &domain.TimelineEvent{
		LeadID:      l.ID,
		Type:        domain.EventLeadCreated,
		Title:       title,
		Description: fmt.Sprintf("Lead %s (%s) was created", l.LeadID, l.BusinessName),
		Metadata: map[string]any{
			"leadId": l.LeadID,
			"source": l.Source,
		},
		CreatedBy: actor,
		CreatedAt: ts,
	}
}

func leadUpdatedEvent(leadID string, c domain.FieldChange, actor *domain.Actor, ts time.Time) *domain.TimelineEvent {
	return &domain.TimelineEvent{
		LeadID:      leadID,
		Type:        domain.EventLeadUpdated,
		Title:       fmt.Sprintf("Lead %s updated", c.Field),
		Description: fmt.Sprintf("%s changed from %s to %s", c.Field, display(c.OldValue), display(c.NewValue)),
		Metadata: map[string]any{
			"field":    c.Field,
			"oldValue": c.OldValue,
			"newValue": c.NewValue,
		},
		CreatedBy: actor,
		CreatedAt: ts,
	}
}

func taskCreatedEvent(t *domain.Task, actor *domain.Actor) *domain.TimelineEvent {
	return &domain.TimelineEvent{
		LeadID:      t.LeadID,
		Type:        domain.EventTaskCreated,
		Title:       "New Task Created",
		Description: fmt.Sprintf("Task %q was created", t.Title),
		Metadata: map[string]any{
			"taskId":   t.ID,
			"title":    t.Title,
			"priority": string(t.Priority),
			"dueDate":  nullableTime(t.DueDate),
		},
		CreatedBy: actor,
		CreatedAt: t.CreatedAt,
	}
}

func taskUpdatedEvent(t *domain.Task, old domain.TaskStatus, actor *domain.Actor) *domain.TimelineEvent {
	return &domain.TimelineEvent{
		LeadID:      t.LeadID,
		Type:        domain.EventTaskUpdated,
		Title:       "Task status updated",
		Description: fmt.Sprintf("Task %q status changed from %s to %s", t.Title, old, t.Status),
		Metadata: map[string]any{
			"taskId":   t.ID,
			"field":    "status",
			"oldValue": string(old),
			"newValue": string(t.Status),
		},
		CreatedBy: actor,
		CreatedAt: t.UpdatedAt,
	}
}

func display(v any) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprint(v)
}
