package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	Create(ctx context.Context, task *domain.Task, actor *domain.Actor) (*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, leadID string) ([]*domain.Task, error)
	Update(ctx context.Context, id string, patch *domain.TaskPatch, actor *domain.Actor) (*domain.Task, error)
}

// SQLiteTaskStore implements TaskStore backed by SQLite.
type SQLiteTaskStore struct {
	db *sql.DB
}

// NewSQLiteTaskStore creates a new SQLiteTaskStore.
func NewSQLiteTaskStore(db *sql.DB) *SQLiteTaskStore {
	return &SQLiteTaskStore{db: db}
}

const taskColumns = `t.id, t.lead_id, t.title, t.description, t.due_date, t.status, t.priority,
	t.assigned_to_name, t.assigned_to_email, t.created_by_name, t.created_by_email, t.created_at, t.updated_at,
	l.business_name, l.contact_person`

const taskFrom = ` FROM tasks t LEFT JOIN leads l ON l.id = t.lead_id`

func scanTask(row scanner) (*domain.Task, error) {
	var (
		t                    domain.Task
		dueDate              sql.NullString
		status, priority     string
		atName, atEmail      sql.NullString
		cbName, cbEmail      sql.NullString
		createdAt, updatedAt string
		bizName, contact     sql.NullString
	)
	err := row.Scan(&t.ID, &t.LeadID, &t.Title, &t.Description, &dueDate, &status, &priority,
		&atName, &atEmail, &cbName, &cbEmail, &createdAt, &updatedAt, &bizName, &contact)
	if err != nil {
		return nil, err
	}
	t.DueDate = timePtr(dueDate)
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.Priority(priority)
	t.AssignedTo = actorFrom(atName, atEmail)
	t.CreatedBy = actorFrom(cbName, cbEmail)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	if bizName.Valid {
		t.Lead = &domain.TaskLead{BusinessName: bizName.String, ContactPerson: contact.String}
	}
	return &t, nil
}

func getTask(ctx context.Context, q querier, id string) (*domain.Task, error) {
	t, err := scanTask(q.QueryRowContext(ctx, `SELECT `+taskColumns+taskFrom+` WHERE t.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Create inserts a task for an existing lead and records a task_created
// event. The acting user becomes the assignee unless one is given.
func (s *SQLiteTaskStore) Create(ctx context.Context, task *domain.Task, actor *domain.Actor) (*domain.Task, error) {
	if task.AssignedTo == nil {
		task.AssignedTo = actor
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	var out *domain.Task
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		lead, err := getLead(ctx, tx, task.LeadID)
		if err != nil {
			return err
		}
		task.LeadID = lead.ID

		ts := now()
		task.ID = newID()
		task.CreatedBy = actor
		task.CreatedAt = ts
		task.UpdatedAt = ts

		atName, atEmail := actorArgs(task.AssignedTo)
		cbName, cbEmail := actorArgs(task.CreatedBy)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO tasks (id, lead_id, title, description, due_date, status, priority,
				assigned_to_name, assigned_to_email, created_by_name, created_by_email, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			task.ID, task.LeadID, task.Title, task.Description, nullableTime(task.DueDate),
			string(task.Status), string(task.Priority), atName, atEmail, cbName, cbEmail,
			formatTime(ts), formatTime(ts),
		)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		if err := insertEvent(ctx, tx, taskCreatedEvent(task, actor)); err != nil {
			return err
		}
		out, err = getTask(ctx, tx, task.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get retrieves a task with its lead summary.
func (s *SQLiteTaskStore) Get(ctx context.Context, id string) (*domain.Task, error) {
	return getTask(ctx, s.db, id)
}

// List returns tasks newest first, optionally only those of one lead.
func (s *SQLiteTaskStore) List(ctx context.Context, leadID string) ([]*domain.Task, error) {
	where, args := ``, []any{}
	if leadID != "" {
		where, args = ` WHERE t.lead_id = ?`, []any{leadID}
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+taskFrom+where+` ORDER BY t.created_at DESC, t.rowid DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update applies a patch to a task. A status change records a task_updated
// event on the owning lead in the same transaction.
func (s *SQLiteTaskStore) Update(ctx context.Context, id string, patch *domain.TaskPatch, actor *domain.Actor) (*domain.Task, error) {
	var out *domain.Task
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		t, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		oldStatus, statusChanged := patch.Apply(t)
		if err := t.Validate(); err != nil {
			return err
		}
		t.UpdatedAt = now()

		atName, atEmail := actorArgs(t.AssignedTo)
		_, err = tx.ExecContext(ctx,
			`UPDATE tasks SET title = ?, description = ?, due_date = ?, status = ?, priority = ?,
				assigned_to_name = ?, assigned_to_email = ?, updated_at = ?
			 WHERE id = ?`,
			t.Title, t.Description, nullableTime(t.DueDate), string(t.Status), string(t.Priority),
			atName, atEmail, formatTime(t.UpdatedAt), t.ID,
		)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		if statusChanged {
			if err := insertEvent(ctx, tx, taskUpdatedEvent(t, oldStatus, actor)); err != nil {
				return err
			}
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
