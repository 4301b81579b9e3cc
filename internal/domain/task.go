package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus is the state of a follow-up task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// Task is a follow-up action tied to a lead. LeadID references Lead.ID.
type Task struct {
	ID          string     `json:"_id"`
	LeadID      string     `json:"leadId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	AssignedTo  *Actor     `json:"assignedTo,omitempty"`
	CreatedBy   *Actor     `json:"createdBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Lead        *TaskLead  `json:"lead,omitempty"`
}

// TaskLead is the lead summary attached to task listings.
type TaskLead struct {
	BusinessName  string `json:"businessName"`
	ContactPerson string `json:"contactPerson"`
}

// Validate checks required fields and enums.
func (t *Task) Validate() error {
	var missing []string
	if t.LeadID == "" {
		missing = append(missing, "leadId")
	}
	if t.Title == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	if !t.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("invalid task status %q", t.Status)}
	}
	if !t.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("invalid priority %q", t.Priority)}
	}
	return nil
}

// TaskInput is the body of a task create request.
type TaskInput struct {
	LeadID      string       `json:"leadId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     OptionalTime `json:"dueDate"`
	Status      TaskStatus   `json:"status"`
	Priority    Priority     `json:"priority"`
	AssignedTo  *Actor       `json:"assignedTo"`
}

// Task builds a task with defaults applied.
func (in *TaskInput) Task() *Task {
	t := &Task{
		LeadID:      strings.TrimSpace(in.LeadID),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		DueDate:     in.DueDate.Value,
		Status:      in.Status,
		Priority:    in.Priority,
		AssignedTo:  in.AssignedTo,
	}
	if t.Status == "" {
		t.Status = TaskPending
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return t
}

// TaskPatch is a partial task update. Only these fields may be changed.
type TaskPatch struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	DueDate     OptionalTime `json:"dueDate"`
	Status      *TaskStatus  `json:"status"`
	Priority    *Priority    `json:"priority"`
	AssignedTo  *Actor       `json:"assignedTo"`
}

// Empty reports whether the patch changes nothing.
func (p *TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && !p.DueDate.Set &&
		p.Status == nil && p.Priority == nil && p.AssignedTo == nil
}

// Apply merges the patch into t and reports the previous status when the
// status changed.
func (p *TaskPatch) Apply(t *Task) (oldStatus TaskStatus, statusChanged bool) {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Value
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssignedTo != nil {
		t.AssignedTo = p.AssignedTo
	}
	if p.Status != nil && *p.Status != t.Status {
		oldStatus, statusChanged = t.Status, true
		t.Status = *p.Status
	}
	return oldStatus, statusChanged
}

// TaskPatchFields lists the JSON names accepted in a TaskPatch.
var TaskPatchFields = []string{"title", "description", "dueDate", "status", "priority", "assignedTo"}
