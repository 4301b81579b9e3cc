package domain

import "time"

// EventType classifies timeline events.
type EventType string

const (
	EventLeadCreated EventType = "lead_created"
	EventLeadUpdated EventType = "lead_updated"
	EventTaskCreated EventType = "task_created"
	EventTaskUpdated EventType = "task_updated"
)

// TimelineEvent is an immutable audit entry attached to a lead.
type TimelineEvent struct {
	ID          string         `json:"_id"`
	LeadID      string         `json:"leadId"`
	Type        EventType      `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedBy   *Actor         `json:"createdBy,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
