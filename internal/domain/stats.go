package domain

import "time"

// FollowUp is an upcoming follow-up shown on the dashboard.
type FollowUp struct {
	ID           string    `json:"_id"`
	BusinessName string    `json:"businessName"`
	FollowUpDate time.Time `json:"followUpDate"`
}

// DashboardStats is the dashboard summary.
type DashboardStats struct {
	TotalLeads        int                `json:"totalLeads"`
	LeadsByStatus     map[LeadStatus]int `json:"leadsByStatus"`
	UpcomingFollowUps []FollowUp         `json:"upcomingFollowUps"`
}
