package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
)

// StatsStore defines the interface for dashboard aggregation.
type StatsStore interface {
	Dashboard(ctx context.Context, at time.Time) (*domain.DashboardStats, error)
}

// SQLiteStatsStore implements StatsStore backed by SQLite.
type SQLiteStatsStore struct {
	db *sql.DB
}

// NewSQLiteStatsStore creates a new SQLiteStatsStore.
func NewSQLiteStatsStore(db *sql.DB) *SQLiteStatsStore {
	return &SQLiteStatsStore{db: db}
}

const upcomingFollowUps = 5

// Dashboard counts non-archived leads overall and per status, and lists the
// next follow-ups due at or after at.
func (s *SQLiteStatsStore) Dashboard(ctx context.Context, at time.Time) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{
		LeadsByStatus:     make(map[domain.LeadStatus]int, len(domain.LeadStatuses)),
		UpcomingFollowUps: []domain.FollowUp{},
	}
	for _, st := range domain.LeadStatuses {
		stats.LeadsByStatus[st] = 0
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM leads WHERE is_archived = 0 GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count leads by status: %w", err)
	}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.TotalLeads += n
		if _, ok := stats.LeadsByStatus[domain.LeadStatus(status)]; ok {
			stats.LeadsByStatus[domain.LeadStatus(status)] = n
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	rows, err = s.db.QueryContext(ctx,
		`SELECT id, business_name, follow_up_date FROM leads
		 WHERE status = ? AND is_archived = 0 AND follow_up_date >= ?
		 ORDER BY follow_up_date ASC LIMIT ?`,
		string(domain.StatusFollowUp), formatTime(at), upcomingFollowUps,
	)
	if err != nil {
		return nil, fmt.Errorf("upcoming follow-ups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			f   domain.FollowUp
			due string
		)
		if err := rows.Scan(&f.ID, &f.BusinessName, &due); err != nil {
			return nil, fmt.Errorf("scan follow-up: %w", err)
		}
		f.FollowUpDate = parseTime(due)
		stats.UpcomingFollowUps = append(stats.UpcomingFollowUps, f)
	}
	return stats, rows.Err()
}
