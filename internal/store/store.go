package store

import "database/sql"

// Store holds all sub-stores used by the application.
type Store struct {
	DB       *sql.DB
	Leads    LeadStore
	Tasks    TaskStore
	Segments SegmentStore
	Timeline TimelineStore
	Users    UserStore
	Search   SearchStore
	Stats    StatsStore
}

// New creates a Store with all sub-stores initialized.
func New(db *sql.DB) *Store {
	return &Store{
		DB:       db,
		Leads:    NewSQLiteLeadStore(db),
		Tasks:    NewSQLiteTaskStore(db),
		Segments: NewSQLiteSegmentStore(db),
		Timeline: NewSQLiteTimelineStore(db),
		Users:    NewSQLiteUserStore(db),
		Search:   NewSQLiteSearchStore(db),
		Stats:    NewSQLiteStatsStore(db),
	}
}
