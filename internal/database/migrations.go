package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements that are executed together in a single transaction. The
// version number is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: record tables
	{
		`CREATE TABLE leads (
			id TEXT PRIMARY KEY,
			lead_id TEXT NOT NULL,
			business_name TEXT NOT NULL,
			business_type TEXT NOT NULL DEFAULT 'Other',
			contact_person TEXT NOT NULL DEFAULT '',
			phone_number TEXT NOT NULL DEFAULT '',
			phone_e164 TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			business_category TEXT NOT NULL,
			website_url TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			service_interest TEXT NOT NULL DEFAULT '',
			website_status TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'new',
			priority TEXT NOT NULL DEFAULT 'medium',
			source TEXT NOT NULL DEFAULT 'manual',
			follow_up_date TEXT,
			is_archived INTEGER NOT NULL DEFAULT 0,
			created_by_name TEXT,
			created_by_email TEXT,
			updated_by_name TEXT,
			updated_by_email TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE tasks (
			id TEXT PRIMARY KEY,
			lead_id TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			due_date TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			priority TEXT NOT NULL DEFAULT 'medium',
			assigned_to_name TEXT,
			assigned_to_email TEXT,
			created_by_name TEXT,
			created_by_email TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE segments (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			filter_criteria TEXT NOT NULL,
			query TEXT NOT NULL,
			lead_count INTEGER NOT NULL DEFAULT 0,
			lead_count_at TEXT NOT NULL,
			created_by_name TEXT,
			created_by_email TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE timeline_events (
			id TEXT PRIMARY KEY,
			lead_id TEXT NOT NULL,
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			metadata TEXT,
			created_by_name TEXT,
			created_by_email TEXT,
			created_at TEXT NOT NULL
		)`,

		`CREATE TABLE users (
			uid TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			name TEXT NOT NULL,
			photo_url TEXT NOT NULL DEFAULT '',
			last_login TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	},

	// Migration 2: lead id sequence and secondary indexes
	{
		`CREATE TABLE sequences (
			name TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		)`,
		`INSERT INTO sequences (name, value) VALUES ('lead', 0)`,

		`CREATE UNIQUE INDEX idx_leads_lead_id ON leads(lead_id)`,
		`CREATE INDEX idx_leads_business_name ON leads(business_name)`,
		`CREATE INDEX idx_leads_email ON leads(email)`,
		`CREATE INDEX idx_leads_status ON leads(status, is_archived)`,
		`CREATE INDEX idx_leads_priority ON leads(priority)`,
		`CREATE INDEX idx_leads_follow_up ON leads(follow_up_date)`,
		`CREATE INDEX idx_leads_location ON leads(country, state, city)`,
		`CREATE INDEX idx_leads_created_at ON leads(created_at)`,
		`CREATE INDEX idx_tasks_lead ON tasks(lead_id, created_at)`,
		`CREATE INDEX idx_tasks_status ON tasks(status)`,
		`CREATE INDEX idx_segments_name ON segments(name)`,
		`CREATE INDEX idx_segments_created_by ON segments(created_by_email)`,
		`CREATE INDEX idx_timeline_lead ON timeline_events(lead_id, created_at)`,
		`CREATE UNIQUE INDEX idx_users_email ON users(email)`,
	},
}
