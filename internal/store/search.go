package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
)

// Search categories.
const (
	SearchAll      = "all"
	SearchLeads    = "leads"
	SearchSegments = "segments"
	SearchTasks    = "tasks"
)

// SearchOpts configures a global search. Page is 1-based and Limit sizes
// the lead page; segments and tasks are capped at five hits.
type SearchOpts struct {
	Query string
	Type  string
	Page  int
	Limit int
}

// SearchStore defines the interface for global search.
type SearchStore interface {
	Search(ctx context.Context, opts SearchOpts) (*domain.SearchResult, error)
}

// SQLiteSearchStore implements SearchStore backed by SQLite.
type SQLiteSearchStore struct {
	db *sql.DB
}

// NewSQLiteSearchStore creates a new SQLiteSearchStore.
func NewSQLiteSearchStore(db *sql.DB) *SQLiteSearchStore {
	return &SQLiteSearchStore{db: db}
}

const (
	defaultSearchLimit = 5
	maxSearchLimit     = 50
)

// Search matches q case-insensitively as a literal substring. Archived
// leads are excluded. An empty query returns empty categories.
func (s *SQLiteSearchStore) Search(ctx context.Context, opts SearchOpts) (*domain.SearchResult, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultSearchLimit
	}
	if opts.Limit > maxSearchLimit {
		opts.Limit = maxSearchLimit
	}
	if opts.Type == "" {
		opts.Type = SearchAll
	}
	switch opts.Type {
	case SearchAll, SearchLeads, SearchSegments, SearchTasks:
	default:
		return nil, &domain.ValidationError{Field: "type", Message: fmt.Sprintf("invalid search type %q", opts.Type)}
	}

	res := &domain.SearchResult{
		Segments:   []domain.SearchSegment{},
		Tasks:      []domain.SearchTask{},
		Leads:      []*domain.Lead{},
		Pagination: domain.SearchPagination{Page: opts.Page},
	}
	q := strings.TrimSpace(opts.Query)
	if q == "" {
		return res, nil
	}

	want := func(kind string) bool { return opts.Type == SearchAll || opts.Type == kind }

	if want(SearchLeads) {
		if err := s.searchLeads(ctx, q, opts, res); err != nil {
			return nil, err
		}
	}
	if want(SearchSegments) {
		segs, err := s.searchSegments(ctx, q, defaultSearchLimit)
		if err != nil {
			return nil, err
		}
		res.Segments = segs
	}
	if want(SearchTasks) {
		tasks, err := s.searchTasks(ctx, q, defaultSearchLimit)
		if err != nil {
			return nil, err
		}
		res.Tasks = tasks
	}
	return res, nil
}

func (s *SQLiteSearchStore) searchLeads(ctx context.Context, q string, opts SearchOpts, res *domain.SearchResult) error {
	where, args := containsAny(q, leadSearchColumns...)
	where = `is_archived = 0 AND ` + where

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE `+where, args...).Scan(&total); err != nil {
		return fmt.Errorf("count lead matches: %w", err)
	}

	offset := (opts.Page - 1) * opts.Limit
	leads, err := selectLeads(ctx, s.db, where, leadOrder+` LIMIT ? OFFSET ?`, append(args, opts.Limit, offset)...)
	if err != nil {
		return err
	}
	res.Leads = leads
	res.Pagination.Total = total
	res.Pagination.HasMore = offset+len(leads) < total
	return nil
}

func (s *SQLiteSearchStore) searchSegments(ctx context.Context, q string, limit int) ([]domain.SearchSegment, error) {
	where, args := containsAny(q, "name", "description")
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, lead_count FROM segments WHERE `+where+` ORDER BY created_at DESC LIMIT ?`,
		append(args, limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("search segments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.SearchSegment{}
	for rows.Next() {
		var seg domain.SearchSegment
		if err := rows.Scan(&seg.ID, &seg.Name, &seg.Description, &seg.LeadCount); err != nil {
			return nil, fmt.Errorf("scan segment hit: %w", err)
		}
		out = append(out, seg)
	}
	return out, rows.Err()
}

func (s *SQLiteSearchStore) searchTasks(ctx context.Context, q string, limit int) ([]domain.SearchTask, error) {
	where, args := containsAny(q, "t.title", "t.description")
	rows, err := s.db.QueryContext(ctx,
		`SELECT t.id, t.title, t.status, t.lead_id, COALESCE(l.business_name, '')
		 FROM tasks t LEFT JOIN leads l ON l.id = t.lead_id
		 WHERE `+where+` ORDER BY t.created_at DESC LIMIT ?`,
		append(args, limit)...,
	)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []domain.SearchTask{}
	for rows.Next() {
		var (
			hit    domain.SearchTask
			status string
		)
		if err := rows.Scan(&hit.ID, &hit.Title, &status, &hit.LeadID, &hit.BusinessName); err != nil {
			return nil, fmt.Errorf("scan task hit: %w", err)
		}
		hit.Status = domain.TaskStatus(status)
		out = append(out, hit)
	}
	return out, rows.Err()
}
