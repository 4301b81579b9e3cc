package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/query"
)

// SegmentStore defines the interface for segment persistence.
type SegmentStore interface {
	Create(ctx context.Context, in *domain.SegmentInput, actor *domain.Actor) (*domain.Segment, error)
	Get(ctx context.Context, id string) (*domain.Segment, error)
	List(ctx context.Context) ([]*domain.Segment, error)
	Leads(ctx context.Context, id string) ([]*domain.Lead, error)
	Refresh(ctx context.Context, id string) (*domain.Segment, error)
}

// SQLiteSegmentStore implements SegmentStore backed by SQLite.
type SQLiteSegmentStore struct {
	db *sql.DB
}

// NewSQLiteSegmentStore creates a new SQLiteSegmentStore.
func NewSQLiteSegmentStore(db *sql.DB) *SQLiteSegmentStore {
	return &SQLiteSegmentStore{db: db}
}

const segmentColumns = `id, name, description, filter_criteria, query, lead_count, lead_count_at,
	created_by_name, created_by_email, created_at, updated_at`

func scanSegment(row scanner) (*domain.Segment, error) {
	var (
		seg                  domain.Segment
		criteria             string
		countAt              string
		cbName, cbEmail      sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&seg.ID, &seg.Name, &seg.Description, &criteria, &seg.Query, &seg.LeadCount, &countAt,
		&cbName, &cbEmail, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(criteria), &seg.FilterCriteria); err != nil {
		return nil, fmt.Errorf("decode filter criteria: %w", err)
	}
	seg.LeadCountAt = parseTime(countAt)
	seg.CreatedBy = actorFrom(cbName, cbEmail)
	seg.CreatedAt = parseTime(createdAt)
	seg.UpdatedAt = parseTime(updatedAt)
	return &seg, nil
}

func getSegment(ctx context.Context, q querier, id string) (*domain.Segment, error) {
	seg, err := scanSegment(q.QueryRowContext(ctx, `SELECT `+segmentColumns+` FROM segments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("segment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get segment: %w", err)
	}
	return seg, nil
}

// Create resolves the filter criteria into a query, counts the current
// matches and stores the segment, all in one transaction.
func (s *SQLiteSegmentStore) Create(ctx context.Context, in *domain.SegmentInput, actor *domain.Actor) (*domain.Segment, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, &domain.MissingFieldsError{Fields: []string{"name"}}
	}
	if in.FilterCriteria.Match == "" {
		in.FilterCriteria.Match = domain.MatchBroad
	}

	filter, err := query.Build(in.FilterCriteria)
	if err != nil {
		return nil, err
	}
	stored, err := query.Marshal(filter)
	if err != nil {
		return nil, err
	}
	criteria, err := json.Marshal(in.FilterCriteria)
	if err != nil {
		return nil, fmt.Errorf("encode filter criteria: %w", err)
	}

	seg := &domain.Segment{
		ID:             newID(),
		Name:           name,
		Description:    strings.TrimSpace(in.Description),
		FilterCriteria: in.FilterCriteria,
		Query:          stored,
		CreatedBy:      actor,
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		n, err := countLeads(ctx, tx, filter)
		if err != nil {
			return err
		}
		ts := now()
		seg.LeadCount = n
		seg.LeadCountAt = ts
		seg.CreatedAt = ts
		seg.UpdatedAt = ts

		cbName, cbEmail := actorArgs(actor)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO segments (`+segmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			seg.ID, seg.Name, seg.Description, string(criteria), seg.Query, seg.LeadCount, formatTime(ts),
			cbName, cbEmail, formatTime(ts), formatTime(ts),
		)
		if err != nil {
			return fmt.Errorf("insert segment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seg, nil
}

// Get retrieves a segment by id.
func (s *SQLiteSegmentStore) Get(ctx context.Context, id string) (*domain.Segment, error) {
	return getSegment(ctx, s.db, id)
}

// List returns segments newest first.
func (s *SQLiteSegmentStore) List(ctx context.Context) ([]*domain.Segment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+segmentColumns+` FROM segments ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	segments := []*domain.Segment{}
	for rows.Next() {
		seg, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		segments = append(segments, seg)
	}
	return segments, rows.Err()
}

// Leads re-runs the segment's stored query against current lead data.
func (s *SQLiteSegmentStore) Leads(ctx context.Context, id string) ([]*domain.Lead, error) {
	seg, err := getSegment(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	filter, err := query.Parse(seg.Query)
	if err != nil {
		return nil, err
	}
	return matchLeads(ctx, s.db, filter)
}

// Refresh recounts the segment's matches with its stored query.
func (s *SQLiteSegmentStore) Refresh(ctx context.Context, id string) (*domain.Segment, error) {
	var out *domain.Segment
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		seg, err := getSegment(ctx, tx, id)
		if err != nil {
			return err
		}
		filter, err := query.Parse(seg.Query)
		if err != nil {
			return err
		}
		n, err := countLeads(ctx, tx, filter)
		if err != nil {
			return err
		}
		ts := now()
		if _, err := tx.ExecContext(ctx,
			`UPDATE segments SET lead_count = ?, lead_count_at = ?, updated_at = ? WHERE id = ?`,
			n, formatTime(ts), formatTime(ts), seg.ID,
		); err != nil {
			return fmt.Errorf("refresh segment: %w", err)
		}
		seg.LeadCount = n
		seg.LeadCountAt = ts
		seg.UpdatedAt = ts
		out = seg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
