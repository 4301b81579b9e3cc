package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/phone"
	"github.com/Abdullah098765/CRM-Software/internal/query"
)

// LeadStore defines the interface for lead persistence.
type LeadStore interface {
	Create(ctx context.Context, lead *domain.Lead, actor *domain.Actor) (*domain.Lead, error)
	CreateBatch(ctx context.Context, leads []*domain.Lead, actor *domain.Actor) ([]*domain.Lead, error)
	Get(ctx context.Context, id string) (*domain.Lead, error)
	List(ctx context.Context, opts LeadListOpts) ([]*domain.Lead, error)
	Update(ctx context.Context, id string, patch *domain.LeadPatch, actor *domain.Actor) (*domain.Lead, error)
	BulkUpdate(ctx context.Context, ids []string, upd *domain.LeadBulkUpdate, actor *domain.Actor) (int, error)
	Archive(ctx context.Context, id string, actor *domain.Actor) (*domain.Lead, error)
	ArchiveMany(ctx context.Context, ids []string, actor *domain.Actor) (int, error)
	Delete(ctx context.Context, id string) error
	Match(ctx context.Context, filter bson.D) ([]*domain.Lead, error)
	Count(ctx context.Context, filter bson.D) (int, error)
	CountSearch(ctx context.Context, q string) (int, error)
}

// LeadListOpts narrows a lead listing. A nil Archived lists every lead.
type LeadListOpts struct {
	Archived *bool
}

// SQLiteLeadStore implements LeadStore backed by SQLite.
type SQLiteLeadStore struct {
	db *sql.DB
}

// NewSQLiteLeadStore creates a new SQLiteLeadStore.
func NewSQLiteLeadStore(db *sql.DB) *SQLiteLeadStore {
	return &SQLiteLeadStore{db: db}
}

const leadColumns = `id, lead_id, business_name, business_type, contact_person, phone_number, phone_e164,
	email, business_category, website_url, city, state, country, notes, service_interest,
	website_status, status, priority, source, follow_up_date, is_archived,
	created_by_name, created_by_email, updated_by_name, updated_by_email, created_at, updated_at`

// leadSearchColumns are matched by free-text lead search.
var leadSearchColumns = []string{
	"business_name", "contact_person", "email", "phone_number",
	"business_category", "business_type", "city", "state", "country",
}

const leadOrder = ` ORDER BY created_at DESC, lead_id DESC`

func scanLead(row scanner) (*domain.Lead, error) {
	var (
		l                    domain.Lead
		status, priority     string
		followUp             sql.NullString
		archived             int
		cbName, cbEmail      sql.NullString
		ubName, ubEmail      sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&l.ID, &l.LeadID, &l.BusinessName, &l.BusinessType, &l.ContactPerson,
		&l.PhoneNumber, &l.PhoneE164, &l.Email, &l.BusinessCategory, &l.WebsiteURL,
		&l.City, &l.State, &l.Country, &l.Notes, &l.ServiceInterest, &l.WebsiteStatus,
		&status, &priority, &l.Source, &followUp, &archived,
		&cbName, &cbEmail, &ubName, &ubEmail, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	l.Status = domain.LeadStatus(status)
	l.Priority = domain.Priority(priority)
	l.FollowUpDate = timePtr(followUp)
	l.IsArchived = archived != 0
	l.CreatedBy = actorFrom(cbName, cbEmail)
	l.UpdatedBy = actorFrom(ubName, ubEmail)
	l.CreatedAt = parseTime(createdAt)
	l.UpdatedAt = parseTime(updatedAt)
	return &l, nil
}

func queryLeads(ctx context.Context, q querier, where string, args ...any) ([]*domain.Lead, error) {
	return selectLeads(ctx, q, where, leadOrder, args...)
}

// selectLeads runs a lead query; tail holds ordering and paging clauses.
func selectLeads(ctx context.Context, q querier, where, tail string, args ...any) ([]*domain.Lead, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+leadColumns+` FROM leads WHERE `+where+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	leads := []*domain.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func getLead(ctx context.Context, q querier, id string) (*domain.Lead, error) {
	l, err := scanLead(q.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = ? OR lead_id = ? LIMIT 1`, id, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lead %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// reserveLeadIDs advances the lead sequence by n and returns the first
// reserved number.
func reserveLeadIDs(ctx context.Context, tx *sql.Tx, n int) (int64, error) {
	var last int64
	err := tx.QueryRowContext(ctx,
		`UPDATE sequences SET value = value + ? WHERE name = 'lead' RETURNING value`, n,
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("reserve lead ids: %w", err)
	}
	return last - int64(n) + 1, nil
}

// FormatLeadID renders a lead sequence number as a 7-digit string.
func FormatLeadID(n int64) string {
	return fmt.Sprintf("%07d", n)
}

func insertLead(ctx context.Context, tx *sql.Tx, l *domain.Lead) error {
	cbName, cbEmail := actorArgs(l.CreatedBy)
	ubName, ubEmail := actorArgs(l.UpdatedBy)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO leads (`+leadColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.LeadID, l.BusinessName, l.BusinessType, l.ContactPerson, l.PhoneNumber, l.PhoneE164,
		l.Email, l.BusinessCategory, l.WebsiteURL, l.City, l.State, l.Country, l.Notes, l.ServiceInterest,
		l.WebsiteStatus, string(l.Status), string(l.Priority), l.Source, nullableTime(l.FollowUpDate), boolInt(l.IsArchived),
		cbName, cbEmail, ubName, ubEmail, formatTime(l.CreatedAt), formatTime(l.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("lead id %s: %w", l.LeadID, ErrConflict)
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func writeLead(ctx context.Context, tx *sql.Tx, l *domain.Lead) error {
	ubName, ubEmail := actorArgs(l.UpdatedBy)
	_, err := tx.ExecContext(ctx,
		`UPDATE leads SET business_name = ?, business_type = ?, contact_person = ?, phone_number = ?,
			phone_e164 = ?, email = ?, business_category = ?, website_url = ?, city = ?, state = ?,
			country = ?, notes = ?, service_interest = ?, website_status = ?, status = ?, priority = ?,
			source = ?, follow_up_date = ?, is_archived = ?, updated_by_name = ?, updated_by_email = ?,
			updated_at = ?
		 WHERE id = ?`,
		l.BusinessName, l.BusinessType, l.ContactPerson, l.PhoneNumber,
		l.PhoneE164, l.Email, l.BusinessCategory, l.WebsiteURL, l.City, l.State,
		l.Country, l.Notes, l.ServiceInterest, l.WebsiteStatus, string(l.Status), string(l.Priority),
		l.Source, nullableTime(l.FollowUpDate), boolInt(l.IsArchived), ubName, ubEmail,
		formatTime(l.UpdatedAt), l.ID,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Create validates and inserts a lead, assigning its sequential lead id and
// recording a lead_created timeline event in the same transaction.
func (s *SQLiteLeadStore) Create(ctx context.Context, lead *domain.Lead, actor *domain.Actor) (*domain.Lead, error) {
	created, err := s.CreateBatch(ctx, []*domain.Lead{lead}, actor)
	if err != nil {
		return nil, err
	}
	return created[0], nil
}

// CreateBatch validates and inserts leads in one transaction with one
// contiguous block of lead ids. Any invalid lead aborts the whole batch.
func (s *SQLiteLeadStore) CreateBatch(ctx context.Context, leads []*domain.Lead, actor *domain.Actor) ([]*domain.Lead, error) {
	if len(leads) == 0 {
		return []*domain.Lead{}, nil
	}
	for _, l := range leads {
		if err := l.Validate(); err != nil {
			return nil, err
		}
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		first, err := reserveLeadIDs(ctx, tx, len(leads))
		if err != nil {
			return err
		}
		ts := now()
		for i, l := range leads {
			l.ID = newID()
			l.LeadID = FormatLeadID(first + int64(i))
			l.PhoneE164 = phone.E164(l.PhoneNumber, l.Country)
			l.IsArchived = false
			l.CreatedBy = actor
			l.UpdatedBy = actor
			l.CreatedAt = ts
			l.UpdatedAt = ts
			if err := insertLead(ctx, tx, l); err != nil {
				return err
			}
			if err := insertEvent(ctx, tx, leadCreatedEvent(l, actor, ts)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return leads, nil
}

// Get retrieves a lead by record id or by its 7-digit lead id.
func (s *SQLiteLeadStore) Get(ctx context.Context, id string) (*domain.Lead, error) {
	return getLead(ctx, s.db, id)
}

// List returns leads newest first.
func (s *SQLiteLeadStore) List(ctx context.Context, opts LeadListOpts) ([]*domain.Lead, error) {
	if opts.Archived != nil {
		return queryLeads(ctx, s.db, `is_archived = ?`, boolInt(*opts.Archived))
	}
	return queryLeads(ctx, s.db, `1=1`)
}

// Update applies a patch to a lead. Changes to status, priority or
// followUpDate each record a lead_updated event in the same transaction.
func (s *SQLiteLeadStore) Update(ctx context.Context, id string, patch *domain.LeadPatch, actor *domain.Actor) (*domain.Lead, error) {
	var out *domain.Lead
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		l, err := getLead(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := applyLeadPatch(ctx, tx, l, patch, actor, now()); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// applyLeadPatch merges, validates and persists a patch, recording timeline
// events for audited changes. It reports whether any column changed.
func applyLeadPatch(ctx context.Context, tx *sql.Tx, l *domain.Lead, patch *domain.LeadPatch, actor *domain.Actor, ts time.Time) (bool, error) {
	before := *l
	changes := patch.Apply(l)
	if err := l.Validate(); err != nil {
		return false, err
	}
	l.PhoneE164 = phone.E164(l.PhoneNumber, l.Country)

	changed := len(changes) > 0 || !sameLeadContent(&before, l)
	if !changed {
		return false, nil
	}

	l.UpdatedBy = actor
	l.UpdatedAt = ts
	if err := writeLead(ctx, tx, l); err != nil {
		return false, err
	}
	for _, c := range changes {
		if err := insertEvent(ctx, tx, leadUpdatedEvent(l.ID, c, actor, l.UpdatedAt)); err != nil {
			return false, err
		}
	}
	return true, nil
}

// sameLeadContent compares the user editable columns of two leads.
func sameLeadContent(a, b *domain.Lead) bool {
	return a.BusinessName == b.BusinessName && a.BusinessType == b.BusinessType &&
		a.ContactPerson == b.ContactPerson && a.PhoneNumber == b.PhoneNumber &&
		a.Email == b.Email && a.BusinessCategory == b.BusinessCategory &&
		a.WebsiteURL == b.WebsiteURL && a.City == b.City && a.State == b.State &&
		a.Country == b.Country && a.Notes == b.Notes && a.ServiceInterest == b.ServiceInterest &&
		a.WebsiteStatus == b.WebsiteStatus && a.Source == b.Source && a.IsArchived == b.IsArchived
}

// BulkUpdate applies the same status, priority or notes change to every
// listed lead and returns how many leads actually changed. Unknown ids are
// skipped.
func (s *SQLiteLeadStore) BulkUpdate(ctx context.Context, ids []string, upd *domain.LeadBulkUpdate, actor *domain.Actor) (int, error) {
	if upd.Status != nil && !upd.Status.Valid() {
		return 0, &domain.ValidationError{Field: "status", Message: fmt.Sprintf("invalid status %q", *upd.Status)}
	}
	if upd.Priority != nil && !upd.Priority.Valid() {
		return 0, &domain.ValidationError{Field: "priority", Message: fmt.Sprintf("invalid priority %q", *upd.Priority)}
	}

	modified := 0
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		ts := now()
		for _, id := range ids {
			l, err := getLead(ctx, tx, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			changed, err := applyLeadPatch(ctx, tx, l, upd.Patch(), actor, ts)
			if err != nil {
				return err
			}
			if changed {
				modified++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return modified, nil
}

// Archive marks one lead archived and returns it.
func (s *SQLiteLeadStore) Archive(ctx context.Context, id string, actor *domain.Actor) (*domain.Lead, error) {
	ubName, ubEmail := actorArgs(actor)
	result, err := s.db.ExecContext(ctx,
		`UPDATE leads SET is_archived = 1, updated_by_name = COALESCE(?, updated_by_name),
			updated_by_email = COALESCE(?, updated_by_email), updated_at = ?
		 WHERE id = ? OR lead_id = ?`,
		ubName, ubEmail, formatTime(now()), id, id,
	)
	if err != nil {
		return nil, fmt.Errorf("archive lead: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("lead %s: %w", id, ErrNotFound)
	}
	return s.Get(ctx, id)
}

// ArchiveMany archives the listed leads and returns how many were not
// already archived.
func (s *SQLiteLeadStore) ArchiveMany(ctx context.Context, ids []string, actor *domain.Actor) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ubName, ubEmail := actorArgs(actor)
	args := []any{ubName, ubEmail, formatTime(now())}
	args = append(args, stringArgs(ids)...)
	args = append(args, stringArgs(ids)...)
	in := placeholders(len(ids))
	result, err := s.db.ExecContext(ctx,
		`UPDATE leads SET is_archived = 1, updated_by_name = COALESCE(?, updated_by_name),
			updated_by_email = COALESCE(?, updated_by_email), updated_at = ?
		 WHERE (id IN (`+in+`) OR lead_id IN (`+in+`)) AND is_archived = 0`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("archive leads: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// Delete removes a lead record. Its tasks and timeline are kept.
func (s *SQLiteLeadStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ? OR lead_id = ?`, id, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("lead %s: %w", id, ErrNotFound)
	}
	return nil
}

// Match returns the leads selected by a filter document, newest first.
func (s *SQLiteLeadStore) Match(ctx context.Context, filter bson.D) ([]*domain.Lead, error) {
	return matchLeads(ctx, s.db, filter)
}

// Count returns the number of leads selected by a filter document.
func (s *SQLiteLeadStore) Count(ctx context.Context, filter bson.D) (int, error) {
	return countLeads(ctx, s.db, filter)
}

// CountSearch counts non-archived leads matching a free-text query. An
// empty query counts nothing.
func (s *SQLiteLeadStore) CountSearch(ctx context.Context, q string) (int, error) {
	if q == "" {
		return 0, nil
	}
	where, args := containsAny(q, leadSearchColumns...)
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE is_archived = 0 AND `+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count lead search: %w", err)
	}
	return n, nil
}

func matchLeads(ctx context.Context, q querier, filter bson.D) ([]*domain.Lead, error) {
	where, args, err := query.Compile(filter)
	if err != nil {
		return nil, err
	}
	return queryLeads(ctx, q, where, args...)
}

func countLeads(ctx context.Context, q querier, filter bson.D) (int, error) {
	where, args, err := query.Compile(filter)
	if err != nil {
		return 0, err
	}
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}
