package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
)

// UserStore defines the interface for signed-in user persistence.
type UserStore interface {
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// SQLiteUserStore implements UserStore backed by SQLite.
type SQLiteUserStore struct {
	db *sql.DB
}

// NewSQLiteUserStore creates a new SQLiteUserStore.
func NewSQLiteUserStore(db *sql.DB) *SQLiteUserStore {
	return &SQLiteUserStore{db: db}
}

const userColumns = `uid, email, name, photo_url, last_login, created_at, updated_at`

func scanUser(row scanner) (*domain.User, error) {
	var (
		u                               domain.User
		lastLogin, createdAt, updatedAt string
	)
	if err := row.Scan(&u.UID, &u.Email, &u.Name, &u.PhotoURL, &lastLogin, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	u.LastLogin = parseTime(lastLogin)
	u.CreatedAt = parseTime(createdAt)
	u.UpdatedAt = parseTime(updatedAt)
	return &u, nil
}

// Upsert records a sign-in. A known uid only has its last login refreshed;
// an unknown uid is created.
func (s *SQLiteUserStore) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	var out *domain.User
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		ts := formatTime(now())
		result, err := tx.ExecContext(ctx,
			`UPDATE users SET last_login = ?, updated_at = ? WHERE uid = ?`, ts, ts, u.UID)
		if err != nil {
			return fmt.Errorf("touch user: %w", err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				u.UID, strings.ToLower(strings.TrimSpace(u.Email)), strings.TrimSpace(u.Name), u.PhotoURL, ts, ts, ts,
			)
			if err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("email %s is registered to another user: %w", u.Email, ErrConflict)
				}
				return fmt.Errorf("insert user: %w", err)
			}
		}
		out, err = scanUser(tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE uid = ?`, u.UID))
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("user %s: %w", u.UID, ErrNotFound)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns users sorted by name.
func (s *SQLiteUserStore) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY name, email`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
