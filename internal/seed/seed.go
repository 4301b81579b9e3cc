package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// Actor is recorded as the creator of all demo data.
var Actor = &domain.Actor{Name: "Demo Data", Email: "demo@example.com"}

// Seed inserts demo leads, tasks and segments into an empty database. A
// database that already holds leads is left untouched. Call order matters:
// tasks and segments reference the seeded leads.
func Seed(ctx context.Context, s *store.Store) error {
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM leads`).Scan(&count); err != nil {
		return fmt.Errorf("count leads: %w", err)
	}
	if count > 0 {
		return nil
	}

	leads, err := Leads(ctx, s, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("seed leads: %w", err)
	}
	if err := Tasks(ctx, s, leads); err != nil {
		return fmt.Errorf("seed tasks: %w", err)
	}
	if err := Segments(ctx, s); err != nil {
		return fmt.Errorf("seed segments: %w", err)
	}
	return nil
}
