package seed

import (
	"context"
	"fmt"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

var demoTasks = []struct {
	lead     int // index into the seeded leads
	title    string
	priority domain.Priority
}{
	{0, "Send website proposal", domain.PriorityMedium},
	{2, "Call back about spring campaign", domain.PriorityHigh},
	{3, "Share logistics case study", domain.PriorityMedium},
}

// Tasks creates follow-up tasks on the seeded leads.
func Tasks(ctx context.Context, s *store.Store, leads []*domain.Lead) error {
	for _, d := range demoTasks {
		if d.lead >= len(leads) {
			continue
		}
		in := domain.TaskInput{LeadID: leads[d.lead].ID, Title: d.title, Priority: d.priority}
		if _, err := s.Tasks.Create(ctx, in.Task(), Actor); err != nil {
			return fmt.Errorf("insert task %q: %w", d.title, err)
		}
	}
	return nil
}
