package store_test

import (
	"context"
	"testing"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
	"github.com/Abdullah098765/CRM-Software/internal/testhelpers"
)

// Verify interface compliance at compile time.
var (
	_ store.LeadStore     = (*store.SQLiteLeadStore)(nil)
	_ store.TaskStore     = (*store.SQLiteTaskStore)(nil)
	_ store.SegmentStore  = (*store.SQLiteSegmentStore)(nil)
	_ store.TimelineStore = (*store.SQLiteTimelineStore)(nil)
	_ store.UserStore     = (*store.SQLiteUserStore)(nil)
	_ store.SearchStore   = (*store.SQLiteSearchStore)(nil)
	_ store.StatsStore    = (*store.SQLiteStatsStore)(nil)
)

var actor = &domain.Actor{Name: "Ops", Email: "ops@example.com"}

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testhelpers.NewMigratedDB(t))
}

func leadInput(name string) *domain.Lead {
	in := domain.LeadInput{
		BusinessName:     name,
		BusinessCategory: "Retail",
		Email:            "hello@" + name + ".test",
		Country:          "Canada",
		State:            "Ontario",
		City:             "Toronto",
	}
	return in.Lead(domain.SourceManual)
}

func createLead(t *testing.T, s *store.Store, name string) *domain.Lead {
	t.Helper()
	l, err := s.Leads.Create(context.Background(), leadInput(name), actor)
	if err != nil {
		t.Fatalf("create lead %s: %v", name, err)
	}
	return l
}

func eventsOfType(t *testing.T, s *store.Store, leadID string, typ domain.EventType) []*domain.TimelineEvent {
	t.Helper()
	events, err := s.Timeline.List(context.Background(), leadID)
	if err != nil {
		t.Fatalf("list timeline: %v", err)
	}
	var out []*domain.TimelineEvent
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}
