package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
)

func TestDashboard(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	at := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	followUp := domain.StatusFollowUp
	var due []*domain.Lead
	for i, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		l := createLead(t, s, name)
		when := at.Add(time.Duration(7-i) * time.Hour)
		if name == "a" {
			when = at.Add(-time.Hour)
		}
		if _, err := s.Leads.Update(ctx, l.ID, &domain.LeadPatch{
			Status:       &followUp,
			FollowUpDate: domain.OptionalTime{Set: true, Value: &when},
		}, actor); err != nil {
			t.Fatalf("update %s: %v", name, err)
		}
		due = append(due, l)
	}
	createLead(t, s, "fresh")
	archived := createLead(t, s, "gone")
	if _, err := s.Leads.ArchiveMany(ctx, []string{archived.ID, due[6].ID}, actor); err != nil {
		t.Fatalf("archive: %v", err)
	}

	stats, err := s.Stats.Dashboard(ctx, at)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalLeads != 7 {
		t.Errorf("totalLeads = %d, want 7", stats.TotalLeads)
	}
	if stats.LeadsByStatus[domain.StatusFollowUp] != 6 || stats.LeadsByStatus[domain.StatusNew] != 1 {
		t.Errorf("leadsByStatus = %v", stats.LeadsByStatus)
	}
	if _, ok := stats.LeadsByStatus[domain.StatusConverted]; !ok || len(stats.LeadsByStatus) != 5 {
		t.Errorf("expected every status present: %v", stats.LeadsByStatus)
	}
	if len(stats.UpcomingFollowUps) != 5 {
		t.Fatalf("upcoming = %d, want 5", len(stats.UpcomingFollowUps))
	}
	// g is archived and a is overdue, so f (soonest) leads.
	if stats.UpcomingFollowUps[0].BusinessName != "f" {
		t.Errorf("first upcoming = %s, want f", stats.UpcomingFollowUps[0].BusinessName)
	}
	for i := 1; i < len(stats.UpcomingFollowUps); i++ {
		if stats.UpcomingFollowUps[i].FollowUpDate.Before(stats.UpcomingFollowUps[i-1].FollowUpDate) {
			t.Error("upcoming follow-ups not ascending")
		}
	}
}
