package store_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

func TestCreateAssignsSequentialLeadIDs(t *testing.T) {
	s := setupStore(t)
	pattern := regexp.MustCompile(`^\d{7}$`)

	prev := ""
	for _, name := range []string{"alpha", "beta", "gamma"} {
		l := createLead(t, s, name)
		if !pattern.MatchString(l.LeadID) {
			t.Fatalf("leadId %q is not 7 digits", l.LeadID)
		}
		if l.LeadID <= prev {
			t.Fatalf("leadId %q not greater than %q", l.LeadID, prev)
		}
		prev = l.LeadID
	}
	if prev != "0000003" {
		t.Errorf("last leadId = %q, want 0000003", prev)
	}
}

func TestCreateAppliesDefaults(t *testing.T) {
	s := setupStore(t)
	l := createLead(t, s, "alpha")

	if l.ID == "" {
		t.Fatal("expected record id")
	}
	if l.Status != domain.StatusNew || l.Priority != domain.PriorityMedium || l.Source != domain.SourceManual {
		t.Errorf("defaults = %s/%s/%s", l.Status, l.Priority, l.Source)
	}
	if l.CreatedBy == nil || l.CreatedBy.Email != actor.Email {
		t.Errorf("createdBy = %+v", l.CreatedBy)
	}

	got, err := s.Leads.Get(context.Background(), l.LeadID)
	if err != nil {
		t.Fatalf("get by lead id: %v", err)
	}
	if got.ID != l.ID {
		t.Errorf("get by lead id returned %s, want %s", got.ID, l.ID)
	}
}

func TestCreateRejectsInvalidWithoutConsumingID(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	bad := leadInput("alpha")
	bad.Email = ""
	_, err := s.Leads.Create(ctx, bad, actor)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Message != domain.MsgContactRequired {
		t.Fatalf("expected contact validation error, got %v", err)
	}

	if l := createLead(t, s, "beta"); l.LeadID != "0000001" {
		t.Errorf("leadId = %s, want 0000001", l.LeadID)
	}
}

func TestCreateStoresE164(t *testing.T) {
	s := setupStore(t)
	in := leadInput("alpha")
	in.PhoneNumber = "(650) 253-0000"
	in.Country = "United States"
	l, err := s.Leads.Create(context.Background(), in, actor)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if l.PhoneE164 != "+16502530000" {
		t.Errorf("phoneE164 = %q", l.PhoneE164)
	}
}

func TestCreateBatchContiguous(t *testing.T) {
	s := setupStore(t)
	createLead(t, s, "first")

	leads, err := s.Leads.CreateBatch(context.Background(),
		[]*domain.Lead{leadInput("a"), leadInput("b"), leadInput("c")}, actor)
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	want := []string{"0000002", "0000003", "0000004"}
	for i, l := range leads {
		if l.LeadID != want[i] {
			t.Errorf("lead %d id = %s, want %s", i, l.LeadID, want[i])
		}
	}
}

func TestCreateRecordsLeadCreatedEvent(t *testing.T) {
	s := setupStore(t)
	l := createLead(t, s, "alpha")

	events := eventsOfType(t, s, l.ID, domain.EventLeadCreated)
	if len(events) != 1 {
		t.Fatalf("lead_created events = %d, want 1", len(events))
	}
	if events[0].Metadata["leadId"] != l.LeadID {
		t.Errorf("metadata = %v", events[0].Metadata)
	}
}

func TestUpdateStatusRecordsOneEvent(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	l := createLead(t, s, "alpha")

	status := domain.StatusContacted
	updated, err := s.Leads.Update(ctx, l.ID, &domain.LeadPatch{Status: &status}, actor)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.StatusContacted {
		t.Errorf("status = %s", updated.Status)
	}

	events := eventsOfType(t, s, l.ID, domain.EventLeadUpdated)
	if len(events) != 1 {
		t.Fatalf("lead_updated events = %d, want 1", len(events))
	}
	md := events[0].Metadata
	if md["field"] != "status" || md["oldValue"] != "new" || md["newValue"] != "contacted" {
		t.Errorf("metadata = %v", md)
	}
	if events[0].Title != "Lead status updated" {
		t.Errorf("title = %q", events[0].Title)
	}
}

func TestUpdateUnchangedRecordsNothing(t *testing.T) {
	s := setupStore(t)
	l := createLead(t, s, "alpha")

	status := domain.StatusNew
	if _, err := s.Leads.Update(context.Background(), l.ID, &domain.LeadPatch{Status: &status}, actor); err != nil {
		t.Fatalf("update: %v", err)
	}
	if n := len(eventsOfType(t, s, l.ID, domain.EventLeadUpdated)); n != 0 {
		t.Errorf("lead_updated events = %d, want 0", n)
	}
}

func TestUpdateValidationRollsBack(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	l := createLead(t, s, "alpha")

	empty := ""
	status := domain.StatusContacted
	_, err := s.Leads.Update(ctx, l.ID, &domain.LeadPatch{City: &empty, Status: &status}, actor)
	if err == nil {
		t.Fatal("expected validation error")
	}

	got, err := s.Leads.Get(ctx, l.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.City != "Toronto" || got.Status != domain.StatusNew {
		t.Errorf("lead changed after failed update: %s %s", got.City, got.Status)
	}
	if n := len(eventsOfType(t, s, l.ID, domain.EventLeadUpdated)); n != 0 {
		t.Errorf("lead_updated events = %d, want 0", n)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s := setupStore(t)
	_, err := s.Leads.Update(context.Background(), "missing", &domain.LeadPatch{}, actor)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBulkUpdateCountsModified(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	a := createLead(t, s, "alpha")
	b := createLead(t, s, "beta")

	contacted := domain.StatusContacted
	if _, err := s.Leads.Update(ctx, b.ID, &domain.LeadPatch{Status: &contacted}, actor); err != nil {
		t.Fatalf("update: %v", err)
	}

	n, err := s.Leads.BulkUpdate(ctx, []string{a.ID, b.ID, "missing"}, &domain.LeadBulkUpdate{Status: &contacted}, actor)
	if err != nil {
		t.Fatalf("bulk update: %v", err)
	}
	if n != 1 {
		t.Errorf("modified = %d, want 1", n)
	}

	bad := domain.LeadStatus("lost")
	if _, err := s.Leads.BulkUpdate(ctx, []string{a.ID}, &domain.LeadBulkUpdate{Status: &bad}, actor); err == nil {
		t.Error("expected invalid status error")
	}
}

func TestArchiveKeepsRecord(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	a := createLead(t, s, "alpha")
	b := createLead(t, s, "beta")

	n, err := s.Leads.ArchiveMany(ctx, []string{a.ID, b.ID}, actor)
	if err != nil || n != 2 {
		t.Fatalf("archive many = %d, %v", n, err)
	}
	if n, _ := s.Leads.ArchiveMany(ctx, []string{a.ID}, actor); n != 0 {
		t.Errorf("re-archive modified %d, want 0", n)
	}

	got, err := s.Leads.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get archived: %v", err)
	}
	if !got.IsArchived {
		t.Error("expected archived")
	}

	archived := false
	active, err := s.Leads.List(ctx, store.LeadListOpts{Archived: &archived})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active leads = %d, want 0", len(active))
	}
}

func TestArchiveManyByLeadNumber(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	a := createLead(t, s, "alpha")
	b := createLead(t, s, "beta")

	n, err := s.Leads.ArchiveMany(ctx, []string{a.LeadID, b.ID}, actor)
	if err != nil || n != 2 {
		t.Fatalf("archive many = %d, %v", n, err)
	}
	got, err := s.Leads.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsArchived {
		t.Error("lead archived by 7-digit id is not archived")
	}
}

func TestArchiveOne(t *testing.T) {
	s := setupStore(t)
	l := createLead(t, s, "alpha")

	got, err := s.Leads.Archive(context.Background(), l.ID, actor)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !got.IsArchived {
		t.Error("expected archived")
	}
	if _, err := s.Leads.Archive(context.Background(), "missing", actor); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	l := createLead(t, s, "alpha")

	if err := s.Leads.Delete(ctx, l.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Leads.Get(ctx, l.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Leads.Delete(ctx, l.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	// The next id is never reused.
	if next := createLead(t, s, "beta"); next.LeadID != "0000002" {
		t.Errorf("leadId = %s, want 0000002", next.LeadID)
	}
}

func TestCountSearch(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	createLead(t, s, "alphabet")
	createLead(t, s, "alpine")
	archived := createLead(t, s, "alpha")
	if _, err := s.Leads.ArchiveMany(ctx, []string{archived.ID}, actor); err != nil {
		t.Fatalf("archive: %v", err)
	}

	tests := []struct {
		q    string
		want int
	}{
		{"ALP", 2},
		{"bet", 1},
		{"%", 0},
		{"", 0},
	}
	for _, tt := range tests {
		n, err := s.Leads.CountSearch(ctx, tt.q)
		if err != nil {
			t.Fatalf("count %q: %v", tt.q, err)
		}
		if n != tt.want {
			t.Errorf("count %q = %d, want %d", tt.q, n, tt.want)
		}
	}
}

func TestFollowUpDateChangeRecorded(t *testing.T) {
	s := setupStore(t)
	l := createLead(t, s, "alpha")

	due := time.Date(2030, 1, 2, 9, 0, 0, 0, time.UTC)
	updated, err := s.Leads.Update(context.Background(), l.ID,
		&domain.LeadPatch{FollowUpDate: domain.OptionalTime{Set: true, Value: &due}}, actor)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FollowUpDate == nil || !updated.FollowUpDate.Equal(due) {
		t.Errorf("followUpDate = %v", updated.FollowUpDate)
	}
	events := eventsOfType(t, s, l.ID, domain.EventLeadUpdated)
	if len(events) != 1 || events[0].Metadata["field"] != "followUpDate" {
		t.Fatalf("events = %+v", events)
	}
}
