package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LeadStatus is the pipeline stage of a lead.
type LeadStatus string

const (
	StatusNew           LeadStatus = "new"
	StatusContacted     LeadStatus = "contacted"
	StatusFollowUp      LeadStatus = "follow-up"
	StatusConverted     LeadStatus = "converted"
	StatusNotInterested LeadStatus = "not-interested"
)

// LeadStatuses lists every status in pipeline order.
var LeadStatuses = []LeadStatus{StatusNew, StatusContacted, StatusFollowUp, StatusConverted, StatusNotInterested}

// Valid reports whether s is a known status.
func (s LeadStatus) Valid() bool {
	for _, v := range LeadStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Priority ranks leads and tasks.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Lead sources.
const (
	SourceManual = "manual"
	SourceImport = "import"
)

// DefaultBusinessType is stored when no business type is given.
const DefaultBusinessType = "Other"

// Lead is a prospective business contact.
type Lead struct {
	ID               string     `json:"_id"`
	LeadID           string     `json:"leadId"`
	BusinessName     string     `json:"businessName"`
	BusinessType     string     `json:"businessType"`
	ContactPerson    string     `json:"contactPerson"`
	PhoneNumber      string     `json:"phoneNumber"`
	PhoneE164        string     `json:"phoneE164,omitempty"`
	Email            string     `json:"email"`
	BusinessCategory string     `json:"businessCategory"`
	WebsiteURL       string     `json:"websiteUrl"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	Country          string     `json:"country"`
	Notes            string     `json:"notes"`
	ServiceInterest  string     `json:"serviceInterest"`
	WebsiteStatus    string     `json:"websiteStatus"`
	Status           LeadStatus `json:"status"`
	Priority         Priority   `json:"priority"`
	Source           string     `json:"source"`
	FollowUpDate     *time.Time `json:"followUpDate"`
	IsArchived       bool       `json:"isArchived"`
	CreatedBy        *Actor     `json:"createdBy,omitempty"`
	UpdatedBy        *Actor     `json:"updatedBy,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Validate applies the lead rules shared by manual creation, edits and
// imports. The first failing rule is returned.
func (l *Lead) Validate() error {
	var missing []string
	if l.BusinessName == "" {
		missing = append(missing, "businessName")
	}
	if l.BusinessCategory == "" {
		missing = append(missing, "businessCategory")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	if l.Email == "" && l.PhoneNumber == "" {
		return &ValidationError{Field: "email", Message: MsgContactRequired}
	}
	if l.Country == "" || l.State == "" || l.City == "" {
		return &ValidationError{Field: "location", Message: MsgLocationRequired}
	}
	if !l.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("invalid status %q", l.Status)}
	}
	if !l.Priority.Valid() {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("invalid priority %q", l.Priority)}
	}
	return nil
}

// Location is the nested form of a lead's location accepted on create.
type Location struct {
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
}

// LeadInput is the body of a lead create request.
type LeadInput struct {
	BusinessName     string       `json:"businessName"`
	BusinessType     string       `json:"businessType"`
	ContactPerson    string       `json:"contactPerson"`
	PhoneNumber      string       `json:"phoneNumber"`
	Email            string       `json:"email"`
	BusinessCategory string       `json:"businessCategory"`
	WebsiteURL       string       `json:"websiteUrl"`
	City             string       `json:"city"`
	State            string       `json:"state"`
	Country          string       `json:"country"`
	Location         *Location    `json:"location"`
	Notes            string       `json:"notes"`
	ServiceInterest  string       `json:"serviceInterest"`
	WebsiteStatus    string       `json:"websiteStatus"`
	Status           LeadStatus   `json:"status"`
	Priority         Priority     `json:"priority"`
	Source           string       `json:"source"`
	FollowUpDate     OptionalTime `json:"followUpDate"`
	User             *Actor       `json:"user"`
}

// Lead builds a new lead from the input, trimming values and applying
// defaults. It does not validate.
func (in *LeadInput) Lead(source string) *Lead {
	l := &Lead{
		BusinessName:     strings.TrimSpace(in.BusinessName),
		BusinessType:     strings.TrimSpace(in.BusinessType),
		ContactPerson:    strings.TrimSpace(in.ContactPerson),
		PhoneNumber:      strings.TrimSpace(in.PhoneNumber),
		Email:            strings.ToLower(strings.TrimSpace(in.Email)),
		BusinessCategory: strings.TrimSpace(in.BusinessCategory),
		WebsiteURL:       strings.TrimSpace(in.WebsiteURL),
		City:             strings.TrimSpace(in.City),
		State:            strings.TrimSpace(in.State),
		Country:          strings.TrimSpace(in.Country),
		Notes:            strings.TrimSpace(in.Notes),
		ServiceInterest:  strings.TrimSpace(in.ServiceInterest),
		WebsiteStatus:    strings.TrimSpace(in.WebsiteStatus),
		Status:           in.Status,
		Priority:         in.Priority,
		Source:           strings.TrimSpace(in.Source),
		FollowUpDate:     in.FollowUpDate.Value,
	}
	if loc := in.Location; loc != nil {
		if l.Country == "" {
			l.Country = strings.TrimSpace(loc.Country)
		}
		if l.State == "" {
			l.State = strings.TrimSpace(loc.State)
		}
		if l.City == "" {
			l.City = strings.TrimSpace(loc.City)
		}
	}
	ApplyLeadDefaults(l, source)
	return l
}

// ApplyLeadDefaults fills the defaulted lead fields that are still empty.
func ApplyLeadDefaults(l *Lead, source string) {
	if l.BusinessType == "" {
		l.BusinessType = DefaultBusinessType
	}
	if l.Status == "" {
		l.Status = StatusNew
	}
	if l.Priority == "" {
		l.Priority = PriorityMedium
	}
	if l.Source == "" {
		l.Source = source
	}
	if l.Source == "" {
		l.Source = SourceManual
	}
}

// LeadPatch is the body of a lead edit. Nil fields are left unchanged.
// Server managed fields echoed back by clients are accepted and ignored.
type LeadPatch struct {
	BusinessName     *string      `json:"businessName"`
	BusinessType     *string      `json:"businessType"`
	ContactPerson    *string      `json:"contactPerson"`
	PhoneNumber      *string      `json:"phoneNumber"`
	Email            *string      `json:"email"`
	BusinessCategory *string      `json:"businessCategory"`
	WebsiteURL       *string      `json:"websiteUrl"`
	City             *string      `json:"city"`
	State            *string      `json:"state"`
	Country          *string      `json:"country"`
	Notes            *string      `json:"notes"`
	ServiceInterest  *string      `json:"serviceInterest"`
	WebsiteStatus    *string      `json:"websiteStatus"`
	Status           *LeadStatus  `json:"status"`
	Priority         *Priority    `json:"priority"`
	Source           *string      `json:"source"`
	FollowUpDate     OptionalTime `json:"followUpDate"`
	IsArchived       *bool        `json:"isArchived"`

	ID        json.RawMessage `json:"_id,omitempty"`
	LeadID    json.RawMessage `json:"leadId,omitempty"`
	PhoneE164 json.RawMessage `json:"phoneE164,omitempty"`
	CreatedBy json.RawMessage `json:"createdBy,omitempty"`
	UpdatedBy json.RawMessage `json:"updatedBy,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt,omitempty"`
	UpdatedAt json.RawMessage `json:"updatedAt,omitempty"`
	Version   json.RawMessage `json:"__v,omitempty"`
}

// FieldChange records one audited field transition.
type FieldChange struct {
	Field    string
	OldValue any
	NewValue any
}

// Apply merges the patch into l and returns the changes to audited fields
// (status, priority and followUpDate) in that order.
func (p *LeadPatch) Apply(l *Lead) []FieldChange {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&l.BusinessName, p.BusinessName)
	set(&l.BusinessType, p.BusinessType)
	set(&l.ContactPerson, p.ContactPerson)
	set(&l.PhoneNumber, p.PhoneNumber)
	set(&l.BusinessCategory, p.BusinessCategory)
	set(&l.WebsiteURL, p.WebsiteURL)
	set(&l.City, p.City)
	set(&l.State, p.State)
	set(&l.Country, p.Country)
	set(&l.Notes, p.Notes)
	set(&l.ServiceInterest, p.ServiceInterest)
	set(&l.WebsiteStatus, p.WebsiteStatus)
	set(&l.Source, p.Source)
	if p.Email != nil {
		l.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.IsArchived != nil {
		l.IsArchived = *p.IsArchived
	}

	var changes []FieldChange
	if p.Status != nil && *p.Status != l.Status {
		changes = append(changes, FieldChange{Field: "status", OldValue: string(l.Status), NewValue: string(*p.Status)})
		l.Status = *p.Status
	}
	if p.Priority != nil && *p.Priority != l.Priority {
		changes = append(changes, FieldChange{Field: "priority", OldValue: string(l.Priority), NewValue: string(*p.Priority)})
		l.Priority = *p.Priority
	}
	if p.FollowUpDate.Set && !sameTime(l.FollowUpDate, p.FollowUpDate.Value) {
		changes = append(changes, FieldChange{Field: "followUpDate", OldValue: timeValue(l.FollowUpDate), NewValue: timeValue(p.FollowUpDate.Value)})
		l.FollowUpDate = p.FollowUpDate.Value
	}
	return changes
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// LeadBulkUpdate is the set of fields that may be changed on many leads at
// once.
type LeadBulkUpdate struct {
	Status   *LeadStatus `json:"status"`
	Priority *Priority   `json:"priority"`
	Notes    *string     `json:"notes"`
}

// BulkUpdateFields lists the JSON names accepted in a LeadBulkUpdate.
var BulkUpdateFields = []string{"status", "priority", "notes"}

// Patch converts the bulk update into a lead patch.
func (u *LeadBulkUpdate) Patch() *LeadPatch {
	return &LeadPatch{Status: u.Status, Priority: u.Priority, Notes: u.Notes}
}
