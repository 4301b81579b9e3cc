package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Segment is a saved filter over leads. Query holds the resolved filter
// document exactly as it was built at creation; LeadCount is the number of
// matches as of LeadCountAt.
type Segment struct {
	ID             string         `json:"_id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	FilterCriteria FilterCriteria `json:"filterCriteria"`
	Query          string         `json:"query"`
	LeadCount      int            `json:"leadCount"`
	LeadCountAt    time.Time      `json:"leadCountAt"`
	CreatedBy      *Actor         `json:"createdBy,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// MatchMode selects how location and emptiness filters combine.
type MatchMode string

const (
	// MatchBroad ORs every location dimension and emptiness flag into one
	// top-level disjunction.
	MatchBroad MatchMode = "broad"
	// MatchNarrow ANDs across dimensions, ORing only within one dimension.
	MatchNarrow MatchMode = "narrow"
)

// StringList accepts either a single string or an array of strings.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s = strings.TrimSpace(s); s == "" {
			*l = nil
		} else {
			*l = StringList{s}
		}
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected a string or an array of strings")
	}
	out := make(StringList, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

// LocationFilter narrows leads by location.
type LocationFilter struct {
	Country StringList `json:"country,omitempty"`
	State   StringList `json:"state,omitempty"`
	City    StringList `json:"city,omitempty"`
}

// DateRange is an inclusive range of dates. Either bound may be empty.
type DateRange struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Empty reports whether neither bound is set.
func (r *DateRange) Empty() bool {
	return r == nil || (strings.TrimSpace(r.From) == "" && strings.TrimSpace(r.To) == "")
}

// FilterCriteria is the structured segment filter.
type FilterCriteria struct {
	Status           StringList      `json:"status,omitempty"`
	Priority         StringList      `json:"priority,omitempty"`
	BusinessCategory StringList      `json:"businessCategory,omitempty"`
	BusinessType     StringList      `json:"businessType,omitempty"`
	ServiceInterest  StringList      `json:"serviceInterest,omitempty"`
	WebsiteStatus    StringList      `json:"websiteStatus,omitempty"`
	Source           StringList      `json:"source,omitempty"`
	CreatedBy        StringList      `json:"createdBy,omitempty"`
	Location         *LocationFilter `json:"location,omitempty"`
	IsArchived       *bool           `json:"isArchived,omitempty"`
	HasEmptyEmail    bool            `json:"hasEmptyEmail,omitempty"`
	HasEmptyPhone    bool            `json:"hasEmptyPhone,omitempty"`
	FollowUpDate     *DateRange      `json:"followUpDate,omitempty"`
	CreatedAt        *DateRange      `json:"createdAt,omitempty"`
	Match            MatchMode       `json:"match,omitempty"`
}

// Validate checks enum values and date bounds.
func (c *FilterCriteria) Validate() error {
	switch c.Match {
	case "", MatchBroad, MatchNarrow:
	default:
		return &ValidationError{Field: "match", Message: fmt.Sprintf("invalid match mode %q", c.Match)}
	}
	for _, s := range c.Status {
		if !LeadStatus(s).Valid() {
			return &ValidationError{Field: "status", Message: fmt.Sprintf("invalid status %q", s)}
		}
	}
	for _, p := range c.Priority {
		if !Priority(p).Valid() {
			return &ValidationError{Field: "priority", Message: fmt.Sprintf("invalid priority %q", p)}
		}
	}
	for name, r := range map[string]*DateRange{"followUpDate": c.FollowUpDate, "createdAt": c.CreatedAt} {
		if r == nil {
			continue
		}
		for _, bound := range []string{r.From, r.To} {
			if strings.TrimSpace(bound) == "" {
				continue
			}
			if _, err := ParseDate(bound); err != nil {
				return &ValidationError{Field: name, Message: fmt.Sprintf("%s: %v", name, err)}
			}
		}
	}
	return nil
}

// SegmentInput is the body of a segment create request.
type SegmentInput struct {
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	FilterCriteria FilterCriteria `json:"filterCriteria"`
}
