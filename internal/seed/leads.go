package seed

import (
	"context"
	"time"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

type leadDef struct {
	name     string
	category string
	contact  string
	email    string
	phone    string
	country  string
	state    string
	city     string
	status   domain.LeadStatus
	priority domain.Priority
	interest string
	followIn int // days from now; 0 means no follow-up
}

var demoLeads = []leadDef{
	{"Harbor Bakery", "Food & Beverage", "Mia Chen", "mia@harborbakery.test", "416 555 0134", "Canada", "Ontario", "Toronto", domain.StatusNew, domain.PriorityMedium, "Website", 0},
	{"Summit Dental", "Healthcare", "Dr. Omar Reyes", "office@summitdental.test", "", "United States", "Colorado", "Denver", domain.StatusContacted, domain.PriorityHigh, "SEO", 0},
	{"Blue Fern Florist", "Retail", "Ada Brooks", "", "020 7946 0958", "United Kingdom", "England", "London", domain.StatusFollowUp, domain.PriorityMedium, "Website", 3},
	{"Northwind Logistics", "Transport", "Sam Patel", "sam@northwind.test", "", "United States", "Texas", "Austin", domain.StatusFollowUp, domain.PriorityHigh, "Branding", 7},
	{"Cedar & Co Law", "Legal", "Ines Duarte", "hello@cedarlaw.test", "", "Canada", "British Columbia", "Vancouver", domain.StatusConverted, domain.PriorityLow, "SEO", 0},
	{"Kiwi Fitness", "Fitness", "Liam Walker", "liam@kiwifit.test", "", "Australia", "Victoria", "Melbourne", domain.StatusNotInterested, domain.PriorityLow, "", 0},
}

// Leads inserts the demo leads in one batch and returns them with their
// assigned ids.
func Leads(ctx context.Context, s *store.Store, now time.Time) ([]*domain.Lead, error) {
	batch := make([]*domain.Lead, 0, len(demoLeads))
	for _, d := range demoLeads {
		in := domain.LeadInput{
			BusinessName:     d.name,
			BusinessCategory: d.category,
			ContactPerson:    d.contact,
			Email:            d.email,
			PhoneNumber:      d.phone,
			Country:          d.country,
			State:            d.state,
			City:             d.city,
			Status:           d.status,
			Priority:         d.priority,
			ServiceInterest:  d.interest,
		}
		if d.followIn > 0 {
			due := now.AddDate(0, 0, d.followIn)
			in.FollowUpDate = domain.OptionalTime{Set: true, Value: &due}
		}
		batch = append(batch, in.Lead(domain.SourceManual))
	}
	return s.Leads.CreateBatch(ctx, batch, Actor)
}
