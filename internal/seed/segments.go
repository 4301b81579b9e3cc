package seed

import (
	"context"
	"fmt"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

var demoSegments = []domain.SegmentInput{
	{
		Name:        "North America follow-ups",
		Description: "Leads awaiting a follow-up in Canada or the United States",
		FilterCriteria: domain.FilterCriteria{
			Status:   domain.StringList{string(domain.StatusFollowUp)},
			Location: &domain.LocationFilter{Country: domain.StringList{"Canada", "United States"}},
			Match:    domain.MatchNarrow,
		},
	},
	{
		Name:        "Missing email",
		Description: "Leads we can only reach by phone",
		FilterCriteria: domain.FilterCriteria{
			HasEmptyEmail: true,
		},
	},
}

// Segments saves the demo segments.
func Segments(ctx context.Context, s *store.Store) error {
	for i := range demoSegments {
		in := demoSegments[i]
		if _, err := s.Segments.Create(ctx, &in, Actor); err != nil {
			return fmt.Errorf("insert segment %q: %w", in.Name, err)
		}
	}
	return nil
}
