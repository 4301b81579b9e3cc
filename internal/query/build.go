// Package query turns segment filter criteria into a persisted filter
// document and compiles stored documents into SQL over the leads table.
//
// Filter documents use the BSON document model with MongoDB query operators
// so a stored segment query can be read back and re-executed verbatim.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
)

// Build translates criteria into a filter document. Membership filters
// become $in clauses and date ranges become inclusive $gte/$lte bounds. A
// date-only upper bound covers the whole day.
//
// In broad mode (the default) location dimensions and the emptiness flags
// all accumulate into a single top-level $or. In narrow mode each location
// dimension is its own conjunct and each emptiness flag is an AND'ed
// disjunction of its own.
func Build(c domain.FilterCriteria) (bson.D, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	doc := bson.D{}
	in := func(field string, values domain.StringList) {
		if len(values) > 0 {
			doc = append(doc, bson.E{Key: field, Value: bson.D{{Key: "$in", Value: toArray(values)}}})
		}
	}

	in("status", c.Status)
	in("priority", c.Priority)
	in("businessCategory", c.BusinessCategory)
	in("businessType", c.BusinessType)
	in("serviceInterest", c.ServiceInterest)
	in("websiteStatus", c.WebsiteStatus)
	in("source", c.Source)
	in("createdBy.email", c.CreatedBy)

	narrow := c.Match == domain.MatchNarrow

	var or bson.A
	if loc := c.Location; loc != nil {
		dims := []struct {
			field  string
			values domain.StringList
		}{
			{"country", loc.Country},
			{"state", loc.State},
			{"city", loc.City},
		}
		for _, d := range dims {
			if len(d.values) == 0 {
				continue
			}
			if narrow {
				in(d.field, d.values)
				continue
			}
			or = append(or, bson.D{{Key: d.field, Value: bson.D{{Key: "$in", Value: toArray(d.values)}}}})
		}
	}

	if c.IsArchived != nil {
		doc = append(doc, bson.E{Key: "isArchived", Value: *c.IsArchived})
	}

	var and bson.A
	for _, flag := range []struct {
		set   bool
		field string
	}{
		{c.HasEmptyEmail, "email"},
		{c.HasEmptyPhone, "phoneNumber"},
	} {
		if !flag.set {
			continue
		}
		if narrow {
			and = append(and, bson.D{{Key: "$or", Value: emptyClauses(flag.field)}})
			continue
		}
		or = append(or, emptyClauses(flag.field)...)
	}

	if len(or) > 0 {
		doc = append(doc, bson.E{Key: "$or", Value: or})
	}
	if len(and) > 0 {
		doc = append(doc, bson.E{Key: "$and", Value: and})
	}

	for _, r := range []struct {
		field string
		rng   *domain.DateRange
	}{
		{"followUpDate", c.FollowUpDate},
		{"createdAt", c.CreatedAt},
	} {
		clause, err := dateRange(r.rng)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.field, err)
		}
		if clause != nil {
			doc = append(doc, bson.E{Key: r.field, Value: clause})
		}
	}

	return doc, nil
}

func toArray(values domain.StringList) bson.A {
	a := make(bson.A, len(values))
	for i, v := range values {
		a[i] = v
	}
	return a
}

// emptyClauses matches a field that is missing, null or blank.
func emptyClauses(field string) bson.A {
	return bson.A{
		bson.D{{Key: field, Value: bson.D{{Key: "$exists", Value: false}}}},
		bson.D{{Key: field, Value: nil}},
		bson.D{{Key: field, Value: ""}},
	}
}

func dateRange(r *domain.DateRange) (bson.D, error) {
	if r.Empty() {
		return nil, nil
	}
	clause := bson.D{}
	if from := strings.TrimSpace(r.From); from != "" {
		t, err := domain.ParseDate(from)
		if err != nil {
			return nil, err
		}
		clause = append(clause, bson.E{Key: "$gte", Value: bson.NewDateTimeFromTime(t)})
	}
	if to := strings.TrimSpace(r.To); to != "" {
		t, err := domain.ParseDate(to)
		if err != nil {
			return nil, err
		}
		if domain.IsDateOnly(to) {
			t = now.New(t).EndOfDay()
		}
		clause = append(clause, bson.E{Key: "$lte", Value: bson.NewDateTimeFromTime(t.Truncate(time.Millisecond))})
	}
	return clause, nil
}
