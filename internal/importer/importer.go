// Package importer turns uploaded spreadsheets into leads. Every row goes
// through the same rules as a manually created lead; rows that fail are
// reported by sheet row number and the rest are inserted in one batch.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
	"github.com/Abdullah098765/CRM-Software/internal/store"
)

// ErrNoValidRows is returned when the file has no row that can be imported.
// The accompanying report explains why.
var ErrNoValidRows = errors.New("no valid leads found in the file")

// column maps a lead field to the normalized headers accepted for it.
type column struct {
	label   string
	aliases []string
	set     func(*domain.LeadInput, string)
}

var columns = []column{
	{"Business Name", []string{"businessname"}, func(in *domain.LeadInput, v string) { in.BusinessName = v }},
	{"Business Category", []string{"businesscategory"}, func(in *domain.LeadInput, v string) { in.BusinessCategory = v }},
	{"Business Type", []string{"businesstype"}, func(in *domain.LeadInput, v string) { in.BusinessType = v }},
	{"Contact Person", []string{"contactperson", "contact"}, func(in *domain.LeadInput, v string) { in.ContactPerson = v }},
	{"Email", []string{"email", "emailaddress"}, func(in *domain.LeadInput, v string) { in.Email = v }},
	{"Phone", []string{"phone", "phonenumber"}, func(in *domain.LeadInput, v string) { in.PhoneNumber = v }},
	{"Website", []string{"website", "websiteurl"}, func(in *domain.LeadInput, v string) { in.WebsiteURL = v }},
	{"Country", []string{"country"}, func(in *domain.LeadInput, v string) { in.Country = v }},
	{"State", []string{"state", "states"}, func(in *domain.LeadInput, v string) { in.State = v }},
	{"City", []string{"city"}, func(in *domain.LeadInput, v string) { in.City = v }},
	{"Notes", []string{"notes"}, func(in *domain.LeadInput, v string) { in.Notes = v }},
	{"Service Interest", []string{"serviceinterest"}, func(in *domain.LeadInput, v string) { in.ServiceInterest = v }},
	{"Website Status", []string{"websitestatus"}, func(in *domain.LeadInput, v string) { in.WebsiteStatus = v }},
}

// RowError describes why a row was not imported.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Report summarizes an import.
type Report struct {
	TotalRows            int        `json:"totalRows"`
	ValidRows            int        `json:"validRows"`
	InvalidRows          int        `json:"invalidRows"`
	SuccessfullyImported int        `json:"successfullyImported"`
	Errors               []RowError `json:"errors"`
}

// Prepare converts rows to leads, collecting a RowError for each row that
// fails validation.
func Prepare(rows []Row) ([]*domain.Lead, []RowError) {
	var leads []*domain.Lead
	errs := []RowError{}
	for _, row := range rows {
		lead, err := prepareRow(row)
		if err != nil {
			errs = append(errs, RowError{Row: row.Number, Message: err.Error()})
			continue
		}
		leads = append(leads, lead)
	}
	return leads, errs
}

func prepareRow(row Row) (*domain.Lead, error) {
	var in domain.LeadInput
	for _, c := range columns {
		for _, alias := range c.aliases {
			if v, ok := row.Values[alias]; ok {
				c.set(&in, v)
				break
			}
		}
	}

	var missing []string
	if strings.TrimSpace(in.BusinessName) == "" {
		missing = append(missing, columns[0].label)
	}
	if strings.TrimSpace(in.BusinessCategory) == "" {
		missing = append(missing, columns[1].label)
	}
	if len(missing) > 0 {
		return nil, &domain.MissingFieldsError{Fields: missing}
	}

	lead := in.Lead(domain.SourceImport)
	lead.Priority = domain.PriorityMedium
	if err := lead.Validate(); err != nil {
		return nil, err
	}
	return lead, nil
}

// Importer inserts prepared rows through the lead store.
type Importer struct {
	leads store.LeadStore
}

// New creates an Importer writing to leads.
func New(leads store.LeadStore) *Importer {
	return &Importer{leads: leads}
}

// Import reads the upload and inserts every valid row attributed to actor.
// The report is returned even when err is ErrNoValidRows.
func (im *Importer) Import(ctx context.Context, r io.Reader, filename string, actor *domain.Actor) (*Report, error) {
	rows, err := ReadRows(r, filename)
	if err != nil {
		return nil, err
	}

	leads, rowErrs := Prepare(rows)
	report := &Report{
		TotalRows:   len(rows),
		ValidRows:   len(leads),
		InvalidRows: len(rowErrs),
		Errors:      rowErrs,
	}
	if len(leads) == 0 {
		return report, ErrNoValidRows
	}

	created, err := im.leads.CreateBatch(ctx, leads, actor)
	if err != nil {
		return report, fmt.Errorf("import leads: %w", err)
	}
	report.SuccessfullyImported = len(created)

	slog.Info("leads imported",
		"file", filename,
		"rows", report.TotalRows,
		"imported", report.SuccessfullyImported,
		"rejected", report.InvalidRows,
	)
	return report, nil
}
