// Package export renders leads as downloadable tables.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Abdullah098765/CRM-Software/internal/domain"
)

// Table is a header row plus data rows, all as display strings.
type Table struct {
	Header []string
	Rows   [][]string
}

var segmentHeader = []string{
	"Business Name", "Contact Person", "Phone Number", "Email", "Business Category",
	"Website URL", "City", "State", "Country", "Status", "Priority",
	"Follow-up Date", "Source", "Service Interest", "Website Status", "Notes",
}

// SegmentTable is the layout of a segment download.
func SegmentTable(leads []*domain.Lead) Table {
	t := Table{Header: segmentHeader, Rows: make([][]string, 0, len(leads))}
	for _, l := range leads {
		followUp := ""
		if l.FollowUpDate != nil {
			followUp = l.FollowUpDate.Format(time.DateOnly)
		}
		t.Rows = append(t.Rows, []string{
			l.BusinessName, l.ContactPerson, l.PhoneNumber, l.Email, l.BusinessCategory,
			l.WebsiteURL, l.City, l.State, l.Country, string(l.Status), string(l.Priority),
			followUp, l.Source, l.ServiceInterest, l.WebsiteStatus, l.Notes,
		})
	}
	return t
}

var leadsHeader = []string{
	"businessName", "contactPerson", "email", "phone", "status", "priority", "notes", "createdAt", "updatedAt",
}

// LeadsTable is the layout of the full lead export.
func LeadsTable(leads []*domain.Lead) Table {
	t := Table{Header: leadsHeader, Rows: make([][]string, 0, len(leads))}
	for _, l := range leads {
		t.Rows = append(t.Rows, []string{
			l.BusinessName, l.ContactPerson, l.Email, l.PhoneNumber, string(l.Status), string(l.Priority), l.Notes,
			l.CreatedAt.UTC().Format(time.RFC3339), l.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return t
}

// CSV encodes the table with RFC 4180 quoting.
func (t Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX encodes the table as a single-sheet workbook with a frozen,
// bold header row.
func (t Table) XLSX(sheet string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := writeRow(f, sheet, 1, t.Header); err != nil {
		return nil, err
	}
	for i, row := range t.Rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
	if err != nil {
		return nil, fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("row %d: %w", n, err)
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("row %d: %w", n, err)
	}
	return nil
}
