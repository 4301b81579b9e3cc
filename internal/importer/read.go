package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither xlsx/xlsm
// workbooks nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported file type: upload an .xlsx, .xlsm or .csv file")

// Row is one data row of the first sheet, keyed by normalized header.
type Row struct {
	// Number is the row's position in the sheet, counting the header as 1.
	Number int
	Values map[string]string
}

// record is one raw sheet row with its 1-based line number.
type record struct {
	line  int
	cells []string
}

// ReadRows parses the upload named filename. Blank rows are skipped but
// still advance the row numbering.
func ReadRows(r io.Reader, filename string) ([]Row, error) {
	var records []record
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(r)
	case ".csv":
		records, err = readCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := make([]string, len(records[0].cells))
	for i, h := range records[0].cells {
		header[i] = normalize(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		values := make(map[string]string, len(header))
		for j, v := range rec.cells {
			if j >= len(header) || header[j] == "" {
				continue
			}
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, seen := values[header[j]]; !seen {
				values[header[j]] = v
			}
		}
		if len(values) == 0 {
			continue
		}
		rows = append(rows, Row{Number: rec.line, Values: values})
	}
	return rows, nil
}

func readWorkbook(r io.Reader) ([]record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	records := make([]record, len(rows))
	for i, cells := range rows {
		records[i] = record{line: i + 1, cells: cells}
	}
	return records, nil
}

// readCSV keeps the file's line numbers; encoding/csv drops blank lines.
func readCSV(r io.Reader) ([]record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records []record
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
	if len(records) > 0 && len(records[0].cells) > 0 {
		records[0].cells[0] = strings.TrimPrefix(records[0].cells[0], "\ufeff")
	}
	return records, nil
}

// normalize folds a header so "Business Name", "businessName" and
// "business_name" compare equal.
func normalize(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
