// Package excel parses invoice submission spreadsheets into tabular datasets.
// Business-rule validation happens downstream; the loader only deals with
// workbook structure.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names are a contract with the spreadsheet template, not with end users.
const (
	SheetInvoices = "Facturas"
	SheetConcepts = "Conceptos"
)

// Batch holds the two datasets parsed from one submission workbook.
type Batch struct {
	Invoices Dataset
	Concepts Dataset
}

// Load opens the workbook at path and parses the invoice and concept sheets.
func Load(path string) (*Batch, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("excel: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return parseWorkbook(f)
}

// LoadReader parses a workbook from a stream, e.g. a multipart upload.
func LoadReader(r io.Reader) (*Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excel: open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parseWorkbook(f)
}

func parseWorkbook(f *excelize.File) (*Batch, error) {
	invoices, err := parseSheet(f, SheetInvoices)
	if err != nil {
		return nil, err
	}
	concepts, err := parseSheet(f, SheetConcepts)
	if err != nil {
		return nil, err
	}
	return &Batch{Invoices: invoices, Concepts: concepts}, nil
}

func parseSheet(f *excelize.File, name string) (Dataset, error) {
	idx, err := f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return Dataset{}, fmt.Errorf("excel: sheet %q not found", name)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return Dataset{}, fmt.Errorf("excel: read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return Dataset{}, nil
	}

	header := make([]string, 0, len(rows[0]))
	for _, cell := range rows[0] {
		header = append(header, strings.TrimSpace(cell))
	}

	ds := Dataset{Columns: header}
	for _, raw := range rows[1:] {
		if isBlank(raw) {
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(raw) {
				row[col] = raw[i]
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
