package invoices

import (
	"time"

	"github.com/shopspring/decimal"
)

// Severity classifies a validation finding. Warnings never block a batch.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Category groups validation findings by the kind of check that produced them.
type Category string

const (
	CategoryStructural  Category = "structural"
	CategoryRow         Category = "row"
	CategoryReferential Category = "referential"
	CategoryDuplicate   Category = "duplicate"
)

// InvoiceRow is one header row parsed from the invoice sheet.
type InvoiceRow struct {
	Number    string
	Company   string
	Customer  string
	IssueDate *time.Time
	Total     decimal.Decimal
}

// ConceptRow is one line item, keyed to an invoice by number.
type ConceptRow struct {
	InvoiceNumber string
	Description   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	TaxPct        decimal.Decimal
	RetentionPct  decimal.Decimal
}

// ValidationError describes a single finding. RowIndex is nil for file-level
// findings, Field is nil when the finding is not tied to one column.
type ValidationError struct {
	RowIndex      *int     `json:"row_index,omitempty"`
	Field         *string  `json:"field,omitempty"`
	Message       string   `json:"message"`
	Severity      Severity `json:"severity"`
	Category      Category `json:"category"`
	InvoiceNumber string   `json:"invoice_number,omitempty"`
}

// ValidationResult aggregates the findings for one batch. Valid is true iff
// no error-severity findings exist; warnings are carried either way.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// ErrorCount returns the number of error-severity findings.
func (r ValidationResult) ErrorCount() int {
	n := 0
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity findings.
func (r ValidationResult) WarningCount() int {
	return len(r.Errors) - r.ErrorCount()
}

// CountByCategory tallies findings per category, for metrics.
func (r ValidationResult) CountByCategory() map[string]int {
	out := make(map[string]int, 4)
	for _, e := range r.Errors {
		out[string(e.Category)]++
	}
	return out
}

// InvoiceTotals carries the derived amounts for one invoice.
type InvoiceTotals struct {
	InvoiceNumber string          `json:"invoice_number"`
	Base          decimal.Decimal `json:"base"`
	Tax           decimal.Decimal `json:"tax"`
	Retention     decimal.Decimal `json:"retention"`
	Total         decimal.Decimal `json:"total"`
}
