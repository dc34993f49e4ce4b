package invoices

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturio/facturio/internal/excel"
)

// Column names shared with the spreadsheet template.
const (
	ColInvoiceNumber = "NumFactura"
	ColCompany       = "empresa_emisora"
	ColCustomer      = "cliente_nombre"
	ColIssueDate     = "fecha_emision"
	ColTotal         = "total"

	ColDescription  = "descripcion"
	ColQuantity     = "cantidad"
	ColUnitPrice    = "precio_unitario"
	ColTaxPct       = "iva_porcentaje"
	ColRetentionPct = "retencion_porcentaje"
)

// requiredInvoiceColumns must exist in the invoice sheet header before any
// row-level check for them runs.
var requiredInvoiceColumns = []string{ColInvoiceNumber, ColCompany, ColCustomer}

// requiredConceptColumns must exist in the concept sheet header.
var requiredConceptColumns = []string{ColInvoiceNumber, ColDescription, ColQuantity, ColUnitPrice}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006-01-02 15:04:05"}

// Validate runs every check over a parsed batch and collects all findings.
// It never stops at the first problem except when the invoice sheet is empty.
// The result orders findings as: file-level, missing columns, row-level in
// row order, cross-table, duplicates. Pure: no side effects on its inputs.
func Validate(path string, invs, cons *excel.Dataset) ValidationResult {
	var errs []ValidationError

	if invs.Len() == 0 {
		errs = append(errs, fileError(CategoryStructural,
			fmt.Sprintf("no invoice rows found in %s", path)))
		return ValidationResult{Valid: false, Errors: errs}
	}

	missingInv := missingColumns(invs, requiredInvoiceColumns)
	for _, col := range missingInv {
		errs = append(errs, columnError(col, fmt.Sprintf("missing required column: %s", col)))
	}
	missingCon := missingColumns(cons, requiredConceptColumns)
	for _, col := range missingCon {
		errs = append(errs, columnError(col, fmt.Sprintf("missing required column in concepts: %s", col)))
	}

	conceptsUsable := !contains(missingCon, ColInvoiceNumber)
	conceptNumbers := make(map[string]int)
	if conceptsUsable {
		for i := 0; i < cons.Len(); i++ {
			conceptNumbers[NormalizeInvoiceID(cons.Field(i, ColInvoiceNumber))]++
		}
	}

	for i := 0; i < invs.Len(); i++ {
		errs = append(errs, validateRow(invs, i, missingInv, conceptsUsable, conceptNumbers)...)
	}

	if !contains(missingInv, ColInvoiceNumber) {
		if conceptsUsable {
			errs = append(errs, checkOrphanConcepts(invs, cons)...)
		}
		errs = append(errs, checkDuplicates(invs)...)
	}

	valid := true
	for _, e := range errs {
		if e.Severity == SeverityError {
			valid = false
			break
		}
	}
	return ValidationResult{Valid: valid, Errors: errs}
}

func validateRow(invs *excel.Dataset, row int, missing []string, conceptsUsable bool, conceptNumbers map[string]int) []ValidationError {
	var errs []ValidationError
	number := NormalizeInvoiceID(invs.Field(row, ColInvoiceNumber))

	if !contains(missing, ColInvoiceNumber) && number == "" {
		errs = append(errs, rowError(row, ColInvoiceNumber, "invoice number is empty", ""))
	}
	if !contains(missing, ColCompany) && invs.Field(row, ColCompany) == "" {
		errs = append(errs, rowError(row, ColCompany, "issuing company is empty", number))
	}
	if !contains(missing, ColCustomer) && invs.Field(row, ColCustomer) == "" {
		errs = append(errs, rowError(row, ColCustomer, "customer name is empty", number))
	}

	if invs.HasColumn(ColTotal) {
		if raw := invs.Field(row, ColTotal); raw != "" {
			total, err := parseAmount(raw)
			switch {
			case err != nil:
				errs = append(errs, rowError(row, ColTotal, fmt.Sprintf("total amount %q is not a number", raw), number))
			case total.IsNegative():
				errs = append(errs, rowError(row, ColTotal, "total amount is negative", number))
			}
		}
	}

	if invs.HasColumn(ColIssueDate) {
		raw := invs.Field(row, ColIssueDate)
		if raw == "" {
			errs = append(errs, rowWarning(row, ColIssueDate, "issue date is empty", number))
		} else if _, err := parseDate(raw); err != nil {
			errs = append(errs, rowError(row, ColIssueDate, fmt.Sprintf("issue date %q is not a recognised date", raw), number))
		}
	}

	if conceptsUsable && number != "" && conceptNumbers[number] == 0 {
		errs = append(errs, rowWarning(row, "", "invoice has no line items", number))
	}
	return errs
}

func checkOrphanConcepts(invs, cons *excel.Dataset) []ValidationError {
	known := make(map[string]struct{}, invs.Len())
	for i := 0; i < invs.Len(); i++ {
		if n := NormalizeInvoiceID(invs.Field(i, ColInvoiceNumber)); n != "" {
			known[n] = struct{}{}
		}
	}

	var errs []ValidationError
	for i := 0; i < cons.Len(); i++ {
		fk := NormalizeInvoiceID(cons.Field(i, ColInvoiceNumber))
		if _, ok := known[fk]; ok {
			continue
		}
		row := i
		field := ColInvoiceNumber
		errs = append(errs, ValidationError{
			RowIndex:      &row,
			Field:         &field,
			Message:       fmt.Sprintf("line item references unknown invoice %q", fk),
			Severity:      SeverityError,
			Category:      CategoryReferential,
			InvoiceNumber: fk,
		})
	}
	return errs
}

func checkDuplicates(invs *excel.Dataset) []ValidationError {
	seen := make(map[string]bool, invs.Len())
	var errs []ValidationError
	for i := 0; i < invs.Len(); i++ {
		number := NormalizeInvoiceID(invs.Field(i, ColInvoiceNumber))
		if number == "" {
			continue
		}
		if seen[number] {
			row := i
			field := ColInvoiceNumber
			errs = append(errs, ValidationError{
				RowIndex:      &row,
				Field:         &field,
				Message:       fmt.Sprintf("duplicate invoice number %q", number),
				Severity:      SeverityError,
				Category:      CategoryDuplicate,
				InvoiceNumber: number,
			})
			continue
		}
		seen[number] = true
	}
	return errs
}

// BindRows converts a structurally valid invoice dataset into typed rows.
func BindRows(invs *excel.Dataset) []InvoiceRow {
	rows := make([]InvoiceRow, 0, invs.Len())
	for i := 0; i < invs.Len(); i++ {
		row := InvoiceRow{
			Number:   NormalizeInvoiceID(invs.Field(i, ColInvoiceNumber)),
			Company:  invs.Field(i, ColCompany),
			Customer: invs.Field(i, ColCustomer),
			Total:    ParseAmount(invs.Field(i, ColTotal)),
		}
		if raw := invs.Field(i, ColIssueDate); raw != "" {
			if t, err := parseDate(raw); err == nil {
				row.IssueDate = &t
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// BindConcepts converts a concept dataset into typed line items.
func BindConcepts(cons *excel.Dataset) []ConceptRow {
	rows := make([]ConceptRow, 0, cons.Len())
	for i := 0; i < cons.Len(); i++ {
		rows = append(rows, ConceptRow{
			InvoiceNumber: NormalizeInvoiceID(cons.Field(i, ColInvoiceNumber)),
			Description:   cons.Field(i, ColDescription),
			Quantity:      ParseAmount(cons.Field(i, ColQuantity)),
			UnitPrice:     ParseAmount(cons.Field(i, ColUnitPrice)),
			TaxPct:        ParseAmount(cons.Field(i, ColTaxPct)),
			RetentionPct:  ParseAmount(cons.Field(i, ColRetentionPct)),
		})
	}
	return rows
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(raw, "€", ""), "$", ""))
	if cleaned == "" {
		return decimal.Zero, nil
	}
	d := ParseAmount(cleaned)
	if d.IsZero() && !isZeroLiteral(cleaned) {
		return decimal.Zero, fmt.Errorf("cannot parse amount %q", raw)
	}
	return d, nil
}

func isZeroLiteral(s string) bool {
	for _, r := range s {
		switch r {
		case '0', '.', ',', '-', '+':
		default:
			return false
		}
	}
	return true
}

func missingColumns(ds *excel.Dataset, required []string) []string {
	var missing []string
	for _, col := range required {
		if !ds.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func fileError(cat Category, msg string) ValidationError {
	return ValidationError{Message: msg, Severity: SeverityError, Category: cat}
}

func columnError(col, msg string) ValidationError {
	field := col
	return ValidationError{Field: &field, Message: msg, Severity: SeverityError, Category: CategoryStructural}
}

func rowError(row int, field, msg, invoiceNumber string) ValidationError {
	r := row
	e := ValidationError{RowIndex: &r, Message: msg, Severity: SeverityError, Category: CategoryRow, InvoiceNumber: invoiceNumber}
	if field != "" {
		f := field
		e.Field = &f
	}
	return e
}

func rowWarning(row int, field, msg, invoiceNumber string) ValidationError {
	e := rowError(row, field, msg, invoiceNumber)
	e.Severity = SeverityWarning
	return e
}
