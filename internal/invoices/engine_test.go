package invoices

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/facturio/facturio/internal/excel"
)

func dataset(cols []string, rows ...[]string) *excel.Dataset {
	ds := &excel.Dataset{Columns: cols}
	for _, raw := range rows {
		row := make(excel.Row, len(cols))
		for i, col := range cols {
			if i < len(raw) {
				row[col] = raw[i]
			}
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

func validInvoices() *excel.Dataset {
	return dataset(
		[]string{ColInvoiceNumber, ColCompany, ColCustomer, ColIssueDate, ColTotal},
		[]string{"25042", "Acme SL", "Cliente Uno", "2026-01-15", "1200.50"},
		[]string{"25043", "Acme SL", "Cliente Dos", "2026-01-16", "80"},
	)
}

func validConcepts() *excel.Dataset {
	return dataset(
		[]string{ColInvoiceNumber, ColDescription, ColQuantity, ColUnitPrice},
		[]string{"25042", "Consultoria", "2", "600.25"},
		[]string{"25043", "Soporte", "1", "80"},
	)
}

func TestValidateCleanBatch(t *testing.T) {
	result := Validate("facturas.xlsx", validInvoices(), validConcepts())
	require.True(t, result.Valid)
	require.Empty(t, result.Errors)
}

func TestValidateEmptyInvoiceSheetShortCircuits(t *testing.T) {
	invs := dataset([]string{ColInvoiceNumber, ColCompany, ColCustomer})
	result := Validate("empty.xlsx", invs, validConcepts())

	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	e := result.Errors[0]
	require.Nil(t, e.RowIndex)
	require.Nil(t, e.Field)
	require.Equal(t, CategoryStructural, e.Category)
	require.Contains(t, e.Message, "no invoice rows found")
}

func TestValidateMissingColumnSkipsRowChecksForIt(t *testing.T) {
	invs := dataset(
		[]string{ColInvoiceNumber, ColCompany},
		[]string{"25042", "Acme SL"},
		[]string{"25043", ""},
	)
	result := Validate("facturas.xlsx", invs, validConcepts())

	require.False(t, result.Valid)

	structural := 0
	for _, e := range result.Errors {
		if e.Category == CategoryStructural {
			structural++
			require.NotNil(t, e.Field)
			require.Equal(t, ColCustomer, *e.Field)
		}
		if e.Category == CategoryRow && e.Field != nil {
			// no cascading row errors for the missing column
			require.NotEqual(t, ColCustomer, *e.Field)
		}
	}
	require.Equal(t, 1, structural)
}

func TestValidateRowErrorsAreCollectedNotShortCircuited(t *testing.T) {
	invs := dataset(
		[]string{ColInvoiceNumber, ColCompany, ColCustomer, ColTotal},
		[]string{"25042", "Acme SL", "Cliente Uno", "100"},
		[]string{"25043", "Acme SL", "", "100"},
		[]string{"25044", "", "Cliente Tres", "-5"},
	)
	cons := dataset(
		[]string{ColInvoiceNumber, ColDescription, ColQuantity, ColUnitPrice},
		[]string{"25042", "A", "1", "100"},
		[]string{"25043", "B", "1", "100"},
		[]string{"25044", "C", "1", "100"},
	)
	result := Validate("facturas.xlsx", invs, cons)
	require.False(t, result.Valid)

	var rowErrs []ValidationError
	for _, e := range result.Errors {
		if e.Category == CategoryRow && e.Severity == SeverityError {
			rowErrs = append(rowErrs, e)
		}
	}
	require.Len(t, rowErrs, 3)
	require.Equal(t, ColCustomer, *rowErrs[0].Field)
	require.Equal(t, 1, *rowErrs[0].RowIndex)
	require.Equal(t, ColCompany, *rowErrs[1].Field)
	require.Equal(t, ColTotal, *rowErrs[2].Field)
	require.Equal(t, 2, *rowErrs[2].RowIndex)
}

func TestValidateSingleEmptyCustomerName(t *testing.T) {
	invs := dataset(
		[]string{ColInvoiceNumber, ColCompany, ColCustomer},
		[]string{"1", "Acme SL", "Cliente Uno"},
		[]string{"2", "Acme SL", ""},
		[]string{"3", "Acme SL", "Cliente Tres"},
	)
	cons := dataset(
		[]string{ColInvoiceNumber, ColDescription, ColQuantity, ColUnitPrice},
		[]string{"1", "A", "1", "1"},
		[]string{"2", "B", "1", "1"},
		[]string{"3", "C", "1", "1"},
	)
	result := Validate("facturas.xlsx", invs, cons)

	require.False(t, result.Valid)
	require.Equal(t, 1, result.ErrorCount())
	e := result.Errors[0]
	require.Equal(t, ColCustomer, *e.Field)
	require.Equal(t, 1, *e.RowIndex)
	require.Equal(t, "2", e.InvoiceNumber)
}

func TestValidateOrphanConceptsOnePerRow(t *testing.T) {
	cons := dataset(
		[]string{ColInvoiceNumber, ColDescription, ColQuantity, ColUnitPrice},
		[]string{"25042", "A", "1", "1"},
		[]string{"99999", "B", "1", "1"},
		[]string{"88888", "C", "1", "1"},
	)
	result := Validate("facturas.xlsx", validInvoices(), cons)
	require.False(t, result.Valid)

	var refs []ValidationError
	for _, e := range result.Errors {
		if e.Category == CategoryReferential {
			refs = append(refs, e)
		}
	}
	require.Len(t, refs, 2)
	require.Equal(t, 1, *refs[0].RowIndex)
	require.Equal(t, "99999", refs[0].InvoiceNumber)
	require.Equal(t, 2, *refs[1].RowIndex)
	require.Equal(t, "88888", refs[1].InvoiceNumber)
}

func TestValidateDuplicateNumbersFlaggedBeyondFirst(t *testing.T) {
	invs := dataset(
		[]string{ColInvoiceNumber, ColCompany, ColCustomer},
		[]string{"25042", "Acme SL", "Cliente Uno"},
		[]string{"25042.0", "Acme SL", "Cliente Dos"},
		[]string{"25042", "Acme SL", "Cliente Tres"},
	)
	cons := dataset(
		[]string{ColInvoiceNumber, ColDescription, ColQuantity, ColUnitPrice},
		[]string{"25042", "A", "1", "1"},
	)
	result := Validate("facturas.xlsx", invs, cons)
	require.False(t, result.Valid)

	var dups []ValidationError
	for _, e := range result.Errors {
		if e.Category == CategoryDuplicate {
			dups = append(dups, e)
		}
	}
	require.Len(t, dups, 2)
	require.Equal(t, 1, *dups[0].RowIndex)
	require.Equal(t, 2, *dups[1].RowIndex)
	require.Equal(t, "25042", dups[0].InvoiceNumber)
}

func TestValidateDuplicatesSurviveBrokenConceptSheet(t *testing.T) {
	invs := dataset(
		[]string{ColInvoiceNumber, ColCompany, ColCustomer},
		[]string{"25042", "Acme SL", "Cliente Uno"},
		[]string{"25042.0", "Acme SL", "Cliente Dos"},
	)
	cons := dataset(
		[]string{ColDescription, ColQuantity, ColUnitPrice},
		[]string{"Consultoria", "2", "600.25"},
	)

	result := Validate("facturas.xlsx", invs, cons)
	require.False(t, result.Valid)

	dups := 0
	for _, e := range result.Errors {
		if e.Category == CategoryDuplicate {
			dups++
			require.Equal(t, "25042", e.InvoiceNumber)
		}
	}
	require.Equal(t, 1, dups)

	structural := 0
	for _, e := range result.Errors {
		if e.Category == CategoryStructural {
			structural++
		}
	}
	require.Equal(t, 1, structural)
}

func TestValidateMissingLineItemsIsWarningOnly(t *testing.T) {
	cons := dataset(
		[]string{ColInvoiceNumber, ColDescription, ColQuantity, ColUnitPrice},
		[]string{"25042", "A", "1", "1"},
	)
	result := Validate("facturas.xlsx", validInvoices(), cons)

	require.True(t, result.Valid)
	require.Equal(t, 0, result.ErrorCount())
	require.Equal(t, 1, result.WarningCount())
	w := result.Errors[0]
	require.Equal(t, SeverityWarning, w.Severity)
	require.Equal(t, "25043", w.InvoiceNumber)
}

func TestValidateOrderingContract(t *testing.T) {
	invs := dataset(
		[]string{ColInvoiceNumber, ColCustomer, ColIssueDate},
		[]string{"25042", "", "not-a-date"},
		[]string{"25042", "Cliente Dos", "2026-01-10"},
	)
	cons := dataset(
		[]string{ColInvoiceNumber, ColDescription, ColQuantity, ColUnitPrice},
		[]string{"25042", "A", "1", "1"},
		[]string{"77777", "B", "1", "1"},
	)
	result := Validate("facturas.xlsx", invs, cons)
	require.False(t, result.Valid)

	var order []Category
	for _, e := range result.Errors {
		if e.Severity == SeverityError {
			order = append(order, e.Category)
		}
	}
	require.Equal(t, []Category{
		CategoryStructural,  // missing empresa_emisora column
		CategoryRow,         // empty customer, row 0
		CategoryRow,         // bad date, row 0
		CategoryReferential, // orphan concept
		CategoryDuplicate,   // repeated 25042
	}, order)
}

func TestValidateIsIdempotent(t *testing.T) {
	invs := dataset(
		[]string{ColInvoiceNumber, ColCompany, ColCustomer},
		[]string{"", "Acme SL", ""},
		[]string{"2", "", "Cliente"},
	)
	cons := dataset(
		[]string{ColInvoiceNumber, ColDescription, ColQuantity, ColUnitPrice},
		[]string{"9", "X", "1", "1"},
	)
	first := Validate("facturas.xlsx", invs, cons)
	second := Validate("facturas.xlsx", invs, cons)
	require.Equal(t, first, second)
}

func TestBindRowsProducesTypedValues(t *testing.T) {
	rows := BindRows(validInvoices())
	require.Len(t, rows, 2)
	require.Equal(t, "25042", rows[0].Number)
	require.Equal(t, "Acme SL", rows[0].Company)
	require.NotNil(t, rows[0].IssueDate)
	require.Equal(t, "1200.5", rows[0].Total.String())
}
