package invoices

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func concept(number, qty, price, tax, ret string) ConceptRow {
	return ConceptRow{
		InvoiceNumber: number,
		Quantity:      decimal.RequireFromString(qty),
		UnitPrice:     decimal.RequireFromString(price),
		TaxPct:        decimal.RequireFromString(tax),
		RetentionPct:  decimal.RequireFromString(ret),
	}
}

func TestCalculateTotals(t *testing.T) {
	concepts := []ConceptRow{
		concept("25042", "2", "600.25", "21", "0"),
		concept("25042", "1", "100", "21", "15"),
		concept("25043", "1", "50", "21", "0"),
	}

	totals := CalculateTotals("25042", concepts)
	require.Equal(t, "25042", totals.InvoiceNumber)
	require.True(t, decimal.RequireFromString("1300.50").Equal(totals.Base))
	require.True(t, decimal.RequireFromString("273.105").Equal(totals.Tax))
	require.True(t, decimal.RequireFromString("15").Equal(totals.Retention))
	// total = base + tax - retention
	require.True(t, decimal.RequireFromString("1558.605").Equal(totals.Total))
}

func TestCalculateTotalsNormalizesInvoiceID(t *testing.T) {
	concepts := []ConceptRow{concept("25042", "1", "100", "0", "0")}
	totals := CalculateTotals("25042.0", concepts)
	require.True(t, decimal.NewFromInt(100).Equal(totals.Total))
}

func TestCalculateTotalsNoMatchingConcepts(t *testing.T) {
	totals := CalculateTotals("99999", nil)
	require.True(t, totals.Base.IsZero())
	require.True(t, totals.Total.IsZero())
}

func TestBatchTotalsFollowsRowOrder(t *testing.T) {
	rows := []InvoiceRow{{Number: "2"}, {Number: "1"}}
	concepts := []ConceptRow{
		concept("1", "1", "10", "0", "0"),
		concept("2", "1", "20", "0", "0"),
	}
	totals := BatchTotals(rows, concepts)
	require.Len(t, totals, 2)
	require.Equal(t, "2", totals[0].InvoiceNumber)
	require.True(t, decimal.NewFromInt(20).Equal(totals[0].Total))
	require.Equal(t, "1", totals[1].InvoiceNumber)
}
