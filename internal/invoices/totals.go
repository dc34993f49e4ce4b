package invoices

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Subtotal returns quantity times unit price for one line item.
func (c ConceptRow) Subtotal() decimal.Decimal {
	return c.Quantity.Mul(c.UnitPrice)
}

// TaxAmount returns the tax portion of one line item.
func (c ConceptRow) TaxAmount() decimal.Decimal {
	return c.Subtotal().Mul(c.TaxPct.Div(hundred))
}

// RetentionAmount returns the retention portion of one line item.
func (c ConceptRow) RetentionAmount() decimal.Decimal {
	return c.Subtotal().Mul(c.RetentionPct.Div(hundred))
}

// CalculateTotals aggregates line items into per-invoice amounts. The grand
// total is base plus tax minus retention.
func CalculateTotals(invoiceNumber string, concepts []ConceptRow) InvoiceTotals {
	number := NormalizeInvoiceID(invoiceNumber)
	totals := InvoiceTotals{
		InvoiceNumber: number,
		Base:          decimal.Zero,
		Tax:           decimal.Zero,
		Retention:     decimal.Zero,
		Total:         decimal.Zero,
	}
	for _, c := range concepts {
		if c.InvoiceNumber != number {
			continue
		}
		totals.Base = totals.Base.Add(c.Subtotal())
		totals.Tax = totals.Tax.Add(c.TaxAmount())
		totals.Retention = totals.Retention.Add(c.RetentionAmount())
	}
	totals.Total = totals.Base.Add(totals.Tax).Sub(totals.Retention)
	return totals
}

// BatchTotals computes totals for every invoice in the batch, in row order.
func BatchTotals(rows []InvoiceRow, concepts []ConceptRow) []InvoiceTotals {
	out := make([]InvoiceTotals, 0, len(rows))
	for _, row := range rows {
		out = append(out, CalculateTotals(row.Number, concepts))
	}
	return out
}
