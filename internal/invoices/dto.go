package invoices

// ValidateResponse is the payload returned after validating an uploaded batch.
// Callers may truncate the error list for display but Counts always reflect
// the full set.
type ValidateResponse struct {
	BatchID      string            `json:"batch_id"`
	SourceFile   string            `json:"source_file"`
	Valid        bool              `json:"valid"`
	InvoiceCount int               `json:"invoice_count"`
	ConceptCount int               `json:"concept_count"`
	ErrorCount   int               `json:"error_count"`
	WarningCount int               `json:"warning_count"`
	Errors       []ValidationError `json:"errors"`
	Totals       []InvoiceTotals   `json:"totals,omitempty"`
}
