package history

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates submission outcomes recorded in the history.
type Status string

const (
	StatusOK      Status = "OK"
	StatusError   Status = "ERROR"
	StatusPending Status = "PENDING"
)

// Entry is one persisted invoice submission.
type Entry struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Company       string          `json:"company"`
	Customer      string          `json:"customer"`
	Status        Status          `json:"status"`
	SentAt        time.Time       `json:"sent_at"`
	Amount        decimal.Decimal `json:"amount"`
	PDFURL        *string         `json:"pdf_url,omitempty"`
	PDFLocalPath  *string         `json:"pdf_local_path,omitempty"`
	SourceFile    *string         `json:"source_file,omitempty"`
	Details       *string         `json:"details,omitempty"`
}

// EntryInput carries the fields needed to persist one submission outcome.
type EntryInput struct {
	InvoiceNumber string
	Company       string
	Customer      string
	Status        Status
	SentAt        time.Time
	Amount        decimal.Decimal
	PDFURL        *string
	SourceFile    *string
	Details       *string
}

// Filter restricts a history query. Absent predicates impose no restriction;
// present ones combine as a logical AND.
type Filter struct {
	Company  string
	Customer string
	Status   Status
	DateFrom *time.Time
	DateTo   *time.Time
	Search   string

	// Limit/Offset bound the result when Limit is positive; the default of
	// zero returns every matching entry.
	Limit  int
	Offset int
}

// CompanyStat is one row of the per-company breakdown.
type CompanyStat struct {
	Company string          `json:"company"`
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
}

// Stats aggregates a filtered slice of the history.
type Stats struct {
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
	Success   int             `json:"success"`
	Failed    int             `json:"failed"`
	Pending   int             `json:"pending"`
	Companies []CompanyStat   `json:"companies"`
}

// DashboardStats are the headline numbers shown on the dashboard; cached
// with a short TTL because every page load asks for them.
type DashboardStats struct {
	TotalSuccess int             `json:"total_success"`
	MonthCount   int             `json:"month_count"`
	MonthTotal   decimal.Decimal `json:"month_total"`
}
