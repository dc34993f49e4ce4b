package history

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaveBatchRequest records the outcomes of one submission run.
type SaveBatchRequest struct {
	SourceFile string     `json:"source_file,omitempty"`
	Entries    []EntryReq `json:"entries" validate:"required,min=1,dive"`
}

// EntryReq is one submission outcome in a SaveBatchRequest.
type EntryReq struct {
	InvoiceNumber string          `json:"invoice_number" validate:"required"`
	Company       string          `json:"company" validate:"required"`
	Customer      string          `json:"customer"`
	Status        string          `json:"status" validate:"omitempty,oneof=OK ERROR PENDING"`
	SentAt        *time.Time      `json:"sent_at,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	PDFURL        *string         `json:"pdf_url,omitempty"`
	Details       *string         `json:"details,omitempty"`
}

// UpdatePDFPathRequest links a downloaded PDF to its history entry.
type UpdatePDFPathRequest struct {
	InvoiceNumber string `json:"invoice_number" validate:"required"`
	Company       string `json:"company" validate:"required"`
	LocalPath     string `json:"local_path" validate:"required"`
}

// SaveBatchResponse reports how many entries were persisted.
type SaveBatchResponse struct {
	Saved int `json:"saved"`
}

// ClearResponse reports how many entries were removed.
type ClearResponse struct {
	Removed int64 `json:"removed"`
}

// ListResponse wraps a history page.
type ListResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}
