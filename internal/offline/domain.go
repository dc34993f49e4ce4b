package offline

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status tracks where a queued submission sits in its lifecycle.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

// Item is one submission queued while the upstream API was unreachable.
type Item struct {
	ID            int64           `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Company       string          `json:"company"`
	Customer      string          `json:"customer"`
	Amount        decimal.Decimal `json:"amount"`
	Payload       []byte          `json:"payload"`
	Status        Status          `json:"status"`
	Retries       int             `json:"retries"`
	LastError     *string         `json:"last_error,omitempty"`
	QueuedAt      time.Time       `json:"queued_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ItemInput carries the fields needed to enqueue a submission.
type ItemInput struct {
	InvoiceNumber string
	Company       string
	Customer      string
	Amount        decimal.Decimal
	Payload       []byte
}

// QueueStats counts items by status.
type QueueStats struct {
	Pending int `json:"pending"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}
