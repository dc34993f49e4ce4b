package offline

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// EnqueueRequest queues one submission for later delivery.
type EnqueueRequest struct {
	InvoiceNumber string          `json:"invoice_number" validate:"required"`
	Company       string          `json:"company" validate:"required"`
	Customer      string          `json:"customer"`
	Amount        decimal.Decimal `json:"amount"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// PendingResponse wraps the pending slice of the queue.
type PendingResponse struct {
	Items []Item `json:"items"`
	Total int    `json:"total"`
}

// PurgeResponse reports how many delivered items were removed.
type PurgeResponse struct {
	Removed int64 `json:"removed"`
}
