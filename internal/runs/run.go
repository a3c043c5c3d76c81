// Package runs implements the analysis-run domain: accepting a contract
// and invoice pair, executing the processing pipeline, and tracking run
// records and their persisted artifacts.
package runs

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusFailed     = "failed"
)

// Run is one recorded document-processing run. Count and tally columns are
// populated on completion; Error is populated on failure.
type Run struct {
	ID                uuid.UUID  `json:"id"`
	ContractFile      string     `json:"contract_file"`
	InvoiceFile       string     `json:"invoice_file"`
	Status            string     `json:"status"`
	SegmentCount      *int       `json:"segment_count"`
	LineItemCount     *int       `json:"line_item_count"`
	ChargeItemCount   *int       `json:"charge_item_count"`
	TallyCompliant    *int       `json:"tally_compliant"`
	TallyNonCompliant *int       `json:"tally_non_compliant"`
	TallyNeedsReview  *int       `json:"tally_needs_review"`
	Error             *string    `json:"error,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at"`
}

// CreateCommand carries the uploaded file pair for a new run. Paths point
// at temporary files owned by the handler for the duration of the call.
type CreateCommand struct {
	ContractFile string
	InvoiceFile  string
	ContractPath string
	InvoicePath  string
}
