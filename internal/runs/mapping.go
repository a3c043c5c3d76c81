package runs

import (
	"net/url"

	"github.com/accordlabs/accord/pkg/query"
	"github.com/accordlabs/accord/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "runs", "r").
	Project("id", "ID").
	Project("contract_file", "ContractFile").
	Project("invoice_file", "InvoiceFile").
	Project("status", "Status").
	Project("segment_count", "SegmentCount").
	Project("line_item_count", "LineItemCount").
	Project("charge_item_count", "ChargeItemCount").
	Project("tally_compliant", "TallyCompliant").
	Project("tally_non_compliant", "TallyNonCompliant").
	Project("tally_needs_review", "TallyNeedsReview").
	Project("error", "Error").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Project("completed_at", "CompletedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for run queries. Nil fields
// are ignored. Status uses exact matching; file names use case-insensitive
// contains matching.
type Filters struct {
	Status       *string `json:"status,omitempty"`
	ContractFile *string `json:"contract_file,omitempty"`
	InvoiceFile  *string `json:"invoice_file,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereContains("ContractFile", f.ContractFile).
		WhereContains("InvoiceFile", f.InvoiceFile)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if cf := values.Get("contract_file"); cf != "" {
		f.ContractFile = &cf
	}
	if inv := values.Get("invoice_file"); inv != "" {
		f.InvoiceFile = &inv
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	err := s.Scan(
		&r.ID,
		&r.ContractFile,
		&r.InvoiceFile,
		&r.Status,
		&r.SegmentCount,
		&r.LineItemCount,
		&r.ChargeItemCount,
		&r.TallyCompliant,
		&r.TallyNonCompliant,
		&r.TallyNeedsReview,
		&r.Error,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.CompletedAt,
	)
	return r, err
}
