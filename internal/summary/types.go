// Package summary builds bounded structured summaries of parsed contract
// and invoice documents for downstream model analysis.
package summary

import (
	"github.com/accordlabs/accord/internal/normalize"
)

// Caps bound the size of emitted summaries. Counts always reflect the full
// source document; only the emitted lists are capped.
const (
	MaxClauses         = 40
	MaxClauseChars     = 1200
	MaxChargeItems     = 160
	MaxMetadataEntries = 40
	MaxCompactChars    = 400
)

// Clause is one kept contract excerpt.
type Clause struct {
	Index      int    `yaml:"index"`
	Kind       string `yaml:"kind,omitempty"`
	Text       string `yaml:"text"`
	PageNumber *int   `yaml:"page_number,omitempty"`
}

// ContractSummary is the bounded structured view of a parsed contract.
// SegmentCount reflects the full element count, not the capped clause list.
type ContractSummary struct {
	SourceFile   string   `yaml:"source_file"`
	SegmentCount int      `yaml:"segment_count"`
	Clauses      []Clause `yaml:"clauses"`
}

// LineItem is the classification result for one spreadsheet row. Created
// once during summarization and never mutated afterward.
type LineItem struct {
	Sheet         string             `yaml:"sheet"`
	LineNumber    int                `yaml:"line_number"`
	Category      normalize.Category `yaml:"category"`
	Fields        normalize.Fields   `yaml:"fields"`
	NumericFields normalize.Fields   `yaml:"numeric_fields"`
	Compact       string             `yaml:"compact"`
}

// MetadataEntry is the reduced projection kept for metadata rows. Raw
// fields are intentionally dropped.
type MetadataEntry struct {
	Sheet      string `yaml:"sheet"`
	LineNumber int    `yaml:"line_number"`
	Compact    string `yaml:"compact"`
}

// SheetOverview describes one worksheet.
type SheetOverview struct {
	Sheet    string   `yaml:"sheet"`
	RowCount int      `yaml:"row_count"`
	Columns  []string `yaml:"columns"`
}

// CategoryCounts tallies rows per classification over the full workbook.
type CategoryCounts struct {
	Empty          int `yaml:"empty"`
	Metadata       int `yaml:"metadata"`
	PossibleCharge int `yaml:"possible_charge"`
	Charge         int `yaml:"charge"`
}

// InvoiceSummary is the bounded structured view of a parsed workbook.
// Counts are exact pre-truncation tallies; ChargeItems and MetadataPreview
// are capped samples.
type InvoiceSummary struct {
	SourceFile      string          `yaml:"source_file"`
	SheetCount      int             `yaml:"sheet_count"`
	TotalLineItems  int             `yaml:"total_line_items"`
	ChargeItemCount int             `yaml:"charge_item_count"`
	Categories      CategoryCounts  `yaml:"categories"`
	Sheets          []SheetOverview `yaml:"sheets"`
	ChargeItems     []LineItem      `yaml:"charge_items"`
	MetadataPreview []MetadataEntry `yaml:"metadata_preview"`
}
