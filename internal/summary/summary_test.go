package summary_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/accordlabs/accord/internal/ingest"
	"github.com/accordlabs/accord/internal/normalize"
	"github.com/accordlabs/accord/internal/summary"
)

func TestBuildContract(t *testing.T) {
	page := 3
	doc := &ingest.Document{
		SourceFile:   "msa.pdf",
		ElementCount: 4,
		Elements: []ingest.Element{
			{Index: 0, Kind: "Title", Text: "Master Services Agreement"},
			{Index: 1, Kind: "NarrativeText", Text: "   "},
			{Index: 2, Kind: "NarrativeText", Text: "  Hourly rate shall not exceed $45.00.  ", Metadata: ingest.ElementMetadata{PageNumber: &page}},
			{Index: 3, Kind: "NarrativeText", Text: ""},
		},
	}

	got := summary.BuildContract(doc)

	if got.SegmentCount != 4 {
		t.Errorf("segment_count: got %d, want 4", got.SegmentCount)
	}
	if len(got.Clauses) != 2 {
		t.Fatalf("clauses: got %d, want 2", len(got.Clauses))
	}
	if got.Clauses[1].Text != "Hourly rate shall not exceed $45.00." {
		t.Errorf("clause text not trimmed: %q", got.Clauses[1].Text)
	}
	if got.Clauses[1].PageNumber == nil || *got.Clauses[1].PageNumber != 3 {
		t.Errorf("page number: got %v", got.Clauses[1].PageNumber)
	}
}

func TestBuildContractCaps(t *testing.T) {
	doc := &ingest.Document{SourceFile: "long.pdf", ElementCount: 100}
	long := strings.Repeat("x", 5000)
	for i := range 100 {
		doc.Elements = append(doc.Elements, ingest.Element{Index: i, Text: long})
	}

	got := summary.BuildContract(doc)

	if got.SegmentCount != 100 {
		t.Errorf("segment_count: got %d, want 100", got.SegmentCount)
	}
	if len(got.Clauses) != summary.MaxClauses {
		t.Errorf("clauses: got %d, want %d", len(got.Clauses), summary.MaxClauses)
	}
	for _, clause := range got.Clauses {
		if len(clause.Text) > summary.MaxClauseChars {
			t.Fatalf("clause text exceeds cap: %d", len(clause.Text))
		}
	}
}

func chargeRow(amount string) normalize.Fields {
	return normalize.Fields{
		{Name: "Qty", Value: "1"},
		{Name: "Amount", Value: amount},
	}
}

func TestBuildInvoice(t *testing.T) {
	wb := &ingest.Workbook{
		SourceFile: "invoice.xlsx",
		Sheets: []ingest.Sheet{
			{
				Name:     "Charges",
				RowCount: 4,
				Columns:  []string{"Qty", "Amount", "Notes"},
				Rows: []normalize.Fields{
					{{Name: "Qty", Value: "3"}, {Name: "Amount", Value: "$45.00"}},
					{{Name: "Notes", Value: "see attached PO"}},
					{{Name: "Qty", Value: ""}, {Name: "Amount", Value: "  "}},
					{{Name: "A", Value: "2"}, {Name: "Notes", Value: "widget"}},
				},
			},
		},
	}

	got := summary.BuildInvoice(wb)

	if got.SheetCount != 1 || got.TotalLineItems != 4 {
		t.Errorf("counts: sheets %d, items %d", got.SheetCount, got.TotalLineItems)
	}

	expected := summary.CategoryCounts{Empty: 1, Metadata: 1, PossibleCharge: 1, Charge: 1}
	if got.Categories != expected {
		t.Errorf("categories: got %+v, want %+v", got.Categories, expected)
	}

	if got.ChargeItemCount != 2 || len(got.ChargeItems) != 2 {
		t.Fatalf("charge items: count %d, emitted %d", got.ChargeItemCount, len(got.ChargeItems))
	}

	first := got.ChargeItems[0]
	if first.Category != normalize.CategoryCharge || first.LineNumber != 1 {
		t.Errorf("first charge item: %+v", first)
	}
	if first.Compact != "Qty: 3; Amount: 45" {
		t.Errorf("compact: got %q", first.Compact)
	}
	if len(first.NumericFields) != 2 {
		t.Errorf("numeric fields: got %d, want 2", len(first.NumericFields))
	}

	if len(got.MetadataPreview) != 1 {
		t.Fatalf("metadata preview: got %d, want 1", len(got.MetadataPreview))
	}
	meta := got.MetadataPreview[0]
	if meta.LineNumber != 2 || meta.Compact != "Notes: see attached PO" {
		t.Errorf("metadata entry: %+v", meta)
	}

	// empty rows appear in no list
	for _, item := range got.ChargeItems {
		if item.Category == normalize.CategoryEmpty {
			t.Error("empty row leaked into charge items")
		}
	}
}

func TestBuildInvoiceCountsSurviveTruncation(t *testing.T) {
	sheet := ingest.Sheet{Name: "Bulk", Columns: []string{"Qty", "Amount", "Notes"}}
	for i := range 300 {
		sheet.Rows = append(sheet.Rows, chargeRow(fmt.Sprintf("$%d.00", i+1)))
	}
	for range 60 {
		sheet.Rows = append(sheet.Rows, normalize.Fields{{Name: "Notes", Value: "context line"}})
	}
	sheet.RowCount = len(sheet.Rows)

	got := summary.BuildInvoice(&ingest.Workbook{SourceFile: "bulk.xlsx", Sheets: []ingest.Sheet{sheet}})

	if got.ChargeItemCount != 300 {
		t.Errorf("charge_item_count: got %d, want 300", got.ChargeItemCount)
	}
	if len(got.ChargeItems) != summary.MaxChargeItems {
		t.Errorf("emitted charge items: got %d, want %d", len(got.ChargeItems), summary.MaxChargeItems)
	}
	if got.Categories.Metadata != 60 {
		t.Errorf("metadata count: got %d, want 60", got.Categories.Metadata)
	}
	if len(got.MetadataPreview) != summary.MaxMetadataEntries {
		t.Errorf("emitted metadata: got %d, want %d", len(got.MetadataPreview), summary.MaxMetadataEntries)
	}
	if got.TotalLineItems != 360 {
		t.Errorf("total_line_items: got %d, want 360", got.TotalLineItems)
	}
}

func TestCompactCapped(t *testing.T) {
	row := normalize.Fields{}
	for i := range 50 {
		row = append(row, normalize.Field{
			Name:  fmt.Sprintf("Description %d", i),
			Value: strings.Repeat("long narrative value ", 5),
		})
	}

	got := summary.BuildInvoice(&ingest.Workbook{
		SourceFile: "wide.xlsx",
		Sheets:     []ingest.Sheet{{Name: "Wide", RowCount: 1, Columns: nil, Rows: []normalize.Fields{row}}},
	})

	if got.TotalLineItems != 1 {
		t.Fatalf("total_line_items: got %d", got.TotalLineItems)
	}

	var compact string
	if len(got.ChargeItems) > 0 {
		compact = got.ChargeItems[0].Compact
	} else {
		compact = got.MetadataPreview[0].Compact
	}
	if len(compact) > summary.MaxCompactChars {
		t.Errorf("compact exceeds cap: %d", len(compact))
	}
}
