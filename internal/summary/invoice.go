package summary

import (
	"fmt"
	"strings"

	"github.com/accordlabs/accord/internal/ingest"
	"github.com/accordlabs/accord/internal/normalize"
)

// BuildInvoice summarizes a parsed workbook. Every row is classified;
// charge and possible-charge rows accumulate as line items, metadata rows
// as reduced previews. Truncation to the list caps happens only after
// accumulation so the reported counts reflect the full workbook.
func BuildInvoice(wb *ingest.Workbook) *InvoiceSummary {
	result := &InvoiceSummary{
		SourceFile:      wb.SourceFile,
		SheetCount:      len(wb.Sheets),
		Sheets:          make([]SheetOverview, 0, len(wb.Sheets)),
		ChargeItems:     make([]LineItem, 0),
		MetadataPreview: make([]MetadataEntry, 0),
	}

	for _, sheet := range wb.Sheets {
		result.Sheets = append(result.Sheets, SheetOverview{
			Sheet:    sheet.Name,
			RowCount: sheet.RowCount,
			Columns:  sheet.Columns,
		})

		for i, row := range sheet.Rows {
			item := classifyRow(sheet.Name, i+1, row)
			result.TotalLineItems++

			switch item.Category {
			case normalize.CategoryEmpty:
				result.Categories.Empty++
			case normalize.CategoryMetadata:
				result.Categories.Metadata++
				result.MetadataPreview = append(result.MetadataPreview, MetadataEntry{
					Sheet:      item.Sheet,
					LineNumber: item.LineNumber,
					Compact:    item.Compact,
				})
			case normalize.CategoryPossibleCharge:
				result.Categories.PossibleCharge++
				result.ChargeItems = append(result.ChargeItems, item)
			case normalize.CategoryCharge:
				result.Categories.Charge++
				result.ChargeItems = append(result.ChargeItems, item)
			}
		}
	}

	result.ChargeItemCount = len(result.ChargeItems)

	if len(result.ChargeItems) > MaxChargeItems {
		result.ChargeItems = result.ChargeItems[:MaxChargeItems]
	}
	if len(result.MetadataPreview) > MaxMetadataEntries {
		result.MetadataPreview = result.MetadataPreview[:MaxMetadataEntries]
	}

	return result
}

func classifyRow(sheet string, lineNumber int, row normalize.Fields) LineItem {
	fields := normalize.NormalizeFields(row)

	item := LineItem{
		Sheet:      sheet,
		LineNumber: lineNumber,
		Category:   normalize.Classify(row),
		Fields:     fields,
	}

	if len(fields) > 0 {
		item.Compact = compact(fields)
	}

	for _, field := range fields {
		if normalize.IsNumeric(field.Value) {
			item.NumericFields = append(item.NumericFields, field)
		}
	}

	return item
}

// compact renders normalized fields as "key: value" pairs joined by "; ",
// capped to 400 characters.
func compact(fields normalize.Fields) string {
	pairs := make([]string, len(fields))
	for i, field := range fields {
		pairs[i] = fmt.Sprintf("%s: %v", field.Name, field.Value)
	}
	return truncate(strings.Join(pairs, "; "), MaxCompactChars)
}
