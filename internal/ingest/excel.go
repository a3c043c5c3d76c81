package ingest

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/accordlabs/accord/internal/normalize"
)

// parseWorkbook reads every worksheet, treating the first row as the header.
// Cell values stay strings; short rows are padded so every row carries the
// full column set.
func (p *Parser) parseWorkbook(path string) (*Workbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a readable workbook: %v", ErrValidation, filepath.Base(path), err)
	}
	defer file.Close()

	wb := &Workbook{}
	for _, name := range file.GetSheetList() {
		rows, err := file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}

		wb.Sheets = append(wb.Sheets, buildSheet(name, rows))
	}

	if len(wb.Sheets) == 0 {
		wb.Sheets = append(wb.Sheets, Sheet{
			Name: "Sheet1",
			Rows: []normalize.Fields{{{Name: "notice", Value: "Workbook contained no data"}}},
		})
	}

	return wb, nil
}

func buildSheet(name string, raw [][]string) Sheet {
	sheet := Sheet{Name: name, Columns: []string{}}
	if len(raw) == 0 {
		sheet.Rows = []normalize.Fields{}
		return sheet
	}

	sheet.Columns = raw[0]
	sheet.RowCount = len(raw) - 1

	if sheet.RowCount == 0 {
		blank := make(normalize.Fields, len(sheet.Columns))
		for i, col := range sheet.Columns {
			blank[i] = normalize.Field{Name: col, Value: ""}
		}
		sheet.Rows = []normalize.Fields{blank}
		return sheet
	}

	sheet.Rows = make([]normalize.Fields, 0, sheet.RowCount)
	for _, cells := range raw[1:] {
		row := make(normalize.Fields, len(sheet.Columns))
		for i, col := range sheet.Columns {
			value := ""
			if i < len(cells) {
				value = cells[i]
			}
			row[i] = normalize.Field{Name: col, Value: value}
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet
}
