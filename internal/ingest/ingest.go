// Package ingest parses uploaded contract and invoice documents into the
// structured payloads consumed by the summary builders.
package ingest

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/accordlabs/accord/internal/normalize"
)

// Element is one unit of extracted contract text.
type Element struct {
	Index    int             `json:"index" yaml:"index"`
	Kind     string          `json:"type" yaml:"type"`
	Text     string          `json:"text" yaml:"text"`
	Metadata ElementMetadata `json:"metadata" yaml:"metadata"`
}

// ElementMetadata carries positional context for an extracted element.
type ElementMetadata struct {
	PageNumber *int `json:"page_number,omitempty" yaml:"page_number,omitempty"`
}

// Document is the parsed representation of a text-bearing contract file.
type Document struct {
	SourceFile   string    `json:"source_file" yaml:"source_file"`
	ElementCount int       `json:"element_count" yaml:"element_count"`
	Elements     []Element `json:"elements" yaml:"elements"`
}

// Sheet is one worksheet of a parsed invoice workbook. All cell values are
// read as strings; normalization happens downstream.
type Sheet struct {
	Name     string
	RowCount int
	Columns  []string
	Rows     []normalize.Fields
}

// Workbook is the parsed representation of a tabular invoice file. Sheet
// order follows the source document.
type Workbook struct {
	SourceFile string
	Sheets     []Sheet
}

// MarshalYAML renders the workbook with sheets as a name-keyed mapping in
// document order, matching the persisted artifact shape.
func (w Workbook) MarshalYAML() (any, error) {
	sheets := &yaml.Node{Kind: yaml.MappingNode}
	for _, sheet := range w.Sheets {
		var key yaml.Node
		key.SetString(sheet.Name)

		var value yaml.Node
		if err := value.Encode(struct {
			RowCount int                `yaml:"row_count"`
			Columns  []string           `yaml:"columns"`
			Rows     []normalize.Fields `yaml:"rows"`
		}{sheet.RowCount, sheet.Columns, sheet.Rows}); err != nil {
			return nil, err
		}

		sheets.Content = append(sheets.Content, &key, &value)
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	var srcKey, srcValue, sheetsKey yaml.Node
	srcKey.SetString("source_file")
	srcValue.SetString(w.SourceFile)
	sheetsKey.SetString("sheets")
	node.Content = append(node.Content, &srcKey, &srcValue, &sheetsKey, sheets)

	return node, nil
}

// Parser dispatches uploaded files to format-specific readers.
type Parser struct {
	cfg    *Config
	logger *slog.Logger
}

// NewParser creates a Parser from finalized configuration.
func NewParser(cfg *Config, logger *slog.Logger) *Parser {
	return &Parser{
		cfg:    cfg,
		logger: logger.With("system", "ingest"),
	}
}

// ParseContract reads a contract file into a Document. PDF files are
// validated and handed to the configured extractor; pre-extracted JSON or
// YAML element payloads are decoded directly. Any other extension fails
// with ErrUnsupportedInput naming the extension.
func (p *Parser) ParseContract(path string) (*Document, error) {
	var doc *Document
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		doc, err = p.parsePDF(path)
	case ".json", ".yaml", ".yml":
		doc, err = p.decodeDocument(path)
	default:
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedInput, ext)
	}
	if err != nil {
		return nil, err
	}

	doc.SourceFile = filepath.Base(path)
	doc.ElementCount = len(doc.Elements)

	if !doc.hasText() {
		return nil, fmt.Errorf("%w: contract %s yielded no text segments, supply a richer document", ErrValidation, doc.SourceFile)
	}

	p.logger.Debug("parsed contract", "file", doc.SourceFile, "elements", doc.ElementCount)
	return doc, nil
}

// ParseInvoice reads an invoice file into a Workbook. Excel workbooks are
// read directly; any other extension fails with ErrUnsupportedInput naming
// the extension.
func (p *Parser) ParseInvoice(path string) (*Workbook, error) {
	var wb *Workbook
	var err error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		wb, err = p.parseWorkbook(path)
	default:
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedInput, ext)
	}
	if err != nil {
		return nil, err
	}

	wb.SourceFile = filepath.Base(path)

	p.logger.Debug("parsed invoice", "file", wb.SourceFile, "sheets", len(wb.Sheets))
	return wb, nil
}

func (d *Document) hasText() bool {
	for _, element := range d.Elements {
		if strings.TrimSpace(element.Text) != "" {
			return true
		}
	}
	return false
}
