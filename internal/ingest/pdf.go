package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"gopkg.in/yaml.v3"
)

// extractorHint is appended to extractor failures so operators can tell an
// environment-setup problem from a bad document.
const extractorHint = "install Poppler and Tesseract and ensure they are available on the PATH"

// parsePDF validates the file as a readable PDF, then runs the configured
// extractor command to produce a JSON element payload on stdout.
func (p *Parser) parsePDF(path string) (*Document, error) {
	pages, err := api.PageCountFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a readable PDF: %v", ErrValidation, filepath.Base(path), err)
	}

	if len(p.cfg.extractorArgv) == 0 {
		return nil, fmt.Errorf("%w: no PDF extractor configured, upload a pre-extracted .json or .yaml payload instead", ErrUnsupportedInput)
	}

	argv := make([]string, len(p.cfg.extractorArgv))
	for i, arg := range p.cfg.extractorArgv {
		argv[i] = strings.ReplaceAll(arg, "{path}", path)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	p.logger.Debug("running pdf extractor", "file", filepath.Base(path), "pages", pages)

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdf extraction failed: %v: %s (%s)", err, strings.TrimSpace(stderr.String()), extractorHint)
	}

	var doc Document
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		return nil, fmt.Errorf("pdf extractor produced invalid payload: %w (%s)", err, extractorHint)
	}

	return &doc, nil
}

// decodeDocument reads a pre-extracted element payload from a JSON or YAML file.
func (p *Parser) decodeDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload %s: %w", filepath.Base(path), err)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid element payload: %v", ErrValidation, filepath.Base(path), err)
	}

	return &doc, nil
}
