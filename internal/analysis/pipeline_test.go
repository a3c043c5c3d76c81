package analysis_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/accordlabs/accord/internal/analysis"
	"github.com/accordlabs/accord/internal/ingest"
	"github.com/accordlabs/accord/internal/workflow"
	"github.com/accordlabs/accord/pkg/aicore"
	"github.com/accordlabs/accord/pkg/lifecycle"
	"github.com/accordlabs/accord/pkg/storage"
)

type memoryStore struct {
	mu    sync.Mutex
	blobs map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{blobs: make(map[string]string)}
}

func (m *memoryStore) Start(lc *lifecycle.Coordinator) error { return nil }

func (m *memoryStore) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = string(data)
	return nil
}

func (m *memoryStore) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.blobs[key]
	if !ok {
		return nil, "", storage.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(content)), "application/yaml", nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.blobs, key)
	return nil
}

func (m *memoryStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[key]
	return ok, nil
}

func (m *memoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for key := range m.blobs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

type scriptedCompleter struct {
	responses map[string]string
	calls     []string
}

func (s *scriptedCompleter) respond(messages []aicore.Message) (string, error) {
	prompt := messages[len(messages)-1].Content
	if messages[len(messages)-1].Role == "system" {
		prompt = messages[len(messages)-2].Content
	}

	for marker, response := range s.responses {
		if strings.Contains(prompt, marker) {
			s.calls = append(s.calls, marker)
			return response, nil
		}
	}
	return "", errors.New("no scripted response for prompt")
}

func (s *scriptedCompleter) Complete(ctx context.Context, messages []aicore.Message, temperature float64, maxTokens int) (string, error) {
	return s.respond(messages)
}

func (s *scriptedCompleter) CompleteWithGate(ctx context.Context, messages []aicore.Message, temperature float64, maxTokens int, insist string) (string, error) {
	return s.respond(messages)
}

func testFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	contract := filepath.Join(dir, "contract.json")
	payload := `{
		"source_file": "msa.pdf",
		"elements": [
			{"index": 0, "type": "NarrativeText", "text": "Hourly rate shall not exceed $45.00."}
		]
	}`
	if err := os.WriteFile(contract, []byte(payload), 0o644); err != nil {
		t.Fatalf("write contract: %v", err)
	}

	f := excelize.NewFile()
	f.SetSheetRow("Sheet1", "A1", &[]any{"Qty", "Amount"})
	f.SetSheetRow("Sheet1", "A2", &[]any{"3", "$45.00"})
	invoice := filepath.Join(dir, "invoice.xlsx")
	if err := f.SaveAs(invoice); err != nil {
		t.Fatalf("write invoice: %v", err)
	}

	return contract, invoice
}

func newPipeline(t *testing.T, store storage.System, completer analysis.Completer) *analysis.Pipeline {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	ingestCfg := &ingest.Config{}
	if err := ingestCfg.Finalize(nil); err != nil {
		t.Fatalf("finalize ingest config: %v", err)
	}

	cfg := &analysis.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize analysis config: %v", err)
	}

	return analysis.NewPipeline(ingest.NewParser(ingestCfg, logger), store, completer, cfg, logger)
}

func TestPipelineRun(t *testing.T) {
	contract, invoice := testFixtures(t)
	store := newMemoryStore()
	completer := &scriptedCompleter{responses: map[string]string{
		"reviewing an invoice": "## Compliance Overview\nLine 1 is Compliant with clause 2.",
		"recommendation memo":  "## Summary Judgment\nApprove the invoice for payment.",
		"Count the line items": `{"compliant": 1, "non_compliant": 0, "needs_review": 0}`,
	}}

	runID := uuid.New()
	result, err := newPipeline(t, store, completer).Run(context.Background(), runID, contract, invoice)
	if err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}

	if result.ContractSummary.SegmentCount != 1 {
		t.Errorf("segment_count: got %d", result.ContractSummary.SegmentCount)
	}
	if result.InvoiceSummary.ChargeItemCount != 1 {
		t.Errorf("charge_item_count: got %d", result.InvoiceSummary.ChargeItemCount)
	}
	if !strings.Contains(result.Comparison, "Compliant") {
		t.Errorf("comparison: got %q", result.Comparison)
	}
	if !result.TallyParsed || result.Tally.Compliant != 1 {
		t.Errorf("tally: parsed=%v %+v", result.TallyParsed, result.Tally)
	}

	for _, name := range analysis.ArtifactNames {
		key := storage.RunKey(runID, name)
		if _, ok := store.blobs[key]; !ok {
			t.Errorf("artifact %s not persisted", name)
		}
	}

	// summaries feed the first stage in declared column order
	summaryYAML := store.blobs[storage.RunKey(runID, analysis.ArtifactInvoiceSummary)]
	if !strings.Contains(summaryYAML, "charge_items") {
		t.Errorf("invoice summary artifact missing charge_items:\n%s", summaryYAML)
	}
	qty := strings.Index(summaryYAML, "Qty:")
	amount := strings.Index(summaryYAML, "Amount:")
	if qty == -1 || amount == -1 || qty > amount {
		t.Errorf("field order not preserved in artifact:\n%s", summaryYAML)
	}
}

func TestPipelineTallyParseFailureIsNonFatal(t *testing.T) {
	contract, invoice := testFixtures(t)
	store := newMemoryStore()
	completer := &scriptedCompleter{responses: map[string]string{
		"reviewing an invoice": "## Compliance Overview\nLine 1 is Compliant.",
		"recommendation memo":  "## Summary Judgment\nApprove.",
		"Count the line items": "I could not count the items.",
	}}

	result, err := newPipeline(t, store, completer).Run(context.Background(), uuid.New(), contract, invoice)
	if err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}

	if result.TallyParsed {
		t.Error("expected tally to be unparsed")
	}
	if result.Tally != (analysis.Tally{}) {
		t.Errorf("expected zero tally, got %+v", result.Tally)
	}
}

func TestPipelineStageFailureAborts(t *testing.T) {
	contract, invoice := testFixtures(t)
	store := newMemoryStore()
	completer := &scriptedCompleter{responses: map[string]string{
		"reviewing an invoice": "## Compliance Overview\nLine 1 is Compliant.",
		// recommendation marker intentionally missing
	}}

	_, err := newPipeline(t, store, completer).Run(context.Background(), uuid.New(), contract, invoice)

	var stageErr *workflow.StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected StageError, got %v", err)
	}
	if stageErr.Stage != "recommendation" {
		t.Errorf("failed stage: got %q", stageErr.Stage)
	}

	// narrative reports are only written after the whole chain succeeds
	for key := range store.blobs {
		if strings.HasSuffix(key, ".md") {
			t.Errorf("report artifact persisted despite failure: %s", key)
		}
	}
}

func TestPipelineUnsupportedContract(t *testing.T) {
	_, invoice := testFixtures(t)
	store := newMemoryStore()

	badContract := filepath.Join(t.TempDir(), "contract.docx")
	if err := os.WriteFile(badContract, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := newPipeline(t, store, &scriptedCompleter{}).Run(context.Background(), uuid.New(), badContract, invoice)
	if !errors.Is(err, ingest.ErrUnsupportedInput) {
		t.Fatalf("expected ErrUnsupportedInput, got %v", err)
	}

	if len(store.blobs) != 0 {
		t.Error("no artifacts should persist for a failed parse")
	}
}
