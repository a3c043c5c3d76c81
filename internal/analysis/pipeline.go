// Package analysis orchestrates a document-processing run: parsing,
// summarization, artifact persistence, and the staged model workflow.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/accordlabs/accord/internal/ingest"
	"github.com/accordlabs/accord/internal/prompts"
	"github.com/accordlabs/accord/internal/summary"
	"github.com/accordlabs/accord/internal/workflow"
	"github.com/accordlabs/accord/pkg/aicore"
	"github.com/accordlabs/accord/pkg/formatting"
	"github.com/accordlabs/accord/pkg/storage"
)

// Artifact names persisted for every run.
const (
	ArtifactContract        = "contract.yaml"
	ArtifactInvoice         = "invoice.yaml"
	ArtifactContractSummary = "contract_summary.yaml"
	ArtifactInvoiceSummary  = "invoice_summary.yaml"
	ArtifactComparison      = "comparison.md"
	ArtifactRecommendation  = "recommendation.md"
)

// ArtifactNames lists every artifact a completed run persists.
var ArtifactNames = []string{
	ArtifactContract,
	ArtifactInvoice,
	ArtifactContractSummary,
	ArtifactInvoiceSummary,
	ArtifactComparison,
	ArtifactRecommendation,
}

// Completer issues chat-completion calls. Satisfied by *aicore.Client.
type Completer interface {
	Complete(ctx context.Context, messages []aicore.Message, temperature float64, maxTokens int) (string, error)
	CompleteWithGate(ctx context.Context, messages []aicore.Message, temperature float64, maxTokens int, insist string) (string, error)
}

// Tally is the machine-readable verdict count extracted from a comparison
// review.
type Tally struct {
	Compliant    int `json:"compliant"`
	NonCompliant int `json:"non_compliant"`
	NeedsReview  int `json:"needs_review"`
}

// Result carries the outputs of one completed run.
type Result struct {
	ContractSummary *summary.ContractSummary
	InvoiceSummary  *summary.InvoiceSummary
	Comparison      string
	Recommendation  string
	Tally           Tally
	TallyParsed     bool
}

// Pipeline executes document-processing runs. A single pipeline serves
// concurrent runs; the only shared mutable state lives inside the completer's
// token lease.
type Pipeline struct {
	parser    *ingest.Parser
	store     storage.System
	completer Completer
	cfg       *Config
	logger    *slog.Logger
}

// NewPipeline assembles a pipeline from its collaborators.
func NewPipeline(parser *ingest.Parser, store storage.System, completer Completer, cfg *Config, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		parser:    parser,
		store:     store,
		completer: completer,
		cfg:       cfg,
		logger:    logger.With("system", "analysis"),
	}
}

// Run processes one contract/invoice pair: parse both documents, build
// summaries, persist the structured artifacts, execute the analysis chain,
// and persist the narrative reports. Parsing and the chain run sequentially
// since each step consumes the prior step's output; artifact uploads within
// a step run concurrently.
func (p *Pipeline) Run(ctx context.Context, runID uuid.UUID, contractPath, invoicePath string) (*Result, error) {
	doc, err := p.parser.ParseContract(contractPath)
	if err != nil {
		return nil, err
	}

	wb, err := p.parser.ParseInvoice(invoicePath)
	if err != nil {
		return nil, err
	}

	contractSummary := summary.BuildContract(doc)
	invoiceSummary := summary.BuildInvoice(wb)

	contractSummaryYAML, err := marshalYAML(contractSummary)
	if err != nil {
		return nil, err
	}
	invoiceSummaryYAML, err := marshalYAML(invoiceSummary)
	if err != nil {
		return nil, err
	}

	if err := p.persistStructured(ctx, runID, doc, wb, contractSummaryYAML, invoiceSummaryYAML); err != nil {
		return nil, err
	}

	p.logger.Info("structured artifacts persisted",
		"run_id", runID,
		"segments", contractSummary.SegmentCount,
		"line_items", invoiceSummary.TotalLineItems,
	)

	result := &Result{
		ContractSummary: contractSummary,
		InvoiceSummary:  invoiceSummary,
	}

	state := workflow.NewState(map[workflow.Field]string{
		workflow.FieldContractSummary: contractSummaryYAML,
		workflow.FieldInvoiceSummary:  invoiceSummaryYAML,
	})

	chain, err := p.buildChain()
	if err != nil {
		return nil, err
	}

	if err := chain.Run(ctx, state); err != nil {
		return nil, err
	}

	result.Comparison = state.Get(workflow.FieldComparison)
	result.Recommendation = state.Get(workflow.FieldRecommendation)

	tally, err := formatting.Parse[Tally](state.Get(workflow.FieldTally))
	if err != nil {
		// verdict counts are an enrichment, not a gate
		p.logger.Warn("tally response unparseable", "run_id", runID, "error", err)
	} else {
		result.Tally = tally
		result.TallyParsed = true
	}

	if err := p.persistReports(ctx, runID, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (p *Pipeline) buildChain() (*workflow.Chain, error) {
	return workflow.NewChain(p.logger,
		[]workflow.Field{workflow.FieldContractSummary, workflow.FieldInvoiceSummary},
		workflow.Stage{
			Name:     "comparison",
			Requires: []workflow.Field{workflow.FieldContractSummary, workflow.FieldInvoiceSummary},
			Produces: workflow.FieldComparison,
			Run: func(ctx context.Context, state *workflow.State) (string, error) {
				return p.completer.CompleteWithGate(ctx,
					prompts.Comparison(
						state.Get(workflow.FieldContractSummary),
						state.Get(workflow.FieldInvoiceSummary),
					),
					p.cfg.Temperature, p.cfg.MaxTokens, prompts.InsistMessage,
				)
			},
		},
		workflow.Stage{
			Name:     "recommendation",
			Requires: []workflow.Field{workflow.FieldComparison},
			Produces: workflow.FieldRecommendation,
			Run: func(ctx context.Context, state *workflow.State) (string, error) {
				return p.completer.CompleteWithGate(ctx,
					prompts.Recommendation(state.Get(workflow.FieldComparison)),
					p.cfg.Temperature, p.cfg.MaxTokens, prompts.InsistMessage,
				)
			},
		},
		workflow.Stage{
			Name:     "tally",
			Requires: []workflow.Field{workflow.FieldComparison},
			Produces: workflow.FieldTally,
			Run: func(ctx context.Context, state *workflow.State) (string, error) {
				return p.completer.Complete(ctx,
					prompts.Tally(state.Get(workflow.FieldComparison)),
					0, p.cfg.TallyMaxTokens,
				)
			},
		},
	)
}

func (p *Pipeline) persistStructured(ctx context.Context, runID uuid.UUID, doc *ingest.Document, wb *ingest.Workbook, contractSummaryYAML, invoiceSummaryYAML string) error {
	contractYAML, err := marshalYAML(doc)
	if err != nil {
		return err
	}
	invoiceYAML, err := marshalYAML(wb)
	if err != nil {
		return err
	}

	return p.uploadAll(ctx, runID, map[string]string{
		ArtifactContract:        contractYAML,
		ArtifactInvoice:         invoiceYAML,
		ArtifactContractSummary: contractSummaryYAML,
		ArtifactInvoiceSummary:  invoiceSummaryYAML,
	}, "application/yaml")
}

func (p *Pipeline) persistReports(ctx context.Context, runID uuid.UUID, result *Result) error {
	return p.uploadAll(ctx, runID, map[string]string{
		ArtifactComparison:     result.Comparison,
		ArtifactRecommendation: result.Recommendation,
	}, "text/markdown")
}

func (p *Pipeline) uploadAll(ctx context.Context, runID uuid.UUID, artifacts map[string]string, contentType string) error {
	g, gctx := errgroup.WithContext(ctx)

	for name, content := range artifacts {
		g.Go(func() error {
			key := storage.RunKey(runID, name)
			if err := p.store.Upload(gctx, key, strings.NewReader(content), contentType); err != nil {
				return fmt.Errorf("persist %s: %w", name, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func marshalYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("serialize artifact: %w", err)
	}
	return string(data), nil
}
