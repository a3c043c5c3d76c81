package runs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/accordlabs/accord/internal/analysis"
	"github.com/accordlabs/accord/pkg/pagination"
	"github.com/accordlabs/accord/pkg/query"
	"github.com/accordlabs/accord/pkg/repository"
	"github.com/accordlabs/accord/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	pipeline   *analysis.Pipeline
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a run repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	pipeline *analysis.Pipeline,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		pipeline:   pipeline,
		logger:     logger.With("system", "runs"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ContractFile", "InvoiceFile")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	results, err := repository.QueryMany(ctx, r.db, pageSQL, scanRun, pageArgs...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(results, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, scanRun, args...)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

// Create registers a run, executes the processing pipeline synchronously,
// and records the outcome on the run row. The pipeline error surfaces
// unchanged; the failed run row remains queryable with the error text.
func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Run, error) {
	run, err := r.insert(ctx, cmd)
	if err != nil {
		return nil, err
	}

	result, runErr := r.pipeline.Run(ctx, run.ID, cmd.ContractPath, cmd.InvoicePath)
	if runErr != nil {
		if markErr := r.markFailed(ctx, run.ID, runErr.Error()); markErr != nil {
			r.logger.Error("failed to record run failure", "run_id", run.ID, "error", markErr)
		}
		return nil, runErr
	}

	return r.markComplete(ctx, run.ID, result)
}

func (r *repo) insert(ctx context.Context, cmd CreateCommand) (*Run, error) {
	q := `
		INSERT INTO runs(id, contract_file, invoice_file, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + returningColumns

	run, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Run, error) {
		return repository.QueryOne(ctx, tx, q, scanRun, uuid.New(), cmd.ContractFile, cmd.InvoiceFile, StatusProcessing)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run registered", "run_id", run.ID, "contract", cmd.ContractFile, "invoice", cmd.InvoiceFile)
	return &run, nil
}

func (r *repo) markComplete(ctx context.Context, id uuid.UUID, result *analysis.Result) (*Run, error) {
	q := `
		UPDATE runs
		SET status = $2,
			segment_count = $3,
			line_item_count = $4,
			charge_item_count = $5,
			tally_compliant = $6,
			tally_non_compliant = $7,
			tally_needs_review = $8,
			updated_at = now(),
			completed_at = now()
		WHERE id = $1
		RETURNING ` + returningColumns

	var tallyCompliant, tallyNonCompliant, tallyNeedsReview *int
	if result.TallyParsed {
		tallyCompliant = &result.Tally.Compliant
		tallyNonCompliant = &result.Tally.NonCompliant
		tallyNeedsReview = &result.Tally.NeedsReview
	}

	args := []any{
		id,
		StatusComplete,
		result.ContractSummary.SegmentCount,
		result.InvoiceSummary.TotalLineItems,
		result.InvoiceSummary.ChargeItemCount,
		tallyCompliant,
		tallyNonCompliant,
		tallyNeedsReview,
	}

	run, err := repository.QueryOne(ctx, r.db, q, scanRun, args...)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run complete", "run_id", id, "charge_items", result.InvoiceSummary.ChargeItemCount)
	return &run, nil
}

func (r *repo) markFailed(ctx context.Context, id uuid.UUID, message string) error {
	q := `
		UPDATE runs
		SET status = $2, error = $3, updated_at = now(), completed_at = now()
		WHERE id = $1`

	return repository.ExecExpectOne(ctx, r.db, q, id, StatusFailed, message)
}

// Delete removes the run row and every persisted artifact under its prefix.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.Find(ctx, id); err != nil {
		return err
	}

	keys, err := r.storage.List(ctx, storage.RunPrefix(id))
	if err != nil {
		return fmt.Errorf("list run artifacts: %w", err)
	}

	for _, key := range keys {
		if err := r.storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("delete run artifact %s: %w", key, err)
		}
	}

	q := `DELETE FROM runs WHERE id = $1`
	if err := repository.ExecExpectOne(ctx, r.db, q, id); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("run deleted", "run_id", id, "artifacts", len(keys))
	return nil
}

// Artifact streams a named artifact for an existing run.
func (r *repo) Artifact(ctx context.Context, id uuid.UUID, name string) (io.ReadCloser, string, error) {
	if !slices.Contains(analysis.ArtifactNames, name) {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownArtifact, name)
	}

	if _, err := r.Find(ctx, id); err != nil {
		return nil, "", err
	}

	return r.storage.Download(ctx, storage.RunKey(id, name))
}

const returningColumns = `id, contract_file, invoice_file, status,
		segment_count, line_item_count, charge_item_count,
		tally_compliant, tally_non_compliant, tally_needs_review,
		error, created_at, updated_at, completed_at`
