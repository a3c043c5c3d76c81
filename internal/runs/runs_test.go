package runs_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/accordlabs/accord/internal/ingest"
	"github.com/accordlabs/accord/internal/runs"
	"github.com/accordlabs/accord/pkg/query"
	"github.com/accordlabs/accord/pkg/storage"
)

func ptr[T any](v T) *T { return &v }

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", runs.ErrNotFound, http.StatusNotFound},
		{"storage not found", storage.ErrNotFound, http.StatusNotFound},
		{"duplicate", runs.ErrDuplicate, http.StatusConflict},
		{"file too large", runs.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"invalid request", runs.ErrInvalidRequest, http.StatusBadRequest},
		{"unknown artifact", runs.ErrUnknownArtifact, http.StatusBadRequest},
		{"unsupported input", ingest.ErrUnsupportedInput, http.StatusUnsupportedMediaType},
		{"validation", ingest.ErrValidation, http.StatusUnprocessableEntity},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", runs.ErrNotFound), http.StatusNotFound},
		{"wrapped validation", fmt.Errorf("parse: %w", ingest.ErrValidation), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runs.MapHTTPStatus(tt.err)
			if got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("all params present", func(t *testing.T) {
		values := url.Values{
			"status":        {"complete"},
			"contract_file": {"msa"},
			"invoice_file":  {"q3"},
		}

		f := runs.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != "complete" {
			t.Errorf("Status = %v, want complete", f.Status)
		}
		if f.ContractFile == nil || *f.ContractFile != "msa" {
			t.Errorf("ContractFile = %v, want msa", f.ContractFile)
		}
		if f.InvoiceFile == nil || *f.InvoiceFile != "q3" {
			t.Errorf("InvoiceFile = %v, want q3", f.InvoiceFile)
		}
	})

	t.Run("empty params yield nil fields", func(t *testing.T) {
		f := runs.FiltersFromQuery(url.Values{})

		if f.Status != nil {
			t.Errorf("Status = %v, want nil", f.Status)
		}
		if f.ContractFile != nil {
			t.Errorf("ContractFile = %v, want nil", f.ContractFile)
		}
		if f.InvoiceFile != nil {
			t.Errorf("InvoiceFile = %v, want nil", f.InvoiceFile)
		}
	})

	t.Run("partial params", func(t *testing.T) {
		values := url.Values{"status": {"failed"}}
		f := runs.FiltersFromQuery(values)

		if f.Status == nil || *f.Status != "failed" {
			t.Errorf("Status = %v, want failed", f.Status)
		}
		if f.ContractFile != nil {
			t.Errorf("ContractFile = %v, want nil", f.ContractFile)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "runs", "r").
		Project("status", "Status").
		Project("contract_file", "ContractFile").
		Project("invoice_file", "InvoiceFile")

	t.Run("no filters produces no WHERE clause", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := runs.Filters{}
		f.Apply(b)
		sql, args := b.BuildCount()

		wantSQL := "SELECT COUNT(*) FROM public.runs r"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 0 {
			t.Errorf("args = %v, want empty", args)
		}
	})

	t.Run("status equals filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := runs.Filters{Status: ptr("complete")}
		f.Apply(b)
		sql, args := b.BuildCount()

		wantSQL := "SELECT COUNT(*) FROM public.runs r WHERE r.status = $1"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 1 {
			t.Fatalf("args length = %d, want 1", len(args))
		}
		if v, ok := args[0].(*string); !ok || *v != "complete" {
			t.Errorf("args[0] = %v, want *complete", args[0])
		}
	})

	t.Run("contract file contains filter", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := runs.Filters{ContractFile: ptr("msa")}
		f.Apply(b)
		_, args := b.BuildCount()

		if len(args) != 1 || args[0] != "%msa%" {
			t.Errorf("args = %v, want [%%msa%%]", args)
		}
	})

	t.Run("multiple filters combine with AND", func(t *testing.T) {
		b := query.NewBuilder(projection)
		f := runs.Filters{
			Status:       ptr("complete"),
			ContractFile: ptr("msa"),
			InvoiceFile:  ptr("q3"),
		}
		f.Apply(b)
		sql, args := b.BuildCount()

		wantSQL := "SELECT COUNT(*) FROM public.runs r WHERE r.status = $1 AND r.contract_file ILIKE $2 AND r.invoice_file ILIKE $3"
		if sql != wantSQL {
			t.Errorf("sql = %q, want %q", sql, wantSQL)
		}
		if len(args) != 3 {
			t.Errorf("args length = %d, want 3", len(args))
		}
	})
}
