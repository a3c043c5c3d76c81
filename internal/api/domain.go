package api

import (
	"github.com/accordlabs/accord/internal/analysis"
	"github.com/accordlabs/accord/internal/config"
	"github.com/accordlabs/accord/internal/ingest"
	"github.com/accordlabs/accord/internal/runs"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Runs runs.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	parser := ingest.NewParser(&cfg.Ingest, runtime.Logger)

	pipeline := analysis.NewPipeline(
		parser,
		runtime.Storage,
		runtime.AICore,
		&cfg.Analysis,
		runtime.Logger,
	)

	runsSystem := runs.New(
		runtime.Database.Connection(),
		runtime.Storage,
		pipeline,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Runs: runsSystem,
	}
}
