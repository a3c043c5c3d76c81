package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Stage is one unit of a chain. Run receives the shared state and returns
// the value for the stage's single declared output field.
type Stage struct {
	Name     string
	Requires []Field
	Produces Field
	Run      func(ctx context.Context, state *State) (string, error)
}

// Chain is an ordered sequence of stages executed deterministically from
// first to last. The graphs here are simple chains, so no general scheduler
// is involved, only a sequential runner with validated stage wiring.
type Chain struct {
	stages []Stage
	logger *slog.Logger
}

// NewChain validates stage wiring and returns a runnable chain. Seed names
// the fields the caller provides as initial state; every stage's required
// fields must come from the seed or an earlier stage's output, and no two
// stages may produce the same field.
func NewChain(logger *slog.Logger, seed []Field, stages ...Stage) (*Chain, error) {
	if len(stages) == 0 {
		return nil, ErrNoStages
	}

	available := make(map[Field]struct{}, len(seed))
	for _, field := range seed {
		available[field] = struct{}{}
	}

	produced := make(map[Field]string, len(stages))
	for _, stage := range stages {
		for _, required := range stage.Requires {
			if _, ok := available[required]; !ok {
				return nil, fmt.Errorf("%w: stage %s requires %s", ErrMissingInput, stage.Name, required)
			}
		}

		if prior, ok := produced[stage.Produces]; ok {
			return nil, fmt.Errorf("%w: %s produced by both %s and %s", ErrDuplicateOutput, stage.Produces, prior, stage.Name)
		}

		produced[stage.Produces] = stage.Name
		available[stage.Produces] = struct{}{}
	}

	return &Chain{
		stages: stages,
		logger: logger.With("system", "workflow"),
	}, nil
}

// Run executes the chain over state. A stage failure aborts the remaining
// chain and surfaces as a StageError; state written by completed stages is
// preserved for diagnostics.
func (c *Chain) Run(ctx context.Context, state *State) error {
	for _, stage := range c.stages {
		start := time.Now()

		output, err := stage.Run(ctx, state)
		if err != nil {
			c.logger.Error("stage failed",
				"stage", stage.Name,
				"duration", time.Since(start),
				"error", err,
			)
			return &StageError{Stage: stage.Name, Err: err}
		}

		state.set(stage.Produces, output)

		c.logger.Info("stage complete",
			"stage", stage.Name,
			"duration", time.Since(start),
			"output_length", len(output),
		)
	}

	return nil
}
