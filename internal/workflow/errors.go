package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStages indicates a chain was built without any stages.
	ErrNoStages = errors.New("workflow has no stages")
	// ErrDuplicateOutput indicates two stages declare the same output field.
	ErrDuplicateOutput = errors.New("duplicate stage output field")
	// ErrMissingInput indicates a stage requires a field no predecessor produces.
	ErrMissingInput = errors.New("stage requires a field no earlier stage produces")
)

// StageError wraps a failure from a named stage. State produced by earlier
// stages remains inspectable on the aborted run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
