package runs

import (
	"errors"
	"net/http"

	"github.com/accordlabs/accord/internal/ingest"
	"github.com/accordlabs/accord/pkg/storage"
)

// Domain errors for run operations.
var (
	ErrNotFound        = errors.New("run not found")
	ErrDuplicate       = errors.New("run already exists")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrFileTooLarge    = errors.New("file exceeds maximum upload size")
	ErrUnknownArtifact = errors.New("unknown artifact name")
)

// MapHTTPStatus maps run domain errors, and the ingest errors they wrap,
// to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrUnknownArtifact):
		return http.StatusBadRequest
	case errors.Is(err, ingest.ErrUnsupportedInput), errors.Is(err, ingest.ErrValidation):
		return ingest.MapHTTPStatus(err)
	}
	return http.StatusInternalServerError
}
