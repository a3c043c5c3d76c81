package ingest

import (
	"errors"
	"net/http"
)

var (
	// ErrUnsupportedInput indicates a file type the parsers cannot handle.
	ErrUnsupportedInput = errors.New("unsupported input file")
	// ErrValidation indicates a parsed document yielded no usable content.
	ErrValidation = errors.New("document contains no usable content")
)

// MapHTTPStatus maps ingest errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnsupportedInput) {
		return http.StatusUnsupportedMediaType
	}
	if errors.Is(err, ErrValidation) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
