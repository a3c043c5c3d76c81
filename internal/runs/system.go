package runs

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/accordlabs/accord/pkg/pagination"
)

// System defines the public contract for run domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)
	Create(ctx context.Context, cmd CreateCommand) (*Run, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Artifact(ctx context.Context, id uuid.UUID, name string) (io.ReadCloser, string, error)
}
