package api

import (
	"github.com/accordlabs/accord/internal/config"
	"github.com/accordlabs/accord/internal/infrastructure"
	"github.com/accordlabs/accord/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			AICore:    infra.AICore,
		},
		Pagination: cfg.API.Pagination,
	}
}
