package api

import (
	"net/http"

	"github.com/accordlabs/accord/internal/config"
	"github.com/accordlabs/accord/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Runs.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
	)
}
