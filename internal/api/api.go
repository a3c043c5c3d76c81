// Package api assembles the API module with all domain systems and route
// registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/accordlabs/accord/internal/config"
	"github.com/accordlabs/accord/internal/infrastructure"
	"github.com/accordlabs/accord/pkg/middleware"
	"github.com/accordlabs/accord/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	auth, err := middleware.Auth(infra.Lifecycle.Context(), &cfg.API.Auth, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("auth middleware init failed: %w", err)
	}

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(auth)
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
