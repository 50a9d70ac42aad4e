package main

import (
	"time"

	"github.com/JaimeStill/recipe-lab/internal/config"
	"github.com/JaimeStill/recipe-lab/internal/infrastructure"
	"github.com/JaimeStill/recipe-lab/internal/server"
	"github.com/JaimeStill/recipe-lab/pkg/routes"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra *infrastructure.Infrastructure
	http  server.System
}

// NewServer creates and initializes the service with all subsystems.
// The schema is migrated before any route is registered.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := infra.Migrate(); err != nil {
		return nil, err
	}

	domain := NewDomain(infra, cfg)

	routeSys := routes.New()
	registerRoutes(routeSys, infra, domain, cfg)

	handler := buildMiddleware(infra.Logger).Apply(routeSys.Build())

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"database", cfg.Database.Driver,
		"storage", cfg.Storage.Directory,
	)

	return &Server{
		infra: infra,
		http:  server.New(&cfg.Server, handler, infra.Logger),
	}, nil
}

// Start begins all subsystems. Readiness flips once every startup hook returns.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown stops all subsystems within timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
