package main

import (
	"log/slog"

	"github.com/JaimeStill/recipe-lab/pkg/middleware"
)

// buildMiddleware creates the middleware stack: trailing slash trimming, then request logging.
func buildMiddleware(logger *slog.Logger) middleware.System {
	middlewareSys := middleware.New()
	middlewareSys.Use(middleware.TrimSlash())
	middlewareSys.Use(middleware.Logger(logger))
	return middlewareSys
}
