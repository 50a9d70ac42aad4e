package main

import (
	"net/http"

	"github.com/JaimeStill/recipe-lab/internal/config"
	"github.com/JaimeStill/recipe-lab/internal/infrastructure"
	"github.com/JaimeStill/recipe-lab/internal/ingredients"
	"github.com/JaimeStill/recipe-lab/internal/recipes"
	"github.com/JaimeStill/recipe-lab/pkg/lifecycle"
	"github.com/JaimeStill/recipe-lab/pkg/routes"
)

// registerRoutes configures all HTTP routes for the service.
func registerRoutes(r routes.System, infra *infrastructure.Infrastructure, domain *Domain, cfg *config.Config) {
	ingredientHandler := ingredients.NewHandler(domain.Ingredients, infra.Logger, cfg.Pagination)
	r.RegisterGroup(ingredientHandler.Routes())

	recipeHandler := recipes.NewHandler(domain.Recipes, infra.Logger, cfg.Storage.MaxUploadSizeBytes())
	r.RegisterGroup(recipeHandler.Routes())

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/healthz",
		Handler: handleHealthCheck,
	})

	r.RegisterRoute(routes.Route{
		Method:  "GET",
		Pattern: "/readyz",
		Handler: func(w http.ResponseWriter, r *http.Request) {
			handleReadinessCheck(w, infra.Lifecycle)
		},
	})
}

// handleHealthCheck responds with OK status for health monitoring.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func handleReadinessCheck(w http.ResponseWriter, ready lifecycle.ReadinessChecker) {
	if !ready.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT READY"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
