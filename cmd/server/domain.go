package main

import (
	"github.com/JaimeStill/recipe-lab/internal/config"
	"github.com/JaimeStill/recipe-lab/internal/infrastructure"
	"github.com/JaimeStill/recipe-lab/internal/ingredients"
	"github.com/JaimeStill/recipe-lab/internal/recipes"
)

type Domain struct {
	Ingredients ingredients.System
	Recipes     recipes.System
}

func NewDomain(infra *infrastructure.Infrastructure, cfg *config.Config) *Domain {
	return &Domain{
		Ingredients: ingredients.New(
			infra.Database.Connection(),
			infra.Logger,
			cfg.Pagination,
		),
		Recipes: recipes.New(
			infra.Database.Connection(),
			infra.Storage,
			infra.Logger,
		),
	}
}
