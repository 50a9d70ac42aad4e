package ingredients

import (
	"context"

	"github.com/JaimeStill/recipe-lab/pkg/pagination"
)

// System defines the ingredient catalog operations.
type System interface {
	// List returns one page of ingredients. Results are ordered by name unless
	// the request names other sort fields; name always breaks ties.
	List(ctx context.Context, page pagination.Request, filters Filters) (*pagination.Page[Ingredient], error)

	// Find returns the ingredient with the given catalog name.
	Find(ctx context.Context, name string) (*Ingredient, error)

	// Create adds an ingredient. The name is stored in kebab-case.
	Create(ctx context.Context, cmd CreateCommand) (*Ingredient, error)
}
