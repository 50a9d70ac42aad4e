// Package ingredients manages the ingredient catalog that recipe lines
// reference. Names are stored in kebab-case and are the catalog key.
package ingredients

import "fmt"

// Diet classifies an ingredient.
type Diet string

const (
	DietVegan      Diet = "Vegan"
	DietVegetarian Diet = "Vegetarian"
	DietOmnivore   Diet = "Omnivore"
)

// ParseDiet accepts exactly one of the Diet constants.
func ParseDiet(s string) (Diet, error) {
	switch Diet(s) {
	case DietVegan, DietVegetarian, DietOmnivore:
		return Diet(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDiet, s)
	}
}

// Ingredient is a catalog entry.
type Ingredient struct {
	Name string `json:"name"`
	Diet Diet   `json:"diet"`
}

// CreateCommand is the input to System.Create.
type CreateCommand struct {
	Name string `json:"name"`
	Diet string `json:"diet"`
}
