// Package recipes ingests recipe submissions. A multipart body is decoded into
// an IngestionRequest, and the System commits it to the relational store and
// the attachment content store as one all-or-nothing unit keyed by the slug of
// the recipe name.
package recipes

import (
	"fmt"
)

// Unit is the measurement unit of an ingredient quantity.
type Unit string

const (
	UnitGrams Unit = "Grams"
	UnitUnits Unit = "Units"
)

// ParseUnit accepts exactly "Grams" or "Units".
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitGrams, UnitUnits:
		return Unit(s), nil
	default:
		return "", fmt.Errorf("unknown unit %q (must be %s or %s)", s, UnitGrams, UnitUnits)
	}
}

// IngredientLine is a quantity of a catalog ingredient used by a recipe.
type IngredientLine struct {
	Ingredient string `json:"ingredient"`
	Quantity   uint32 `json:"quantity"`
	Unit       Unit   `json:"unit"`
}

// Attachment is an uploaded binary payload and the file extension derived
// from its declared content type.
type Attachment struct {
	Data      []byte
	Extension string
}

// IngestionRequest is a validated recipe submission. It is built once by
// Decode and consumed once by System.Create.
type IngestionRequest struct {
	Name        string
	Rations     uint32
	Thumbnail   *Attachment
	Ingredients []IngredientLine
	Steps       Steps
}

// Recipe is a committed recipe.
type Recipe struct {
	Slug        string           `json:"slug"`
	Thumbnail   *string          `json:"thumbnail,omitempty"`
	Rations     uint32           `json:"rations"`
	Steps       StoredSteps      `json:"steps"`
	Ingredients []IngredientLine `json:"ingredients"`
}

// ThumbnailFilename returns the content store name of a recipe thumbnail.
func ThumbnailFilename(slug, ext string) string {
	return slug + "." + ext
}

// StepImageFilename returns the content store name of a recipe's steps image.
func StepImageFilename(slug, ext string) string {
	return slug + "-step." + ext
}
