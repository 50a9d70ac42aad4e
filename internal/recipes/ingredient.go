package recipes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ingredientJSON is the structured form of an ingredient line sent by the
// recipe form's ingredient picker.
type ingredientJSON struct {
	Selected string `json:"selected"`
	Quantity uint32 `json:"quantity"`
	Unit     string `json:"unit"`
}

// ParseIngredientLine accepts "name,quantity,unit" or
// {"selected":name,"quantity":n,"unit":u}. Quantity must be a positive
// integer and unit one of Grams or Units.
func ParseIngredientLine(s string) (IngredientLine, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		return parseIngredientJSON(s)
	}

	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return IngredientLine{}, fmt.Errorf("want name,quantity,unit, got %d fields", len(fields))
	}

	quantity, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 32)
	if err != nil {
		return IngredientLine{}, fmt.Errorf("quantity: %w", err)
	}

	return newIngredientLine(fields[0], uint32(quantity), strings.TrimSpace(fields[2]))
}

func parseIngredientJSON(s string) (IngredientLine, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.DisallowUnknownFields()

	var raw ingredientJSON
	if err := dec.Decode(&raw); err != nil {
		return IngredientLine{}, err
	}
	if dec.More() {
		return IngredientLine{}, errors.New("trailing data after ingredient object")
	}

	return newIngredientLine(raw.Selected, raw.Quantity, raw.Unit)
}

func newIngredientLine(name string, quantity uint32, unit string) (IngredientLine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return IngredientLine{}, errors.New("ingredient name required")
	}
	if quantity == 0 {
		return IngredientLine{}, errors.New("quantity must be positive")
	}

	u, err := ParseUnit(unit)
	if err != nil {
		return IngredientLine{}, err
	}

	return IngredientLine{Ingredient: name, Quantity: quantity, Unit: u}, nil
}
