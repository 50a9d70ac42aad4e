package main

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/JaimeStill/recipe-lab/internal/ingredients"
	"github.com/JaimeStill/recipe-lab/pkg/slug"
)

//go:embed seeds/*.json
var seedFiles embed.FS

func init() {
	registerSeeder(&IngredientSeeder{})
}

// IngredientSeedData represents the JSON structure for ingredient seed files.
type IngredientSeedData struct {
	Ingredients []ingredients.CreateCommand `json:"ingredients"`
}

// IngredientSeeder implements Seeder for the ingredient catalog.
// It loads seed data from an embedded file or an external file path.
type IngredientSeeder struct {
	file string
}

func (s *IngredientSeeder) Name() string {
	return "ingredients"
}

func (s *IngredientSeeder) Description() string {
	return "Seeds the ingredient catalog"
}

// SetFile configures an external seed file path, overriding the embedded default.
func (s *IngredientSeeder) SetFile(path string) {
	s.file = path
}

// Seed saves every catalog entry. Existing names have their diet updated,
// so the seeder can be rerun.
func (s *IngredientSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	data, err := s.loadSeedData()
	if err != nil {
		return err
	}

	for _, cmd := range data.Ingredients {
		if err := s.save(ctx, tx, cmd); err != nil {
			return fmt.Errorf("save ingredient %s: %w", cmd.Name, err)
		}
	}

	return nil
}

func (s *IngredientSeeder) loadSeedData() (*IngredientSeedData, error) {
	var content []byte
	var err error

	if s.file != "" {
		content, err = os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	} else {
		content, err = seedFiles.ReadFile("seeds/ingredients.json")
		if err != nil {
			return nil, fmt.Errorf("read embedded seed file: %w", err)
		}
	}

	var data IngredientSeedData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	return &data, nil
}

func (s *IngredientSeeder) save(ctx context.Context, tx *sql.Tx, cmd ingredients.CreateCommand) error {
	const query = `
		INSERT INTO ingredients (name, diet_type)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET
			diet_type = EXCLUDED.diet_type`

	name := slug.Make(cmd.Name)
	if name == "" {
		return ingredients.ErrInvalidName
	}

	diet, err := ingredients.ParseDiet(cmd.Diet)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, query, name, string(diet))
	return err
}
