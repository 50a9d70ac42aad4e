// Command seed populates the database with reference data such as the
// ingredient catalog. Seeders run individually or together within a single
// transaction, against the database named by the service configuration.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/JaimeStill/recipe-lab/pkg/repository"
)

// Seeder populates one kind of reference data inside a caller-owned transaction.
type Seeder interface {
	Name() string
	Description() string
	Seed(ctx context.Context, tx *sql.Tx) error
}

// registry holds seeders sorted by name, which is also the run order.
var registry []Seeder

func compareName(s Seeder, name string) int {
	return strings.Compare(s.Name(), name)
}

// registerSeeder adds s to the registry. Seeders register from init.
func registerSeeder(s Seeder) {
	i, found := slices.BinarySearchFunc(registry, s.Name(), compareName)
	if found {
		panic("seed: duplicate seeder " + s.Name())
	}
	registry = slices.Insert(registry, i, s)
}

func lookupSeeder(name string) (Seeder, bool) {
	i, found := slices.BinarySearchFunc(registry, name, compareName)
	if !found {
		return nil, false
	}
	return registry[i], true
}

func listSeeders() []Seeder {
	return slices.Clone(registry)
}

// runSeeder runs the named seeder in its own transaction.
func runSeeder(ctx context.Context, db *sql.DB, name string) error {
	s, ok := lookupSeeder(name)
	if !ok {
		return fmt.Errorf("seeder not found: %s", name)
	}
	return seed(ctx, db, s)
}

// runAllSeeders runs every registered seeder, in name order, in one transaction.
func runAllSeeders(ctx context.Context, db *sql.DB) error {
	return seed(ctx, db, registry...)
}

// seed runs list in order. The first failure rolls back every seeder's writes.
func seed(ctx context.Context, db *sql.DB, list ...Seeder) error {
	_, err := repository.WithTx(ctx, db, func(tx *sql.Tx) (struct{}, error) {
		for _, s := range list {
			if err := s.Seed(ctx, tx); err != nil {
				return struct{}{}, fmt.Errorf("seed %s: %w", s.Name(), err)
			}
		}
		return struct{}{}, nil
	})
	return err
}
