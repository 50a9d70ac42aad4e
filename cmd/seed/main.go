package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/JaimeStill/recipe-lab/internal/config"
	"github.com/JaimeStill/recipe-lab/internal/migrations"
	"github.com/JaimeStill/recipe-lab/pkg/database"
	"github.com/JaimeStill/recipe-lab/pkg/logging"
)

func main() {
	var (
		all         = flag.Bool("all", false, "Run all seeders")
		ingredients = flag.Bool("ingredients", false, "Seed the ingredient catalog")
		file        = flag.String("file", "", "External seed file (overrides embedded)")
		list        = flag.Bool("list", false, "List available seeders")
	)
	flag.Parse()

	if *list {
		fmt.Println("Available seeders:")
		for _, s := range listSeeders() {
			fmt.Printf("  - %s: %s\n", s.Name(), s.Description())
		}
		return
	}

	if !*all && !*ingredients {
		fmt.Println("usage: seed [-all|-ingredients] [-file <path>] [-list]")
		flag.PrintDefaults()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger := logging.New(&cfg.Logging)

	dbSys, err := database.New(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	db := dbSys.Connection()
	defer db.Close()

	if err := migrations.Up(&cfg.Database, logger); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()

	switch {
	case *all:
		if err := runAllSeeders(ctx, db); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("all seeders completed successfully")

	case *ingredients:
		if *file != "" {
			if seeder, ok := lookupSeeder("ingredients"); ok {
				seeder.(*IngredientSeeder).SetFile(*file)
			}
		}
		if err := runSeeder(ctx, db, "ingredients"); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("ingredients seeded successfully")
	}
}
