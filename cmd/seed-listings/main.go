package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/dimitrije/listing-browser/internal/config"
	"github.com/dimitrije/listing-browser/internal/database"
	"github.com/dimitrije/listing-browser/internal/source"
)

func main() {
	force := len(os.Args) == 2 && os.Args[1] == "--force"
	if len(os.Args) > 2 || (len(os.Args) == 2 && !force) {
		fmt.Println("Usage: seed-listings [--force]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required")
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	listings := database.NewListingSource(db)

	count, err := listings.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count listings: %v", err)
	}
	if count > 0 && !force {
		fmt.Printf("Listings table already has %d rows, nothing to do\n", count)
		return
	}

	// Newest first on fetch, so insert in reverse to keep the seed order.
	seed := source.SeedListings()
	slices.Reverse(seed)

	for _, l := range seed {
		input := l.ToInput()
		if _, err := listings.Submit(ctx, input); err != nil {
			log.Fatalf("Failed to insert %q: %v", l.Title, err)
		}
	}

	fmt.Printf("Successfully seeded %d listings\n", len(seed))
}
