package main

import (
	"context"
	"log"

	"github.com/codespark/backend/internal/config"
	"github.com/codespark/backend/internal/db"
)

func main() {
	// Load configuration
	cfg := config.New()

	ctx := context.Background()

	client, err := db.New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init mongo: %v", err)
	}
	defer func() { _ = client.Close(context.Background()) }()

	if err := client.EnsureIndexes(ctx); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	if err := db.SeedTestData(ctx, client); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("Seeding completed.")
}
