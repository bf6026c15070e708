package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pratik-mahalle/arcgate/internal/config"
	"github.com/pratik-mahalle/arcgate/internal/repository/mongodb"
	"github.com/pratik-mahalle/arcgate/internal/repository/postgres"
	"github.com/pratik-mahalle/arcgate/migrations"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if cfg.Database.Driver == config.DriverMongo {
		if err := migrateMongo(ctx, cfg.Mongo); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := migrateSQL(ctx, cfg.Database); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func migrateSQL(ctx context.Context, cfg config.DatabaseConfig) error {
	db, err := postgres.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	fmt.Printf("Connected to %s database successfully\n", cfg.Driver)

	applied, err := postgres.RunMigrations(ctx, db, migrations.GetFS())
	for _, name := range applied {
		fmt.Printf("✓ Migration %s completed successfully\n", name)
	}
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		fmt.Println("Nothing to migrate")
		return nil
	}
	fmt.Println("\nAll migrations completed successfully!")
	return nil
}

func migrateMongo(ctx context.Context, cfg config.MongoConfig) error {
	client, err := mongodb.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	fmt.Printf("Connected to MongoDB database %s successfully\n", cfg.Database)

	names, err := mongodb.EnsureIndexes(ctx, client.Database(cfg.Database))
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Printf("✓ Index %s ready\n", name)
	}
	return nil
}
