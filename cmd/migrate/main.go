// Package main applies database migrations.
//
// Usage:
//
//	migrate up            apply all pending migrations
//	migrate down          roll back the last migration
//	migrate version       print the current schema version
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"doceria/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	m, err := migrate.New("file://"+cfg.MigrationsPath, cfg.DatabaseURL)
	if err != nil {
		fmt.Printf("failed to initialize migrate: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migrations applied")
	case "down":
		if err := m.Steps(-1); err != nil {
			fmt.Printf("rollback failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("rolled back one migration")
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			fmt.Printf("failed to read version: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("version: %d dirty: %v\n", version, dirty)
	default:
		fmt.Printf("unknown command %q (want up, down or version)\n", command)
		os.Exit(1)
	}
}
