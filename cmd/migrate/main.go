package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"libraryapi/internal/config"
)

// Runs migrations against whichever backend is configured; the dialect and
// migration directory follow the selector.
func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	var (
		db            *sql.DB
		dialect       string
		migrationsDir string
	)
	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		db = stdlib.OpenDBFromPool(pool)
		dialect = "postgres"
		migrationsDir = "db/migrations/postgres"
	case config.BackendLibSQL:
		db, err = sql.Open("libsql", cfg.LibSQLDSN())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		dialect = "sqlite3"
		migrationsDir = "db/migrations/sqlite"
	}
	defer db.Close()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect(dialect); err != nil {
		log.Fatalf("Failed to set dialect: %v", err)
	}

	switch *command {
	case "up":
		if err := goose.Up(db, migrationsDir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		fmt.Println("Migrations applied successfully")
	case "down":
		if err := goose.Down(db, migrationsDir); err != nil {
			log.Fatalf("Failed to rollback migrations: %v", err)
		}
		fmt.Println("Migrations rolled back successfully")
	case "status":
		if err := goose.Status(db, migrationsDir); err != nil {
			log.Fatalf("Failed to check migration status: %v", err)
		}
	case "create":
		if *name == "" {
			log.Fatal("Name is required for 'create' command")
		}
		if err := goose.Create(nil, migrationsDir, *name, "sql"); err != nil {
			log.Fatalf("Failed to create migration: %v", err)
		}
		fmt.Printf("Migration created: %s\n", *name)
	default:
		log.Fatalf("Unknown command: %s. Use: up, down, status, create", *command)
	}
}
