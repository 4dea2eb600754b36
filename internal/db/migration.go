package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// RunMigrations brings the enrollment event store up to date.
func RunMigrations(dbURL string, schema string) error {
	slog.Info("Running database migrations...")

	if schema == "" {
		schema = "public"
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := ensureSchemaExists(db, schema); err != nil {
		return err
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return err
	}

	slog.Info("Database migrations completed successfully")
	return nil
}

func ensureSchemaExists(db *sql.DB, schema string) error {
	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + pgx.Identifier{schema}.Sanitize()); err != nil {
		return err
	}

	// Migrations must run inside the schema.
	if _, err := db.Exec("SET search_path TO " + pgx.Identifier{schema}.Sanitize()); err != nil {
		return err
	}

	slog.Info("Schema is ready", "schema", schema)
	return nil
}
