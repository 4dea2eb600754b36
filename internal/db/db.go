package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	Url    string `mapstructure:"url"`
	Schema string `mapstructure:"schema"`
}

// InitDB opens a pgx connection pool for the enrollment event store.
func InitDB(ctx context.Context, url string, schema string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1

	if schema != "" {
		poolConfig.ConnConfig.RuntimeParams["search_path"] = schema

		// Poolers like PgBouncer may reset session settings between
		// transactions, so re-apply the search_path per connection.
		poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize())
			if err != nil {
				slog.Warn("Failed to set search_path for new connection", "schema", schema, "error", err)
			}
			return err
		}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	slog.Info("Connected to PostgreSQL")

	return pool, nil
}
