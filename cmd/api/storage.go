package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pumpkinkking/whereeat/internal/config"
	"github.com/pumpkinkking/whereeat/internal/repo"
	"github.com/pumpkinkking/whereeat/migrations"
)

// openKV connects the key-value backend selected by cfg.StorageDriver.
// The returned close func releases its connections.
func openKV(ctx context.Context, cfg config.Config) (repo.KVRepo, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.DatabaseURL)
	case config.DriverRedis:
		return openRedis(ctx, cfg.RedisURL, cfg.RedisKeyPrefix)
	default:
		return repo.NewMemoryKVRepo(), func() {}, nil
	}
}

// openPostgres applies pending migrations, then opens a pgx pool.
func openPostgres(ctx context.Context, dsn string) (repo.KVRepo, func(), error) {
	if err := migrate(ctx, dsn); err != nil {
		return nil, nil, err
	}

	// pgxpool.New does not open connections immediately; the first query does.
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("create database pool: %w", err)
	}
	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return repo.NewPostgresKVRepo(pool), pool.Close, nil
}

// migrate runs the embedded goose migrations. goose needs database/sql,
// so it gets its own short-lived connection through the pgx stdlib driver.
func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, r := range results {
		slog.Info("migration applied", "version", r.Source.Version, "duration_ms", r.Duration.Milliseconds())
	}
	return nil
}

func openRedis(ctx context.Context, url, prefix string) (repo.KVRepo, func(), error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	return repo.NewRedisKVRepo(client, prefix), func() { client.Close() }, nil
}
