// Package repo contains the key-value persistence backends for the WhereEat
// stores. Each backend satisfies KVRepo and stores opaque values by key;
// encoding and schema versioning belong to the callers.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// KVRepo stores whole JSON documents under string keys.
// The stores depend on this interface, not on a concrete backend.
type KVRepo interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if nothing is stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, key string) error
}

// pgKVRepo is the Postgres implementation of KVRepo, backed by the kv_store table.
type pgKVRepo struct {
	db db
}

// NewPostgresKVRepo constructs a KVRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresKVRepo(db db) KVRepo {
	return &pgKVRepo{db: db}
}

// Get reads the JSON document stored under key.
func (r *pgKVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT value FROM kv_store WHERE key = @key`

	var value []byte
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("repo.KVRepo.Get: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.KVRepo.Get: %w", err)
	}
	return value, nil
}

// Put upserts the document. updated_at is refreshed on every write.
func (r *pgKVRepo) Put(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO kv_store (key, value)
		VALUES (@key, @value::jsonb)
		ON CONFLICT (key) DO UPDATE
		SET value      = EXCLUDED.value,
		    updated_at = now()`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": string(value)})
	if err != nil {
		return fmt.Errorf("repo.KVRepo.Put: %w", err)
	}
	return nil
}

// Delete removes the row for key.
func (r *pgKVRepo) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_store WHERE key = @key`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key})
	if err != nil {
		return fmt.Errorf("repo.KVRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.KVRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}
