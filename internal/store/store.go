// Package store persists autofill usage bookkeeping: per-cipher last-used
// and last-launched timestamps, the per-URL cipher rotation index, and the
// client-autofilled event log.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides a PostgreSQL implementation of the usage recorder and
// event sink interfaces.
type Store struct {
	pool DBPool
	log  *zap.Logger
	// now is swapped out in tests for deterministic timestamps.
	now func() time.Time
}

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		pool: pool,
		log:  logger.Named("store"),
		now:  time.Now,
	}, nil
}

// EnsureSchema creates the bookkeeping tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cipher_usage (
			cipher_id     TEXT PRIMARY KEY,
			last_used     TIMESTAMPTZ,
			last_launched TIMESTAMPTZ
		);
		CREATE TABLE IF NOT EXISTS url_usage_index (
			url             TEXT PRIMARY KEY,
			last_used_index INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS autofill_events (
			id         UUID PRIMARY KEY,
			cipher_id  TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// UpdateLastUsed stamps the cipher's last-used time.
func (s *Store) UpdateLastUsed(ctx context.Context, cipherID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cipher_usage (cipher_id, last_used) VALUES ($1, $2)
		ON CONFLICT (cipher_id) DO UPDATE SET last_used = EXCLUDED.last_used;`,
		cipherID, s.now())
	if err != nil {
		return fmt.Errorf("failed to update last used: %w", err)
	}
	return nil
}

// UpdateLastLaunched stamps the cipher's last-launched time.
func (s *Store) UpdateLastLaunched(ctx context.Context, cipherID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cipher_usage (cipher_id, last_launched) VALUES ($1, $2)
		ON CONFLICT (cipher_id) DO UPDATE SET last_launched = EXCLUDED.last_launched;`,
		cipherID, s.now())
	if err != nil {
		return fmt.Errorf("failed to update last launched: %w", err)
	}
	return nil
}

// UpdateLastUsedIndex advances the cipher rotation index for a URL so that
// repeated command fills cycle through the matching ciphers.
func (s *Store) UpdateLastUsedIndex(ctx context.Context, url string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO url_usage_index (url, last_used_index) VALUES ($1, 1)
		ON CONFLICT (url) DO UPDATE SET last_used_index = url_usage_index.last_used_index + 1;`,
		url)
	if err != nil {
		return fmt.Errorf("failed to update last used index: %w", err)
	}
	return nil
}

// LastUsedIndex reads the current rotation index for a URL. A URL never
// filled before reads as zero.
func (s *Store) LastUsedIndex(ctx context.Context, url string) (int, error) {
	var idx int
	err := s.pool.QueryRow(ctx,
		`SELECT last_used_index FROM url_usage_index WHERE url = $1;`, url).Scan(&idx)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read last used index: %w", err)
	}
	return idx, nil
}

// CollectAutofill appends a client-autofilled event.
func (s *Store) CollectAutofill(ctx context.Context, cipherID string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO autofill_events (id, cipher_id, created_at) VALUES ($1, $2, $3);`,
		uuid.NewString(), cipherID, s.now())
	if err != nil {
		return fmt.Errorf("failed to record autofill event: %w", err)
	}
	return nil
}
