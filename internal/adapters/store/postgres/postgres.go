// Package postgres implements ports.KeyValueStore on a single PostgreSQL
// table:
//
//	key        text primary key
//	value      bytea not null
//	expires_at timestamptz null
//
// Expired rows stay in the table until overwritten and are filtered on read.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmhodges/clock"

	"github.com/motivationapp/motivation-service/internal/domain"
)

// DefaultTable is used when no table name is configured.
const DefaultTable = "device_preferences"

// Pool is the subset of *pgxpool.Pool the store uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Store is a PostgreSQL-backed key-value store.
type Store struct {
	pool  Pool
	clock clock.Clock

	createSQL string
	getSQL    string
	setSQL    string
	deleteSQL string
}

// New builds a store over pool using table. The table name is quoted, so
// any identifier is accepted.
func New(pool Pool, table string, clk clock.Clock) *Store {
	if table == "" {
		table = DefaultTable
	}

	if clk == nil {
		clk = clock.New()
	}

	ident := pgx.Identifier{table}.Sanitize()

	return &Store{
		pool:  pool,
		clock: clk,
		createSQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key text PRIMARY KEY,
	value bytea NOT NULL,
	expires_at timestamptz
)`, ident),
		getSQL: fmt.Sprintf(
			`SELECT value FROM %s WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)`, ident),
		setSQL: fmt.Sprintf(
			`INSERT INTO %s (key, value, expires_at) VALUES ($1, $2, $3) `+
				`ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`, ident),
		deleteSQL: fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, ident),
	}
}

// Migrate creates the table when it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, s.createSQL); err != nil {
		return fmt.Errorf("creating preference table: %w", err)
	}

	return nil
}

// Get returns domain.ErrNotFound when the key is absent or expired.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte

	err := s.pool.QueryRow(ctx, s.getSQL, key, s.clock.Now()).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("key", key)
		}

		return nil, fmt.Errorf("postgres get %s: %w", key, err)
	}

	return value, nil
}

// Set upserts value. A zero ttl stores a NULL expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt *time.Time
	if ttl > 0 {
		at := s.clock.Now().Add(ttl)
		expiresAt = &at
	}

	if _, err := s.pool.Exec(ctx, s.setSQL, key, value, expiresAt); err != nil {
		return fmt.Errorf("postgres set %s: %w", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.pool.Exec(ctx, s.deleteSQL, key); err != nil {
		return fmt.Errorf("postgres delete %s: %w", key, err)
	}

	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "postgres" }

// Check pings the pool.
func (s *Store) Check(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
