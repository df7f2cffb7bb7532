package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/kitchenops/demosync/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS overrides (
	key        TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_overrides_source ON overrides(source);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetOverride(ctx context.Context, id model.Identity) (*model.Override, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT payload FROM overrides WHERE key = $1`,
		id.String(),
	)

	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get override")
	}
	return unmarshalOverride(payload)
}

func (s *PostgresStore) SetOverride(ctx context.Context, ov model.Override) (*model.Override, error) {
	if ov.ID == "" {
		ov.ID = uuid.New().String()
	}
	ov.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(ov)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal override")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO overrides (key, id, source, payload, updated_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (key) DO UPDATE SET id = EXCLUDED.id, source = EXCLUDED.source,
		 payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		ov.Identity.String(), ov.ID, string(ov.Source), payload, ov.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: set override")
	}
	return &ov, nil
}

func (s *PostgresStore) DeleteOverride(ctx context.Context, id model.Identity) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM overrides WHERE key = $1`,
		id.String(),
	)
	return eris.Wrap(err, "postgres: delete override")
}

func (s *PostgresStore) ListOverrides(ctx context.Context, prefix string) ([]model.Override, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM overrides WHERE key LIKE $1 || '%' ORDER BY key`,
		prefix,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list overrides")
	}
	defer rows.Close()

	var overrides []model.Override
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan override")
		}
		ov, err := unmarshalOverride(payload)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, *ov)
	}
	return overrides, eris.Wrap(rows.Err(), "postgres: iterate overrides")
}
