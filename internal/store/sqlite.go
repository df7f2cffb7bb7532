package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/kitchenops/demosync/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS overrides (
	key        TEXT PRIMARY KEY,
	id         TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	payload    TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_overrides_source ON overrides(source);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetOverride(ctx context.Context, id model.Identity) (*model.Override, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT payload FROM overrides WHERE key = ?`,
		id.String(),
	)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: get override")
	}
	return unmarshalOverride([]byte(payload))
}

func (s *SQLiteStore) SetOverride(ctx context.Context, ov model.Override) (*model.Override, error) {
	if ov.ID == "" {
		ov.ID = uuid.New().String()
	}
	ov.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(ov)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal override")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO overrides (key, id, source, payload, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET id = excluded.id, source = excluded.source,
		 payload = excluded.payload, updated_at = excluded.updated_at`,
		ov.Identity.String(), ov.ID, string(ov.Source), string(payload), ov.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: set override")
	}
	return &ov, nil
}

func (s *SQLiteStore) DeleteOverride(ctx context.Context, id model.Identity) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM overrides WHERE key = ?`,
		id.String(),
	)
	return eris.Wrap(err, "sqlite: delete override")
}

func (s *SQLiteStore) ListOverrides(ctx context.Context, prefix string) ([]model.Override, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM overrides WHERE key LIKE ? || '%' ORDER BY key`,
		prefix,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list overrides")
	}
	defer rows.Close() //nolint:errcheck

	var overrides []model.Override
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan override")
		}
		ov, err := unmarshalOverride([]byte(payload))
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, *ov)
	}
	return overrides, eris.Wrap(rows.Err(), "sqlite: iterate overrides")
}

func unmarshalOverride(payload []byte) (*model.Override, error) {
	var ov model.Override
	if err := json.Unmarshal(payload, &ov); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal override")
	}
	return &ov, nil
}
