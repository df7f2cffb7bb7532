// Package store persists demo-request overrides — the user edits (recipes,
// notes) that take precedence over spreadsheet values. It is a small
// key-value layer keyed by client identity, with SQLite and Postgres
// backends.
package store

import (
	"context"

	"github.com/kitchenops/demosync/internal/model"
)

// Store is the override persistence interface.
type Store interface {
	// GetOverride returns the override for an identity, or (nil, nil)
	// when none is stored.
	GetOverride(ctx context.Context, id model.Identity) (*model.Override, error)

	// SetOverride upserts an override, assigning an ID and timestamp when
	// missing, and returns the stored value.
	SetOverride(ctx context.Context, ov model.Override) (*model.Override, error)

	// DeleteOverride removes the override for an identity. Deleting a
	// missing override is not an error.
	DeleteOverride(ctx context.Context, id model.Identity) error

	// ListOverrides scans overrides whose store key starts with prefix;
	// an empty prefix lists everything.
	ListOverrides(ctx context.Context, prefix string) ([]model.Override, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// OverrideMap indexes a list of overrides by identity for merge lookups.
func OverrideMap(overrides []model.Override) map[model.Identity]model.Override {
	m := make(map[model.Identity]model.Override, len(overrides))
	for _, ov := range overrides {
		m[ov.Identity] = ov
	}
	return m
}
