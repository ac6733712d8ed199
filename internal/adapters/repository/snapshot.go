// Package repository holds the published Master Table snapshot.
package repository

import (
	"context"
	"time"

	"github.com/okian/raidstats/internal/domain/canon"
	"github.com/okian/raidstats/internal/domain/model"
)

// Snapshot is an immutable published table plus the data derived from it
// once per load.
type Snapshot struct {
	Table    *model.MasterTable
	Resolver *canon.Resolver
	// Generation increases by one with every publish and keys memoized results.
	Generation uint64
	LoadedAt   time.Time
	Source     string
}

// Player returns a player of the snapshot or ErrNotFound.
func (s *Snapshot) Player(id uint32) (model.Player, error) {
	p, ok := s.Table.PlayerByID(id)
	if !ok {
		return model.Player{}, ErrNotFound
	}
	return p, nil
}

// Loader produces a fresh table.
type Loader interface {
	Load(ctx context.Context) (*model.MasterTable, string, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (*model.MasterTable, string, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context) (*model.MasterTable, string, error) { return f(ctx) }

// Store gives read access to the current snapshot and replaces it wholesale.
type Store interface {
	// Current returns the published snapshot or ErrNoSnapshot.
	Current(ctx context.Context) (*Snapshot, error)
	// Publish validates t and makes it current.
	Publish(ctx context.Context, t *model.MasterTable, source string) (*Snapshot, error)
	// Reload loads a table through the configured Loader and publishes it.
	Reload(ctx context.Context) (*Snapshot, error)
	Close() error
}
