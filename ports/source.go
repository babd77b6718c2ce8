package ports

import (
	"context"

	"hrdash/domain/datareadiness/ingestion"
	"hrdash/domain/dataset"
	"hrdash/domain/snapshot"
)

// TableSource supplies the immutable table the dashboard runs on.
// Load is called once at startup and again on every reload.
type TableSource interface {
	// Name identifies the source in logs and snapshots (a path, a DSN without secrets)
	Name() string
	Load(ctx context.Context) (*dataset.Table, error)
}

// GridReader reads a source into untyped cells
type GridReader interface {
	ReadGrid(ctx context.Context) (*ingestion.RawGrid, error)
}

// SnapshotStore hands out the current dataset snapshot
type SnapshotStore interface {
	// Load returns the current snapshot, loading the source first if nothing is loaded yet
	Load(ctx context.Context) (*snapshot.Snapshot, error)
	Reload(ctx context.Context) (*snapshot.Snapshot, error)
	Current() (*snapshot.Snapshot, error)
}
