package snapshot

import (
	"time"

	"hrdash/domain/core"
	"hrdash/domain/dataset"
)

// Snapshot is one loaded copy of the dataset. Reloading produces a new
// Snapshot; an existing one never changes.
type Snapshot struct {
	ID       core.SnapshotID `json:"id"`
	Source   string          `json:"source"`
	LoadedAt time.Time       `json:"loaded_at"`
	Table    *dataset.Table  `json:"-"`
}

// NewSnapshot wraps a freshly loaded table
func NewSnapshot(source string, table *dataset.Table, loadedAt time.Time) *Snapshot {
	return &Snapshot{
		ID:       core.NewSnapshotID(),
		Source:   source,
		LoadedAt: loadedAt.UTC(),
		Table:    table,
	}
}

// Info is the serializable summary of a snapshot
type Info struct {
	ID       core.SnapshotID `json:"id"`
	Source   string          `json:"source"`
	LoadedAt time.Time       `json:"loaded_at"`
	Rows     int             `json:"rows"`
	Columns  []string        `json:"columns"`
}

// Info summarizes the snapshot for APIs and logs
func (s *Snapshot) Info() Info {
	return Info{
		ID:       s.ID,
		Source:   s.Source,
		LoadedAt: s.LoadedAt,
		Rows:     s.Table.Len(),
		Columns:  s.Table.Schema().Names(),
	}
}
