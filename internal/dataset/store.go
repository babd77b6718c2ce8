// Package dataset owns the process-wide table snapshot.
package dataset

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"hrdash/domain/snapshot"
	"hrdash/internal"
	"hrdash/internal/errors"
	"hrdash/ports"
)

// Store holds the current snapshot. Readers never block: Current is a single
// atomic load. Loads are serialized so concurrent reloads hit the source once each.
type Store struct {
	source  ports.TableSource
	logger  *internal.Logger
	current atomic.Pointer[snapshot.Snapshot]
	loadMu  sync.Mutex
	now     func() time.Time
}

// NewStore creates an empty store over source
func NewStore(source ports.TableSource, logger *internal.Logger) *Store {
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}
	return &Store{
		source: source,
		logger: logger.WithComponent("DatasetStore"),
		now:    time.Now,
	}
}

// Source returns the name of the underlying source
func (s *Store) Source() string { return s.source.Name() }

// Load performs the first load. Once a snapshot exists it is returned as is.
func (s *Store) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if snap := s.current.Load(); snap != nil {
		return snap, nil
	}
	return s.loadLocked(ctx)
}

// Reload reads the source again and swaps the snapshot in one step. On
// failure the previous snapshot stays current and the error is returned.
func (s *Store) Reload(ctx context.Context) (*snapshot.Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return s.loadLocked(ctx)
}

func (s *Store) loadLocked(ctx context.Context) (*snapshot.Snapshot, error) {
	start := s.now()
	table, err := s.source.Load(ctx)
	if err != nil {
		if prev := s.current.Load(); prev != nil {
			s.logger.Warn("reload of %s failed, keeping snapshot %s: %v", s.source.Name(), prev.ID, err)
		} else {
			s.logger.Error("load of %s failed: %v", s.source.Name(), err)
		}
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.WithCode(errors.CodeIngestion, errors.Wrapf(err, "failed to load %s", s.source.Name()))
	}
	if table == nil {
		return nil, errors.Ingestion("source " + s.source.Name() + " returned no table")
	}

	snap := snapshot.NewSnapshot(s.source.Name(), table, s.now())
	prev := s.current.Swap(snap)
	if prev != nil {
		s.logger.Info("snapshot %s replaced %s (%d rows, %s)", snap.ID, prev.ID, table.Len(), s.now().Sub(start))
	} else {
		s.logger.Info("snapshot %s loaded from %s (%d rows, %s)", snap.ID, snap.Source, table.Len(), s.now().Sub(start))
	}
	return snap, nil
}

// Current returns the active snapshot, or NOT_FOUND before the first load
func (s *Store) Current() (*snapshot.Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, errors.NotFound("dataset snapshot")
	}
	return snap, nil
}
