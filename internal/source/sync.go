package source

import (
	"context"
	"fmt"

	"github.com/Tiliavir/clockstorm/internal/logger"
	"github.com/Tiliavir/clockstorm/internal/model"
	"github.com/Tiliavir/clockstorm/internal/storage"
	"github.com/Tiliavir/clockstorm/internal/timesheets"
)

// SyncResult holds counters for a sync run.
type SyncResult struct {
	Stored    int
	Unchanged int
	Empty     int
	Errors    int
}

// Syncer copies sheets from its sources into the store. It remembers the
// last sheet it stored so an unchanged grid is not rewritten every poll.
type Syncer struct {
	store   storage.Store
	sources []Source
	last    *model.TimeSheet
}

// NewSyncer returns a syncer writing to store.
func NewSyncer(store storage.Store, sources ...Source) *Syncer {
	return &Syncer{store: store, sources: sources}
}

// Sync queries every source once. Source failures are counted and logged;
// only a store failure aborts the run.
func (s *Syncer) Sync(ctx context.Context) (SyncResult, error) {
	var result SyncResult
	for _, src := range s.sources {
		ts, err := src.QueryTimeSheet(ctx)
		if err != nil {
			logger.Warn("timesheet source failed", "source", fmt.Sprintf("%T", src), "err", err)
			result.Errors++
			continue
		}
		if ts == nil {
			logger.Debug("no timesheet update")
			result.Empty++
			continue
		}
		if s.last != nil && s.last.Equal(*ts) {
			logger.Debug("no delta in timesheet", "week", ts.Key())
			result.Unchanged++
			continue
		}
		if err := timesheets.Save(ctx, s.store, *ts); err != nil {
			return result, fmt.Errorf("storing timesheet %s: %w", ts.Key(), err)
		}
		s.last = ts
		logger.Info("stored timesheet", "week", ts.Key(), "cards", len(ts.TimeCards))
		result.Stored++
	}
	return result, nil
}
