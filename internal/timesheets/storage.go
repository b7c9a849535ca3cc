package timesheets

import (
	"context"
	"fmt"

	"github.com/Tiliavir/clockstorm/internal/logger"
	"github.com/Tiliavir/clockstorm/internal/model"
	"github.com/Tiliavir/clockstorm/internal/storage"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

// KeyPrefix prefixes the Monday key of every persisted week.
const KeyPrefix = "timesheet-"

// StorageKey returns the store key of the week starting at monday.
func StorageKey(monday timecalc.DateOnly) string {
	return KeyPrefix + timecalc.ToDateOnlyKey(monday)
}

// Get returns the persisted week starting at monday. A missing, unreadable
// or invalid record yields an empty week for those dates.
func Get(ctx context.Context, s storage.Store, monday timecalc.DateOnly) model.TimeSheet {
	key := StorageKey(monday)
	raw, ok, err := storage.GetOne(ctx, s, key)
	if err != nil {
		logger.Warn("could not read timesheet", "key", key, "err", err)
		return model.EmptyTimeSheet(monday)
	}
	if !ok {
		return model.EmptyTimeSheet(monday)
	}
	ts, err := model.DecodeTimeSheet(raw)
	if err != nil {
		logger.Warn("discarding invalid timesheet", "key", key, "err", err)
		return model.EmptyTimeSheet(monday)
	}
	if ts.Dates.Monday != monday {
		logger.Warn("discarding timesheet stored under the wrong week", "key", key, "monday", ts.Dates.Monday)
		return model.EmptyTimeSheet(monday)
	}
	return ts
}

// Save persists ts under its Monday key.
func Save(ctx context.Context, s storage.Store, ts model.TimeSheet) error {
	if err := ts.Dates.Validate(); err != nil {
		return fmt.Errorf("timesheet not saved: %w", err)
	}
	return storage.SetJSON(ctx, s, StorageKey(ts.Dates.Monday), ts)
}
