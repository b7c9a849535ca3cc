package installation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/Tiliavir/clockstorm/internal/logger"
	"github.com/Tiliavir/clockstorm/internal/storage"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

// StorageKey holds the date clockstorm first ran.
const StorageKey = "installationDate"

// GetInstallationDate returns the persisted installation date. When none is
// stored, or the stored one is unusable, today is persisted and returned.
func GetInstallationDate(ctx context.Context, s storage.Store, today timecalc.DateOnly) (timecalc.DateOnly, error) {
	raw, ok, err := storage.GetOne(ctx, s, StorageKey)
	if err != nil {
		return timecalc.DateOnly{}, fmt.Errorf("reading installation date: %w", err)
	}
	if ok {
		if d, valid := decode(raw); valid {
			return d, nil
		}
		logger.Warn("resetting invalid installation date", "value", string(raw))
	}
	if err := storage.SetJSON(ctx, s, StorageKey, today); err != nil {
		return timecalc.DateOnly{}, fmt.Errorf("saving installation date: %w", err)
	}
	return today, nil
}

func decode(raw json.RawMessage) (timecalc.DateOnly, bool) {
	var v struct {
		Year  *int `json:"year"`
		Month *int `json:"month"`
		Day   *int `json:"day"`
	}
	if err := json.Unmarshal(raw, &v); err != nil || v.Year == nil || v.Month == nil || v.Day == nil {
		return timecalc.DateOnly{}, false
	}
	d := timecalc.DateOnly{Year: *v.Year, Month: *v.Month, Day: *v.Day}
	if timecalc.AddDays(d, 0) != d {
		return timecalc.DateOnly{}, false
	}
	return d, true
}

// EveryMondaySince returns the Monday of every week from today's back to the
// installation week, newest first. The current week is always included, even
// if the installation date lies in the future.
func EveryMondaySince(ctx context.Context, s storage.Store, today timecalc.DateOnly) ([]timecalc.DateOnly, error) {
	installed, err := GetInstallationDate(ctx, s, today)
	if err != nil {
		return nil, err
	}
	return Mondays(installed, today)
}

// Mondays enumerates the week starts between from and to, newest first.
func Mondays(from, to timecalc.DateOnly) ([]timecalc.DateOnly, error) {
	first := timecalc.MondayOf(from)
	last := timecalc.MondayOf(to)
	if timecalc.CompareDateOnly(first, last) > 0 {
		first = last
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rrule.MO},
		Dtstart:   first.At(timecalc.TimeOnly{Hour: 12}, time.UTC),
		Until:     last.At(timecalc.TimeOnly{Hour: 12}, time.UTC),
	})
	if err != nil {
		return nil, fmt.Errorf("building weekly rule: %w", err)
	}

	occurrences := r.All()
	mondays := make([]timecalc.DateOnly, len(occurrences))
	for i, t := range occurrences {
		mondays[len(occurrences)-1-i] = timecalc.DateOnlyOf(t)
	}
	return mondays, nil
}
