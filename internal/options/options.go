package options

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Tiliavir/clockstorm/internal/logger"
	"github.com/Tiliavir/clockstorm/internal/storage"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

// StorageKey is the store key holding the user's reminder options.
const StorageKey = "extensionOptions"

// Options is the user-configurable reminder policy. It is treated as
// immutable input for every evaluation.
type Options struct {
	DailyTimeEntryReminder      bool                 `json:"dailyTimeEntryReminder"`
	EndOfWeekTimesheetReminder  bool                 `json:"endOfWeekTimesheetReminder"`
	EndOfMonthTimesheetReminder bool                 `json:"endOfMonthTimesheetReminder"`
	DailyReminderDaysOfWeek     []timecalc.DayOfWeek `json:"dailyReminderDaysOfWeek"`
	DailyReminderStartTime      timecalc.TimeOnly    `json:"dailyReminderStartTime"`
	EndOfWeekReminderDayOfWeek  timecalc.DayOfWeek   `json:"endOfWeekReminderDayOfWeek"`
	EndOfWeekReminderStartTime  timecalc.TimeOnly    `json:"endOfWeekReminderStartTime"`
	EndOfWeekReminderDueTime    timecalc.TimeOnly    `json:"endOfWeekReminderDueTime"`
	EndOfMonthReminderStartTime timecalc.TimeOnly    `json:"endOfMonthReminderStartTime"`
	EndOfMonthReminderDueTime   timecalc.TimeOnly    `json:"endOfMonthReminderDueTime"`
	SoundDataURL                string               `json:"soundDataUrl"`
	GIFDataURL                  string               `json:"gifDataUrl"`
}

const (
	DefaultSoundDataURL = "sounds/cricket.wav"
	DefaultGIFDataURL   = "gifs/clockstorm.gif"
)

// Default returns the built-in reminder policy.
func Default() Options {
	return Options{
		DailyTimeEntryReminder:      true,
		EndOfWeekTimesheetReminder:  true,
		EndOfMonthTimesheetReminder: true,
		DailyReminderDaysOfWeek: []timecalc.DayOfWeek{
			timecalc.Monday, timecalc.Tuesday, timecalc.Wednesday, timecalc.Thursday, timecalc.Friday,
		},
		DailyReminderStartTime:      timecalc.TimeOnly{Hour: 9},
		EndOfWeekReminderDayOfWeek:  timecalc.Thursday,
		EndOfWeekReminderStartTime:  timecalc.TimeOnly{Hour: 9},
		EndOfWeekReminderDueTime:    timecalc.TimeOnly{Hour: 17},
		EndOfMonthReminderStartTime: timecalc.TimeOnly{Hour: 9},
		EndOfMonthReminderDueTime:   timecalc.TimeOnly{Hour: 17},
		SoundDataURL:                DefaultSoundDataURL,
		GIFDataURL:                  DefaultGIFDataURL,
	}
}

// HasDailyReminderDay reports whether daily reminders are configured for d.
func (o Options) HasDailyReminderDay(d timecalc.DayOfWeek) bool {
	for _, day := range o.DailyReminderDaysOfWeek {
		if day == d {
			return true
		}
	}
	return false
}

// Load reads the options from the store. Missing, malformed or invalid
// options are replaced by Default and never reported as an error.
func Load(ctx context.Context, s storage.Store) Options {
	raw, ok, err := storage.GetOne(ctx, s, StorageKey)
	if err != nil {
		logger.Warn("could not read options, using defaults", "err", err)
		return Default()
	}
	if !ok {
		return Default()
	}
	res := Decode(raw)
	if !res.OK {
		logger.Warn("invalid options in store, using defaults", "problems", res.Problems)
		return Default()
	}
	if v := res.Options.Validate(); !v.Valid() {
		logger.Warn("stored options fail validation, using defaults", "invalid", v.Invalid())
		return Default()
	}
	return res.Options
}

// Save validates and persists the options.
func Save(ctx context.Context, s storage.Store, o Options) error {
	if v := o.Validate(); !v.Valid() {
		return fmt.Errorf("options not saved: %v", v.Invalid())
	}
	data, err := json.Marshal(o.withVersion())
	if err != nil {
		return fmt.Errorf("marshalling options: %w", err)
	}
	return s.Set(ctx, map[string]json.RawMessage{StorageKey: data})
}

type versioned struct {
	Version int `json:"version"`
	Options
}

func (o Options) withVersion() versioned {
	return versioned{Version: SchemaVersion, Options: o}
}
