package options

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

// SchemaVersion is written with saved options. Records without a version
// are treated as version 1.
const SchemaVersion = 1

// DecodeResult is the tagged outcome of Decode. Options is only meaningful
// when OK is true.
type DecodeResult struct {
	Options  Options
	OK       bool
	Problems []string
}

type fieldDecoder func(raw json.RawMessage, o *Options) error

// fields is the per-field decode table. A field absent from the record keeps
// its value from Default; a field present but malformed fails the decode.
var fields = map[string]fieldDecoder{
	"dailyTimeEntryReminder":      boolField(func(o *Options) *bool { return &o.DailyTimeEntryReminder }),
	"endOfWeekTimesheetReminder":  boolField(func(o *Options) *bool { return &o.EndOfWeekTimesheetReminder }),
	"endOfMonthTimesheetReminder": boolField(func(o *Options) *bool { return &o.EndOfMonthTimesheetReminder }),
	"dailyReminderDaysOfWeek":     decodeDays,
	"dailyReminderStartTime":      timeField(func(o *Options) *timecalc.TimeOnly { return &o.DailyReminderStartTime }),
	"endOfWeekReminderDayOfWeek":  decodeEndOfWeekDay,
	"endOfWeekReminderStartTime":  timeField(func(o *Options) *timecalc.TimeOnly { return &o.EndOfWeekReminderStartTime }),
	"endOfWeekReminderDueTime":    timeField(func(o *Options) *timecalc.TimeOnly { return &o.EndOfWeekReminderDueTime }),
	"endOfMonthReminderStartTime": timeField(func(o *Options) *timecalc.TimeOnly { return &o.EndOfMonthReminderStartTime }),
	"endOfMonthReminderDueTime":   timeField(func(o *Options) *timecalc.TimeOnly { return &o.EndOfMonthReminderDueTime }),
	"soundDataUrl":                stringField(func(o *Options) *string { return &o.SoundDataURL }),
	"gifDataUrl":                  stringField(func(o *Options) *string { return &o.GIFDataURL }),
}

// Decode parses a persisted options record.
func Decode(data []byte) DecodeResult {
	var record map[string]json.RawMessage
	if err := json.Unmarshal(data, &record); err != nil {
		return failed(fmt.Sprintf("not a JSON object: %v", err))
	}
	if record == nil {
		return failed("options record is null")
	}

	version := 1
	if raw, ok := record["version"]; ok {
		if err := json.Unmarshal(raw, &version); err != nil {
			return failed(fmt.Sprintf("version: %v", err))
		}
	}
	switch version {
	case 1:
		return decodeV1(record)
	}
	return failed(fmt.Sprintf("unsupported options version %d", version))
}

func decodeV1(record map[string]json.RawMessage) DecodeResult {
	o := Default()
	var problems []string

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw, ok := record[name]
		if !ok {
			continue
		}
		if err := fields[name](raw, &o); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(problems) > 0 {
		return DecodeResult{Options: Default(), Problems: problems}
	}
	return DecodeResult{Options: o, OK: true}
}

func failed(problem string) DecodeResult {
	return DecodeResult{Options: Default(), Problems: []string{problem}}
}

func boolField(target func(*Options) *bool) fieldDecoder {
	return func(raw json.RawMessage, o *Options) error {
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("expected boolean")
		}
		*target(o) = v
		return nil
	}
}

func stringField(target func(*Options) *string) fieldDecoder {
	return func(raw json.RawMessage, o *Options) error {
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("expected string")
		}
		*target(o) = v
		return nil
	}
}

func timeField(target func(*Options) *timecalc.TimeOnly) fieldDecoder {
	return func(raw json.RawMessage, o *Options) error {
		var v struct {
			Hour   *int `json:"hour"`
			Minute *int `json:"minute"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("expected {hour, minute}")
		}
		if v.Hour == nil || v.Minute == nil {
			return fmt.Errorf("hour and minute are required")
		}
		t := timecalc.TimeOnly{Hour: *v.Hour, Minute: *v.Minute}
		if !t.Valid() {
			return fmt.Errorf("time %02d:%02d out of range", t.Hour, t.Minute)
		}
		*target(o) = t
		return nil
	}
}

func decodeDays(raw json.RawMessage, o *Options) error {
	var days []timecalc.DayOfWeek
	if err := json.Unmarshal(raw, &days); err != nil {
		return err
	}
	if days == nil {
		return fmt.Errorf("expected array")
	}
	o.DailyReminderDaysOfWeek = days
	return nil
}

func decodeEndOfWeekDay(raw json.RawMessage, o *Options) error {
	var d timecalc.DayOfWeek
	if err := json.Unmarshal(raw, &d); err != nil {
		return err
	}
	o.EndOfWeekReminderDayOfWeek = d
	return nil
}
