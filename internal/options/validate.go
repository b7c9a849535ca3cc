package options

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

// ValidatorElement names a group of related settings that is valid or not
// as a whole.
type ValidatorElement string

const (
	ElementDailyReminderDays       ValidatorElement = "daily-reminder-days"
	ElementEndOfWeekReminderTimes  ValidatorElement = "end-of-week-reminder-times"
	ElementEndOfMonthReminderTimes ValidatorElement = "end-of-month-reminder-times"
)

// Validity holds a flag per settings group.
type Validity map[ValidatorElement]bool

// Valid reports whether every group is valid.
func (v Validity) Valid() bool {
	for _, ok := range v {
		if !ok {
			return false
		}
	}
	return true
}

// Invalid lists the failing groups in a stable order.
func (v Validity) Invalid() []ValidatorElement {
	var out []ValidatorElement
	for el, ok := range v {
		if !ok {
			out = append(out, el)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks the cross-field rules the decoder does not: at least one
// daily reminder day when daily reminders are on, and start <= due for the
// weekly and monthly windows.
func (o Options) Validate() Validity {
	daysOK := len(o.DailyReminderDaysOfWeek) > 0 || !o.DailyTimeEntryReminder
	for _, d := range o.DailyReminderDaysOfWeek {
		if !d.Valid() {
			daysOK = false
		}
	}
	return Validity{
		ElementDailyReminderDays: daysOK && o.DailyReminderStartTime.Valid(),
		ElementEndOfWeekReminderTimes: o.EndOfWeekReminderDayOfWeek.Valid() &&
			o.EndOfWeekReminderStartTime.Valid() && o.EndOfWeekReminderDueTime.Valid() &&
			timecalc.CompareTimeOnly(o.EndOfWeekReminderStartTime, o.EndOfWeekReminderDueTime) <= 0,
		ElementEndOfMonthReminderTimes: o.EndOfMonthReminderStartTime.Valid() && o.EndOfMonthReminderDueTime.Valid() &&
			timecalc.CompareTimeOnly(o.EndOfMonthReminderStartTime, o.EndOfMonthReminderDueTime) <= 0,
	}
}

// FieldNames lists the settable option names in display order.
var FieldNames = []string{
	"dailyTimeEntryReminder",
	"endOfWeekTimesheetReminder",
	"endOfMonthTimesheetReminder",
	"dailyReminderDaysOfWeek",
	"dailyReminderStartTime",
	"endOfWeekReminderDayOfWeek",
	"endOfWeekReminderStartTime",
	"endOfWeekReminderDueTime",
	"endOfMonthReminderStartTime",
	"endOfMonthReminderDueTime",
	"soundDataUrl",
	"gifDataUrl",
}

// Set parses a user-supplied string for the named field. Times use strict
// HH:MM and day lists are comma separated, e.g. "monday,wednesday".
func (o *Options) Set(field, value string) error {
	value = strings.TrimSpace(value)

	parseTime := func(dst *timecalc.TimeOnly) error {
		t, ok := timecalc.ParseInputTime(value)
		if !ok {
			return fmt.Errorf("invalid time %q, expected HH:MM", value)
		}
		*dst = t
		return nil
	}
	parseBool := func(dst *bool) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q", value)
		}
		*dst = b
		return nil
	}

	switch field {
	case "dailyTimeEntryReminder":
		return parseBool(&o.DailyTimeEntryReminder)
	case "endOfWeekTimesheetReminder":
		return parseBool(&o.EndOfWeekTimesheetReminder)
	case "endOfMonthTimesheetReminder":
		return parseBool(&o.EndOfMonthTimesheetReminder)
	case "dailyReminderDaysOfWeek":
		var days []timecalc.DayOfWeek
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			d, ok := timecalc.ParseDayOfWeek(part)
			if !ok {
				return fmt.Errorf("invalid day of week %q", part)
			}
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
		o.DailyReminderDaysOfWeek = days
		return nil
	case "dailyReminderStartTime":
		return parseTime(&o.DailyReminderStartTime)
	case "endOfWeekReminderDayOfWeek":
		d, ok := timecalc.ParseDayOfWeek(value)
		if !ok {
			return fmt.Errorf("invalid day of week %q", value)
		}
		o.EndOfWeekReminderDayOfWeek = d
		return nil
	case "endOfWeekReminderStartTime":
		return parseTime(&o.EndOfWeekReminderStartTime)
	case "endOfWeekReminderDueTime":
		return parseTime(&o.EndOfWeekReminderDueTime)
	case "endOfMonthReminderStartTime":
		return parseTime(&o.EndOfMonthReminderStartTime)
	case "endOfMonthReminderDueTime":
		return parseTime(&o.EndOfMonthReminderDueTime)
	case "soundDataUrl":
		o.SoundDataURL = value
		return nil
	case "gifDataUrl":
		o.GIFDataURL = value
		return nil
	}
	return fmt.Errorf("unknown option %q", field)
}

// Field formats the named field the way Set accepts it.
func (o Options) Field(name string) (string, error) {
	switch name {
	case "dailyTimeEntryReminder":
		return strconv.FormatBool(o.DailyTimeEntryReminder), nil
	case "endOfWeekTimesheetReminder":
		return strconv.FormatBool(o.EndOfWeekTimesheetReminder), nil
	case "endOfMonthTimesheetReminder":
		return strconv.FormatBool(o.EndOfMonthTimesheetReminder), nil
	case "dailyReminderDaysOfWeek":
		names := make([]string, len(o.DailyReminderDaysOfWeek))
		for i, d := range o.DailyReminderDaysOfWeek {
			names[i] = d.String()
		}
		return strings.Join(names, ","), nil
	case "dailyReminderStartTime":
		return timecalc.FormatInputTime(o.DailyReminderStartTime), nil
	case "endOfWeekReminderDayOfWeek":
		return o.EndOfWeekReminderDayOfWeek.String(), nil
	case "endOfWeekReminderStartTime":
		return timecalc.FormatInputTime(o.EndOfWeekReminderStartTime), nil
	case "endOfWeekReminderDueTime":
		return timecalc.FormatInputTime(o.EndOfWeekReminderDueTime), nil
	case "endOfMonthReminderStartTime":
		return timecalc.FormatInputTime(o.EndOfMonthReminderStartTime), nil
	case "endOfMonthReminderDueTime":
		return timecalc.FormatInputTime(o.EndOfMonthReminderDueTime), nil
	case "soundDataUrl":
		return o.SoundDataURL, nil
	case "gifDataUrl":
		return o.GIFDataURL, nil
	}
	return "", fmt.Errorf("unknown option %q", name)
}
