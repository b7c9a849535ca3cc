package timesheets

import (
	"time"

	"github.com/Tiliavir/clockstorm/internal/model"
	"github.com/Tiliavir/clockstorm/internal/options"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

// Summarize derives the week status, progress counters and deadlines of ts.
// now is only used for TimeRemaining; its location is the wall clock.
func Summarize(ts model.TimeSheet, opts options.Options, now time.Time) model.TimeSheetSummary {
	endOfMonth := EndOfMonthReminderDate(ts, opts)
	return model.TimeSheetSummary{
		WeekStatus:             WeekStatus(ts),
		DaysFilled:             DaysFilled(ts),
		TotalDaysSaved:         countDays(ts, func(s model.TimeCardStatus) bool { return s == model.StatusSaved }),
		TotalDaysSubmitted:     countDays(ts, model.TimeCardStatus.SubmittedOrApproved),
		TimeRemaining:          TimeRemaining(ts, opts, endOfMonth, now),
		EndOfMonthReminderDate: endOfMonth,
	}
}

// WeekStatus classifies the week. Any unsaved card wins over everything else.
func WeekStatus(ts model.TimeSheet) model.WeekStatus {
	if len(ts.TimeCards) == 0 {
		return model.WeekNoTimeCards
	}
	allDone := true
	for _, tc := range ts.TimeCards {
		if tc.Status == model.StatusUnsaved {
			return model.WeekSomeUnsaved
		}
		if !tc.Status.SubmittedOrApproved() {
			allDone = false
		}
	}
	if allDone {
		return model.WeekAllSubmittedOrApproved
	}
	return model.WeekSomeUnsubmitted
}

// DaysFilled marks each weekday on which any card logged hours.
func DaysFilled(ts model.TimeSheet) model.DaysFilled {
	var filled model.DaysFilled
	for _, tc := range ts.TimeCards {
		for _, d := range timecalc.DaysOfWeek {
			if tc.Hours.Get(d) > 0 {
				filled[d.Index()] = true
			}
		}
	}
	return filled
}

// countDays counts (card, day) pairs with hours for cards matching status.
// Overlapping cards on the same day are each counted.
func countDays(ts model.TimeSheet, match func(model.TimeCardStatus) bool) int {
	n := 0
	for _, tc := range ts.TimeCards {
		if !match(tc.Status) {
			continue
		}
		for _, d := range timecalc.DaysOfWeek {
			if tc.Hours.Get(d) > 0 {
				n++
			}
		}
	}
	return n
}

// EndOfMonthReminderDate returns the business day of the week that closes
// its month, but only when it falls strictly before the weekly due day.
func EndOfMonthReminderDate(ts model.TimeSheet, opts options.Options) *timecalc.DateOnly {
	for _, d := range timecalc.DaysOfWeek {
		if !d.IsBusinessDay() {
			continue
		}
		date := ts.Dates.Get(d)
		if date.Day != timecalc.LastDayOfMonth(date.Month, date.Year) {
			continue
		}
		if d.Index() < opts.EndOfWeekReminderDayOfWeek.Index() {
			return &date
		}
		return nil
	}
	return nil
}

// TimeRemaining formats the time left until the next deadline as HH:MM:SS.
// The month-end deadline applies until it has passed, then the weekly one.
func TimeRemaining(ts model.TimeSheet, opts options.Options, endOfMonth *timecalc.DateOnly, now time.Time) string {
	deadline := ts.Dates.Get(opts.EndOfWeekReminderDayOfWeek).At(opts.EndOfWeekReminderDueTime, now.Location())
	if endOfMonth != nil {
		monthDeadline := endOfMonth.At(opts.EndOfMonthReminderDueTime, now.Location())
		if !now.After(monthDeadline) {
			deadline = monthDeadline
		}
	}
	remaining := deadline.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	return timecalc.FormatDurationHHMMSS(int64(remaining / time.Second))
}
