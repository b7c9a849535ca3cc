package notifications

import (
	"context"
	"time"

	"github.com/Tiliavir/clockstorm/internal/installation"
	"github.com/Tiliavir/clockstorm/internal/model"
	"github.com/Tiliavir/clockstorm/internal/options"
	"github.com/Tiliavir/clockstorm/internal/storage"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
	"github.com/Tiliavir/clockstorm/internal/timesheets"
)

// IsPastDueStartTime reports whether the trigger moment has arrived. Only the
// trigger day itself compares times; any later day is past due.
func IsPastDueStartTime(today timecalc.DateOnly, now timecalc.TimeOnly, dueDate timecalc.DateOnly, dueStart timecalc.TimeOnly) bool {
	switch c := timecalc.CompareDateOnly(today, dueDate); {
	case c < 0:
		return false
	case c == 0:
		return timecalc.CompareTimeOnly(now, dueStart) >= 0
	}
	return true
}

func shouldRemindDaily(day timecalc.DayOfWeek, today timecalc.DateOnly, now timecalc.TimeOnly, ts model.TimeSheet, summary model.TimeSheetSummary, opts options.Options) bool {
	if !opts.DailyTimeEntryReminder || !opts.HasDailyReminderDay(day) {
		return false
	}
	if summary.DaysFilled.Get(day) && summary.WeekStatus != model.WeekSomeUnsaved {
		return false
	}
	return IsPastDueStartTime(today, now, ts.Dates.Get(day), opts.DailyReminderStartTime)
}

func shouldRemindEndOfWeek(today timecalc.DateOnly, now timecalc.TimeOnly, ts model.TimeSheet, summary model.TimeSheetSummary, opts options.Options) bool {
	if !opts.EndOfWeekTimesheetReminder || summary.WeekStatus == model.WeekAllSubmittedOrApproved {
		return false
	}
	return IsPastDueStartTime(today, now, ts.Dates.Get(opts.EndOfWeekReminderDayOfWeek), opts.EndOfWeekReminderStartTime)
}

func shouldRemindEndOfMonth(today timecalc.DateOnly, now timecalc.TimeOnly, summary model.TimeSheetSummary, opts options.Options) bool {
	if !opts.EndOfMonthTimesheetReminder || summary.EndOfMonthReminderDate == nil {
		return false
	}
	if summary.WeekStatus == model.WeekAllSubmittedOrApproved {
		return false
	}
	return IsPastDueStartTime(today, now, *summary.EndOfMonthReminderDate, opts.EndOfMonthReminderStartTime)
}

// ForTimeSheet returns the reminders active for one week at now: daily ones
// Monday to Sunday, then end-of-week, then end-of-month.
func ForTimeSheet(ts model.TimeSheet, summary model.TimeSheetSummary, opts options.Options, now time.Time) []model.Notification {
	today := timecalc.DateOnlyOf(now)
	clock := timecalc.TimeOnlyOf(now)

	result := []model.Notification{}
	for _, day := range timecalc.DaysOfWeek {
		if shouldRemindDaily(day, today, clock, ts, summary, opts) {
			result = append(result, model.DailyNotification(day))
		}
	}
	if shouldRemindEndOfWeek(today, clock, ts, summary, opts) {
		result = append(result, model.EndOfWeekNotification())
	}
	if shouldRemindEndOfMonth(today, clock, summary, opts) {
		result = append(result, model.EndOfMonthNotification(*summary.EndOfMonthReminderDate))
	}
	return result
}

// ForWeek fetches, summarizes and evaluates the week starting at monday.
func ForWeek(ctx context.Context, s storage.Store, monday timecalc.DateOnly, opts options.Options, now time.Time) []model.Notification {
	ts := timesheets.Get(ctx, s, monday)
	return ForTimeSheet(ts, timesheets.Summarize(ts, opts, now), opts, now)
}

// All evaluates every week since installation. Weeks are fetched one at a
// time.
func All(ctx context.Context, s storage.Store, opts options.Options, now time.Time) (model.Notifications, error) {
	mondays, err := installation.EveryMondaySince(ctx, s, timecalc.DateOnlyOf(now))
	if err != nil {
		return nil, err
	}
	all := make(model.Notifications, len(mondays))
	for _, monday := range mondays {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		all[timecalc.ToDateOnlyKey(monday)] = ForWeek(ctx, s, monday, opts, now)
	}
	return all, nil
}

// Any reports whether at least one week has an active reminder.
func Any(n model.Notifications) bool {
	for _, list := range n {
		if len(list) > 0 {
			return true
		}
	}
	return false
}
