package notifications

import (
	"fmt"

	"github.com/Tiliavir/clockstorm/internal/model"
	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

// Title is shown on every desktop notification.
const Title = "Clock Storm"

// ID identifies a reminder across polls so sinks can show and clear it.
func ID(monday timecalc.DateOnly, n model.Notification) string {
	key := timecalc.ToDateOnlyKey(monday)
	switch n.Type {
	case model.NotificationDaily:
		return fmt.Sprintf("daily-%s-%s", key, n.DayOfWeek)
	case model.NotificationEndOfWeek:
		return "end-of-week-" + key
	default:
		return "end-of-month-" + key
	}
}

// MatchesAny reports whether id belongs to one of the active reminders.
func MatchesAny(all model.Notifications, id string) bool {
	for key, list := range all {
		monday := timecalc.MustParseDateOnlyKey(key)
		for _, n := range list {
			if ID(monday, n) == id {
				return true
			}
		}
	}
	return false
}

// Message is the notification body for n in the week starting at monday.
func Message(monday timecalc.DateOnly, n model.Notification) string {
	switch n.Type {
	case model.NotificationDaily:
		day := timecalc.AddDays(monday, n.DayOfWeek.Index())
		return "Please fill in your timecard for " + timecalc.DisplayDate(day)
	case model.NotificationEndOfWeek:
		return submitMessage(monday, timecalc.AddDays(monday, 6))
	default:
		return submitMessage(monday, n.EndOfMonthDate)
	}
}

func submitMessage(start, end timecalc.DateOnly) string {
	return fmt.Sprintf("Please submit your timesheet for %s - %s", timecalc.DisplayDate(start), timecalc.DisplayDate(end))
}

// Pending is one reminder ready to hand to a sink.
type Pending struct {
	ID      string
	Monday  timecalc.DateOnly
	Title   string
	Message string
}

// Flatten lists every active reminder, newest week first and in evaluation
// order within a week.
func Flatten(all model.Notifications) []Pending {
	var out []Pending
	for _, monday := range all.Mondays() {
		for _, n := range all[timecalc.ToDateOnlyKey(monday)] {
			out = append(out, Pending{ID: ID(monday, n), Monday: monday, Title: Title, Message: Message(monday, n)})
		}
	}
	return out
}
