package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

// NotificationType tags the Notification variant.
type NotificationType string

const (
	NotificationDaily      NotificationType = "daily"
	NotificationEndOfWeek  NotificationType = "end-of-week"
	NotificationEndOfMonth NotificationType = "end-of-month"
)

// Notification is one active reminder for a week. DayOfWeek is only
// meaningful for daily reminders and EndOfMonthDate only for end-of-month.
type Notification struct {
	Type           NotificationType
	DayOfWeek      timecalc.DayOfWeek
	EndOfMonthDate timecalc.DateOnly
}

func DailyNotification(d timecalc.DayOfWeek) Notification {
	return Notification{Type: NotificationDaily, DayOfWeek: d}
}

func EndOfWeekNotification() Notification {
	return Notification{Type: NotificationEndOfWeek}
}

func EndOfMonthNotification(date timecalc.DateOnly) Notification {
	return Notification{Type: NotificationEndOfMonth, EndOfMonthDate: date}
}

type dailyJSON struct {
	Type      NotificationType   `json:"type"`
	DayOfWeek timecalc.DayOfWeek `json:"dayOfWeek"`
}

type endOfWeekJSON struct {
	Type NotificationType `json:"type"`
}

type endOfMonthJSON struct {
	Type           NotificationType  `json:"type"`
	EndOfMonthDate timecalc.DateOnly `json:"endOfMonthDate"`
}

func (n Notification) MarshalJSON() ([]byte, error) {
	switch n.Type {
	case NotificationDaily:
		return json.Marshal(dailyJSON{Type: n.Type, DayOfWeek: n.DayOfWeek})
	case NotificationEndOfWeek:
		return json.Marshal(endOfWeekJSON{Type: n.Type})
	case NotificationEndOfMonth:
		return json.Marshal(endOfMonthJSON{Type: n.Type, EndOfMonthDate: n.EndOfMonthDate})
	}
	return nil, fmt.Errorf("unknown notification type %q", n.Type)
}

func (n *Notification) UnmarshalJSON(data []byte) error {
	var head endOfWeekJSON
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	switch head.Type {
	case NotificationDaily:
		var v dailyJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*n = DailyNotification(v.DayOfWeek)
	case NotificationEndOfWeek:
		*n = EndOfWeekNotification()
	case NotificationEndOfMonth:
		var v endOfMonthJSON
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*n = EndOfMonthNotification(v.EndOfMonthDate)
	default:
		return fmt.Errorf("unknown notification type %q", head.Type)
	}
	return nil
}

// Notifications maps a week's Monday key (MM/DD/YYYY) to its active reminders.
type Notifications map[string][]Notification

// Mondays returns the week keys parsed into dates, newest first.
func (n Notifications) Mondays() []timecalc.DateOnly {
	mondays := make([]timecalc.DateOnly, 0, len(n))
	for key := range n {
		mondays = append(mondays, timecalc.MustParseDateOnlyKey(key))
	}
	sort.Slice(mondays, func(i, j int) bool {
		return timecalc.CompareDateOnly(mondays[i], mondays[j]) > 0
	})
	return mondays
}

// Count returns the total number of reminders across all weeks.
func (n Notifications) Count() int {
	total := 0
	for _, list := range n {
		total += len(list)
	}
	return total
}
