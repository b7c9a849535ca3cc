package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

// ErrInvalidTimeSheet wraps every validation failure from DecodeTimeSheet.
var ErrInvalidTimeSheet = errors.New("invalid timesheet")

type rawDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

type rawTimeCard struct {
	Hours  map[string]*float64 `json:"hours"`
	Status *TimeCardStatus     `json:"status"`
}

type rawTimeSheet struct {
	Dates     map[string]*rawDate `json:"dates"`
	TimeCards *[]rawTimeCard      `json:"timeCards"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTimeSheet, fmt.Sprintf(format, args...))
}

// DecodeTimeSheet parses and validates a persisted week model. Every date and
// every per-day hour value must be present, statuses must be known, hours must
// be non-negative and the dates must be seven consecutive days from a Monday.
func DecodeTimeSheet(data []byte) (TimeSheet, error) {
	var raw rawTimeSheet
	if err := json.Unmarshal(data, &raw); err != nil {
		return TimeSheet{}, invalid("%v", err)
	}
	if raw.Dates == nil {
		return TimeSheet{}, invalid("missing dates")
	}
	if raw.TimeCards == nil {
		return TimeSheet{}, invalid("missing timeCards")
	}

	var days [7]timecalc.DateOnly
	for _, dow := range timecalc.DaysOfWeek {
		rd := raw.Dates[dow.String()]
		if rd == nil || rd.Year == nil || rd.Month == nil || rd.Day == nil {
			return TimeSheet{}, invalid("missing date for %s", dow)
		}
		days[dow] = timecalc.DateOnly{Year: *rd.Year, Month: *rd.Month, Day: *rd.Day}
	}
	dates := WeekDates{
		Monday:    days[timecalc.Monday],
		Tuesday:   days[timecalc.Tuesday],
		Wednesday: days[timecalc.Wednesday],
		Thursday:  days[timecalc.Thursday],
		Friday:    days[timecalc.Friday],
		Saturday:  days[timecalc.Saturday],
		Sunday:    days[timecalc.Sunday],
	}
	if err := dates.Validate(); err != nil {
		return TimeSheet{}, err
	}

	cards := make([]TimeCard, 0, len(*raw.TimeCards))
	for i, rc := range *raw.TimeCards {
		if rc.Status == nil || !rc.Status.Valid() {
			return TimeSheet{}, invalid("time card %d: unknown status", i)
		}
		if rc.Hours == nil {
			return TimeSheet{}, invalid("time card %d: missing hours", i)
		}
		values := make([]float64, 7)
		for _, dow := range timecalc.DaysOfWeek {
			h := rc.Hours[dow.String()]
			if h == nil {
				return TimeSheet{}, invalid("time card %d: missing hours for %s", i, dow)
			}
			if *h < 0 {
				return TimeSheet{}, invalid("time card %d: negative hours for %s", i, dow)
			}
			values[dow] = *h
		}
		cards = append(cards, TimeCard{Hours: HoursFromSlice(values), Status: *rc.Status})
	}

	return TimeSheet{Dates: dates, TimeCards: cards}, nil
}

// Validate checks that the dates are real, start on a Monday and are consecutive.
func (w WeekDates) Validate() error {
	if timecalc.AddDays(w.Monday, 0) != w.Monday {
		return invalid("monday %v is not a calendar date", w.Monday)
	}
	if timecalc.DayOfWeekOf(w.Monday) != timecalc.Monday {
		return invalid("week starts on %s, not monday", timecalc.DayOfWeekOf(w.Monday))
	}
	if NewWeekDates(w.Monday) != w {
		return invalid("dates are not consecutive from %v", w.Monday)
	}
	return nil
}
