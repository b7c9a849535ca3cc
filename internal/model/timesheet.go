package model

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/Tiliavir/clockstorm/internal/timecalc"
)

// TimeCardStatus is the upstream lifecycle state of a single time card.
// It is only ever read, never changed, by clockstorm.
type TimeCardStatus string

const (
	StatusUnsaved   TimeCardStatus = "unsaved"
	StatusSaved     TimeCardStatus = "saved"
	StatusSubmitted TimeCardStatus = "submitted"
	StatusApproved  TimeCardStatus = "approved"
)

// Valid reports whether s is one of the known statuses.
func (s TimeCardStatus) Valid() bool {
	switch s {
	case StatusUnsaved, StatusSaved, StatusSubmitted, StatusApproved:
		return true
	}
	return false
}

// SubmittedOrApproved reports whether the card has left the user's hands.
func (s TimeCardStatus) SubmittedOrApproved() bool {
	return s == StatusSubmitted || s == StatusApproved
}

// WeekStatus is the derived classification of a week's progress.
type WeekStatus string

const (
	WeekNoTimeCards            WeekStatus = "no-time-cards"
	WeekSomeUnsaved            WeekStatus = "some-unsaved"
	WeekSomeUnsubmitted        WeekStatus = "some-unsubmitted"
	WeekAllSubmittedOrApproved WeekStatus = "all-submitted-or-approved"
)

// WeekDates holds the seven consecutive dates of a Monday-based week.
type WeekDates struct {
	Monday    timecalc.DateOnly `json:"monday"`
	Tuesday   timecalc.DateOnly `json:"tuesday"`
	Wednesday timecalc.DateOnly `json:"wednesday"`
	Thursday  timecalc.DateOnly `json:"thursday"`
	Friday    timecalc.DateOnly `json:"friday"`
	Saturday  timecalc.DateOnly `json:"saturday"`
	Sunday    timecalc.DateOnly `json:"sunday"`
}

// NewWeekDates returns the week starting at monday.
func NewWeekDates(monday timecalc.DateOnly) WeekDates {
	return WeekDates{
		Monday:    monday,
		Tuesday:   timecalc.AddDays(monday, 1),
		Wednesday: timecalc.AddDays(monday, 2),
		Thursday:  timecalc.AddDays(monday, 3),
		Friday:    timecalc.AddDays(monday, 4),
		Saturday:  timecalc.AddDays(monday, 5),
		Sunday:    timecalc.AddDays(monday, 6),
	}
}

// Get returns the date of the given weekday.
func (w WeekDates) Get(d timecalc.DayOfWeek) timecalc.DateOnly {
	switch d {
	case timecalc.Monday:
		return w.Monday
	case timecalc.Tuesday:
		return w.Tuesday
	case timecalc.Wednesday:
		return w.Wednesday
	case timecalc.Thursday:
		return w.Thursday
	case timecalc.Friday:
		return w.Friday
	case timecalc.Saturday:
		return w.Saturday
	default:
		return w.Sunday
	}
}

// Hours is the number of hours logged per weekday. Values may be fractional.
type Hours struct {
	Monday    float64 `json:"monday"`
	Tuesday   float64 `json:"tuesday"`
	Wednesday float64 `json:"wednesday"`
	Thursday  float64 `json:"thursday"`
	Friday    float64 `json:"friday"`
	Saturday  float64 `json:"saturday"`
	Sunday    float64 `json:"sunday"`
}

// Get returns the hours logged on the given weekday.
func (h Hours) Get(d timecalc.DayOfWeek) float64 {
	switch d {
	case timecalc.Monday:
		return h.Monday
	case timecalc.Tuesday:
		return h.Tuesday
	case timecalc.Wednesday:
		return h.Wednesday
	case timecalc.Thursday:
		return h.Thursday
	case timecalc.Friday:
		return h.Friday
	case timecalc.Saturday:
		return h.Saturday
	default:
		return h.Sunday
	}
}

// HoursFromSlice builds Hours from seven values in Monday..Sunday order.
// Missing trailing values are zero.
func HoursFromSlice(values []float64) Hours {
	v := make([]float64, 7)
	copy(v, values)
	return Hours{
		Monday:    v[0],
		Tuesday:   v[1],
		Wednesday: v[2],
		Thursday:  v[3],
		Friday:    v[4],
		Saturday:  v[5],
		Sunday:    v[6],
	}
}

// TimeCard is one row of logged hours for a week, e.g. one per project.
type TimeCard struct {
	Hours  Hours          `json:"hours"`
	Status TimeCardStatus `json:"status"`
}

// TimeSheet is the week model: seven dates plus zero or more time cards.
type TimeSheet struct {
	Dates     WeekDates  `json:"dates"`
	TimeCards []TimeCard `json:"timeCards"`
}

// EmptyTimeSheet returns the week starting at monday with no time cards.
func EmptyTimeSheet(monday timecalc.DateOnly) TimeSheet {
	return TimeSheet{Dates: NewWeekDates(monday), TimeCards: []TimeCard{}}
}

// Key returns the MM/DD/YYYY key of the week's Monday.
func (ts TimeSheet) Key() string {
	return timecalc.ToDateOnlyKey(ts.Dates.Monday)
}

// Equal reports whether two sheets carry identical dates and cards.
func (ts TimeSheet) Equal(other TimeSheet) bool {
	if len(ts.TimeCards) == 0 && len(other.TimeCards) == 0 {
		return ts.Dates == other.Dates
	}
	return reflect.DeepEqual(ts, other)
}

// MarshalJSON keeps timeCards an array even when nil.
func (ts TimeSheet) MarshalJSON() ([]byte, error) {
	type alias TimeSheet
	a := alias(ts)
	if a.TimeCards == nil {
		a.TimeCards = []TimeCard{}
	}
	return json.Marshal(a)
}

// DaysFilled flags, per weekday, whether any card logged hours that day.
type DaysFilled [7]bool

func (d DaysFilled) Get(day timecalc.DayOfWeek) bool {
	return d[day.Index()]
}

func (d DaysFilled) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, 7)
	for _, day := range timecalc.DaysOfWeek {
		m[day.String()] = d[day]
	}
	return json.Marshal(m)
}

// TimeSheetSummary is derived from a TimeSheet and the reminder options.
type TimeSheetSummary struct {
	WeekStatus             WeekStatus         `json:"weekStatus"`
	DaysFilled             DaysFilled         `json:"daysFilled"`
	TotalDaysSaved         int                `json:"totalDaysSaved"`
	TotalDaysSubmitted     int                `json:"totalDaysSubmitted"`
	TimeRemaining          string             `json:"timeRemaining"`
	EndOfMonthReminderDate *timecalc.DateOnly `json:"endOfMonthReminderDate"`
}

// String is used in log output.
func (s TimeSheetSummary) String() string {
	return fmt.Sprintf("%s saved=%d submitted=%d remaining=%s", s.WeekStatus, s.TotalDaysSaved, s.TotalDaysSubmitted, s.TimeRemaining)
}
