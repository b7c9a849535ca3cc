package timecalc

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateOnly is a calendar date without a time zone. It is always interpreted
// in local wall-clock time.
type DateOnly struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// TimeOnly is a wall-clock time of day with minute precision.
type TimeOnly struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ErrInvalidDateOnlyKey is returned when a storage key is not MM/DD/YYYY.
var ErrInvalidDateOnlyKey = errors.New("invalid date-only key")

const minutesPerDay = 24 * 60

// DateOnlyOf returns the calendar date of t in t's location.
func DateOnlyOf(t time.Time) DateOnly {
	y, m, d := t.Date()
	return DateOnly{Year: y, Month: int(m), Day: d}
}

// TimeOnlyOf returns the wall-clock time of t in t's location.
func TimeOnlyOf(t time.Time) TimeOnly {
	return TimeOnly{Hour: t.Hour(), Minute: t.Minute()}
}

// toTime anchors d at noon UTC so day arithmetic never trips over DST.
func (d DateOnly) toTime() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 12, 0, 0, 0, time.UTC)
}

// At combines the date with a time of day in loc.
func (d DateOnly) At(t TimeOnly, loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, t.Hour, t.Minute, 0, 0, loc)
}

// AddDays shifts d by n calendar days. Out-of-range input such as day 32 is
// normalized into the following month rather than rejected.
func AddDays(d DateOnly, n int) DateOnly {
	return DateOnlyOf(d.toTime().AddDate(0, 0, n))
}

// MinusDays shifts d back by n calendar days.
func MinusDays(d DateOnly, n int) DateOnly {
	return AddDays(d, -n)
}

// AddMinutes shifts t by n minutes within the same day. The second result is
// false when the result would fall outside [00:00, 23:59].
func AddMinutes(t TimeOnly, n int) (TimeOnly, bool) {
	total := t.Hour*60 + t.Minute + n
	if total < 0 || total >= minutesPerDay {
		return TimeOnly{}, false
	}
	return TimeOnly{Hour: total / 60, Minute: total % 60}, true
}

// MinusMinutes shifts t back by n minutes within the same day.
func MinusMinutes(t TimeOnly, n int) (TimeOnly, bool) {
	return AddMinutes(t, -n)
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// CompareDateOnly orders dates lexicographically by year, month and day.
func CompareDateOnly(a, b DateOnly) int {
	if c := compareInts(a.Year, b.Year); c != 0 {
		return c
	}
	if c := compareInts(a.Month, b.Month); c != 0 {
		return c
	}
	return compareInts(a.Day, b.Day)
}

// CompareTimeOnly orders times by hour, then minute.
func CompareTimeOnly(a, b TimeOnly) int {
	if c := compareInts(a.Hour, b.Hour); c != 0 {
		return c
	}
	return compareInts(a.Minute, b.Minute)
}

// IsTimeWithinRange reports whether start <= t <= end.
func IsTimeWithinRange(t, start, end TimeOnly) bool {
	return CompareTimeOnly(t, start) >= 0 && CompareTimeOnly(t, end) <= 0
}

// DayOfWeekOf returns the weekday of d in the proleptic Gregorian calendar.
func DayOfWeekOf(d DateOnly) DayOfWeek {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(d.toTime().Weekday())
	if wd == 0 {
		return Sunday
	}
	return DayOfWeek(wd - 1)
}

// MondayOf returns the Monday of the week containing d.
func MondayOf(d DateOnly) DateOnly {
	return MinusDays(d, DayOfWeekOf(d).Index())
}

// LastDayOfMonth returns the number of days in month (1-12) of year.
func LastDayOfMonth(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// ToDateOnlyKey formats d as a zero-padded MM/DD/YYYY storage key.
func ToDateOnlyKey(d DateOnly) string {
	return fmt.Sprintf("%02d/%02d/%d", d.Month, d.Day, d.Year)
}

var dateOnlyKeyPattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

// ParseDateOnlyKey parses a key produced by ToDateOnlyKey. The key must be
// zero-padded and name a real calendar date.
func ParseDateOnlyKey(key string) (DateOnly, error) {
	m := dateOnlyKeyPattern.FindStringSubmatch(key)
	if m == nil {
		return DateOnly{}, fmt.Errorf("%w: %q", ErrInvalidDateOnlyKey, key)
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	d := DateOnly{Year: year, Month: month, Day: day}
	if AddDays(d, 0) != d {
		return DateOnly{}, fmt.Errorf("%w: %q is not a calendar date", ErrInvalidDateOnlyKey, key)
	}
	return d, nil
}

// MustParseDateOnlyKey is like ParseDateOnlyKey but panics on a malformed key.
// Keys are always produced by this package, so a bad one is a programming error.
func MustParseDateOnlyKey(key string) DateOnly {
	d, err := ParseDateOnlyKey(key)
	if err != nil {
		panic(err)
	}
	return d
}

// DisplayDate formats d as M/D/YYYY without padding.
func DisplayDate(d DateOnly) string {
	return fmt.Sprintf("%d/%d/%d", d.Month, d.Day, d.Year)
}

var inputTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidInputTime reports whether s is a strict two-digit 24-hour HH:MM time.
func IsValidInputTime(s string) bool {
	return inputTimePattern.MatchString(s)
}

// ParseInputTime converts a strict HH:MM string into a TimeOnly.
func ParseInputTime(s string) (TimeOnly, bool) {
	if !IsValidInputTime(s) {
		return TimeOnly{}, false
	}
	hour, _ := strconv.Atoi(s[:2])
	minute, _ := strconv.Atoi(s[3:])
	return TimeOnly{Hour: hour, Minute: minute}, true
}

// FormatInputTime formats t as HH:MM.
func FormatInputTime(t TimeOnly) string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Valid reports whether both fields are within range.
func (t TimeOnly) Valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

func (t TimeOnly) String() string {
	return FormatInputTime(t)
}

func (d DateOnly) String() string {
	return ToDateOnlyKey(d)
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS. Hours are not capped at 24.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
