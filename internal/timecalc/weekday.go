package timecalc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DayOfWeek is a weekday with Monday as index 0.
type DayOfWeek int

const (
	Monday DayOfWeek = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysOfWeek lists every weekday in canonical Monday..Sunday order.
var DaysOfWeek = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayNames = [...]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ParseDayOfWeek parses a lower-case weekday name such as "monday".
func ParseDayOfWeek(s string) (DayOfWeek, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	for i, name := range dayNames {
		if name == s {
			return DayOfWeek(i), true
		}
	}
	return 0, false
}

func (d DayOfWeek) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Index returns the canonical index, monday=0 … sunday=6.
func (d DayOfWeek) Index() int {
	return int(d)
}

func (d DayOfWeek) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return dayNames[d]
}

// Display returns the capitalized name, e.g. "Monday".
func (d DayOfWeek) Display() string {
	name := d.String()
	if !d.Valid() {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// IsBusinessDay reports whether d falls Monday through Friday.
func (d DayOfWeek) IsBusinessDay() bool {
	return d >= Monday && d <= Friday
}

func (d DayOfWeek) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid day of week %d", int(d))
	}
	return json.Marshal(dayNames[d])
}

func (d *DayOfWeek) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("day of week must be a string: %w", err)
	}
	parsed, ok := ParseDayOfWeek(s)
	if !ok || s != parsed.String() {
		return fmt.Errorf("unknown day of week %q", s)
	}
	*d = parsed
	return nil
}
