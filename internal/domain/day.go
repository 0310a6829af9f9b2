package domain

import (
	"fmt"
	"strings"
	"time"
)

// Day identifies one weekday in the rotation week.
type Day int

// Day values in week order.
const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// dayNames stores canonical lower-case day identifiers in week order.
var dayNames = [...]string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// Week returns all days in week order.
func Week() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// ParseDay parses a full or three-letter day name, case-insensitively.
func ParseDay(raw string) (Day, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if len(value) < 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDay, raw)
	}
	for idx, name := range dayNames {
		if value == name || value == name[:3] {
			return Day(idx), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, raw)
}

// Valid reports whether d is one of the seven weekdays.
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// String returns the canonical lower-case day identifier.
func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("day(%d)", int(d))
	}
	return dayNames[d]
}

// Title returns the capitalized day name for display.
func (d Day) Title() string {
	name := d.String()
	if !d.Valid() {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// Short returns the three-letter display abbreviation.
func (d Day) Short() string {
	return d.Title()[:3]
}

// DayOf returns the rotation day for t in its own location.
func DayOf(t time.Time) Day {
	return Day((int(t.Weekday()) + 6) % 7)
}

// Next returns the following day, wrapping Sunday to Monday.
func (d Day) Next() Day {
	return (d + 1) % 7
}

// Prev returns the preceding day, wrapping Monday to Sunday.
func (d Day) Prev() Day {
	return (d + 6) % 7
}

// MarshalText encodes the day as its canonical identifier.
func (d Day) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDay, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a day identifier.
func (d *Day) UnmarshalText(text []byte) error {
	parsed, err := ParseDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
