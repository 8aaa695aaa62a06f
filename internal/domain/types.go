package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

type GroupID string
type EntryID string
type UserID string

// ChatID is the stable identity of a user on the messaging side.
type ChatID string

type Timestamp = time.Time

// WeekDay labels a day of the week. The zero value is not a valid day.
type WeekDay string

const (
	Monday    WeekDay = "MONDAY"
	Tuesday   WeekDay = "TUESDAY"
	Wednesday WeekDay = "WEDNESDAY"
	Thursday  WeekDay = "THURSDAY"
	Friday    WeekDay = "FRIDAY"
	Saturday  WeekDay = "SATURDAY"
	Sunday    WeekDay = "SUNDAY"
)

// WeekDays lists the seven days in display order.
var WeekDays = []WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d WeekDay) Valid() bool {
	for _, day := range WeekDays {
		if d == day {
			return true
		}
	}
	return false
}

// WeekType tags an entry with the alternating week it belongs to.
type WeekType string

const (
	WeekFirst  WeekType = "FIRST"
	WeekSecond WeekType = "SECOND"
	WeekBoth   WeekType = "BOTH" // recurs every week
)

func (w WeekType) Valid() bool {
	return w == WeekFirst || w == WeekSecond || w == WeekBoth
}

// Matches reports whether an entry tagged w applies to a week of the given parity.
func (w WeekType) Matches(parity WeekType) bool {
	return w == WeekBoth || w == parity
}

// Clock is a wall-clock time of day in minutes since midnight.
type Clock int

var clockPattern = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// ParseClock accepts H:MM or HH:MM with hour in [0,23] and minute in [0,59].
func ParseClock(s string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return Clock(h*60 + mm), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
