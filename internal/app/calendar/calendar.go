// Package calendar resolves calendar dates to timetable days and week parity.
//
// All functions read the date in t's own location; the time of day is ignored.
package calendar

import (
	"time"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

var weekdays = [...]domain.WeekDay{
	time.Sunday:    domain.Sunday,
	time.Monday:    domain.Monday,
	time.Tuesday:   domain.Tuesday,
	time.Wednesday: domain.Wednesday,
	time.Thursday:  domain.Thursday,
	time.Friday:    domain.Friday,
	time.Saturday:  domain.Saturday,
}

// DayOfWeek returns the day label of t's calendar date.
func DayOfWeek(t time.Time) domain.WeekDay {
	return weekdays[t.Weekday()]
}

// WeekNumber computes ceil((daysSinceJan1 + jan1Weekday + 1) / 7), with
// jan1Weekday counted from Sunday = 0. Weeks therefore run Sunday to Saturday
// and week 1 is the one containing January 1st. This is not ISO-8601 and must
// stay as is: existing timetables rely on which weeks come out odd.
func WeekNumber(t time.Time) int {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	n := (t.YearDay() - 1) + int(jan1.Weekday()) + 1
	return (n + 6) / 7
}

// WeekParity returns WeekFirst for odd week numbers and WeekSecond for even ones.
func WeekParity(t time.Time) domain.WeekType {
	if WeekNumber(t)%2 == 1 {
		return domain.WeekFirst
	}
	return domain.WeekSecond
}

// Tomorrow returns the same wall-clock time on the next calendar day.
func Tomorrow(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}
