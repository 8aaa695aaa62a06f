package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/timetable-bot/internal/app/render"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func entry(subject string, start, end domain.Clock, wt domain.WeekType) *domain.ScheduleEntry {
	return &domain.ScheduleEntry{Subject: subject, Start: start, End: end, WeekType: wt}
}

func TestLesson(t *testing.T) {
	e := entry("Algorithms", 9*60, 10*60+30, domain.WeekFirst)
	e.Classroom = "204"

	out := render.Lesson(e)

	assert.Contains(t, out, "*09:00 - 10:30*")
	assert.Contains(t, out, "*Algorithms*")
	assert.Contains(t, out, "Room: 204")
	assert.Contains(t, out, "First week")
	assert.NotContains(t, out, "👨‍🏫", "empty teacher must be omitted")
}

func TestLessonHidesBothWeeks(t *testing.T) {
	out := render.Lesson(entry("Physics", 8*60, 9*60, domain.WeekBoth))
	assert.NotContains(t, out, "Both weeks")
}

func TestDayEmpty(t *testing.T) {
	out := render.Day(domain.Monday, nil)
	assert.Contains(t, out, "*Monday*")
	assert.Contains(t, out, "No classes")
}

func TestDaySeparatesLessons(t *testing.T) {
	out := render.Day(domain.Tuesday, []*domain.ScheduleEntry{
		entry("A", 8*60, 9*60, domain.WeekBoth),
		entry("B", 9*60, 10*60, domain.WeekBoth),
	})
	assert.Contains(t, out, "───")
	assert.Less(t, strings.Index(out, "*A*"), strings.Index(out, "*B*"))
}

func TestWeek(t *testing.T) {
	week := map[domain.WeekDay][]*domain.ScheduleEntry{
		domain.Friday: {entry("Databases", 12*60, 13*60+30, domain.WeekSecond)},
		domain.Monday: {entry("Algorithms", 9*60, 10*60, domain.WeekBoth)},
	}

	out := render.Week(week, domain.WeekSecond)

	assert.Contains(t, out, "second week")
	assert.Less(t, strings.Index(out, "*Monday*"), strings.Index(out, "*Friday*"))
	assert.NotContains(t, out, "*Tuesday*")
}

func TestWeekEmpty(t *testing.T) {
	assert.Contains(t, render.Week(nil, domain.WeekFirst), "No classes this week")
}

func TestParseDayAndWeekType(t *testing.T) {
	d, ok := render.ParseDay("Monday")
	assert.True(t, ok)
	assert.Equal(t, domain.Monday, d)

	d, ok = render.ParseDay("MONDAY")
	assert.True(t, ok)
	assert.Equal(t, domain.Monday, d)

	_, ok = render.ParseDay("Someday")
	assert.False(t, ok)

	w, ok := render.ParseWeekType("Both weeks")
	assert.True(t, ok)
	assert.Equal(t, domain.WeekBoth, w)

	w, ok = render.ParseWeekType("first")
	assert.True(t, ok)
	assert.Equal(t, domain.WeekFirst, w)

	_, ok = render.ParseWeekType("Third week")
	assert.False(t, ok)
}
