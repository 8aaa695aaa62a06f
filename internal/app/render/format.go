package render

import (
	"fmt"
	"strings"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

const separator = "───────────────"

// Lesson renders one entry as a multi-line block.
func Lesson(e *domain.ScheduleEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🕒 *%s - %s*\n", e.Start, e.End)
	fmt.Fprintf(&b, "📚 *%s*\n", e.Subject)
	if e.Teacher != "" {
		fmt.Fprintf(&b, "👨‍🏫 %s\n", e.Teacher)
	}
	if e.Classroom != "" {
		fmt.Fprintf(&b, "🏢 Room: %s\n", e.Classroom)
	}
	if e.WeekType != domain.WeekBoth {
		fmt.Fprintf(&b, "🔄 %s\n", WeekTypeName(e.WeekType))
	}

	return b.String()
}

// LessonLine renders one entry on a single line, as used in selection lists.
func LessonLine(e *domain.ScheduleEntry) string {
	return fmt.Sprintf("%s (%s - %s)", e.Subject, e.Start, e.End)
}

// Day renders a day's entries. It never returns an empty string.
func Day(day domain.WeekDay, entries []*domain.ScheduleEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", DayName(day))

	if len(entries) == 0 {
		b.WriteString("No classes 🎉")
		return b.String()
	}

	for i, e := range entries {
		b.WriteString(Lesson(e))
		if i < len(entries)-1 {
			b.WriteString("\n" + separator + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Week renders the seven days in order, skipping empty ones.
func Week(week map[domain.WeekDay][]*domain.ScheduleEntry, parity domain.WeekType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Timetable for the %s*\n\n", strings.ToLower(WeekTypeName(parity)))

	hasLessons := false
	for _, day := range domain.WeekDays {
		entries := week[day]
		if len(entries) == 0 {
			continue
		}
		hasLessons = true

		fmt.Fprintf(&b, "*%s*\n", DayName(day))
		for _, e := range entries {
			fmt.Fprintf(&b, "🕒 %s-%s | %s", e.Start, e.End, e.Subject)
			if e.Classroom != "" {
				fmt.Fprintf(&b, " | Room %s", e.Classroom)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if !hasLessons {
		b.WriteString("No classes this week 🎉")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Group renders a group card.
func Group(g *domain.Group) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Group:* %s\n", g.Name)
	if g.Faculty != "" {
		fmt.Fprintf(&b, "*Faculty:* %s\n", g.Faculty)
	}
	if g.Description != "" {
		fmt.Fprintf(&b, "*Description:* %s\n", g.Description)
	}
	return b.String()
}

// Numbered renders a 1-based list, one item per line.
func Numbered(header string, items []string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for i, it := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, it)
	}
	return strings.TrimRight(b.String(), "\n")
}

// OrUnset shows a placeholder for empty optional values.
func OrUnset(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}
