// Package render holds the user-facing captions, keyboards and message
// formatting. Markdown emphasis is emitted as-is; escaping is the transport's job.
package render

import (
	"strings"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

// Main menu.
const (
	CaptionToday       = "📅 Today"
	CaptionTomorrow    = "📆 Tomorrow"
	CaptionWeek        = "📚 Week"
	CaptionChangeGroup = "👥 Change group"
	CaptionInfo        = "ℹ️ Info"
)

// Admin menu.
const (
	CaptionManageGroups   = "👥 Manage groups"
	CaptionManageSchedule = "📚 Manage schedule"
	CaptionManageUsers    = "👤 Manage users"
	CaptionExitAdmin      = "🔙 Exit admin"
)

// Group and schedule management menus.
const (
	CaptionAddGroup    = "➕ Add group"
	CaptionEditGroup   = "✏️ Edit group"
	CaptionDeleteGroup = "❌ Delete group"
	CaptionListGroups  = "📋 List groups"

	CaptionAddEntry    = "➕ Add class"
	CaptionEditEntry   = "✏️ Edit class"
	CaptionDeleteEntry = "❌ Delete class"
	CaptionViewEntries = "📋 View schedule"

	CaptionBackToAdmin = "🔙 Back to admin"
)

// Control captions and tokens understood at every dialog step.
const (
	CaptionBack   = "🔙 Back"
	CaptionCancel = "🔙 Cancel"
	CaptionYes    = "✅ Yes"
	CaptionNo     = "❌ No"

	TokenBack   = "back"
	TokenCancel = "cancel"
	TokenYes    = "yes"
	TokenNo     = "no"
	TokenKeep   = "keep"
	TokenNone   = "none"
)

// Inline callback data for the confirmation keyboard.
const (
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
)

var dayNames = map[domain.WeekDay]string{
	domain.Monday:    "Monday",
	domain.Tuesday:   "Tuesday",
	domain.Wednesday: "Wednesday",
	domain.Thursday:  "Thursday",
	domain.Friday:    "Friday",
	domain.Saturday:  "Saturday",
	domain.Sunday:    "Sunday",
}

var weekTypeNames = map[domain.WeekType]string{
	domain.WeekFirst:  "First week",
	domain.WeekSecond: "Second week",
	domain.WeekBoth:   "Both weeks",
}

// weekTypeOrder is the order week types are offered in.
var weekTypeOrder = []domain.WeekType{domain.WeekFirst, domain.WeekSecond, domain.WeekBoth}

func DayName(d domain.WeekDay) string {
	return dayNames[d]
}

func WeekTypeName(w domain.WeekType) string {
	return weekTypeNames[w]
}

// ParseDay accepts a day caption ("Monday") or its label ("MONDAY"), ignoring case.
func ParseDay(s string) (domain.WeekDay, bool) {
	for _, d := range domain.WeekDays {
		if strings.EqualFold(s, dayNames[d]) || strings.EqualFold(s, string(d)) {
			return d, true
		}
	}
	return "", false
}

// ParseWeekType accepts a week type caption ("First week") or its label ("FIRST").
func ParseWeekType(s string) (domain.WeekType, bool) {
	for _, w := range weekTypeOrder {
		if strings.EqualFold(s, weekTypeNames[w]) || strings.EqualFold(s, string(w)) {
			return w, true
		}
	}
	return "", false
}
