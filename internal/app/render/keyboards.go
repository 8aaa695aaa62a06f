package render

import "github.com/PabloGalante/timetable-bot/internal/domain"

func rows(captions ...string) [][]string {
	out := make([][]string, 0, len(captions))
	for _, c := range captions {
		out = append(out, []string{c})
	}
	return out
}

func MainMenu() *domain.Keyboard {
	return &domain.Keyboard{Rows: rows(
		CaptionToday,
		CaptionTomorrow,
		CaptionWeek,
		CaptionChangeGroup,
		CaptionInfo,
	)}
}

func AdminMenu() *domain.Keyboard {
	return &domain.Keyboard{Rows: rows(
		CaptionManageGroups,
		CaptionManageSchedule,
		CaptionManageUsers,
		CaptionExitAdmin,
	)}
}

func GroupManagementMenu() *domain.Keyboard {
	return &domain.Keyboard{Rows: rows(
		CaptionAddGroup,
		CaptionEditGroup,
		CaptionDeleteGroup,
		CaptionListGroups,
		CaptionBackToAdmin,
	)}
}

func ScheduleManagementMenu() *domain.Keyboard {
	return &domain.Keyboard{Rows: rows(
		CaptionAddEntry,
		CaptionEditEntry,
		CaptionDeleteEntry,
		CaptionViewEntries,
		CaptionBackToAdmin,
	)}
}

// GroupNames lists one group per row, followed by the given control captions.
func GroupNames(groups []domain.Group, controls ...string) *domain.Keyboard {
	out := make([][]string, 0, len(groups)+len(controls))
	for _, g := range groups {
		out = append(out, []string{g.Name})
	}
	out = append(out, rows(controls...)...)
	return &domain.Keyboard{Rows: out}
}

func WeekDays() *domain.Keyboard {
	out := make([][]string, 0, len(domain.WeekDays)+1)
	for _, d := range domain.WeekDays {
		out = append(out, []string{DayName(d)})
	}
	out = append(out, []string{CaptionBack})
	return &domain.Keyboard{Rows: out}
}

func WeekTypes() *domain.Keyboard {
	out := make([][]string, 0, len(weekTypeOrder)+1)
	for _, w := range weekTypeOrder {
		out = append(out, []string{WeekTypeName(w)})
	}
	out = append(out, []string{CaptionBack})
	return &domain.Keyboard{Rows: out}
}

// Confirmation is the inline yes/no keyboard of delete steps.
func Confirmation() *domain.Keyboard {
	return &domain.Keyboard{Inline: [][]domain.InlineButton{{
		{Text: CaptionYes, Data: ActionConfirm},
		{Text: CaptionNo, Data: ActionCancel},
	}}}
}

// Navigation is shown on free-text steps.
func Navigation() *domain.Keyboard {
	return &domain.Keyboard{Rows: [][]string{{CaptionBack, CaptionCancel}}}
}

func CancelOnly() *domain.Keyboard {
	return &domain.Keyboard{Rows: rows(CaptionCancel)}
}
