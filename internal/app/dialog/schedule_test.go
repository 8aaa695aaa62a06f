package dialog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/timetable-bot/internal/app/dialog"
	"github.com/PabloGalante/timetable-bot/internal/app/render"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func parity(w domain.WeekType) *domain.WeekType { return &w }

func TestScheduleAddEntry(t *testing.T) {
	h := newHarness(t, nil, nil)
	g := h.group("CS-101")

	h.start(dialog.DialogScheduleManagement)
	replies := h.say(render.CaptionAddEntry)
	assert.Equal(t, render.GroupNames([]domain.Group{*g}, render.CaptionBack, render.CaptionCancel), last(replies).Keyboard)

	h.say("CS-101")
	h.say("Monday")
	h.say(render.WeekTypeName(domain.WeekFirst))
	h.say("Algorithms")
	h.say("none")
	h.say("204")
	h.say("09:00")
	replies = h.say("10:30")
	assert.Contains(t, joined(replies), "Class added")
	assert.Equal(t, render.ScheduleManagementMenu(), last(replies).Keyboard)

	all, err := h.store.ListEntries(h.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	e := all[0]
	assert.Equal(t, g.ID, e.GroupID)
	assert.Equal(t, domain.Monday, e.Day)
	assert.Equal(t, domain.WeekFirst, e.WeekType)
	assert.Equal(t, "Algorithms", e.Subject)
	assert.Empty(t, e.Teacher)
	assert.Equal(t, "204", e.Classroom)
	assert.Equal(t, "09:00", e.Start.String())
	assert.Equal(t, "10:30", e.End.String())

	first, err := h.tt.EntriesFor(h.ctx, g.ID, domain.Monday, parity(domain.WeekFirst))
	require.NoError(t, err)
	assert.Len(t, first, 1)

	unfiltered, err := h.tt.EntriesFor(h.ctx, g.ID, domain.Monday, nil)
	require.NoError(t, err)
	assert.Len(t, unfiltered, 1)

	second, err := h.tt.EntriesFor(h.ctx, g.ID, domain.Monday, parity(domain.WeekSecond))
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestScheduleEditWithKeep(t *testing.T) {
	h := newHarness(t, nil, nil)
	g := h.group("CS-101")
	e := h.entry(domain.EntryFields{
		GroupID: g.ID, Day: domain.Tuesday, WeekType: domain.WeekBoth,
		Subject: "Algo", Teacher: "Smith", Classroom: "101",
		Start: clock("09:00"), End: clock("10:30"),
	})

	h.start(dialog.DialogScheduleManagement)
	h.say(render.CaptionEditEntry)
	h.say("CS-101")
	h.say("TUESDAY")
	replies := h.say("first week")
	assert.Contains(t, last(replies).Text, "1. Algo (09:00 - 10:30)")

	replies = h.say("1")
	assert.Contains(t, last(replies).Text, "Current subject: Algo")

	h.say("Algorithms II")
	h.say("keep")
	h.say("keep")
	h.say("keep")
	replies = h.say("keep")
	assert.Contains(t, joined(replies), "Class updated")

	got, err := h.store.GetEntry(h.ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algorithms II", got.Subject)
	assert.Equal(t, "Smith", got.Teacher)
	assert.Equal(t, "101", got.Classroom)
	assert.Equal(t, e.Start, got.Start)
	assert.Equal(t, e.End, got.End)
	assert.Equal(t, domain.WeekBoth, got.WeekType)
	assert.Equal(t, domain.Tuesday, got.Day)
}

func TestScheduleInvalidInputsKeepCursor(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.group("CS-101")

	h.start(dialog.DialogScheduleManagement)
	h.say(render.CaptionAddEntry)

	replies := h.say("CS-999")
	assert.Contains(t, last(replies).Text, "Group not found")
	assert.Equal(t, dialog.ScheduleStepGroup, h.session(dialog.DialogScheduleManagement).Schedule.Step)

	h.say("CS-101")
	replies = h.say("Funday")
	assert.Contains(t, last(replies).Text, "Invalid day")
	assert.Equal(t, dialog.ScheduleStepDay, h.session(dialog.DialogScheduleManagement).Schedule.Step)

	h.say("Friday")
	replies = h.say("Third week")
	assert.Contains(t, last(replies).Text, "Invalid week type")
	assert.Equal(t, dialog.ScheduleStepWeekType, h.session(dialog.DialogScheduleManagement).Schedule.Step)

	h.say("Both weeks")
	replies = h.say("")
	assert.Contains(t, last(replies).Text, "cannot be empty")
	assert.Equal(t, dialog.ScheduleStepSubject, h.session(dialog.DialogScheduleManagement).Schedule.Step)

	h.say("Physics")
	h.say("Dr. Who")
	h.say("none")
	for _, bad := range []string{"24:00", "9.30", "12:60", "noon"} {
		replies = h.say(bad)
		assert.Contains(t, last(replies).Text, "Invalid time format", "input %q", bad)
		assert.Equal(t, dialog.ScheduleStepStart, h.session(dialog.DialogScheduleManagement).Schedule.Step, "input %q", bad)
	}

	h.say("9:05")
	h.say("08:00")

	all, err := h.store.ListEntries(h.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "09:05", all[0].Start.String())
	// end before start is accepted
	assert.Equal(t, "08:00", all[0].End.String())
}

func TestScheduleEntryIndexValidation(t *testing.T) {
	h := newHarness(t, nil, nil)
	g := h.group("CS-101")
	h.entry(domain.EntryFields{
		GroupID: g.ID, Day: domain.Monday, WeekType: domain.WeekBoth,
		Subject: "Algo", Start: clock("09:00"), End: clock("10:30"),
	})
	h.entry(domain.EntryFields{
		GroupID: g.ID, Day: domain.Monday, WeekType: domain.WeekBoth,
		Subject: "Physics", Start: clock("11:00"), End: clock("12:30"),
	})

	h.start(dialog.DialogScheduleManagement)
	h.say(render.CaptionEditEntry)
	h.say("CS-101")
	h.say("Monday")
	h.say("Both weeks")

	for _, in := range []string{"0", "-1", "3", "two", "1.5", ""} {
		replies := h.say(in)
		assert.Contains(t, last(replies).Text, "Invalid class number", "input %q", in)
		sess := h.session(dialog.DialogScheduleManagement)
		assert.Equal(t, dialog.ScheduleStepEntry, sess.Schedule.Step, "input %q", in)
		require.NotNil(t, sess.Schedule.Edit, "input %q", in)
		assert.Nil(t, sess.Schedule.Edit.Target, "input %q", in)
	}

	replies := h.say("2")
	assert.Contains(t, last(replies).Text, "Current subject: Physics")
	sess := h.session(dialog.DialogScheduleManagement)
	require.NotNil(t, sess.Schedule.Edit.Target)
	assert.Equal(t, "Physics", sess.Schedule.Edit.Target.Subject)
}

func TestScheduleBackIsSymmetric(t *testing.T) {
	h := newHarness(t, nil, nil)
	g := h.group("CS-101")
	h.entry(domain.EntryFields{
		GroupID: g.ID, Day: domain.Monday, WeekType: domain.WeekFirst,
		Subject: "Algebra", Start: clock("08:00"), End: clock("09:00"),
	})
	h.entry(domain.EntryFields{
		GroupID: g.ID, Day: domain.Monday, WeekType: domain.WeekFirst,
		Subject: "Biology", Start: clock("10:00"), End: clock("11:00"),
	})

	h.start(dialog.DialogScheduleManagement)
	groupPrompt := last(h.say(render.CaptionEditEntry))
	dayPrompt := last(h.say("CS-101"))
	weekPrompt := last(h.say("Monday"))
	entryPrompt := last(h.say("First week"))
	subjectPrompt := last(h.say("2"))

	// the entry list is re-shown from the snapshot even if the store changes
	h.entry(domain.EntryFields{
		GroupID: g.ID, Day: domain.Monday, WeekType: domain.WeekFirst,
		Subject: "Chemistry", Start: clock("07:00"), End: clock("07:45"),
	})

	assert.Equal(t, entryPrompt, last(h.say("back")))
	assert.Equal(t, weekPrompt, last(h.say("back")))
	assert.Equal(t, dayPrompt, last(h.say("back")))
	assert.Equal(t, groupPrompt, last(h.say("back")))

	replies := h.say("back")
	assert.Equal(t, render.ScheduleManagementMenu(), last(replies).Keyboard)
	assert.Equal(t, dialog.ScheduleStepMenu, h.session(dialog.DialogScheduleManagement).Schedule.Step)

	assert.Contains(t, subjectPrompt.Text, "Current subject: Biology")
}

func TestScheduleDeleteByAction(t *testing.T) {
	h := newHarness(t, nil, nil)
	g := h.group("CS-101")
	e := h.entry(domain.EntryFields{
		GroupID: g.ID, Day: domain.Wednesday, WeekType: domain.WeekSecond,
		Subject: "History", Start: clock("12:00"), End: clock("13:00"),
	})

	h.start(dialog.DialogScheduleManagement)
	h.say(render.CaptionDeleteEntry)
	h.say("CS-101")
	h.say("Wednesday")
	h.say("Second week")
	replies := h.say("1")
	assert.Equal(t, render.Confirmation(), last(replies).Keyboard)
	assert.Contains(t, last(replies).Text, "History")

	replies = h.press(render.ActionConfirm)
	assert.Contains(t, joined(replies), "Class deleted")

	_, err := h.store.GetEntry(h.ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduleViewBothWeeksOnlyListsBothTagged(t *testing.T) {
	h := newHarness(t, nil, nil)
	g := h.group("CS-101")
	h.entry(domain.EntryFields{
		GroupID: g.ID, Day: domain.Friday, WeekType: domain.WeekFirst,
		Subject: "OnlyFirst", Start: clock("08:00"), End: clock("09:00"),
	})
	h.entry(domain.EntryFields{
		GroupID: g.ID, Day: domain.Friday, WeekType: domain.WeekBoth,
		Subject: "Every week", Start: clock("10:00"), End: clock("11:00"),
	})

	h.start(dialog.DialogScheduleManagement)
	h.say(render.CaptionViewEntries)
	h.say("CS-101")
	h.say("Friday")
	replies := h.say("Both weeks")

	out := joined(replies)
	assert.Contains(t, out, "Every week")
	assert.NotContains(t, out, "OnlyFirst")
	assert.Equal(t, render.ScheduleManagementMenu(), last(replies).Keyboard)
}

func TestScheduleNoEntriesReturnsToMenu(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.group("CS-101")

	h.start(dialog.DialogScheduleManagement)
	h.say(render.CaptionDeleteEntry)
	h.say("CS-101")
	h.say("Sunday")
	replies := h.say("First week")

	assert.Contains(t, joined(replies), "No classes found")
	assert.Equal(t, dialog.ScheduleStepMenu, h.session(dialog.DialogScheduleManagement).Schedule.Step)
}

func TestScheduleWithoutGroups(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.start(dialog.DialogScheduleManagement)

	replies := h.say(render.CaptionAddEntry)
	assert.Contains(t, joined(replies), "no groups")
	assert.Equal(t, dialog.ScheduleStepMenu, h.session(dialog.DialogScheduleManagement).Schedule.Step)
}
