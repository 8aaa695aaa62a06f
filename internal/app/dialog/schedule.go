package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/PabloGalante/timetable-bot/internal/app/render"
	"github.com/PabloGalante/timetable-bot/internal/app/timetable"
	"github.com/PabloGalante/timetable-bot/internal/domain"
	"github.com/PabloGalante/timetable-bot/internal/observability"
)

var scheduleSteps = map[Action][]ScheduleStep{
	ActionAdd: {
		ScheduleStepGroup, ScheduleStepDay, ScheduleStepWeekType,
		ScheduleStepSubject, ScheduleStepTeacher, ScheduleStepClassroom,
		ScheduleStepStart, ScheduleStepEnd,
	},
	ActionEdit: {
		ScheduleStepGroup, ScheduleStepDay, ScheduleStepWeekType, ScheduleStepEntry,
		ScheduleStepSubject, ScheduleStepTeacher, ScheduleStepClassroom,
		ScheduleStepStart, ScheduleStepEnd,
	},
	ActionDelete: {
		ScheduleStepGroup, ScheduleStepDay, ScheduleStepWeekType, ScheduleStepEntry,
		ScheduleStepConfirmDelete,
	},
	ActionView: {
		ScheduleStepGroup, ScheduleStepDay, ScheduleStepWeekType,
	},
}

const msgScheduleManagement = "Schedule management"

// ScheduleController lets admins add, edit, delete and view timetable entries.
type ScheduleController struct {
	groups    domain.GroupStore
	entries   domain.ScheduleStore
	timetable *timetable.Service
}

func NewScheduleController(groups domain.GroupStore, entries domain.ScheduleStore, tt *timetable.Service) *ScheduleController {
	return &ScheduleController{groups: groups, entries: entries, timetable: tt}
}

func (c *ScheduleController) ID() DialogID {
	return DialogScheduleManagement
}

func (c *ScheduleController) Enter(_ context.Context, _ domain.Inbound, sess *Session) (Result, error) {
	sess.Schedule = &ScheduleFlow{Step: ScheduleStepMenu}
	return stay(c.menu(msgScheduleManagement)), nil
}

func (c *ScheduleController) Handle(ctx context.Context, in domain.Inbound, sess *Session) (Result, error) {
	flow := sess.Schedule
	if flow == nil {
		return Result{}, unknownStep(c.ID(), "none")
	}

	it := Normalize(in)
	if it.Text == render.CaptionBackToAdmin {
		return exit(text(msgBackToAdmin, render.AdminMenu())), nil
	}

	switch it.Kind {
	case IntentCancel:
		return c.reset(sess, msgCancelled), nil
	case IntentBack:
		return c.back(sess)
	}

	if flow.Step != ScheduleStepMenu && flow.locator() == nil {
		return Result{}, unknownStep(c.ID(), flow.Step)
	}

	switch flow.Step {
	case ScheduleStepMenu:
		return c.onMenu(ctx, sess, it), nil
	case ScheduleStepGroup:
		return c.onGroup(flow, it), nil
	case ScheduleStepDay:
		return c.onDay(flow, it), nil
	case ScheduleStepWeekType:
		return c.onWeekType(ctx, sess, it), nil
	case ScheduleStepEntry:
		return c.onEntry(flow, it), nil
	case ScheduleStepSubject:
		return c.onSubject(flow, it), nil
	case ScheduleStepTeacher:
		return c.onOptional(flow, it, func(d *EntryDraft) *string { return &d.Teacher }), nil
	case ScheduleStepClassroom:
		return c.onOptional(flow, it, func(d *EntryDraft) *string { return &d.Classroom }), nil
	case ScheduleStepStart:
		if res, ok := c.parseClock(flow, it, func(d *EntryDraft) *domain.Clock { return &d.Start }); !ok {
			return res, nil
		}
		return c.advance(flow), nil
	case ScheduleStepEnd:
		if res, ok := c.parseClock(flow, it, func(d *EntryDraft) *domain.Clock { return &d.End }); !ok {
			return res, nil
		}
		return c.persist(ctx, sess), nil
	case ScheduleStepConfirmDelete:
		return c.onConfirmDelete(ctx, sess, it), nil
	}

	return Result{}, unknownStep(c.ID(), flow.Step)
}

func (c *ScheduleController) menu(msg string) domain.Reply {
	return text(msg, render.ScheduleManagementMenu())
}

func (c *ScheduleController) reset(sess *Session, msg string, before ...domain.Reply) Result {
	sess.Schedule = &ScheduleFlow{Step: ScheduleStepMenu}
	return stay(append(before, c.menu(msg))...)
}

func (c *ScheduleController) back(sess *Session) (Result, error) {
	flow := sess.Schedule
	if flow.Step == ScheduleStepMenu {
		return exit(text(msgBackToAdmin, render.AdminMenu())), nil
	}

	seq := scheduleSteps[flow.Action()]
	i := indexOf(seq, flow.Step)
	switch {
	case i < 0:
		return Result{}, unknownStep(c.ID(), flow.Step)
	case i == 0:
		return c.reset(sess, msgScheduleManagement), nil
	}
	return stay(c.enterStep(flow, seq[i-1])), nil
}

func (c *ScheduleController) advance(flow *ScheduleFlow) Result {
	seq := scheduleSteps[flow.Action()]
	i := indexOf(seq, flow.Step)
	return stay(c.enterStep(flow, seq[i+1]))
}

// enterStep moves the cursor to step and returns its prompt. Cached group
// and entry lists are re-shown as they were; edit steps reload the draft
// field from the chosen entry.
func (c *ScheduleController) enterStep(flow *ScheduleFlow, step ScheduleStep) domain.Reply {
	flow.Step = step
	loc := flow.locator()
	edit := flow.Edit

	switch step {
	case ScheduleStepGroup:
		loc.Group = nil
		return text("Choose a group:", render.GroupNames(loc.Groups, render.CaptionBack, render.CaptionCancel))

	case ScheduleStepDay:
		loc.Day = ""
		return text("Choose a day of the week:", render.WeekDays())

	case ScheduleStepWeekType:
		loc.WeekType = ""
		return text("Choose the week type:", render.WeekTypes())

	case ScheduleStepEntry:
		pick := flow.pick()
		pick.Target = nil
		lines := make([]string, 0, len(pick.Entries))
		for i := range pick.Entries {
			lines = append(lines, render.LessonLine(&pick.Entries[i]))
		}
		return text(render.Numbered("Choose a class (enter its number):", lines), render.Navigation())

	case ScheduleStepSubject:
		if edit == nil {
			return text("Enter the subject name:", render.Navigation())
		}
		edit.Draft.Subject = edit.Target.Subject
		return text(fmt.Sprintf(
			"Current subject: %s\nEnter a new subject (or \"keep\" to leave it unchanged):",
			edit.Target.Subject,
		), render.Navigation())

	case ScheduleStepTeacher:
		prefix := ""
		if edit != nil {
			edit.Draft.Teacher = edit.Target.Teacher
			prefix = fmt.Sprintf("Current teacher: %s\n", render.OrUnset(edit.Target.Teacher))
		}
		return text(prefix+"Enter the teacher's name (or \"none\" if not needed):", render.Navigation())

	case ScheduleStepClassroom:
		prefix := ""
		if edit != nil {
			edit.Draft.Classroom = edit.Target.Classroom
			prefix = fmt.Sprintf("Current classroom: %s\n", render.OrUnset(edit.Target.Classroom))
		}
		return text(prefix+"Enter the classroom (or \"none\" if not needed):", render.Navigation())

	case ScheduleStepStart:
		prefix := ""
		if edit != nil {
			edit.Draft.Start = edit.Target.Start
			prefix = fmt.Sprintf("Current start time: %s\n", edit.Target.Start)
		}
		return text(prefix+"Enter the start time (HH:MM):", render.Navigation())

	case ScheduleStepEnd:
		prefix := ""
		if edit != nil {
			edit.Draft.End = edit.Target.End
			prefix = fmt.Sprintf("Current end time: %s\n", edit.Target.End)
		}
		return text(prefix+"Enter the end time (HH:MM):", render.Navigation())

	case ScheduleStepConfirmDelete:
		return markdown(
			"Are you sure you want to delete this class?\n\n"+render.Lesson(flow.Delete.Target),
			render.Confirmation(),
		)
	}

	return c.menu(msgScheduleManagement)
}

func (c *ScheduleController) onMenu(ctx context.Context, sess *Session, it Intent) Result {
	flow := &ScheduleFlow{}
	switch it.Text {
	case render.CaptionAddEntry:
		flow.Add = &EntryAdd{}
	case render.CaptionEditEntry:
		flow.Edit = &EntryEdit{}
	case render.CaptionDeleteEntry:
		flow.Delete = &EntryDelete{}
	case render.CaptionViewEntries:
		flow.View = &EntryView{}
	default:
		return stay(c.menu("Choose an action:"))
	}

	groups, err := snapshotGroups(ctx, c.groups)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to list groups", "error", err)
		return c.reset(sess, msgScheduleManagement, text(msgStoreFailure, nil))
	}
	if len(groups) == 0 {
		return c.reset(sess, msgScheduleManagement, text("There are no groups yet. Add a group first.", nil))
	}

	flow.locator().Groups = groups
	sess.Schedule = flow
	return stay(c.enterStep(flow, ScheduleStepGroup))
}

func (c *ScheduleController) onGroup(flow *ScheduleFlow, it Intent) Result {
	loc := flow.locator()
	for i := range loc.Groups {
		if loc.Groups[i].Name == it.Text {
			g := loc.Groups[i]
			loc.Group = &g
			return c.advance(flow)
		}
	}
	return stay(text("Group not found. Please choose a group from the list.",
		render.GroupNames(loc.Groups, render.CaptionBack, render.CaptionCancel)))
}

func (c *ScheduleController) onDay(flow *ScheduleFlow, it Intent) Result {
	day, ok := render.ParseDay(it.Text)
	if !ok {
		return stay(text("Invalid day. Please choose one from the list.", render.WeekDays()))
	}
	flow.locator().Day = day
	return c.advance(flow)
}

func (c *ScheduleController) onWeekType(ctx context.Context, sess *Session, it Intent) Result {
	flow := sess.Schedule
	wt, ok := render.ParseWeekType(it.Text)
	if !ok {
		return stay(text("Invalid week type. Please choose one from the list.", render.WeekTypes()))
	}

	loc := flow.locator()
	if flow.Add != nil {
		loc.WeekType = wt
		return c.advance(flow)
	}

	entries, err := c.timetable.EntriesFor(ctx, loc.Group.ID, loc.Day, &wt)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to list entries", "group_id", loc.Group.ID, "error", err)
		return c.reset(sess, msgScheduleManagement, text(msgStoreFailure, nil))
	}

	where := fmt.Sprintf("%s on %s (%s)", loc.Group.Name, render.DayName(loc.Day), strings.ToLower(render.WeekTypeName(wt)))
	if len(entries) == 0 {
		return c.reset(sess, msgScheduleManagement, text("No classes found for "+where+".", nil))
	}

	if flow.View != nil {
		blocks := make([]string, 0, len(entries))
		for _, e := range entries {
			blocks = append(blocks, render.Lesson(e))
		}
		return c.reset(sess, msgScheduleManagement, markdown(render.Numbered("Timetable for "+where+":", blocks), nil))
	}

	loc.WeekType = wt
	pick := flow.pick()
	pick.Entries = make([]domain.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		pick.Entries = append(pick.Entries, *e)
	}
	return c.advance(flow)
}

func (c *ScheduleController) onEntry(flow *ScheduleFlow, it Intent) Result {
	pick := flow.pick()
	i, ok := pickIndex(it.Text, len(pick.Entries))
	if !ok {
		return stay(text("Invalid class number. Please enter a number from the list.", render.Navigation()))
	}
	target := pick.Entries[i]
	pick.Target = &target
	return c.advance(flow)
}

func (c *ScheduleController) onSubject(flow *ScheduleFlow, it Intent) Result {
	draft := flow.draft()
	switch {
	case it.Kind == IntentKeep && flow.Edit != nil:
	case it.Text == "":
		return stay(text("The subject cannot be empty.", render.Navigation()))
	default:
		draft.Subject = it.Text
	}
	return c.advance(flow)
}

func (c *ScheduleController) onOptional(flow *ScheduleFlow, it Intent, field func(*EntryDraft) *string) Result {
	draft := flow.draft()
	switch {
	case it.Kind == IntentNone:
		*field(draft) = ""
	case it.Kind == IntentKeep && flow.Edit != nil:
	case it.Text == "":
		return stay(text("Please enter a value or \"none\".", render.Navigation()))
	default:
		*field(draft) = it.Text
	}
	return c.advance(flow)
}

// parseClock stores a time field, or returns the re-prompt when it is invalid.
func (c *ScheduleController) parseClock(flow *ScheduleFlow, it Intent, field func(*EntryDraft) *domain.Clock) (Result, bool) {
	if it.Kind == IntentKeep && flow.Edit != nil {
		return Result{}, true
	}
	v, err := domain.ParseClock(it.Text)
	if err != nil {
		return stay(text("Invalid time format. Please use HH:MM, for example 09:30.", render.Navigation())), false
	}
	*field(flow.draft()) = v
	return Result{}, true
}

func (c *ScheduleController) persist(ctx context.Context, sess *Session) Result {
	flow := sess.Schedule
	log := observability.LoggerFromContext(ctx)

	var (
		e   *domain.ScheduleEntry
		err error
		msg string
	)
	if flow.Edit != nil {
		f := flow.Edit.Target.Fields()
		flow.Edit.Draft.apply(&f)
		e, err = c.entries.UpdateEntry(ctx, flow.Edit.Target.ID, f)
		msg = "Class updated:"
	} else {
		add := flow.Add
		f := domain.EntryFields{
			GroupID:  add.Group.ID,
			Day:      add.Day,
			WeekType: add.WeekType,
		}
		add.Draft.apply(&f)
		e, err = c.entries.CreateEntry(ctx, f)
		msg = "Class added:"
	}
	if err != nil {
		log.Error("failed to save entry", "action", flow.Action(), "error", err)
		return c.reset(sess, msgScheduleManagement, text("Failed to save the class. Please try again later.", nil))
	}

	log.Info("entry saved", "action", flow.Action(), "entry_id", e.ID)
	return c.reset(sess, msgScheduleManagement, markdown(msg+"\n\n"+render.Lesson(e), nil))
}

func (c *ScheduleController) onConfirmDelete(ctx context.Context, sess *Session, it Intent) Result {
	target := sess.Schedule.Delete.Target
	log := observability.LoggerFromContext(ctx)

	switch it.Kind {
	case IntentYes:
		if err := c.entries.DeleteEntry(ctx, target.ID); err != nil {
			log.Error("failed to delete entry", "entry_id", target.ID, "error", err)
			return c.reset(sess, msgScheduleManagement, text("Failed to delete the class. Please try again later.", nil))
		}
		log.Info("entry deleted", "entry_id", target.ID)
		return c.reset(sess, msgScheduleManagement, text("Class deleted.", nil))
	case IntentNo:
		return c.reset(sess, msgScheduleManagement, text("Deletion cancelled.", nil))
	}

	return stay(text("Please choose \"Yes\" or \"No\".", render.Confirmation()))
}

// apply copies the entered fields onto f.
func (d EntryDraft) apply(f *domain.EntryFields) {
	f.Subject = d.Subject
	f.Teacher = d.Teacher
	f.Classroom = d.Classroom
	f.Start = d.Start
	f.End = d.End
}
