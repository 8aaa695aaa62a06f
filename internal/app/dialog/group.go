package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/PabloGalante/timetable-bot/internal/app/render"
	"github.com/PabloGalante/timetable-bot/internal/domain"
	"github.com/PabloGalante/timetable-bot/internal/observability"
)

// groupSteps is the step sequence of every group action.
var groupSteps = map[Action][]GroupStep{
	ActionAdd:    {GroupStepName, GroupStepFaculty, GroupStepDescription},
	ActionEdit:   {GroupStepSelect, GroupStepName, GroupStepFaculty, GroupStepDescription},
	ActionDelete: {GroupStepSelect, GroupStepConfirmDelete},
}

const (
	msgGroupManagement = "Group management"
	msgBackToAdmin     = "Back to the admin menu"
	msgCancelled       = "Action cancelled"
	msgNoGroups        = "There are no groups yet."
)

// GroupController lets admins add, edit, delete and list groups.
type GroupController struct {
	groups domain.GroupStore
}

func NewGroupController(groups domain.GroupStore) *GroupController {
	return &GroupController{groups: groups}
}

func (c *GroupController) ID() DialogID {
	return DialogGroupManagement
}

func (c *GroupController) Enter(_ context.Context, _ domain.Inbound, sess *Session) (Result, error) {
	sess.Groups = &GroupFlow{Step: GroupStepMenu}
	return stay(c.menu(msgGroupManagement)), nil
}

func (c *GroupController) Handle(ctx context.Context, in domain.Inbound, sess *Session) (Result, error) {
	flow := sess.Groups
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

	switch flow.Step {
	case GroupStepMenu:
		return c.onMenu(ctx, sess, it)
	case GroupStepSelect:
		return c.onSelect(flow, it)
	case GroupStepName:
		return c.onName(ctx, sess, it)
	case GroupStepFaculty:
		return c.onOptional(flow, it, func(d *domain.GroupFields) *string { return &d.Faculty })
	case GroupStepDescription:
		if res, ok := c.parseOptional(flow, it, func(d *domain.GroupFields) *string { return &d.Description }); !ok {
			return res, nil
		}
		return c.persist(ctx, sess), nil
	case GroupStepConfirmDelete:
		return c.onConfirmDelete(ctx, sess, it), nil
	}

	return Result{}, unknownStep(c.ID(), flow.Step)
}

func (c *GroupController) menu(msg string) domain.Reply {
	return text(msg, render.GroupManagementMenu())
}

// reset drops the current action and shows the menu.
func (c *GroupController) reset(sess *Session, msg string, before ...domain.Reply) Result {
	sess.Groups = &GroupFlow{Step: GroupStepMenu}
	return stay(append(before, c.menu(msg))...)
}

func (c *GroupController) back(sess *Session) (Result, error) {
	flow := sess.Groups
	if flow.Step == GroupStepMenu {
		return exit(text(msgBackToAdmin, render.AdminMenu())), nil
	}

	seq := groupSteps[flow.Action()]
	i := indexOf(seq, flow.Step)
	switch {
	case i < 0:
		return Result{}, unknownStep(c.ID(), flow.Step)
	case i == 0:
		return c.reset(sess, msgGroupManagement), nil
	}
	return stay(c.enterStep(flow, seq[i-1])), nil
}

// advance moves to the step after the current one.
func (c *GroupController) advance(flow *GroupFlow) Result {
	seq := groupSteps[flow.Action()]
	i := indexOf(seq, flow.Step)
	return stay(c.enterStep(flow, seq[i+1]))
}

// enterStep moves the cursor to step and returns its prompt. Edit steps
// reload the draft field from the chosen group so "keep" and back behave the
// same way however the step was reached.
func (c *GroupController) enterStep(flow *GroupFlow, step GroupStep) domain.Reply {
	flow.Step = step
	edit := flow.Edit

	switch step {
	case GroupStepSelect:
		pick := flow.pick()
		pick.Target = nil
		verb := "edit"
		if flow.Delete != nil {
			verb = "delete"
		}
		return text(render.Numbered(
			fmt.Sprintf("Choose a group to %s (enter its number):", verb),
			groupNames(pick.Candidates),
		), render.Navigation())

	case GroupStepName:
		if edit == nil {
			return text("Enter the group name:", render.Navigation())
		}
		edit.Draft.Name = edit.Target.Name
		return text(fmt.Sprintf(
			"Current name: %s\nEnter a new name (or \"keep\" to leave it unchanged):",
			edit.Target.Name,
		), render.Navigation())

	case GroupStepFaculty:
		prefix := ""
		if edit != nil {
			edit.Draft.Faculty = edit.Target.Faculty
			prefix = fmt.Sprintf("Current faculty: %s\n", render.OrUnset(edit.Target.Faculty))
		}
		return text(prefix+"Enter the faculty (or \"none\" if not needed):", render.Navigation())

	case GroupStepDescription:
		prefix := ""
		if edit != nil {
			edit.Draft.Description = edit.Target.Description
			prefix = fmt.Sprintf("Current description: %s\n", render.OrUnset(edit.Target.Description))
		}
		return text(prefix+"Enter the group description (or \"none\" if not needed):", render.Navigation())

	case GroupStepConfirmDelete:
		return text(
			fmt.Sprintf("Are you sure you want to delete group \"%s\"?", flow.Delete.Target.Name),
			render.Confirmation(),
		)
	}

	return c.menu(msgGroupManagement)
}

func (c *GroupController) onMenu(ctx context.Context, sess *Session, it Intent) (Result, error) {
	switch it.Text {
	case render.CaptionAddGroup:
		flow := &GroupFlow{Add: &GroupAdd{}}
		sess.Groups = flow
		return stay(c.enterStep(flow, GroupStepName)), nil

	case render.CaptionEditGroup, render.CaptionDeleteGroup:
		groups, err := c.listGroups(ctx)
		if err != nil {
			observability.LoggerFromContext(ctx).Error("failed to list groups", "error", err)
			return c.reset(sess, msgGroupManagement, text(msgStoreFailure, nil)), nil
		}
		if len(groups) == 0 {
			return c.reset(sess, msgGroupManagement, text(msgNoGroups, nil)), nil
		}

		flow := &GroupFlow{}
		if it.Text == render.CaptionEditGroup {
			flow.Edit = &GroupEdit{GroupPick: GroupPick{Candidates: groups}}
		} else {
			flow.Delete = &GroupDelete{GroupPick: GroupPick{Candidates: groups}}
		}
		sess.Groups = flow
		return stay(c.enterStep(flow, GroupStepSelect)), nil

	case render.CaptionListGroups:
		groups, err := c.listGroups(ctx)
		if err != nil {
			observability.LoggerFromContext(ctx).Error("failed to list groups", "error", err)
			return c.reset(sess, msgGroupManagement, text(msgStoreFailure, nil)), nil
		}
		if len(groups) == 0 {
			return c.reset(sess, msgGroupManagement, text(msgNoGroups, nil)), nil
		}
		cards := make([]string, 0, len(groups))
		for i := range groups {
			cards = append(cards, render.Group(&groups[i]))
		}
		return c.reset(sess, msgGroupManagement, markdown(render.Numbered("Groups:", cards), nil)), nil
	}

	return stay(c.menu("Choose an action:")), nil
}

func (c *GroupController) onSelect(flow *GroupFlow, it Intent) (Result, error) {
	pick := flow.pick()
	if pick == nil {
		return Result{}, unknownStep(c.ID(), flow.Step)
	}

	i, ok := pickIndex(it.Text, len(pick.Candidates))
	if !ok {
		return stay(text("Invalid group number. Please enter a number from the list.", render.Navigation())), nil
	}

	target := pick.Candidates[i]
	pick.Target = &target
	return c.advance(flow), nil
}

func (c *GroupController) onName(ctx context.Context, sess *Session, it Intent) (Result, error) {
	flow := sess.Groups
	draft := flow.draft()
	if draft == nil {
		return Result{}, unknownStep(c.ID(), flow.Step)
	}

	if flow.Edit != nil && it.Kind == IntentKeep {
		return c.advance(flow), nil
	}
	if it.Text == "" {
		return stay(text("The group name cannot be empty.", render.Navigation())), nil
	}

	existing, err := c.groups.GetGroupByName(ctx, it.Text)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		observability.LoggerFromContext(ctx).Error("failed to check group name", "error", err)
		return c.reset(sess, msgGroupManagement, text(msgStoreFailure, nil)), nil
	case flow.Add != nil || existing.ID != flow.Edit.Target.ID:
		return stay(text("A group with this name already exists. Please enter another name.", render.Navigation())), nil
	}

	draft.Name = it.Text
	return c.advance(flow), nil
}

func (c *GroupController) onOptional(flow *GroupFlow, it Intent, field func(*domain.GroupFields) *string) (Result, error) {
	if res, ok := c.parseOptional(flow, it, field); !ok {
		return res, nil
	}
	return c.advance(flow), nil
}

// parseOptional stores an optional text field. "none" clears it and "keep"
// leaves the preloaded value when editing.
func (c *GroupController) parseOptional(flow *GroupFlow, it Intent, field func(*domain.GroupFields) *string) (Result, bool) {
	draft := flow.draft()
	switch {
	case it.Kind == IntentNone:
		*field(draft) = ""
	case it.Kind == IntentKeep && flow.Edit != nil:
	case it.Text == "":
		return stay(text("Please enter a value or \"none\".", render.Navigation())), false
	default:
		*field(draft) = it.Text
	}
	return Result{}, true
}

func (c *GroupController) persist(ctx context.Context, sess *Session) Result {
	flow := sess.Groups
	log := observability.LoggerFromContext(ctx)

	var (
		g   *domain.Group
		err error
		msg string
	)
	if flow.Edit != nil {
		g, err = c.groups.UpdateGroup(ctx, flow.Edit.Target.ID, flow.Edit.Draft)
		msg = "Group updated:"
	} else {
		g, err = c.groups.CreateGroup(ctx, flow.Add.Draft)
		msg = "Group created:"
	}
	if err != nil {
		log.Error("failed to save group", "action", flow.Action(), "error", err)
		return c.reset(sess, msgGroupManagement, text("Failed to save the group. Please try again later.", nil))
	}

	log.Info("group saved", "action", flow.Action(), "group_id", g.ID)
	return c.reset(sess, msgGroupManagement, markdown(msg+"\n\n"+render.Group(g), nil))
}

func (c *GroupController) onConfirmDelete(ctx context.Context, sess *Session, it Intent) Result {
	target := sess.Groups.Delete.Target
	log := observability.LoggerFromContext(ctx)

	switch it.Kind {
	case IntentYes:
		if err := c.groups.DeleteGroup(ctx, target.ID); err != nil {
			log.Error("failed to delete group", "group_id", target.ID, "error", err)
			return c.reset(sess, msgGroupManagement, text(
				"Failed to delete the group. It may still have users or classes attached.", nil))
		}
		log.Info("group deleted", "group_id", target.ID)
		return c.reset(sess, msgGroupManagement, text("Group deleted.", nil))
	case IntentNo:
		return c.reset(sess, msgGroupManagement, text("Deletion cancelled.", nil))
	}

	return stay(text("Please choose \"Yes\" or \"No\".", render.Confirmation()))
}

func (c *GroupController) listGroups(ctx context.Context) ([]domain.Group, error) {
	return snapshotGroups(ctx, c.groups)
}

// snapshotGroups copies the current groups into a candidate list.
func snapshotGroups(ctx context.Context, store domain.GroupStore) ([]domain.Group, error) {
	groups, err := store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Group, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	return out, nil
}

func groupNames(groups []domain.Group) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}
