package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/PabloGalante/timetable-bot/internal/app/render"
	"github.com/PabloGalante/timetable-bot/internal/domain"
	"github.com/PabloGalante/timetable-bot/internal/observability"
)

// SelectionController lets a user pick the group whose timetable they read.
type SelectionController struct {
	groups domain.GroupStore
	users  domain.UserStore
}

func NewSelectionController(groups domain.GroupStore, users domain.UserStore) *SelectionController {
	return &SelectionController{groups: groups, users: users}
}

func (c *SelectionController) ID() DialogID {
	return DialogGroupSelection
}

func (c *SelectionController) Enter(ctx context.Context, _ domain.Inbound, sess *Session) (Result, error) {
	groups, err := snapshotGroups(ctx, c.groups)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to list groups", "error", err)
		return exit(text(msgStoreFailure, render.MainMenu())), nil
	}
	if len(groups) == 0 {
		return exit(text("No groups are available yet. Please ask an administrator to add one.", render.MainMenu())), nil
	}

	sess.Selection = &SelectionFlow{Groups: groups}
	return stay(text("Choose your group:", render.GroupNames(groups, render.CaptionCancel))), nil
}

func (c *SelectionController) Handle(ctx context.Context, in domain.Inbound, sess *Session) (Result, error) {
	flow := sess.Selection
	if flow == nil {
		return Result{}, unknownStep(c.ID(), "none")
	}

	it := Normalize(in)
	if it.Kind == IntentCancel || it.Kind == IntentBack {
		return exit(text("Group selection cancelled.", render.MainMenu())), nil
	}

	var group *domain.Group
	for i := range flow.Groups {
		if flow.Groups[i].Name == it.Text {
			group = &flow.Groups[i]
			break
		}
	}
	if group == nil {
		return stay(text("Group not found. Please choose a group from the list.",
			render.GroupNames(flow.Groups, render.CaptionCancel))), nil
	}

	if err := c.assign(ctx, in.Profile, group.ID); err != nil {
		observability.LoggerFromContext(ctx).Error("failed to assign group", "group_id", group.ID, "error", err)
		return exit(text("Failed to save your group. Please try again later.", render.MainMenu())), nil
	}

	return exit(markdown(fmt.Sprintf("You selected group *%s*.", group.Name), render.MainMenu())), nil
}

// assign creates the user on first sight or moves them to groupID.
func (c *SelectionController) assign(ctx context.Context, p domain.Profile, groupID domain.GroupID) error {
	user, err := c.users.GetUserByChatID(ctx, p.ChatID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		_, err = c.users.CreateUser(ctx, domain.UserFields{
			ChatID:    p.ChatID,
			Username:  p.Username,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			GroupID:   &groupID,
		})
		return err
	case err != nil:
		return err
	}

	f := user.Fields()
	f.GroupID = &groupID
	_, err = c.users.UpdateUser(ctx, user.ID, f)
	return err
}
