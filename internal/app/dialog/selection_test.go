package dialog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/timetable-bot/internal/app/dialog"
	"github.com/PabloGalante/timetable-bot/internal/app/render"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func TestSelectionCreatesUser(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.group("A")
	b := h.group("B")

	replies := h.start(dialog.DialogGroupSelection)
	assert.Equal(t, "Choose your group:", last(replies).Text)

	replies = h.say("Z")
	assert.Contains(t, last(replies).Text, "Group not found")
	assert.Equal(t, dialog.DialogGroupSelection, h.active())

	replies = h.say("B")
	assert.Contains(t, last(replies).Text, "*B*")
	assert.Equal(t, render.MainMenu(), last(replies).Keyboard)
	assert.Equal(t, dialog.DialogID(""), h.active())

	u, err := h.store.GetUserByChatID(h.ctx, testChat)
	require.NoError(t, err)
	require.NotNil(t, u.GroupID)
	assert.Equal(t, b.ID, *u.GroupID)
}

func TestSelectionReassignsExistingUser(t *testing.T) {
	h := newHarness(t, nil, nil)
	a := h.group("A")
	b := h.group("B")
	_, err := h.store.CreateUser(h.ctx, domain.UserFields{ChatID: testChat, IsAdmin: true, GroupID: &a.ID})
	require.NoError(t, err)

	h.start(dialog.DialogGroupSelection)
	h.say("B")

	u, err := h.store.GetUserByChatID(h.ctx, testChat)
	require.NoError(t, err)
	assert.Equal(t, b.ID, *u.GroupID)
	assert.True(t, u.IsAdmin)
}

func TestSelectionWithoutGroupsExits(t *testing.T) {
	h := newHarness(t, nil, nil)

	replies := h.start(dialog.DialogGroupSelection)
	assert.Contains(t, last(replies).Text, "No groups")
	assert.Equal(t, dialog.DialogID(""), h.active())
}

func TestSelectionCancel(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.group("A")

	h.start(dialog.DialogGroupSelection)
	replies := h.say("cancel")
	assert.Equal(t, render.MainMenu(), last(replies).Keyboard)
	assert.Equal(t, dialog.DialogID(""), h.active())

	_, err := h.store.GetUserByChatID(h.ctx, testChat)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
