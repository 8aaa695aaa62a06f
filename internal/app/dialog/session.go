package dialog

import (
	"context"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

// DialogID names a dialog controller.
type DialogID string

const (
	DialogGroupSelection     DialogID = "group_selection"
	DialogAdminLogin         DialogID = "admin_login"
	DialogGroupManagement    DialogID = "group_management"
	DialogScheduleManagement DialogID = "schedule_management"
)

// Key addresses one session.
type Key struct {
	ChatID domain.ChatID
	Dialog DialogID
}

// Session is the scratch state of one user inside one dialog. Exactly one of
// the flow pointers is set, matching Dialog.
type Session struct {
	ChatID domain.ChatID `json:"chat_id"`
	Dialog DialogID      `json:"dialog"`

	Selection *SelectionFlow `json:"selection,omitempty"`
	Login     *LoginFlow     `json:"login,omitempty"`
	Groups    *GroupFlow     `json:"groups,omitempty"`
	Schedule  *ScheduleFlow  `json:"schedule,omitempty"`
}

// NewSession returns an empty session for key.
func NewSession(key Key) *Session {
	return &Session{ChatID: key.ChatID, Dialog: key.Dialog}
}

func (s *Session) Key() Key {
	return Key{ChatID: s.ChatID, Dialog: s.Dialog}
}

// SessionStore keeps dialog sessions and remembers which dialog, if any, is
// active for each chat. Load returns an error wrapping domain.ErrNotFound
// when there is no session.
type SessionStore interface {
	Load(ctx context.Context, key Key) (*Session, error)
	// Save stores s and marks its dialog as the active one for s.ChatID.
	Save(ctx context.Context, s *Session) error
	// Clear drops the session and, if it was the active dialog, the active marker.
	Clear(ctx context.Context, key Key) error
	// Active returns the active dialog, or "" when none.
	Active(ctx context.Context, chatID domain.ChatID) (DialogID, error)
}

// Action is the task picked from a management menu.
type Action string

const (
	ActionNone   Action = ""
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionView   Action = "view"
)

// ─────────────────────────────────────────────
// Group selection (users)
// ─────────────────────────────────────────────

type SelectionFlow struct {
	Groups []domain.Group `json:"groups"`
}

// ─────────────────────────────────────────────
// Admin login
// ─────────────────────────────────────────────

type LoginStep int

const (
	LoginStepUsername LoginStep = iota
	LoginStepPassword
)

// LoginFlow never holds the password.
type LoginFlow struct {
	Step     LoginStep `json:"step"`
	Username string    `json:"username,omitempty"`
}

// ─────────────────────────────────────────────
// Group management
// ─────────────────────────────────────────────

type GroupStep int

const (
	GroupStepMenu GroupStep = iota
	GroupStepSelect
	GroupStepName
	GroupStepFaculty
	GroupStepDescription
	GroupStepConfirmDelete
)

// GroupFlow is a tagged variant: at most one of Add, Edit, Delete is set and
// none is set at the menu.
type GroupFlow struct {
	Step   GroupStep    `json:"step"`
	Add    *GroupAdd    `json:"add,omitempty"`
	Edit   *GroupEdit   `json:"edit,omitempty"`
	Delete *GroupDelete `json:"delete,omitempty"`
}

type GroupAdd struct {
	Draft domain.GroupFields `json:"draft"`
}

type GroupEdit struct {
	GroupPick
	Draft domain.GroupFields `json:"draft"`
}

type GroupDelete struct {
	GroupPick
}

// GroupPick is a snapshotted candidate list and the chosen group.
type GroupPick struct {
	Candidates []domain.Group `json:"candidates"`
	Target     *domain.Group  `json:"target,omitempty"`
}

func (f *GroupFlow) Action() Action {
	switch {
	case f.Add != nil:
		return ActionAdd
	case f.Edit != nil:
		return ActionEdit
	case f.Delete != nil:
		return ActionDelete
	}
	return ActionNone
}

func (f *GroupFlow) pick() *GroupPick {
	switch {
	case f.Edit != nil:
		return &f.Edit.GroupPick
	case f.Delete != nil:
		return &f.Delete.GroupPick
	}
	return nil
}

func (f *GroupFlow) draft() *domain.GroupFields {
	switch {
	case f.Add != nil:
		return &f.Add.Draft
	case f.Edit != nil:
		return &f.Edit.Draft
	}
	return nil
}

// ─────────────────────────────────────────────
// Schedule management
// ─────────────────────────────────────────────

type ScheduleStep int

const (
	ScheduleStepMenu ScheduleStep = iota
	ScheduleStepGroup
	ScheduleStepDay
	ScheduleStepWeekType
	ScheduleStepEntry
	ScheduleStepSubject
	ScheduleStepTeacher
	ScheduleStepClassroom
	ScheduleStepStart
	ScheduleStepEnd
	ScheduleStepConfirmDelete
)

// ScheduleFlow is a tagged variant: at most one of Add, Edit, Delete, View is
// set and none is set at the menu.
type ScheduleFlow struct {
	Step   ScheduleStep `json:"step"`
	Add    *EntryAdd    `json:"add,omitempty"`
	Edit   *EntryEdit   `json:"edit,omitempty"`
	Delete *EntryDelete `json:"delete,omitempty"`
	View   *EntryView   `json:"view,omitempty"`
}

// Locator is the group/day/week-type prefix every schedule action walks through.
type Locator struct {
	Groups   []domain.Group  `json:"groups"`
	Group    *domain.Group   `json:"group,omitempty"`
	Day      domain.WeekDay  `json:"day,omitempty"`
	WeekType domain.WeekType `json:"week_type,omitempty"`
}

// EntryPick is a snapshotted list of entries and the chosen one.
type EntryPick struct {
	Entries []domain.ScheduleEntry `json:"entries"`
	Target  *domain.ScheduleEntry  `json:"target,omitempty"`
}

type EntryDraft struct {
	Subject   string       `json:"subject,omitempty"`
	Teacher   string       `json:"teacher,omitempty"`
	Classroom string       `json:"classroom,omitempty"`
	Start     domain.Clock `json:"start"`
	End       domain.Clock `json:"end"`
}

type EntryAdd struct {
	Locator
	Draft EntryDraft `json:"draft"`
}

type EntryEdit struct {
	Locator
	EntryPick
	Draft EntryDraft `json:"draft"`
}

type EntryDelete struct {
	Locator
	EntryPick
}

type EntryView struct {
	Locator
}

func (f *ScheduleFlow) Action() Action {
	switch {
	case f.Add != nil:
		return ActionAdd
	case f.Edit != nil:
		return ActionEdit
	case f.Delete != nil:
		return ActionDelete
	case f.View != nil:
		return ActionView
	}
	return ActionNone
}

func (f *ScheduleFlow) locator() *Locator {
	switch {
	case f.Add != nil:
		return &f.Add.Locator
	case f.Edit != nil:
		return &f.Edit.Locator
	case f.Delete != nil:
		return &f.Delete.Locator
	case f.View != nil:
		return &f.View.Locator
	}
	return nil
}

func (f *ScheduleFlow) pick() *EntryPick {
	switch {
	case f.Edit != nil:
		return &f.Edit.EntryPick
	case f.Delete != nil:
		return &f.Delete.EntryPick
	}
	return nil
}

func (f *ScheduleFlow) draft() *EntryDraft {
	switch {
	case f.Add != nil:
		return &f.Add.Draft
	case f.Edit != nil:
		return &f.Edit.Draft
	}
	return nil
}
