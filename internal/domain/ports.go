package domain

import "context"

// GroupStore defines group persistence.
// DeleteGroup fails with ErrGroupInUse while entries or users reference the group.
type GroupStore interface {
	ListGroups(ctx context.Context) ([]*Group, error)
	GetGroup(ctx context.Context, id GroupID) (*Group, error)
	GetGroupByName(ctx context.Context, name string) (*Group, error)
	CreateGroup(ctx context.Context, f GroupFields) (*Group, error)
	UpdateGroup(ctx context.Context, id GroupID, f GroupFields) (*Group, error)
	DeleteGroup(ctx context.Context, id GroupID) error
}

// ScheduleStore defines timetable entry persistence.
// List results are in creation order.
type ScheduleStore interface {
	ListEntries(ctx context.Context) ([]*ScheduleEntry, error)
	GetEntry(ctx context.Context, id EntryID) (*ScheduleEntry, error)
	ListEntriesByGroupDay(ctx context.Context, groupID GroupID, day WeekDay) ([]*ScheduleEntry, error)
	CreateEntry(ctx context.Context, f EntryFields) (*ScheduleEntry, error)
	UpdateEntry(ctx context.Context, id EntryID, f EntryFields) (*ScheduleEntry, error)
	DeleteEntry(ctx context.Context, id EntryID) error
}

// UserStore defines user persistence. ChatID is unique.
type UserStore interface {
	ListUsers(ctx context.Context) ([]*User, error)
	GetUser(ctx context.Context, id UserID) (*User, error)
	GetUserByChatID(ctx context.Context, chatID ChatID) (*User, error)
	CreateUser(ctx context.Context, f UserFields) (*User, error)
	UpdateUser(ctx context.Context, id UserID, f UserFields) (*User, error)
	DeleteUser(ctx context.Context, id UserID) error
}

// Stores bundles the three record stores; every storage backend implements all of them.
type Stores interface {
	GroupStore
	ScheduleStore
	UserStore
}
