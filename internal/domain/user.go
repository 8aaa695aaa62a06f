package domain

// User is a person talking to the bot, identified by ChatID.
type User struct {
	ID        UserID    `json:"id"`
	ChatID    ChatID    `json:"chat_id"`
	Username  string    `json:"username,omitempty"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	GroupID   *GroupID  `json:"group_id,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

type UserFields struct {
	ChatID    ChatID
	Username  string
	FirstName string
	LastName  string
	IsAdmin   bool
	GroupID   *GroupID
}

func (u *User) Fields() UserFields {
	return UserFields{
		ChatID:    u.ChatID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsAdmin:   u.IsAdmin,
		GroupID:   u.GroupID,
	}
}
