package domain

// Group is a study group. Name is unique and is what users pick in dialogs.
type Group struct {
	ID          GroupID   `json:"id"`
	Name        string    `json:"name"`
	Faculty     string    `json:"faculty,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// GroupFields is the writable part of a Group. Empty optional fields mean "not set".
type GroupFields struct {
	Name        string `json:"name"`
	Faculty     string `json:"faculty,omitempty"`
	Description string `json:"description,omitempty"`
}

func (g *Group) Fields() GroupFields {
	return GroupFields{
		Name:        g.Name,
		Faculty:     g.Faculty,
		Description: g.Description,
	}
}
