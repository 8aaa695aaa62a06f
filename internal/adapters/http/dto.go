package httpadapter

import (
	"time"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatMessageRequest struct {
	ChatID    string `json:"chat_id" binding:"required"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Text      string `json:"text,omitempty"`
	Action    string `json:"action,omitempty"`
}

type chatMessageResponse struct {
	Replies []replyResponse `json:"replies"`
}

type replyResponse struct {
	Text     string            `json:"text"`
	Markdown bool              `json:"markdown,omitempty"`
	Secret   bool              `json:"secret,omitempty"`
	Keyboard *keyboardResponse `json:"keyboard,omitempty"`
}

type keyboardResponse struct {
	Rows   [][]string               `json:"rows,omitempty"`
	Inline [][]inlineButtonResponse `json:"inline,omitempty"`
}

type inlineButtonResponse struct {
	Text string `json:"text"`
	Data string `json:"data"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type groupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Faculty     string    `json:"faculty,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type entryResponse struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	Teacher   string `json:"teacher,omitempty"`
	Classroom string `json:"classroom,omitempty"`
	Start     string `json:"start"`
	End       string `json:"end"`
	WeekType  string `json:"week_type"`
}

type weekResponse struct {
	Group  groupResponse              `json:"group"`
	Parity string                     `json:"parity"`
	Days   map[string][]entryResponse `json:"days"`
}

func (r chatMessageRequest) toInbound(now time.Time) domain.Inbound {
	return domain.Inbound{
		Profile: domain.Profile{
			ChatID:    domain.ChatID(r.ChatID),
			Username:  r.Username,
			FirstName: r.FirstName,
			LastName:  r.LastName,
		},
		Text:      r.Text,
		Action:    r.Action,
		Timestamp: now,
	}
}

func toChatResponse(replies []domain.Reply) chatMessageResponse {
	out := chatMessageResponse{Replies: make([]replyResponse, 0, len(replies))}
	for _, r := range replies {
		out.Replies = append(out.Replies, replyResponse{
			Text:     r.Text,
			Markdown: r.Markdown,
			Secret:   r.Secret,
			Keyboard: toKeyboardResponse(r.Keyboard),
		})
	}
	return out
}

func toKeyboardResponse(kb *domain.Keyboard) *keyboardResponse {
	if kb == nil {
		return nil
	}
	out := &keyboardResponse{Rows: kb.Rows}
	for _, row := range kb.Inline {
		buttons := make([]inlineButtonResponse, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, inlineButtonResponse{Text: b.Text, Data: b.Data})
		}
		out.Inline = append(out.Inline, buttons)
	}
	return out
}

func toGroupResponse(g *domain.Group) groupResponse {
	return groupResponse{
		ID:          string(g.ID),
		Name:        g.Name,
		Faculty:     g.Faculty,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func toEntryResponse(e *domain.ScheduleEntry) entryResponse {
	return entryResponse{
		ID:        string(e.ID),
		Subject:   e.Subject,
		Teacher:   e.Teacher,
		Classroom: e.Classroom,
		Start:     e.Start.String(),
		End:       e.End.String(),
		WeekType:  string(e.WeekType),
	}
}
