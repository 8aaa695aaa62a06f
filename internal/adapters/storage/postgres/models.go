package postgres

import (
	"time"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

type groupModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Faculty     string    `gorm:"type:varchar(200);not null;default:''"`
	Description string    `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (groupModel) TableName() string { return "groups" }

type entryModel struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	GroupID     string    `gorm:"type:uuid;not null;index:idx_schedules_group_day"`
	Day         string    `gorm:"type:varchar(10);not null;index:idx_schedules_group_day"`
	WeekType    string    `gorm:"type:varchar(10);not null;default:'BOTH'"`
	Subject     string    `gorm:"type:varchar(200);not null"`
	Teacher     string    `gorm:"type:varchar(200);not null;default:''"`
	Classroom   string    `gorm:"type:varchar(100);not null;default:''"`
	StartMinute int       `gorm:"type:smallint;not null"`
	EndMinute   int       `gorm:"type:smallint;not null"`
	CreatedAt   time.Time `gorm:"not null;index"`
	UpdatedAt   time.Time `gorm:"not null"`

	Group *groupModel `gorm:"foreignKey:GroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (entryModel) TableName() string { return "schedules" }

type userModel struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	ChatID    string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	Username  string    `gorm:"type:varchar(100);not null;default:''"`
	FirstName string    `gorm:"type:varchar(100);not null;default:''"`
	LastName  string    `gorm:"type:varchar(100);not null;default:''"`
	IsAdmin   bool      `gorm:"not null;default:false"`
	GroupID   *string   `gorm:"type:uuid;index"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`

	Group *groupModel `gorm:"foreignKey:GroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (userModel) TableName() string { return "users" }

func (m *groupModel) toDomain() *domain.Group {
	return &domain.Group{
		ID:          domain.GroupID(m.ID),
		Name:        m.Name,
		Faculty:     m.Faculty,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (m *entryModel) toDomain() *domain.ScheduleEntry {
	return &domain.ScheduleEntry{
		ID:        domain.EntryID(m.ID),
		GroupID:   domain.GroupID(m.GroupID),
		Day:       domain.WeekDay(m.Day),
		WeekType:  domain.WeekType(m.WeekType),
		Subject:   m.Subject,
		Teacher:   m.Teacher,
		Classroom: m.Classroom,
		Start:     domain.Clock(m.StartMinute),
		End:       domain.Clock(m.EndMinute),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (m *entryModel) apply(f domain.EntryFields) {
	m.GroupID = string(f.GroupID)
	m.Day = string(f.Day)
	m.WeekType = string(f.WeekType)
	m.Subject = f.Subject
	m.Teacher = f.Teacher
	m.Classroom = f.Classroom
	m.StartMinute = int(f.Start)
	m.EndMinute = int(f.End)
}

func (m *userModel) toDomain() *domain.User {
	u := &domain.User{
		ID:        domain.UserID(m.ID),
		ChatID:    domain.ChatID(m.ChatID),
		Username:  m.Username,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.GroupID != nil {
		gid := domain.GroupID(*m.GroupID)
		u.GroupID = &gid
	}
	return u
}

func (m *userModel) apply(f domain.UserFields) {
	m.ChatID = string(f.ChatID)
	m.Username = f.Username
	m.FirstName = f.FirstName
	m.LastName = f.LastName
	m.IsAdmin = f.IsAdmin
	m.GroupID = nil
	if f.GroupID != nil {
		gid := string(*f.GroupID)
		m.GroupID = &gid
	}
}

func mapAll[M any, T any](rows []M, conv func(*M) T) []T {
	out := make([]T, 0, len(rows))
	for i := range rows {
		out = append(out, conv(&rows[i]))
	}
	return out
}
