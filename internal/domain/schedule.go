package domain

// ScheduleEntry is one class in a group's timetable.
// Start is not checked against End.
type ScheduleEntry struct {
	ID        EntryID   `json:"id"`
	GroupID   GroupID   `json:"group_id"`
	Day       WeekDay   `json:"day"`
	WeekType  WeekType  `json:"week_type"`
	Subject   string    `json:"subject"`
	Teacher   string    `json:"teacher,omitempty"`
	Classroom string    `json:"classroom,omitempty"`
	Start     Clock     `json:"start"`
	End       Clock     `json:"end"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// EntryFields is the writable part of a ScheduleEntry.
type EntryFields struct {
	GroupID   GroupID  `json:"group_id"`
	Day       WeekDay  `json:"day"`
	WeekType  WeekType `json:"week_type"`
	Subject   string   `json:"subject"`
	Teacher   string   `json:"teacher,omitempty"`
	Classroom string   `json:"classroom,omitempty"`
	Start     Clock    `json:"start"`
	End       Clock    `json:"end"`
}

func (e *ScheduleEntry) Fields() EntryFields {
	return EntryFields{
		GroupID:   e.GroupID,
		Day:       e.Day,
		WeekType:  e.WeekType,
		Subject:   e.Subject,
		Teacher:   e.Teacher,
		Classroom: e.Classroom,
		Start:     e.Start,
		End:       e.End,
	}
}
