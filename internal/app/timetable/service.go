package timetable

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/PabloGalante/timetable-bot/internal/app/calendar"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

// Week maps every day of the week to its entries. All seven days are present.
type Week map[domain.WeekDay][]*domain.ScheduleEntry

// Service answers read-only timetable queries.
type Service struct {
	store domain.ScheduleStore
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, mostly for tests and for pinning a timezone.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a timetable service from a ScheduleStore.
func NewService(store domain.ScheduleStore, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// EntriesFor returns the group's entries on day. A nil parity matches every
// entry; otherwise entries tagged with parity or BOTH match. Results are sorted
// by start time, keeping store order for equal starts.
func (s *Service) EntriesFor(
	ctx context.Context,
	groupID domain.GroupID,
	day domain.WeekDay,
	parity *domain.WeekType,
) ([]*domain.ScheduleEntry, error) {

	all, err := s.store.ListEntriesByGroupDay(ctx, groupID, day)
	if err != nil {
		return nil, fmt.Errorf("listing entries for %s/%s: %w", groupID, day, err)
	}

	out := make([]*domain.ScheduleEntry, 0, len(all))
	for _, e := range all {
		if parity == nil || e.WeekType.Matches(*parity) {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})

	return out, nil
}

// TodayFor returns today's entries for the current week parity.
func (s *Service) TodayFor(ctx context.Context, groupID domain.GroupID) ([]*domain.ScheduleEntry, error) {
	return s.dayFor(ctx, groupID, s.now())
}

// TomorrowFor returns tomorrow's entries for tomorrow's week parity.
func (s *Service) TomorrowFor(ctx context.Context, groupID domain.GroupID) ([]*domain.ScheduleEntry, error) {
	return s.dayFor(ctx, groupID, calendar.Tomorrow(s.now()))
}

func (s *Service) dayFor(ctx context.Context, groupID domain.GroupID, t time.Time) ([]*domain.ScheduleEntry, error) {
	parity := calendar.WeekParity(t)
	return s.EntriesFor(ctx, groupID, calendar.DayOfWeek(t), &parity)
}

// WeekFor returns all seven days using this week's parity.
func (s *Service) WeekFor(ctx context.Context, groupID domain.GroupID) (Week, error) {
	parity := s.CurrentParity()

	week := make(Week, len(domain.WeekDays))
	for _, day := range domain.WeekDays {
		entries, err := s.EntriesFor(ctx, groupID, day, &parity)
		if err != nil {
			return nil, err
		}
		week[day] = entries
	}

	return week, nil
}

// CurrentParity is the parity of the current week.
func (s *Service) CurrentParity() domain.WeekType {
	return calendar.WeekParity(s.now())
}
