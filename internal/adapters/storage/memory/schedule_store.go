package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func (s *Store) ListEntries(_ context.Context) ([]*domain.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectEntries(func(*domain.ScheduleEntry) bool { return true }), nil
}

func (s *Store) GetEntry(_ context.Context, id domain.EntryID) (*domain.ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	e := r.entry
	return &e, nil
}

func (s *Store) ListEntriesByGroupDay(
	_ context.Context,
	groupID domain.GroupID,
	day domain.WeekDay,
) ([]*domain.ScheduleEntry, error) {

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectEntries(func(e *domain.ScheduleEntry) bool {
		return e.GroupID == groupID && e.Day == day
	}), nil
}

func (s *Store) CreateEntry(_ context.Context, f domain.EntryFields) (*domain.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[f.GroupID]; !ok {
		return nil, fmt.Errorf("group %s: %w", f.GroupID, domain.ErrNotFound)
	}

	now := s.now()
	e := domain.ScheduleEntry{
		ID:        domain.EntryID(uuid.NewString()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyEntryFields(&e, f)
	s.entries[e.ID] = &entryRow{seq: s.nextSeq(), entry: e}

	return &e, nil
}

func (s *Store) UpdateEntry(_ context.Context, id domain.EntryID, f domain.EntryFields) (*domain.ScheduleEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	if _, ok := s.groups[f.GroupID]; !ok {
		return nil, fmt.Errorf("group %s: %w", f.GroupID, domain.ErrNotFound)
	}

	applyEntryFields(&r.entry, f)
	r.entry.UpdatedAt = s.now()

	e := r.entry
	return &e, nil
}

func (s *Store) DeleteEntry(_ context.Context, id domain.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	delete(s.entries, id)
	return nil
}

// collectEntries must be called with mu held.
func (s *Store) collectEntries(keep func(*domain.ScheduleEntry) bool) []*domain.ScheduleEntry {
	rows := make([]*entryRow, 0)
	for _, r := range s.entries {
		if keep(&r.entry) {
			rows = append(rows, r)
		}
	}
	sortBySeq(rows, func(r *entryRow) uint64 { return r.seq })

	out := make([]*domain.ScheduleEntry, 0, len(rows))
	for _, r := range rows {
		e := r.entry
		out = append(out, &e)
	}
	return out
}

func applyEntryFields(e *domain.ScheduleEntry, f domain.EntryFields) {
	e.GroupID = f.GroupID
	e.Day = f.Day
	e.WeekType = f.WeekType
	e.Subject = f.Subject
	e.Teacher = f.Teacher
	e.Classroom = f.Classroom
	e.Start = f.Start
	e.End = f.End
}
