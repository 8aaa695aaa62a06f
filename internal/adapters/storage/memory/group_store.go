package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func (s *Store) ListGroups(_ context.Context) ([]*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]*groupRow, 0, len(s.groups))
	for _, r := range s.groups {
		rows = append(rows, r)
	}
	sortBySeq(rows, func(r *groupRow) uint64 { return r.seq })

	out := make([]*domain.Group, 0, len(rows))
	for _, r := range rows {
		g := r.group
		out = append(out, &g)
	}
	return out, nil
}

func (s *Store) GetGroup(_ context.Context, id domain.GroupID) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.groups[id]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", id, domain.ErrNotFound)
	}
	g := r.group
	return &g, nil
}

func (s *Store) GetGroupByName(_ context.Context, name string) (*domain.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r := s.findGroupByName(name); r != nil {
		g := r.group
		return &g, nil
	}
	return nil, fmt.Errorf("group %q: %w", name, domain.ErrNotFound)
}

func (s *Store) CreateGroup(_ context.Context, f domain.GroupFields) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findGroupByName(f.Name) != nil {
		return nil, fmt.Errorf("group %q: %w", f.Name, domain.ErrGroupNameTaken)
	}

	now := s.now()
	g := domain.Group{
		ID:          domain.GroupID(uuid.NewString()),
		Name:        f.Name,
		Faculty:     f.Faculty,
		Description: f.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.groups[g.ID] = &groupRow{seq: s.nextSeq(), group: g}

	return &g, nil
}

func (s *Store) UpdateGroup(_ context.Context, id domain.GroupID, f domain.GroupFields) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.groups[id]
	if !ok {
		return nil, fmt.Errorf("group %s: %w", id, domain.ErrNotFound)
	}
	if other := s.findGroupByName(f.Name); other != nil && other.group.ID != id {
		return nil, fmt.Errorf("group %q: %w", f.Name, domain.ErrGroupNameTaken)
	}

	r.group.Name = f.Name
	r.group.Faculty = f.Faculty
	r.group.Description = f.Description
	r.group.UpdatedAt = s.now()

	g := r.group
	return &g, nil
}

func (s *Store) DeleteGroup(_ context.Context, id domain.GroupID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return fmt.Errorf("group %s: %w", id, domain.ErrNotFound)
	}

	for _, r := range s.entries {
		if r.entry.GroupID == id {
			return fmt.Errorf("group %s: %w", id, domain.ErrGroupInUse)
		}
	}
	for _, r := range s.users {
		if r.user.GroupID != nil && *r.user.GroupID == id {
			return fmt.Errorf("group %s: %w", id, domain.ErrGroupInUse)
		}
	}

	delete(s.groups, id)
	return nil
}

// findGroupByName must be called with mu held.
func (s *Store) findGroupByName(name string) *groupRow {
	for _, r := range s.groups {
		if r.group.Name == name {
			return r
		}
	}
	return nil
}
