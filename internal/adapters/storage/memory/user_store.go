package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func (s *Store) ListUsers(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]*userRow, 0, len(s.users))
	for _, r := range s.users {
		rows = append(rows, r)
	}
	sortBySeq(rows, func(r *userRow) uint64 { return r.seq })

	out := make([]*domain.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, copyUser(&r.user))
	}
	return out, nil
}

func (s *Store) GetUser(_ context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return copyUser(&r.user), nil
}

func (s *Store) GetUserByChatID(_ context.Context, chatID domain.ChatID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r := s.findUserByChatID(chatID); r != nil {
		return copyUser(&r.user), nil
	}
	return nil, fmt.Errorf("user with chat %s: %w", chatID, domain.ErrNotFound)
}

func (s *Store) CreateUser(_ context.Context, f domain.UserFields) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findUserByChatID(f.ChatID) != nil {
		return nil, fmt.Errorf("user with chat %s: %w", f.ChatID, domain.ErrAlreadyExists)
	}
	if err := s.checkGroupRef(f.GroupID); err != nil {
		return nil, err
	}

	now := s.now()
	u := domain.User{
		ID:        domain.UserID(uuid.NewString()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyUserFields(&u, f)
	s.users[u.ID] = &userRow{seq: s.nextSeq(), user: u}

	return copyUser(&u), nil
}

func (s *Store) UpdateUser(_ context.Context, id domain.UserID, f domain.UserFields) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	if other := s.findUserByChatID(f.ChatID); other != nil && other.user.ID != id {
		return nil, fmt.Errorf("user with chat %s: %w", f.ChatID, domain.ErrAlreadyExists)
	}
	if err := s.checkGroupRef(f.GroupID); err != nil {
		return nil, err
	}

	applyUserFields(&r.user, f)
	r.user.UpdatedAt = s.now()

	return copyUser(&r.user), nil
}

func (s *Store) DeleteUser(_ context.Context, id domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	delete(s.users, id)
	return nil
}

// findUserByChatID must be called with mu held.
func (s *Store) findUserByChatID(chatID domain.ChatID) *userRow {
	for _, r := range s.users {
		if r.user.ChatID == chatID {
			return r
		}
	}
	return nil
}

// checkGroupRef must be called with mu held.
func (s *Store) checkGroupRef(id *domain.GroupID) error {
	if id == nil {
		return nil
	}
	if _, ok := s.groups[*id]; !ok {
		return fmt.Errorf("group %s: %w", *id, domain.ErrNotFound)
	}
	return nil
}

func applyUserFields(u *domain.User, f domain.UserFields) {
	u.ChatID = f.ChatID
	u.Username = f.Username
	u.FirstName = f.FirstName
	u.LastName = f.LastName
	u.IsAdmin = f.IsAdmin
	u.GroupID = nil
	if f.GroupID != nil {
		id := *f.GroupID
		u.GroupID = &id
	}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.GroupID != nil {
		id := *u.GroupID
		c.GroupID = &id
	}
	return &c
}
