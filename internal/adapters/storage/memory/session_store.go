package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/PabloGalante/timetable-bot/internal/app/dialog"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

// SessionStore is an in-memory dialog.SessionStore. Sessions are stored as
// encoded snapshots so callers never share state with the store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[dialog.Key][]byte
	active   map[domain.ChatID]dialog.DialogID
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[dialog.Key][]byte),
		active:   make(map[domain.ChatID]dialog.DialogID),
	}
}

func (s *SessionStore) Load(_ context.Context, key dialog.Key) (*dialog.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.sessions[key]
	if !ok {
		return nil, fmt.Errorf("session %s/%s: %w", key.ChatID, key.Dialog, domain.ErrNotFound)
	}

	var sess dialog.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Save(_ context.Context, sess *dialog.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.Key()] = raw
	s.active[sess.ChatID] = sess.Dialog
	return nil
}

func (s *SessionStore) Clear(_ context.Context, key dialog.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, key)
	if s.active[key.ChatID] == key.Dialog {
		delete(s.active, key.ChatID)
	}
	return nil
}

func (s *SessionStore) Active(_ context.Context, chatID domain.ChatID) (dialog.DialogID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.active[chatID], nil
}
