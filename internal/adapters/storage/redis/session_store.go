// Package redis keeps dialog sessions in Redis so they survive restarts and
// expire on their own when a user walks away mid-dialog.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/PabloGalante/timetable-bot/internal/app/dialog"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

const (
	keyPrefix   = "timetable:"
	pingTimeout = 5 * time.Second
)

// Options configures the connection and the session lifetime.
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// SessionStore implements dialog.SessionStore. Each save refreshes the TTL
// of both the session and the chat's active-dialog marker.
type SessionStore struct {
	rdb goredis.UniversalClient
	ttl time.Duration
}

// Dial connects and pings the server.
func Dial(ctx context.Context, opts Options) (*SessionStore, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}
	return NewSessionStore(rdb, opts.TTL), nil
}

// NewSessionStore wraps an existing client. A zero ttl keeps sessions forever.
func NewSessionStore(rdb goredis.UniversalClient, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func sessionKey(key dialog.Key) string {
	return keyPrefix + "session:" + string(key.ChatID) + ":" + string(key.Dialog)
}

func activeKey(chatID domain.ChatID) string {
	return keyPrefix + "active:" + string(chatID)
}

func (s *SessionStore) Load(ctx context.Context, key dialog.Key) (*dialog.Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("session %s/%s: %w", key.ChatID, key.Dialog, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}

	var sess dialog.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *dialog.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, sessionKey(sess.Key()), raw, s.ttl)
		p.Set(ctx, activeKey(sess.ChatID), string(sess.Dialog), s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear drops the session and, when it is the active one, the marker too.
func (s *SessionStore) Clear(ctx context.Context, key dialog.Key) error {
	ak := activeKey(key.ChatID)

	err := s.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		active, err := tx.Get(ctx, ak).Result()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Del(ctx, sessionKey(key))
			if dialog.DialogID(active) == key.Dialog {
				p.Del(ctx, ak)
			}
			return nil
		})
		return err
	}, ak)
	if err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

func (s *SessionStore) Active(ctx context.Context, chatID domain.ChatID) (dialog.DialogID, error) {
	id, err := s.rdb.Get(ctx, activeKey(chatID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading active dialog: %w", err)
	}
	return dialog.DialogID(id), nil
}

func (s *SessionStore) Close() error {
	return s.rdb.Close()
}
