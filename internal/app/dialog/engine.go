package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/PabloGalante/timetable-bot/internal/domain"
)

// Engine runs controllers against a SessionStore. It loads the session
// before each step and saves or clears it afterwards.
type Engine struct {
	sessions    SessionStore
	controllers map[DialogID]Controller
}

func NewEngine(sessions SessionStore, controllers ...Controller) *Engine {
	e := &Engine{
		sessions:    sessions,
		controllers: make(map[DialogID]Controller, len(controllers)),
	}
	for _, c := range controllers {
		e.controllers[c.ID()] = c
	}
	return e
}

// Start enters dialog id on a fresh session. A different dialog that was
// active for the same chat is dropped.
func (e *Engine) Start(ctx context.Context, id DialogID, in domain.Inbound) ([]domain.Reply, error) {
	c, ok := e.controllers[id]
	if !ok {
		return nil, fmt.Errorf("dialog %s not registered", id)
	}

	active, err := e.sessions.Active(ctx, in.ChatID)
	if err != nil {
		return nil, fmt.Errorf("loading active dialog: %w", err)
	}
	if active != "" && active != id {
		if err := e.sessions.Clear(ctx, Key{ChatID: in.ChatID, Dialog: active}); err != nil {
			return nil, fmt.Errorf("clearing dialog %s: %w", active, err)
		}
	}

	sess := NewSession(Key{ChatID: in.ChatID, Dialog: id})
	res, err := c.Enter(ctx, in, sess)
	if err != nil {
		_ = e.sessions.Clear(ctx, sess.Key())
		return nil, err
	}
	return res.Replies, e.commit(ctx, sess, res)
}

// Route hands in to the active dialog. handled is false when no dialog is
// active for the chat.
func (e *Engine) Route(ctx context.Context, in domain.Inbound) (replies []domain.Reply, handled bool, err error) {
	id, err := e.sessions.Active(ctx, in.ChatID)
	if err != nil {
		return nil, false, fmt.Errorf("loading active dialog: %w", err)
	}
	if id == "" {
		return nil, false, nil
	}

	key := Key{ChatID: in.ChatID, Dialog: id}
	c, ok := e.controllers[id]
	if !ok {
		_ = e.sessions.Clear(ctx, key)
		return nil, true, fmt.Errorf("dialog %s not registered", id)
	}

	sess, err := e.sessions.Load(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		// the session expired while the marker survived
		return nil, false, e.sessions.Clear(ctx, key)
	}
	if err != nil {
		return nil, true, fmt.Errorf("loading session: %w", err)
	}

	res, err := c.Handle(ctx, in, sess)
	if err != nil {
		_ = e.sessions.Clear(ctx, key)
		return nil, true, err
	}
	return res.Replies, true, e.commit(ctx, sess, res)
}

// Active returns the dialog the chat is in, or "".
func (e *Engine) Active(ctx context.Context, chatID domain.ChatID) (DialogID, error) {
	return e.sessions.Active(ctx, chatID)
}

// Cancel drops the chat's active dialog, if any.
func (e *Engine) Cancel(ctx context.Context, chatID domain.ChatID) error {
	active, err := e.sessions.Active(ctx, chatID)
	if err != nil {
		return fmt.Errorf("loading active dialog: %w", err)
	}
	if active == "" {
		return nil
	}
	if err := e.sessions.Clear(ctx, Key{ChatID: chatID, Dialog: active}); err != nil {
		return fmt.Errorf("clearing dialog %s: %w", active, err)
	}
	return nil
}

func (e *Engine) commit(ctx context.Context, sess *Session, res Result) error {
	if res.Exit {
		if err := e.sessions.Clear(ctx, sess.Key()); err != nil {
			return fmt.Errorf("clearing session: %w", err)
		}
		return nil
	}
	if err := e.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}
