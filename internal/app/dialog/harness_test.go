package dialog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/timetable-bot/internal/adapters/storage/memory"
	"github.com/PabloGalante/timetable-bot/internal/app/auth"
	"github.com/PabloGalante/timetable-bot/internal/app/dialog"
	"github.com/PabloGalante/timetable-bot/internal/app/timetable"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

const testChat domain.ChatID = "chat-1"

type harness struct {
	t        *testing.T
	ctx      context.Context
	store    *memory.Store
	sessions *memory.SessionStore
	engine   *dialog.Engine
	tt       *timetable.Service
}

// newHarness wires every controller to one memory store. groups, when not
// nil, replaces the group store seen by the management controllers.
func newHarness(t *testing.T, groups domain.GroupStore, entries domain.ScheduleStore) *harness {
	t.Helper()

	store := memory.NewStore()
	if groups == nil {
		groups = store
	}
	if entries == nil {
		entries = store
	}
	sessions := memory.NewSessionStore()
	tt := timetable.NewService(store)
	authSvc := auth.NewService(store, auth.Config{
		Username: "admin",
		Password: "secret",
		Secret:   []byte("test"),
		TokenTTL: time.Hour,
	})

	engine := dialog.NewEngine(sessions,
		dialog.NewGroupController(groups),
		dialog.NewScheduleController(groups, entries, timetable.NewService(entries)),
		dialog.NewSelectionController(store, store),
		dialog.NewLoginController(authSvc),
	)

	return &harness{
		t:        t,
		ctx:      context.Background(),
		store:    store,
		sessions: sessions,
		engine:   engine,
		tt:       tt,
	}
}

func (h *harness) start(id dialog.DialogID) []domain.Reply {
	h.t.Helper()
	replies, err := h.engine.Start(h.ctx, id, domain.Inbound{Profile: domain.Profile{ChatID: testChat}})
	require.NoError(h.t, err)
	return replies
}

func (h *harness) say(text string) []domain.Reply {
	h.t.Helper()
	return h.send(domain.Inbound{Profile: domain.Profile{ChatID: testChat}, Text: text})
}

func (h *harness) press(action string) []domain.Reply {
	h.t.Helper()
	return h.send(domain.Inbound{Profile: domain.Profile{ChatID: testChat}, Action: action})
}

func (h *harness) send(in domain.Inbound) []domain.Reply {
	h.t.Helper()
	replies, handled, err := h.engine.Route(h.ctx, in)
	require.NoError(h.t, err)
	require.True(h.t, handled, "no active dialog")
	return replies
}

func (h *harness) session(id dialog.DialogID) *dialog.Session {
	h.t.Helper()
	sess, err := h.sessions.Load(h.ctx, dialog.Key{ChatID: testChat, Dialog: id})
	require.NoError(h.t, err)
	return sess
}

func (h *harness) active() dialog.DialogID {
	h.t.Helper()
	id, err := h.engine.Active(h.ctx, testChat)
	require.NoError(h.t, err)
	return id
}

func (h *harness) group(name string, fields ...string) *domain.Group {
	h.t.Helper()
	f := domain.GroupFields{Name: name}
	if len(fields) > 0 {
		f.Faculty = fields[0]
	}
	if len(fields) > 1 {
		f.Description = fields[1]
	}
	g, err := h.store.CreateGroup(h.ctx, f)
	require.NoError(h.t, err)
	return g
}

func (h *harness) entry(f domain.EntryFields) *domain.ScheduleEntry {
	h.t.Helper()
	e, err := h.store.CreateEntry(h.ctx, f)
	require.NoError(h.t, err)
	return e
}

func last(replies []domain.Reply) domain.Reply {
	if len(replies) == 0 {
		return domain.Reply{}
	}
	return replies[len(replies)-1]
}

func joined(replies []domain.Reply) string {
	out := ""
	for _, r := range replies {
		out += r.Text + "\n"
	}
	return out
}

func clock(s string) domain.Clock {
	c, err := domain.ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}
