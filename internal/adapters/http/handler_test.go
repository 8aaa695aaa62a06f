package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/PabloGalante/timetable-bot/internal/adapters/http"
	"github.com/PabloGalante/timetable-bot/internal/adapters/storage/memory"
	"github.com/PabloGalante/timetable-bot/internal/app/auth"
	"github.com/PabloGalante/timetable-bot/internal/app/conversation"
	"github.com/PabloGalante/timetable-bot/internal/app/dialog"
	"github.com/PabloGalante/timetable-bot/internal/app/export"
	"github.com/PabloGalante/timetable-bot/internal/app/render"
	"github.com/PabloGalante/timetable-bot/internal/app/timetable"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	sessions := memory.NewSessionStore()
	tt := timetable.NewService(store)
	authSvc := auth.NewService(store, auth.Config{
		Username: "admin",
		Password: "secret",
		Secret:   []byte("test-secret"),
		TokenTTL: time.Hour,
	})

	engine := dialog.NewEngine(sessions,
		dialog.NewSelectionController(store, store),
		dialog.NewLoginController(authSvc),
		dialog.NewGroupController(store),
		dialog.NewScheduleController(store, store, tt),
	)

	srv := httpadapter.NewServer(httpadapter.Deps{
		Conversation: conversation.NewService(engine, tt, store, store, authSvc),
		Auth:         authSvc,
		Groups:       store,
		Timetable:    tt,
		Export:       export.NewService(store, tt),
	})
	return srv, store
}

func do(t *testing.T, srv http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, srv http.Handler) string {
	t.Helper()
	w := do(t, srv, http.MethodPost, "/v1/auth/login", "", map[string]string{"username": "admin", "password": "secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

type chatResp struct {
	Replies []struct {
		Text     string `json:"text"`
		Markdown bool   `json:"markdown"`
		Keyboard *struct {
			Rows   [][]string `json:"rows"`
			Inline [][]struct {
				Text string `json:"text"`
				Data string `json:"data"`
			} `json:"inline"`
		} `json:"keyboard"`
	} `json:"replies"`
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	w := do(t, srv, http.MethodGet, "/healthz", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestChatMessage(t *testing.T) {
	srv, store := newTestServer(t)
	_, err := store.CreateGroup(context.Background(), domain.GroupFields{Name: "CS-101"})
	require.NoError(t, err)

	w := do(t, srv, http.MethodPost, "/v1/chat/messages", "", map[string]string{"chat_id": "42", "text": "/start"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp chatResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Replies, 2)
	assert.Contains(t, resp.Replies[0].Text, "Welcome")
	require.NotNil(t, resp.Replies[1].Keyboard)
	assert.Equal(t, []string{"CS-101"}, resp.Replies[1].Keyboard.Rows[0])

	w = do(t, srv, http.MethodPost, "/v1/chat/messages", "", map[string]string{"chat_id": "42", "text": "CS-101"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Replies[0].Markdown)
	assert.Contains(t, resp.Replies[0].Text, "CS-101")
}

func TestChatMessageValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, http.MethodPost, "/v1/chat/messages", "", map[string]string{"text": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, srv, http.MethodPost, "/v1/chat/messages", "", map[string]string{"chat_id": "1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminAPIRequiresToken(t *testing.T) {
	srv, _ := newTestServer(t)

	w := do(t, srv, http.MethodGet, "/v1/groups", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, srv, http.MethodGet, "/v1/groups", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, srv, http.MethodPost, "/v1/auth/login", "", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminGroupsWeekAndExport(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	g, err := store.CreateGroup(ctx, domain.GroupFields{Name: "CS-101", Faculty: "Engineering"})
	require.NoError(t, err)
	start, _ := domain.ParseClock("09:00")
	end, _ := domain.ParseClock("10:30")
	_, err = store.CreateEntry(ctx, domain.EntryFields{
		GroupID: g.ID, Day: domain.Monday, WeekType: domain.WeekBoth,
		Subject: "Algorithms", Start: start, End: end,
	})
	require.NoError(t, err)

	token := login(t, srv)

	w := do(t, srv, http.MethodGet, "/v1/groups", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"CS-101"`)

	w = do(t, srv, http.MethodGet, "/v1/groups/CS-101/week", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var week struct {
		Parity string `json:"parity"`
		Days   map[string][]struct {
			Subject string `json:"subject"`
			Start   string `json:"start"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &week))
	assert.Len(t, week.Days, 7)
	require.Len(t, week.Days["MONDAY"], 1)
	assert.Equal(t, "Algorithms", week.Days["MONDAY"][0].Subject)
	assert.Equal(t, "09:00", week.Days["MONDAY"][0].Start)
	assert.Contains(t, []string{"FIRST", "SECOND"}, week.Parity)

	w = do(t, srv, http.MethodGet, "/v1/groups/CS-101/export", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/vnd.openxmlformats"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "timetable_CS-101.xlsx")
	assert.NotZero(t, w.Body.Len())

	w = do(t, srv, http.MethodGet, "/v1/groups/nope/week", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, srv, http.MethodGet, "/v1/groups/nope/export", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatWebSocket(t *testing.T) {
	srv, store := newTestServer(t)
	_, err := store.CreateGroup(context.Background(), domain.GroupFields{Name: "CS-101"})
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/chat/ws?chat_id=7"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"text": "/group"}))
	var resp chatResp
	require.NoError(t, conn.ReadJSON(&resp))
	require.NotEmpty(t, resp.Replies)
	assert.Equal(t, "Choose your group:", resp.Replies[0].Text)

	require.NoError(t, conn.WriteJSON(map[string]string{"text": render.CaptionCancel}))
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Contains(t, resp.Replies[0].Text, "cancelled")
}

func chat(t *testing.T, srv http.Handler, token, chatID, text string) chatResp {
	t.Helper()
	w := do(t, srv, http.MethodPost, "/v1/chat/messages", token, map[string]string{"chat_id": chatID, "text": text})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp chatResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Replies)
	return resp
}

// chatToken signs a token with the test server's secret.
func chatToken(t *testing.T, store *memory.Store, chatID domain.ChatID) string {
	t.Helper()
	token, err := auth.NewService(store, auth.Config{Secret: []byte("test-secret"), TokenTTL: time.Hour}).IssueToken(chatID)
	require.NoError(t, err)
	return token
}

func TestChatAdminCaptionsNeedMatchingToken(t *testing.T) {
	srv, store := newTestServer(t)
	_, err := store.CreateUser(context.Background(), domain.UserFields{ChatID: "42", IsAdmin: true})
	require.NoError(t, err)

	for _, caption := range []string{render.CaptionManageGroups, render.CaptionManageSchedule, render.CaptionManageUsers} {
		resp := chat(t, srv, "", "42", caption)
		assert.Equal(t, "You don't have administrator rights.", resp.Replies[0].Text, caption)

		resp = chat(t, srv, "garbage", "42", caption)
		assert.Equal(t, "You don't have administrator rights.", resp.Replies[0].Text, caption)

		resp = chat(t, srv, chatToken(t, store, "43"), "42", caption)
		assert.Equal(t, "You don't have administrator rights.", resp.Replies[0].Text, caption)
	}

	resp := chat(t, srv, chatToken(t, store, "42"), "42", render.CaptionManageGroups)
	assert.Contains(t, resp.Replies[len(resp.Replies)-1].Text, "Group management")
}

func TestChatAdminDialogDroppedWithoutToken(t *testing.T) {
	srv, store := newTestServer(t)

	chat(t, srv, "", "42", conversation.CommandAdmin)
	chat(t, srv, "", "42", "admin")
	resp := chat(t, srv, "", "42", "secret")
	require.Len(t, resp.Replies, 2)
	token, ok := strings.CutPrefix(resp.Replies[1].Text, "Admin API token:\n")
	require.True(t, ok, resp.Replies[1].Text)
	token = strings.Trim(token, "`")

	resp = chat(t, srv, token, "42", render.CaptionManageGroups)
	assert.Contains(t, resp.Replies[len(resp.Replies)-1].Text, "Group management")

	resp = chat(t, srv, "", "42", render.CaptionAddGroup)
	assert.Equal(t, "You don't have administrator rights.", resp.Replies[0].Text)

	// the dialog is gone, so the caption is not understood anymore
	resp = chat(t, srv, token, "42", render.CaptionAddGroup)
	assert.Contains(t, resp.Replies[0].Text, "I don't understand")

	user, err := store.GetUserByChatID(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
}

func TestChatWebSocketAdminToken(t *testing.T) {
	srv, store := newTestServer(t)
	_, err := store.CreateUser(context.Background(), domain.UserFields{ChatID: "7", IsAdmin: true})
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	defer ts.Close()
	base := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/chat/ws?chat_id=7"

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"no token", base, "You don't have administrator rights."},
		{"token for another chat", base + "&token=" + chatToken(t, store, "8"), "You don't have administrator rights."},
		{"matching token", base + "&token=" + chatToken(t, store, "7"), "Group management"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, _, err := websocket.DefaultDialer.Dial(tt.url, nil)
			require.NoError(t, err)
			defer conn.Close()

			require.NoError(t, conn.WriteJSON(map[string]string{"text": render.CaptionManageGroups}))
			var resp chatResp
			require.NoError(t, conn.ReadJSON(&resp))
			require.NotEmpty(t, resp.Replies)
			assert.Contains(t, resp.Replies[len(resp.Replies)-1].Text, tt.want)
		})
	}
}
