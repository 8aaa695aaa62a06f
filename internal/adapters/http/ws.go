package httpadapter

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/PabloGalante/timetable-bot/internal/observability"
)

const wsWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GET /v1/chat/ws?chat_id=...[&token=...]
//
// The admin token may come as a bearer header or, for browsers, the token
// query parameter. It is checked once per connection.
//
// Each text frame is a chatMessageRequest without chat_id; each answer is a
// chatMessageResponse. Messages on one socket are handled in order.
func (s *Server) handleChatWS(c *gin.Context) {
	chatID := c.Query("chat_id")
	if chatID == "" {
		badRequest(c, "chat_id is required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		observability.LoggerFromContext(c.Request.Context()).Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	token := bearerToken(c)
	if token == "" {
		token = c.Query("token")
	}
	ctx := observability.WithChatID(s.withChatAdminCheck(c, chatID, token), chatID)
	log := observability.LoggerFromContext(ctx)
	log.Info("websocket connected")

	for {
		var req chatMessageRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("unexpected websocket close", "error", err)
			}
			break
		}
		req.ChatID = chatID

		replies, err := s.deps.Conversation.HandleMessage(ctx, req.toInbound(time.Now()))
		if err != nil {
			log.Error("failed to handle websocket message", "error", err)
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(toChatResponse(replies)); err != nil {
			log.Error("failed to write websocket message", "error", err)
			break
		}
	}

	log.Info("websocket disconnected")
}
