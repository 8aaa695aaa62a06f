package httpadapter

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// POST /v1/chat/messages
//
// Admin captions and dialogs need "Authorization: Bearer <token>" with the
// token the admin login dialog issued to the same chat_id.
func (s *Server) handleChatMessage(c *gin.Context) {
	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "chat_id is required")
		return
	}
	if strings.TrimSpace(req.Text) == "" && req.Action == "" {
		badRequest(c, "text or action is required")
		return
	}

	ctx := s.withChatAdminCheck(c, req.ChatID, bearerToken(c))
	replies, err := s.deps.Conversation.HandleMessage(ctx, req.toInbound(time.Now()))
	if err != nil {
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, toChatResponse(replies))
}
