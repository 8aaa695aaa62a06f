package httpadapter

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PabloGalante/timetable-bot/internal/app/auth"
	"github.com/PabloGalante/timetable-bot/internal/domain"
	"github.com/PabloGalante/timetable-bot/internal/observability"
)

const (
	headerRequestID = "X-Request-ID"
	requestIDMaxLen = 64
)

// withRequestID reuses the caller's X-Request-ID or generates one, and puts
// it in the request context for logging.
func withRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(headerRequestID)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.NewString()
		}

		c.Header(headerRequestID, rid)
		c.Request = c.Request.WithContext(observability.WithRequestID(c.Request.Context(), rid))

		c.Next()
	}
}

// withLogging logs every request.
func withLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		observability.LoggerFromContext(c.Request.Context()).Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// withCORS adds basic CORS headers to allow calls from a web front-end.
func withCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// withAdminToken requires "Authorization: Bearer <token>" with a valid admin token.
func withAdminToken(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "missing bearer token")
			return
		}

		if _, err := svc.VerifyToken(token); err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	token, _ := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	return token
}

// withChatAdminCheck marks the request context so admin rights in the chat
// count only with a valid admin token issued to chatID.
func (s *Server) withChatAdminCheck(c *gin.Context, chatID, token string) context.Context {
	verified := false
	if token != "" {
		claims, err := s.deps.Auth.VerifyToken(token)
		verified = err == nil && claims.IsAdmin && claims.ChatID == domain.ChatID(chatID)
	}
	return auth.WithTokenCheck(c.Request.Context(), verified)
}
