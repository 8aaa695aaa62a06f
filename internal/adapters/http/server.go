package httpadapter

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PabloGalante/timetable-bot/internal/app/auth"
	"github.com/PabloGalante/timetable-bot/internal/app/conversation"
	"github.com/PabloGalante/timetable-bot/internal/app/export"
	"github.com/PabloGalante/timetable-bot/internal/app/timetable"
	"github.com/PabloGalante/timetable-bot/internal/domain"
)

// Deps is everything the HTTP layer talks to.
type Deps struct {
	Conversation *conversation.Service
	Auth         *auth.Service
	Groups       domain.GroupStore
	Timetable    *timetable.Service
	Export       *export.Service
}

type Server struct {
	deps Deps
}

func NewServer(deps Deps) http.Handler {
	s := &Server{deps: deps}

	r := gin.New()
	r.Use(gin.Recovery(), withRequestID(), withLogging(), withCORS())

	r.GET("/healthz", s.handleHealthz)

	v1 := r.Group("/v1")

	// chat transport
	v1.POST("/chat/messages", s.handleChatMessage)
	v1.GET("/chat/ws", s.handleChatWS)

	// admin API
	v1.POST("/auth/login", s.handleLogin)
	admin := v1.Group("", withAdminToken(deps.Auth))
	admin.GET("/groups", s.handleListGroups)
	admin.GET("/groups/:name/week", s.handleGroupWeek)
	admin.GET("/groups/:name/export", s.handleGroupExport)

	return r
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg})
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
