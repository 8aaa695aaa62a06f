package httpadapter

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/PabloGalante/timetable-bot/internal/domain"
	"github.com/PabloGalante/timetable-bot/internal/observability"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// POST /v1/auth/login
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	if err := s.deps.Auth.CheckCredentials(req.Username, req.Password); err != nil {
		unauthorized(c, "invalid credentials")
		return
	}

	token, err := s.deps.Auth.IssueToken("")
	if err != nil {
		observability.LoggerFromContext(c.Request.Context()).Error("failed to issue token", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, loginResponse{Token: token})
}

// GET /v1/groups
func (s *Server) handleListGroups(c *gin.Context) {
	groups, err := s.deps.Groups.ListGroups(c.Request.Context())
	if err != nil {
		observability.LoggerFromContext(c.Request.Context()).Error("failed to list groups", "error", err)
		internalError(c)
		return
	}

	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	c.JSON(http.StatusOK, gin.H{"groups": out})
}

// GET /v1/groups/:name/week
func (s *Server) handleGroupWeek(c *gin.Context) {
	ctx := c.Request.Context()

	group, ok := s.lookupGroup(c)
	if !ok {
		return
	}

	week, err := s.deps.Timetable.WeekFor(ctx, group.ID)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to load week", "group_id", group.ID, "error", err)
		internalError(c)
		return
	}

	resp := weekResponse{
		Group:  toGroupResponse(group),
		Parity: string(s.deps.Timetable.CurrentParity()),
		Days:   make(map[string][]entryResponse, len(week)),
	}
	for day, entries := range week {
		list := make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			list = append(list, toEntryResponse(e))
		}
		resp.Days[string(day)] = list
	}

	c.JSON(http.StatusOK, resp)
}

// GET /v1/groups/:name/export
func (s *Server) handleGroupExport(c *gin.Context) {
	ctx := c.Request.Context()

	buf, filename, err := s.deps.Export.Timetable(ctx, c.Param("name"))
	if errors.Is(err, domain.ErrNotFound) {
		notFound(c, "group not found")
		return
	}
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to export timetable", "error", err)
		internalError(c)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) lookupGroup(c *gin.Context) (*domain.Group, bool) {
	ctx := c.Request.Context()

	group, err := s.deps.Groups.GetGroupByName(ctx, c.Param("name"))
	if errors.Is(err, domain.ErrNotFound) {
		notFound(c, "group not found")
		return nil, false
	}
	if err != nil {
		observability.LoggerFromContext(ctx).Error("failed to load group", "error", err)
		internalError(c)
		return nil, false
	}
	return group, true
}
