package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/thiagosouza28/ideart-cloud/internal/authorization"
	auditdomain "github.com/thiagosouza28/ideart-cloud/internal/audit/domain"
	"github.com/thiagosouza28/ideart-cloud/internal/companyctx"
	eventsvc "github.com/thiagosouza28/ideart-cloud/internal/events"
)

// @Summary      Poll change feed
// @Description  Published events after the given cursor; clients poll this to
// @Description  keep the board in sync across sessions
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        after  query  string  false  "Last seen event id"
// @Param        limit  query  int     false  "Max events"
// @Success      200  {object}  []eventsvc.CompanyEvent
// @Router       /events [get]
func (s *Server) ListEvents(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectOrder, authorization.ActionView) {
		return
	}

	companyID := companyctx.CompanyIDFromContext(c.Request.Context())

	var after snowflake.ID
	if raw := strings.TrimSpace(c.Query("after")); raw != "" {
		parsed, err := parseID(raw)
		if err != nil {
			AbortWithError(c, newValidationError("after", "invalid_cursor", "Cursor inválido."))
			return
		}
		after = parsed
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := eventsvc.ListSince(c.Request.Context(), s.db, companyID, after, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	cursor := after
	if len(rows) > 0 {
		cursor = rows[len(rows)-1].ID
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"events": rows,
		"cursor": cursor.String(),
	}})
}

// @Summary      List audit logs
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        action  query  string  false  "Action filter"
// @Param        limit   query  int     false  "Max entries"
// @Success      200  {object}  []auditdomain.AuditLog
// @Router       /audit-logs [get]
func (s *Server) ListAuditLogs(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectCompany, authorization.ActionManage) {
		return
	}

	companyID := companyctx.CompanyIDFromContext(c.Request.Context())
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListFilter{
		CompanyID: companyID,
		Action:    strings.TrimSpace(c.Query("action")),
		Limit:     limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}
