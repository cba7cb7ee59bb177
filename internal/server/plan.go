package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thiagosouza28/ideart-cloud/internal/authorization"
	plandomain "github.com/thiagosouza28/ideart-cloud/internal/plan/domain"
)

type planPayload struct {
	Name              string         `json:"name"`
	PriceCents        int64          `json:"price_cents"`
	BillingInterval   string         `json:"billing_interval"`
	Features          map[string]any `json:"features"`
	MaxUsers          int            `json:"max_users"`
	ExternalBillingID string         `json:"external_billing_id"`
	SortOrder         int            `json:"sort_order"`
}

// @Summary      List Plans
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        active_only  query  bool  false  "Active only"
// @Success      200  {object}  []plandomain.Plan
// @Router       /plans [get]
func (s *Server) ListPlans(c *gin.Context) {
	activeOnly, err := parseOptionalBool(c.Query("active_only"))
	if err != nil {
		AbortWithError(c, newValidationError("active_only", "invalid_flag", "Filtro inválido."))
		return
	}

	resp, err := s.planSvc.List(c.Request.Context(), activeOnly != nil && *activeOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body planPayload true "Create Plan Request"
// @Success      200  {object}  plandomain.Plan
// @Router       /plans [post]
func (s *Server) CreatePlan(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectPlan, authorization.ActionManage) {
		return
	}

	var req planPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.Create(c.Request.Context(), plandomain.CreateRequest{
		Name:              strings.TrimSpace(req.Name),
		PriceCents:        req.PriceCents,
		BillingInterval:   strings.TrimSpace(req.BillingInterval),
		Features:          req.Features,
		MaxUsers:          req.MaxUsers,
		ExternalBillingID: strings.TrimSpace(req.ExternalBillingID),
		SortOrder:         req.SortOrder,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), nil, "plan.create", "plan", &targetID, map[string]any{
			"name": resp.Name,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Plan
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Plan ID"
// @Success      200  {object}  plandomain.Plan
// @Router       /plans/{id} [get]
func (s *Server) GetPlan(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "Identificador inválido."))
		return
	}
	resp, err := s.planSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string       true  "Plan ID"
// @Param        request body  planPayload  true  "Update Plan Request"
// @Success      200  {object}  plandomain.Plan
// @Router       /plans/{id} [patch]
func (s *Server) UpdatePlan(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectPlan, authorization.ActionManage) {
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "Identificador inválido."))
		return
	}

	var req struct {
		Name              *string        `json:"name"`
		PriceCents        *int64         `json:"price_cents"`
		BillingInterval   *string        `json:"billing_interval"`
		Features          map[string]any `json:"features"`
		MaxUsers          *int           `json:"max_users"`
		ExternalBillingID *string        `json:"external_billing_id"`
		Active            *bool          `json:"active"`
		SortOrder         *int           `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planSvc.Update(c.Request.Context(), plandomain.UpdateRequest{
		ID:                id,
		Name:              req.Name,
		PriceCents:        req.PriceCents,
		BillingInterval:   req.BillingInterval,
		Features:          req.Features,
		MaxUsers:          req.MaxUsers,
		ExternalBillingID: req.ExternalBillingID,
		Active:            req.Active,
		SortOrder:         req.SortOrder,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), nil, "plan.update", "plan", &targetID, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
