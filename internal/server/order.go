package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/thiagosouza28/ideart-cloud/internal/authorization"
	orderdomain "github.com/thiagosouza28/ideart-cloud/internal/order/domain"
)

type createOrderItemRequest struct {
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	UnitCostCents  int64  `json:"unit_cost_cents"`
}

type createOrderRequest struct {
	CustomerID    string                   `json:"customer_id"`
	CustomerName  string                   `json:"customer_name"`
	PaymentMethod string                   `json:"payment_method"`
	Items         []createOrderItemRequest `json:"items"`
}

// @Summary      Create Order
// @Description  Open a new order in orcamento
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createOrderRequest true "Create Order Request"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders [post]
func (s *Server) CreateOrder(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectOrder, authorization.ActionManage) {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var customerID *snowflake.ID
	if strings.TrimSpace(req.CustomerID) != "" {
		id, err := parseID(req.CustomerID)
		if err != nil {
			AbortWithError(c, newValidationError("customer_id", "invalid_customer_id", "Cliente inválido."))
			return
		}
		customerID = &id
	}

	items := make([]orderdomain.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, orderdomain.CreateOrderItem{
			Description:    strings.TrimSpace(item.Description),
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			UnitCostCents:  item.UnitCostCents,
		})
	}

	resp, err := s.orderSvc.Create(c.Request.Context(), orderdomain.CreateOrderRequest{
		CustomerID:    customerID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Items:         items,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &resp.CompanyID, "order.create", "order", &targetID, map[string]any{
			"display_number": resp.DisplayNumber,
			"total_cents":    resp.TotalCents,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Order board
// @Description  All orders grouped into status columns
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderdomain.BoardResponse
// @Router       /orders/board [get]
func (s *Server) GetOrderBoard(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectOrder, authorization.ActionView) {
		return
	}

	resp, err := s.orderSvc.Board(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  orderdomain.Order
// @Router       /orders/{id} [get]
func (s *Server) GetOrder(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectOrder, authorization.ActionView) {
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "Identificador inválido."))
		return
	}
	resp, err := s.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
	// NeedsArt answers the art prompt when the order leaves pendente.
	NeedsArt        *bool `json:"needs_art"`
	ExpectedVersion int64 `json:"expected_version"`
}

// @Summary      Update order status
// @Description  Move an order on the board; gated transitions apply
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string                    true  "Order ID"
// @Param        request body  updateOrderStatusRequest  true  "Update Status Request"
// @Success      200  {object}  orderdomain.UpdateStatusResponse
// @Router       /orders/{id}/status [patch]
func (s *Server) UpdateOrderStatus(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "Identificador inválido."))
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	target, err := orderdomain.ParseStatus(strings.TrimSpace(req.Status))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	artDecision := orderdomain.ArtDecisionUnanswered
	if req.NeedsArt != nil {
		if *req.NeedsArt {
			artDecision = orderdomain.ArtDecisionYes
		} else {
			artDecision = orderdomain.ArtDecisionNo
		}
	}

	resp, err := s.orderSvc.UpdateStatus(c.Request.Context(), orderdomain.UpdateStatusRequest{
		OrderID:         id,
		Target:          target,
		ArtDecision:     artDecision,
		ExpectedVersion: req.ExpectedVersion,
		ActorID:         identity.User.ID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil && !resp.NoOp {
		targetID := id.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &resp.Order.CompanyID, "order.status_change", "order", &targetID, map[string]any{
			"status":  string(resp.Order.Status),
			"version": resp.Order.Version,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Order status history
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  []orderdomain.StatusHistory
// @Router       /orders/{id}/history [get]
func (s *Server) GetOrderHistory(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectOrder, authorization.ActionView) {
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "Identificador inválido."))
		return
	}
	resp, err := s.orderSvc.History(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Time in status
// @Description  How long the order spent in each status
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  []orderdomain.StatusDuration
// @Router       /orders/{id}/time-in-status [get]
func (s *Server) GetOrderTimeInStatus(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectOrder, authorization.ActionView) {
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "Identificador inválido."))
		return
	}
	resp, err := s.orderSvc.TimeInStatus(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
