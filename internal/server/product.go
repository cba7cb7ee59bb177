package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thiagosouza28/ideart-cloud/internal/authorization"
	productdomain "github.com/thiagosouza28/ideart-cloud/internal/product/domain"
)

type productPayload struct {
	Name              string  `json:"name"`
	SKU               string  `json:"sku"`
	Barcode           string  `json:"barcode"`
	Stock             int     `json:"stock"`
	ImageRef          string  `json:"image_ref"`
	CostCents         int64   `json:"cost_cents"`
	SalePriceCents    int64   `json:"sale_price_cents"`
	Visible           *bool   `json:"visible"`
	Featured          *bool   `json:"featured"`
	MinOrderQty       *int    `json:"min_order_qty"`
	CatalogPriceCents *int64  `json:"catalog_price_cents"`
	PromoPriceCents   *int64  `json:"promo_price_cents"`
	PromoStartsAt     *string `json:"promo_starts_at"`
	PromoEndsAt       *string `json:"promo_ends_at"`
	MarkupBps         *int64  `json:"markup_bps"`
	SortOrder         *int    `json:"sort_order"`
	Slug              string  `json:"slug"`
}

// @Summary      Create Product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body productPayload true "Create Product Request"
// @Success      200  {object}  productdomain.Product
// @Router       /products [post]
func (s *Server) CreateProduct(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectProduct, authorization.ActionManage) {
		return
	}

	var req productPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	promoStarts, err := parsePromoTime(req.PromoStartsAt)
	if err != nil {
		AbortWithError(c, newValidationError("promo_starts_at", "invalid_time", "Data da promoção inválida."))
		return
	}
	promoEnds, err := parsePromoTime(req.PromoEndsAt)
	if err != nil {
		AbortWithError(c, newValidationError("promo_ends_at", "invalid_time", "Data da promoção inválida."))
		return
	}

	resp, err := s.productSvc.Create(c.Request.Context(), productdomain.CreateRequest{
		Name:              strings.TrimSpace(req.Name),
		SKU:               strings.TrimSpace(req.SKU),
		Barcode:           strings.TrimSpace(req.Barcode),
		Stock:             req.Stock,
		ImageRef:          strings.TrimSpace(req.ImageRef),
		CostCents:         req.CostCents,
		SalePriceCents:    req.SalePriceCents,
		Visible:           req.Visible,
		Featured:          req.Featured,
		MinOrderQty:       req.MinOrderQty,
		CatalogPriceCents: req.CatalogPriceCents,
		PromoPriceCents:   req.PromoPriceCents,
		PromoStartsAt:     promoStarts,
		PromoEndsAt:       promoEnds,
		MarkupBps:         req.MarkupBps,
		SortOrder:         req.SortOrder,
		Slug:              strings.TrimSpace(req.Slug),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &resp.CompanyID, "product.create", "product", &targetID, map[string]any{
			"name": resp.Name,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        name          query  string  false  "Name"
// @Param        visible_only  query  bool    false  "Visible only"
// @Success      200  {object}  []productdomain.Product
// @Router       /products [get]
func (s *Server) ListProducts(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectProduct, authorization.ActionManage) {
		return
	}

	visibleOnly, err := parseOptionalBool(c.Query("visible_only"))
	if err != nil {
		AbortWithError(c, newValidationError("visible_only", "invalid_flag", "Filtro inválido."))
		return
	}

	resp, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Name:        strings.TrimSpace(c.Query("name")),
		VisibleOnly: visibleOnly != nil && *visibleOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productdomain.Product
// @Router       /products/{id} [get]
func (s *Server) GetProduct(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectProduct, authorization.ActionManage) {
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "Identificador inválido."))
		return
	}
	resp, err := s.productSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string          true  "Product ID"
// @Param        request body  productPayload  true  "Update Product Request"
// @Success      200  {object}  productdomain.Product
// @Router       /products/{id} [patch]
func (s *Server) UpdateProduct(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectProduct, authorization.ActionManage) {
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "Identificador inválido."))
		return
	}

	var req struct {
		Name              *string `json:"name"`
		SKU               *string `json:"sku"`
		Barcode           *string `json:"barcode"`
		Stock             *int    `json:"stock"`
		ImageRef          *string `json:"image_ref"`
		CostCents         *int64  `json:"cost_cents"`
		SalePriceCents    *int64  `json:"sale_price_cents"`
		Visible           *bool   `json:"visible"`
		Featured          *bool   `json:"featured"`
		MinOrderQty       *int    `json:"min_order_qty"`
		CatalogPriceCents *int64  `json:"catalog_price_cents"`
		PromoPriceCents   *int64  `json:"promo_price_cents"`
		PromoStartsAt     *string `json:"promo_starts_at"`
		PromoEndsAt       *string `json:"promo_ends_at"`
		MarkupBps         *int64  `json:"markup_bps"`
		SortOrder         *int    `json:"sort_order"`
		Slug              *string `json:"slug"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	promoStarts, err := parsePromoTime(req.PromoStartsAt)
	if err != nil {
		AbortWithError(c, newValidationError("promo_starts_at", "invalid_time", "Data da promoção inválida."))
		return
	}
	promoEnds, err := parsePromoTime(req.PromoEndsAt)
	if err != nil {
		AbortWithError(c, newValidationError("promo_ends_at", "invalid_time", "Data da promoção inválida."))
		return
	}

	resp, err := s.productSvc.Update(c.Request.Context(), productdomain.UpdateRequest{
		ID:                id,
		Name:              req.Name,
		SKU:               req.SKU,
		Barcode:           req.Barcode,
		Stock:             req.Stock,
		ImageRef:          req.ImageRef,
		CostCents:         req.CostCents,
		SalePriceCents:    req.SalePriceCents,
		Visible:           req.Visible,
		Featured:          req.Featured,
		MinOrderQty:       req.MinOrderQty,
		CatalogPriceCents: req.CatalogPriceCents,
		PromoPriceCents:   req.PromoPriceCents,
		PromoStartsAt:     promoStarts,
		PromoEndsAt:       promoEnds,
		MarkupBps:         req.MarkupBps,
		SortOrder:         req.SortOrder,
		Slug:              req.Slug,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &resp.CompanyID, "product.update", "product", &targetID, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parsePromoTime(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	return parseOptionalTime(*value, false)
}
