package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	cartdomain "github.com/thiagosouza28/ideart-cloud/internal/cart/domain"
	cartservice "github.com/thiagosouza28/ideart-cloud/internal/cart/service"
	companydomain "github.com/thiagosouza28/ideart-cloud/internal/company/domain"
)

const headerCartToken = "X-Cart-Token"

// resolveStorefront maps the slug path segment to the public profile.
func (s *Server) resolveStorefront(c *gin.Context) (*companydomain.StorefrontProfile, bool) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	if slug == "" {
		AbortWithError(c, ErrNotFound)
		return nil, false
	}
	profile, err := s.companySvc.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	return profile, true
}

// @Summary      Storefront profile
// @Description  Public company profile and catalog settings
// @Tags         storefront
// @Produce      json
// @Param        slug  path  string  true  "Company slug"
// @Success      200  {object}  companydomain.StorefrontProfile
// @Router       /store/{slug} [get]
func (s *Server) GetStorefront(c *gin.Context) {
	profile, ok := s.resolveStorefront(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// @Summary      Storefront catalog
// @Description  Visible products with resolved prices
// @Tags         storefront
// @Produce      json
// @Param        slug  path  string  true  "Company slug"
// @Success      200  {object}  []productdomain.CatalogItem
// @Router       /store/{slug}/catalog [get]
func (s *Server) GetStorefrontCatalog(c *gin.Context) {
	profile, ok := s.resolveStorefront(c)
	if !ok {
		return
	}
	items, err := s.productSvc.Catalog(c.Request.Context(), profile.ID, time.Now().UTC())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// cartToken reads the caller's token, minting one when absent.
func cartToken(c *gin.Context) string {
	token := strings.TrimSpace(c.GetHeader(headerCartToken))
	if token == "" {
		token = strings.TrimSpace(c.Query("cart_token"))
	}
	if token == "" {
		token = cartservice.NewToken()
	}
	c.Header(headerCartToken, token)
	return token
}

// @Summary      Get cart
// @Tags         storefront
// @Produce      json
// @Param        slug  path  string  true  "Company slug"
// @Success      200  {object}  cartdomain.Cart
// @Router       /store/{slug}/cart [get]
func (s *Server) GetCart(c *gin.Context) {
	profile, ok := s.resolveStorefront(c)
	if !ok {
		return
	}
	cart, err := s.cartSvc.Get(c.Request.Context(), profile.ID, cartToken(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cart})
}

type setCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

// @Summary      Set cart item
// @Description  Put one product line; zero quantity removes it
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        slug     path  string              true  "Company slug"
// @Param        request  body  setCartItemRequest  true  "Set Item Request"
// @Success      200  {object}  cartdomain.Cart
// @Router       /store/{slug}/cart/items [put]
func (s *Server) SetCartItem(c *gin.Context) {
	profile, ok := s.resolveStorefront(c)
	if !ok {
		return
	}

	var req setCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	productID, err := parseID(req.ProductID)
	if err != nil {
		AbortWithError(c, newValidationError("product_id", "invalid_product", "Produto inválido."))
		return
	}

	cart, err := s.cartSvc.SetItem(c.Request.Context(), cartdomain.SetItemRequest{
		CompanyID: profile.ID,
		Token:     cartToken(c),
		ProductID: productID,
		Quantity:  req.Quantity,
		Notes:     strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cart})
}

type mergeCartRequest struct {
	SourceToken string `json:"source_token"`
}

// @Summary      Merge carts
// @Description  Fold another cart into the current one
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        slug     path  string            true  "Company slug"
// @Param        request  body  mergeCartRequest  true  "Merge Request"
// @Success      200  {object}  cartdomain.Cart
// @Router       /store/{slug}/cart/merge [post]
func (s *Server) MergeCart(c *gin.Context) {
	profile, ok := s.resolveStorefront(c)
	if !ok {
		return
	}

	var req mergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	cart, err := s.cartSvc.Merge(c.Request.Context(), profile.ID, cartToken(c), strings.TrimSpace(req.SourceToken))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cart})
}

// @Summary      Clear cart
// @Tags         storefront
// @Produce      json
// @Param        slug  path  string  true  "Company slug"
// @Success      200  {object}  map[string]string
// @Router       /store/{slug}/cart [delete]
func (s *Server) ClearCart(c *gin.Context) {
	profile, ok := s.resolveStorefront(c)
	if !ok {
		return
	}
	if err := s.cartSvc.Clear(c.Request.Context(), profile.ID, cartToken(c)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"status": "ok"}})
}

// @Summary      Checkout summary
// @Description  Totals, minimum order check and the WhatsApp handoff URL
// @Tags         storefront
// @Produce      json
// @Param        slug  path  string  true  "Company slug"
// @Success      200  {object}  cartdomain.CheckoutSummary
// @Router       /store/{slug}/cart/checkout [get]
func (s *Server) CheckoutCart(c *gin.Context) {
	profile, ok := s.resolveStorefront(c)
	if !ok {
		return
	}
	summary, err := s.cartSvc.Checkout(c.Request.Context(), profile.ID, cartToken(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}
