package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thiagosouza28/ideart-cloud/internal/authorization"
	customerdomain "github.com/thiagosouza28/ideart-cloud/internal/customer/domain"
	"github.com/thiagosouza28/ideart-cloud/pkg/db/pagination"
)

type customerPayload struct {
	Name      string  `json:"name"`
	Phone     *string `json:"phone"`
	Document  *string `json:"document"`
	Email     *string `json:"email"`
	City      *string `json:"city"`
	BirthDate *string `json:"birth_date"`
	PhotoRef  *string `json:"photo_ref"`
}

// @Summary      Create Customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body customerPayload true "Create Customer Request"
// @Success      200  {object}  customerdomain.Customer
// @Router       /customers [post]
func (s *Server) CreateCustomer(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectCustomer, authorization.ActionManage) {
		return
	}

	var req customerPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		AbortWithError(c, newValidationError("birth_date", "invalid_birth_date", "Data de nascimento inválida."))
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateRequest{
		Name:      strings.TrimSpace(req.Name),
		Phone:     stringValue(req.Phone),
		Document:  stringValue(req.Document),
		Email:     stringValue(req.Email),
		City:      stringValue(req.City),
		BirthDate: birthDate,
		PhotoRef:  stringValue(req.PhotoRef),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &resp.CompanyID, "customer.create", "customer", &targetID, map[string]any{
			"name": resp.Name,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Customers
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        name        query  string  false  "Name"
// @Param        city        query  string  false  "City"
// @Param        page_token  query  string  false  "Page Token"
// @Param        page_size   query  int     false  "Page Size"
// @Success      200  {object}  customerdomain.ListResponse
// @Router       /customers [get]
func (s *Server) ListCustomers(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectCustomer, authorization.ActionManage) {
		return
	}

	var query struct {
		pagination.Pagination
		Name string `form:"name"`
		City string `form:"city"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListRequest{
		Name:      strings.TrimSpace(query.Name),
		City:      strings.TrimSpace(query.City),
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  customerdomain.Customer
// @Router       /customers/{id} [get]
func (s *Server) GetCustomer(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectCustomer, authorization.ActionManage) {
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "Identificador inválido."))
		return
	}
	resp, err := s.customerSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path  string           true  "Customer ID"
// @Param        request body  customerPayload  true  "Update Customer Request"
// @Success      200  {object}  customerdomain.Customer
// @Router       /customers/{id} [patch]
func (s *Server) UpdateCustomer(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectCustomer, authorization.ActionManage) {
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "Identificador inválido."))
		return
	}

	var req struct {
		Name      *string `json:"name"`
		Phone     *string `json:"phone"`
		Document  *string `json:"document"`
		Email     *string `json:"email"`
		City      *string `json:"city"`
		BirthDate *string `json:"birth_date"`
		PhotoRef  *string `json:"photo_ref"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := customerdomain.UpdateRequest{
		ID:       id,
		Name:     req.Name,
		Phone:    req.Phone,
		Document: req.Document,
		Email:    req.Email,
		City:     req.City,
		PhotoRef: req.PhotoRef,
	}
	if req.BirthDate != nil {
		birthDate, err := parseBirthDate(req.BirthDate)
		if err != nil {
			AbortWithError(c, newValidationError("birth_date", "invalid_birth_date", "Data de nascimento inválida."))
			return
		}
		update.BirthDate = birthDate
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &resp.CompanyID, "customer.update", "customer", &targetID, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseBirthDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
