package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thiagosouza28/ideart-cloud/internal/authorization"
	companydomain "github.com/thiagosouza28/ideart-cloud/internal/company/domain"
)

// @Summary      Get Company
// @Description  The caller's active company profile and catalog settings
// @Tags         company
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  companydomain.Company
// @Router       /company [get]
func (s *Server) GetCompany(c *gin.Context) {
	resp, err := s.companySvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateCompanyRequest struct {
	Name            *string                        `json:"name"`
	Slug            *string                        `json:"slug"`
	Email           *string                        `json:"email"`
	Phone           *string                        `json:"phone"`
	Document        *string                        `json:"document"`
	AddressStreet   *string                        `json:"address_street"`
	AddressCity     *string                        `json:"address_city"`
	AddressState    *string                        `json:"address_state"`
	AddressZip      *string                        `json:"address_zip"`
	CatalogSettings *companydomain.CatalogSettings `json:"catalog_settings"`
}

// @Summary      Update Company
// @Description  Patch the company profile and storefront settings
// @Tags         company
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body updateCompanyRequest true "Update Company Request"
// @Success      200  {object}  companydomain.Company
// @Router       /company [patch]
func (s *Server) UpdateCompany(c *gin.Context) {
	if !s.requireAction(c, authorization.ObjectCompany, authorization.ActionManage) {
		return
	}

	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.companySvc.Update(c.Request.Context(), companydomain.UpdateRequest{
		Name:            req.Name,
		Slug:            req.Slug,
		Email:           req.Email,
		Phone:           req.Phone,
		Document:        req.Document,
		AddressStreet:   req.AddressStreet,
		AddressCity:     req.AddressCity,
		AddressState:    req.AddressState,
		AddressZip:      req.AddressZip,
		CatalogSettings: req.CatalogSettings,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		_ = s.auditSvc.AuditLog(c.Request.Context(), &resp.ID, "company.update", "company", &targetID, nil)
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
