package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	authdomain "github.com/thiagosouza28/ideart-cloud/internal/auth/domain"
	"github.com/thiagosouza28/ideart-cloud/internal/auditcontext"
	"github.com/thiagosouza28/ideart-cloud/internal/companyctx"
)

const identityKey = "identity"

// SessionRequired resolves the session token and the caller's company
// membership, then scopes the request context to that company. The company
// is selected with the X-Company-Id header; users with a single membership
// may omit it.
func (s *Server) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		companyID, err := parseID(c.GetHeader("X-Company-Id"))
		if err != nil && strings.TrimSpace(c.GetHeader("X-Company-Id")) != "" {
			AbortWithError(c, newValidationError("company_id", "invalid_company_id", "Empresa inválida."))
			return
		}

		identity, err := s.authSvc.Resolve(c.Request.Context(), token, companyID)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		if identity.CompanyID == 0 {
			AbortWithError(c, ErrForbidden)
			return
		}

		ctx := companyctx.WithCompanyID(c.Request.Context(), identity.CompanyID)
		ctx = auditcontext.WithActor(ctx, "user", identity.User.ID.String())
		ctx = auditcontext.WithCompanyID(ctx, int64(identity.CompanyID))
		c.Request = c.Request.WithContext(ctx)
		c.Set(identityKey, identity)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookie, err := c.Cookie("session"); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

func currentIdentity(c *gin.Context) (authdomain.Identity, bool) {
	value, ok := c.Get(identityKey)
	if !ok {
		return authdomain.Identity{}, false
	}
	identity, ok := value.(authdomain.Identity)
	return identity, ok
}

// actorRef formats the caller for the authorization service.
func actorRef(identity authdomain.Identity) string {
	return "user:" + identity.User.ID.String()
}

// requireAction enforces one policy rule for the current caller.
func (s *Server) requireAction(c *gin.Context, object, action string) bool {
	identity, ok := currentIdentity(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return false
	}
	err := s.authz.Authorize(c.Request.Context(), actorRef(identity), identity.CompanyID.String(), object, action)
	if err != nil {
		AbortWithError(c, err)
		return false
	}
	return true
}
