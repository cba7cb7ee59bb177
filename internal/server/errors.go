package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authdomain "github.com/thiagosouza28/ideart-cloud/internal/auth/domain"
	"github.com/thiagosouza28/ideart-cloud/internal/authorization"
	cartdomain "github.com/thiagosouza28/ideart-cloud/internal/cart/domain"
	companydomain "github.com/thiagosouza28/ideart-cloud/internal/company/domain"
	customerdomain "github.com/thiagosouza28/ideart-cloud/internal/customer/domain"
	orderdomain "github.com/thiagosouza28/ideart-cloud/internal/order/domain"
	plandomain "github.com/thiagosouza28/ideart-cloud/internal/plan/domain"
	productdomain "github.com/thiagosouza28/ideart-cloud/internal/product/domain"
	reportdomain "github.com/thiagosouza28/ideart-cloud/internal/report/domain"
)

// apiError is the wire shape of every handler failure. Messages are what the
// UI shows, so they are written in pt-BR; codes are stable for clients.
type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *apiError) Error() string { return e.Code }

var (
	ErrUnauthorized = &apiError{
		Status:  http.StatusUnauthorized,
		Code:    "unauthorized",
		Message: "Sessão inválida. Faça login novamente.",
	}
	ErrSessionExpired = &apiError{
		Status:  http.StatusUnauthorized,
		Code:    "session_expired",
		Message: "Sessão expirada. Faça login novamente.",
	}
	ErrForbidden = &apiError{
		Status:  http.StatusForbidden,
		Code:    "forbidden",
		Message: "Sem permissão.",
	}
	ErrNotFound = &apiError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: "Registro não encontrado.",
	}
	ErrServiceUnavailable = &apiError{
		Status:  http.StatusServiceUnavailable,
		Code:    "service_unavailable",
		Message: "Serviço indisponível. Tente novamente.",
	}
	ErrTooManyRequests = &apiError{
		Status:  http.StatusTooManyRequests,
		Code:    "rate_limited",
		Message: "Muitas requisições. Aguarde um instante.",
	}
)

func invalidRequestError() *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "Requisição inválida.",
	}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Field:   field,
		Message: message,
	}
}

// AbortWithError maps a service error onto the response and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
}

func toAPIError(err error) *apiError {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		return &apiError{Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "E-mail ou senha incorretos."}
	case errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionNotFound):
		return ErrSessionExpired
	case errors.Is(err, authdomain.ErrNotAMember),
		errors.Is(err, authorization.ErrForbidden):
		return ErrForbidden

	case errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, plandomain.ErrNotFound),
		errors.Is(err, companydomain.ErrCompanyNotFound):
		return ErrNotFound

	case errors.Is(err, orderdomain.ErrArtDecisionRequired):
		return &apiError{
			Status:  http.StatusConflict,
			Code:    "art_decision_required",
			Message: "Informe se o pedido precisa de arte antes de mover.",
		}
	case errors.Is(err, orderdomain.ErrTerminalStatus):
		return &apiError{
			Status:  http.StatusConflict,
			Code:    "terminal_status",
			Message: "Pedido finalizado não pode ser movido.",
		}
	case errors.Is(err, orderdomain.ErrVersionConflict):
		return &apiError{
			Status:  http.StatusConflict,
			Code:    "version_conflict",
			Message: "O pedido foi alterado por outra pessoa. Atualize e tente novamente.",
		}

	case errors.Is(err, orderdomain.ErrInvalidStatus):
		return newValidationError("status", "invalid_status", "Status inválido.")
	case errors.Is(err, orderdomain.ErrInvalidItems):
		return newValidationError("items", "invalid_items", "Itens do pedido inválidos.")
	case errors.Is(err, orderdomain.ErrInvalidCustomer):
		return newValidationError("customer", "invalid_customer", "Cliente inválido.")
	case errors.Is(err, customerdomain.ErrInvalidName),
		errors.Is(err, productdomain.ErrInvalidName),
		errors.Is(err, plandomain.ErrInvalidName),
		errors.Is(err, companydomain.ErrInvalidName):
		return newValidationError("name", "invalid_name", "Nome é obrigatório.")
	case errors.Is(err, customerdomain.ErrInvalidPhone):
		return newValidationError("phone", "invalid_phone", "Telefone inválido.")
	case errors.Is(err, customerdomain.ErrInvalidDocument):
		return newValidationError("document", "invalid_document", "CPF inválido.")
	case errors.Is(err, customerdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrInvalidEmail):
		return newValidationError("email", "invalid_email", "E-mail inválido.")
	case errors.Is(err, productdomain.ErrInvalidMinQty):
		return newValidationError("min_order_qty", "invalid_min_order_qty", "Quantidade mínima inválida.")
	case errors.Is(err, productdomain.ErrInvalidPromo):
		return newValidationError("promo", "invalid_promo_window", "Período da promoção inválido.")
	case errors.Is(err, plandomain.ErrInvalidInterval):
		return newValidationError("billing_interval", "invalid_billing_interval", "Intervalo de cobrança inválido.")
	case errors.Is(err, companydomain.ErrInvalidSlug):
		return newValidationError("slug", "invalid_slug", "Endereço do catálogo inválido.")
	case errors.Is(err, companydomain.ErrSlugTaken):
		return newValidationError("slug", "slug_taken", "Endereço do catálogo já está em uso.")
	case errors.Is(err, reportdomain.ErrInvalidRange):
		return newValidationError("range", "invalid_date_range", "Período inválido.")
	case errors.Is(err, reportdomain.ErrInvalidGranularity):
		return newValidationError("granularity", "invalid_granularity", "Agrupamento inválido.")
	case errors.Is(err, cartdomain.ErrInvalidProduct):
		return newValidationError("product_id", "invalid_product", "Produto indisponível no catálogo.")
	case errors.Is(err, cartdomain.ErrInvalidQuantity):
		return newValidationError("quantity", "invalid_quantity", "Quantidade inválida.")
	case errors.Is(err, cartdomain.ErrInvalidToken):
		return newValidationError("cart_token", "invalid_cart_token", "Carrinho inválido.")

	case errors.Is(err, orderdomain.ErrInvalidID),
		errors.Is(err, customerdomain.ErrInvalidID),
		errors.Is(err, productdomain.ErrInvalidID),
		errors.Is(err, plandomain.ErrInvalidID):
		return newValidationError("id", "invalid_id", "Identificador inválido.")
	}

	return &apiError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_error",
		Message: "Erro interno. Tente novamente.",
	}
}
