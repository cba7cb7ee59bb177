package authorization

import "context"

// Objects and actions known to the policy.
const (
	ObjectOrder    = "order"
	ObjectCustomer = "customer"
	ObjectProduct  = "product"
	ObjectReport   = "report"
	ObjectPlan     = "plan"
	ObjectCompany  = "company"

	ActionView       = "view"
	ActionManage     = "manage"
	ActionTransition = "transition"
	// ActionReactivate guards moving a canceled order back to pendente.
	ActionReactivate = "reactivate"
	ActionExport     = "export"
)

// Service answers "may this actor perform this action in this company".
type Service interface {
	Authorize(ctx context.Context, actor string, companyID string, object string, action string) error
}
