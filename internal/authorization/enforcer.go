package authorization

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Role capability policy. Owner inherits admin, admin inherits gerente, so
// grants below are the lowest role that holds each capability.
var seedPolicies = [][3]string{
	{"role:gerente", ObjectOrder, ActionReactivate},
	{"role:gerente", ObjectOrder, ActionView},
	{"role:gerente", ObjectOrder, ActionTransition},
	{"role:gerente", ObjectOrder, ActionManage},
	{"role:gerente", ObjectCustomer, ActionManage},
	{"role:gerente", ObjectProduct, ActionManage},
	{"role:gerente", ObjectReport, ActionView},
	{"role:gerente", ObjectReport, ActionExport},
	{"role:admin", ObjectPlan, ActionManage},
	{"role:admin", ObjectCompany, ActionManage},

	{"role:vendedor", ObjectOrder, ActionView},
	{"role:vendedor", ObjectOrder, ActionTransition},
	{"role:vendedor", ObjectOrder, ActionManage},
	{"role:vendedor", ObjectCustomer, ActionManage},

	{"role:caixa", ObjectOrder, ActionView},
	{"role:caixa", ObjectOrder, ActionTransition},
	{"role:caixa", ObjectReport, ActionView},

	{"role:producao", ObjectOrder, ActionView},
	{"role:producao", ObjectOrder, ActionTransition},
}

var seedGroupings = [][2]string{
	{"role:owner", "role:admin"},
	{"role:admin", "role:gerente"},
	{"role:gerente", "role:vendedor"},
}

// NewEnforcer builds the casbin enforcer backed by the casbin_rule table and
// seeds the static role policy.
func NewEnforcer(db *gorm.DB) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}

	for _, policy := range seedPolicies {
		if _, err := enforcer.AddPolicy(policy[0], policy[1], policy[2]); err != nil {
			return nil, err
		}
	}
	for _, grouping := range seedGroupings {
		if _, err := enforcer.AddGroupingPolicy(grouping[0], grouping[1]); err != nil {
			return nil, err
		}
	}
	return enforcer, nil
}
