package companyctx

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type contextKey string

const companyIDKey contextKey = "company_id"

// WithCompanyID scopes the context to one tenant. Every repository query
// reads the company from here; there is no ambient tenant state.
func WithCompanyID(ctx context.Context, companyID snowflake.ID) context.Context {
	if companyID == 0 {
		return ctx
	}
	return context.WithValue(ctx, companyIDKey, companyID)
}

// CompanyIDFromContext returns the scoped company, or zero when unscoped.
func CompanyIDFromContext(ctx context.Context) snowflake.ID {
	value, _ := ctx.Value(companyIDKey).(snowflake.ID)
	return value
}
