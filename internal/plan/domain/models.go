package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Plan is a subscription tier shown on the plans page. Enforcement lives
// with the billing provider; this side only administers the listing.
type Plan struct {
	ID                snowflake.ID      `json:"id" gorm:"primaryKey"`
	Name              string            `json:"name" gorm:"type:text;not null"`
	PriceCents        int64             `json:"price_cents" gorm:"not null;default:0"`
	BillingInterval   string            `json:"billing_interval" gorm:"type:text;not null;default:'month'"`
	Features          datatypes.JSONMap `json:"features" gorm:"type:jsonb;not null;default:'{}'"`
	MaxUsers          int               `json:"max_users" gorm:"not null;default:1"`
	ExternalBillingID string            `json:"external_billing_id,omitempty" gorm:"type:text"`
	Active            bool              `json:"active" gorm:"not null;default:true"`
	SortOrder         int               `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt         time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Plan) TableName() string { return "plans" }

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidInterval = errors.New("invalid_billing_interval")
	ErrNotFound        = errors.New("plan_not_found")
)

// ValidInterval accepts the billing intervals the provider supports.
func ValidInterval(interval string) bool {
	switch interval {
	case "month", "year":
		return true
	}
	return false
}

type CreateRequest struct {
	Name              string
	PriceCents        int64
	BillingInterval   string
	Features          map[string]any
	MaxUsers          int
	ExternalBillingID string
	SortOrder         int
}

type UpdateRequest struct {
	ID                snowflake.ID
	Name              *string
	PriceCents        *int64
	BillingInterval   *string
	Features          map[string]any
	MaxUsers          *int
	ExternalBillingID *string
	Active            *bool
	SortOrder         *int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Plan, error)
	Get(ctx context.Context, id snowflake.ID) (*Plan, error)
	Update(ctx context.Context, req UpdateRequest) (*Plan, error)
	// List returns plans in sort order; activeOnly hides retired tiers.
	List(ctx context.Context, activeOnly bool) ([]Plan, error)
}
