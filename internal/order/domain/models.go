package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Order is a production order. Orders are never deleted; cancellation is a
// status, not a removal.
type Order struct {
	ID            snowflake.ID  `json:"id" gorm:"primaryKey"`
	CompanyID     snowflake.ID  `json:"company_id" gorm:"column:company_id;not null;index"`
	DisplayNumber int64         `json:"display_number" gorm:"not null"`
	CustomerID    *snowflake.ID `json:"customer_id,omitempty"`
	CustomerName  string        `json:"customer_name" gorm:"type:text"`
	Status        Status        `json:"status" gorm:"type:text;not null"`
	TotalCents    int64         `json:"total_cents" gorm:"not null;default:0"`
	PaidCents     int64         `json:"paid_cents" gorm:"not null;default:0"`
	PaymentMethod string        `json:"payment_method" gorm:"type:text"`
	// Version increases on every committed transition. Clients ignore any
	// refetched row older than the version they already applied locally.
	Version   int64         `json:"version" gorm:"not null;default:1"`
	CreatedBy *snowflake.ID `json:"created_by,omitempty"`
	CreatedAt time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one line of an order, shown as the card preview.
type OrderItem struct {
	ID             snowflake.ID `json:"id" gorm:"primaryKey"`
	CompanyID      snowflake.ID `json:"company_id" gorm:"column:company_id;not null"`
	OrderID        snowflake.ID `json:"order_id" gorm:"not null;index"`
	Description    string       `json:"description" gorm:"type:text;not null"`
	Quantity       int          `json:"quantity" gorm:"not null;default:1"`
	UnitPriceCents int64        `json:"unit_price_cents" gorm:"not null;default:0"`
	UnitCostCents  int64        `json:"unit_cost_cents" gorm:"not null;default:0"`
}

func (OrderItem) TableName() string { return "order_items" }

// StatusHistory is an append-only record of a committed transition. Rows are
// only ever inserted, never mutated.
type StatusHistory struct {
	ID        snowflake.ID  `json:"id" gorm:"primaryKey"`
	CompanyID snowflake.ID  `json:"company_id" gorm:"column:company_id;not null"`
	OrderID   snowflake.ID  `json:"order_id" gorm:"not null;index"`
	Status    Status        `json:"status" gorm:"type:text;not null"`
	ChangedBy *snowflake.ID `json:"changed_by,omitempty"`
	CreatedAt time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (StatusHistory) TableName() string { return "order_status_history" }
