package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Product is a catalog-enabled inventory item.
//
// CatalogEnabled and ShowInCatalog are historically-overlapping columns:
// older rows set one, newer rows the other. Visibility is their OR, and
// writes keep both in sync via SetVisible. Do not touch the columns
// directly.
type Product struct {
	ID                snowflake.ID `json:"id" gorm:"primaryKey"`
	CompanyID         snowflake.ID `json:"company_id" gorm:"column:company_id;not null;index"`
	Name              string       `json:"name" gorm:"type:text;not null"`
	SKU               string       `json:"sku,omitempty" gorm:"column:sku;type:text"`
	Barcode           string       `json:"barcode,omitempty" gorm:"type:text"`
	Stock             int          `json:"stock" gorm:"not null;default:0"`
	ImageRef          string       `json:"image_ref,omitempty" gorm:"type:text"`
	CostCents         int64        `json:"cost_cents" gorm:"not null;default:0"`
	SalePriceCents    int64        `json:"sale_price_cents" gorm:"not null;default:0"`
	CatalogEnabled    bool         `json:"catalog_enabled" gorm:"not null;default:false"`
	ShowInCatalog     bool         `json:"show_in_catalog" gorm:"not null;default:false"`
	Featured          bool         `json:"featured" gorm:"not null;default:false"`
	MinOrderQty       int          `json:"min_order_qty" gorm:"not null;default:1"`
	CatalogPriceCents *int64       `json:"catalog_price_cents,omitempty"`
	PromoPriceCents   *int64       `json:"promo_price_cents,omitempty"`
	PromoStartsAt     *time.Time   `json:"promo_starts_at,omitempty"`
	PromoEndsAt       *time.Time   `json:"promo_ends_at,omitempty"`
	// MarkupBps is the suggested-price markup over cost in basis points.
	MarkupBps int64     `json:"markup_bps" gorm:"not null;default:10000"`
	SortOrder int       `json:"sort_order" gorm:"not null;default:0"`
	Slug      string    `json:"slug,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// Visible is the catalog visibility predicate: the OR of both legacy flags.
func (p Product) Visible() bool {
	return p.CatalogEnabled || p.ShowInCatalog
}

// SetVisible writes both legacy columns together.
func (p *Product) SetVisible(visible bool) {
	p.CatalogEnabled = visible
	p.ShowInCatalog = visible
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidMinQty = errors.New("invalid_min_order_qty")
	ErrInvalidPromo  = errors.New("invalid_promo_window")
	ErrNotFound      = errors.New("product_not_found")
)

type CreateRequest struct {
	Name              string
	SKU               string
	Barcode           string
	Stock             int
	ImageRef          string
	CostCents         int64
	SalePriceCents    int64
	Visible           *bool
	Featured          *bool
	MinOrderQty       *int
	CatalogPriceCents *int64
	PromoPriceCents   *int64
	PromoStartsAt     *time.Time
	PromoEndsAt       *time.Time
	MarkupBps         *int64
	SortOrder         *int
	Slug              string
}

type UpdateRequest struct {
	ID                snowflake.ID
	Name              *string
	SKU               *string
	Barcode           *string
	Stock             *int
	ImageRef          *string
	CostCents         *int64
	SalePriceCents    *int64
	Visible           *bool
	Featured          *bool
	MinOrderQty       *int
	CatalogPriceCents *int64
	PromoPriceCents   *int64
	PromoStartsAt     *time.Time
	PromoEndsAt       *time.Time
	MarkupBps         *int64
	SortOrder         *int
	Slug              *string
}

type ListRequest struct {
	Name        string
	VisibleOnly bool
}

// CatalogItem is a product as shown on the public storefront, with its
// price already resolved.
type CatalogItem struct {
	ID          snowflake.ID `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug,omitempty"`
	ImageRef    string       `json:"image_ref,omitempty"`
	Featured    bool         `json:"featured"`
	MinOrderQty int          `json:"min_order_qty"`
	PriceCents  int64        `json:"price_cents"`
	// Promo marks that the resolved price came from an active promotion.
	Promo bool `json:"promo"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	Get(ctx context.Context, id snowflake.ID) (*Product, error)
	Update(ctx context.Context, req UpdateRequest) (*Product, error)
	List(ctx context.Context, req ListRequest) ([]Product, error)
	// Catalog returns the public storefront items for a company, visible
	// products only, in sort order, prices resolved at now.
	Catalog(ctx context.Context, companyID snowflake.ID, now time.Time) ([]CatalogItem, error)
}
