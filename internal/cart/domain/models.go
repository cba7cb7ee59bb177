package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Line is one product entry in a storefront cart.
type Line struct {
	ProductID  snowflake.ID `json:"product_id"`
	Name       string       `json:"name"`
	Quantity   int          `json:"quantity"`
	PriceCents int64        `json:"price_cents"`
	Promo      bool         `json:"promo"`
	Notes      string       `json:"notes,omitempty"`
}

// Cart is an anonymous storefront cart. Carts live in memory only and
// expire after the configured TTL; a lost cart is an acceptable outcome.
type Cart struct {
	Token     string       `json:"token"`
	CompanyID snowflake.ID `json:"company_id"`
	Lines     []Line       `json:"lines"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TotalCents sums every line at its resolved price.
func (c Cart) TotalCents() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.PriceCents * int64(line.Quantity)
	}
	return total
}

// LineCount is the number of distinct products in the cart.
func (c Cart) LineCount() int { return len(c.Lines) }

// Clone returns a deep copy with its own Lines slice. Cached carts are
// shared between requests and must never be mutated in place.
func (c *Cart) Clone() *Cart {
	out := *c
	out.Lines = append([]Line(nil), c.Lines...)
	return &out
}

var (
	ErrInvalidToken    = errors.New("invalid_cart_token")
	ErrInvalidCompany  = errors.New("invalid_company_id")
	ErrInvalidProduct  = errors.New("invalid_product")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrBelowMinimum    = errors.New("below_minimum_order_value")
)

type SetItemRequest struct {
	CompanyID snowflake.ID
	Token     string
	ProductID snowflake.ID
	// Quantity zero removes the line. Positive quantities below the
	// product's minimum order quantity are raised to it.
	Quantity int
	Notes    string
}

// CheckoutSummary is what the storefront renders before handing off to
// WhatsApp. MeetsMinimum reflects the company's minimum order value.
type CheckoutSummary struct {
	Cart         Cart   `json:"cart"`
	TotalCents   int64  `json:"total_cents"`
	MeetsMinimum bool   `json:"meets_minimum"`
	WhatsAppURL  string `json:"whatsapp_url,omitempty"`
}

type Service interface {
	Get(ctx context.Context, companyID snowflake.ID, token string) (*Cart, error)
	SetItem(ctx context.Context, req SetItemRequest) (*Cart, error)
	// Merge folds the source cart into the destination one, summing
	// quantities per product, and drops the source.
	Merge(ctx context.Context, companyID snowflake.ID, dstToken, srcToken string) (*Cart, error)
	Clear(ctx context.Context, companyID snowflake.ID, token string) error
	Checkout(ctx context.Context, companyID snowflake.ID, token string) (*CheckoutSummary, error)
}
