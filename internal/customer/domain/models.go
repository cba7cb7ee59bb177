package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Customer has a lifecycle independent from orders: orders reference
// customers but do not own them.
type Customer struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	CompanyID snowflake.ID `json:"company_id" gorm:"column:company_id;not null;index"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Phone     string       `json:"phone,omitempty" gorm:"type:text"`
	Document  string       `json:"document,omitempty" gorm:"type:text"`
	Email     string       `json:"email,omitempty" gorm:"type:text"`
	City      string       `json:"city,omitempty" gorm:"type:text"`
	BirthDate *time.Time   `json:"birth_date,omitempty" gorm:"type:date"`
	PhotoRef  string       `json:"photo_ref,omitempty" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Customer) TableName() string { return "customers" }

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidPhone    = errors.New("invalid_phone")
	ErrInvalidDocument = errors.New("invalid_document")
	ErrInvalidEmail    = errors.New("invalid_email")
	ErrNotFound        = errors.New("customer_not_found")
)

type CreateRequest struct {
	Name      string
	Phone     string
	Document  string
	Email     string
	City      string
	BirthDate *time.Time
	PhotoRef  string
}

type UpdateRequest struct {
	ID        snowflake.ID
	Name      *string
	Phone     *string
	Document  *string
	Email     *string
	City      *string
	BirthDate *time.Time
	PhotoRef  *string
}

type ListRequest struct {
	Name      string
	City      string
	PageToken string
	PageSize  int32
}

type ListResponse struct {
	Customers     []Customer `json:"customers"`
	NextPageToken string     `json:"next_page_token,omitempty"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Customer, error)
	Get(ctx context.Context, id snowflake.ID) (*Customer, error)
	Update(ctx context.Context, req UpdateRequest) (*Customer, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}
