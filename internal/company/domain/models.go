package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// CatalogLayout selects the public catalog presentation.
type CatalogLayout string

const (
	LayoutGrid CatalogLayout = "grid"
	LayoutList CatalogLayout = "list"
)

// CatalogSettings is the storefront presentation record. All fields are
// typed and defaulted; there is no loose settings blob.
type CatalogSettings struct {
	PrimaryColor       string        `json:"primary_color"`
	SecondaryColor     string        `json:"secondary_color"`
	BackgroundColor    string        `json:"background_color"`
	TextColor          string        `json:"text_color"`
	FontFamily         string        `json:"font_family"`
	Layout             CatalogLayout `json:"layout"`
	ColumnsMobile      int           `json:"columns_mobile"`
	ColumnsDesktop     int           `json:"columns_desktop"`
	OrderButtonText    string        `json:"order_button_text"`
	ShowPrices         bool          `json:"show_prices"`
	MinOrderValueCents int64         `json:"min_order_value_cents"`
	WhatsAppNumber     string        `json:"whatsapp_number"`
	BannerRef          string        `json:"banner_ref"`
	LogoRef            string        `json:"logo_ref"`
}

// DefaultCatalogSettings returns the settings applied to new companies and
// merged under any persisted partial record.
func DefaultCatalogSettings() CatalogSettings {
	return CatalogSettings{
		PrimaryColor:    "#7c3aed",
		SecondaryColor:  "#a78bfa",
		BackgroundColor: "#ffffff",
		TextColor:       "#1f2937",
		FontFamily:      "Inter",
		Layout:          LayoutGrid,
		ColumnsMobile:   2,
		ColumnsDesktop:  4,
		OrderButtonText: "Pedir agora",
		ShowPrices:      true,
	}
}

// WithDefaults fills zero-valued presentation fields from the defaults.
func (s CatalogSettings) WithDefaults() CatalogSettings {
	defaults := DefaultCatalogSettings()
	if s.PrimaryColor == "" {
		s.PrimaryColor = defaults.PrimaryColor
	}
	if s.SecondaryColor == "" {
		s.SecondaryColor = defaults.SecondaryColor
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = defaults.BackgroundColor
	}
	if s.TextColor == "" {
		s.TextColor = defaults.TextColor
	}
	if s.FontFamily == "" {
		s.FontFamily = defaults.FontFamily
	}
	if s.Layout != LayoutGrid && s.Layout != LayoutList {
		s.Layout = defaults.Layout
	}
	if s.ColumnsMobile <= 0 {
		s.ColumnsMobile = defaults.ColumnsMobile
	}
	if s.ColumnsDesktop <= 0 {
		s.ColumnsDesktop = defaults.ColumnsDesktop
	}
	if s.OrderButtonText == "" {
		s.OrderButtonText = defaults.OrderButtonText
	}
	return s
}

// Company is one tenant. Every other entity carries its id.
type Company struct {
	ID              snowflake.ID    `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"type:text;not null"`
	Slug            string          `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Email           string          `json:"email,omitempty" gorm:"type:text"`
	Phone           string          `json:"phone,omitempty" gorm:"type:text"`
	Document        string          `json:"document,omitempty" gorm:"type:text"`
	AddressStreet   string          `json:"address_street,omitempty" gorm:"type:text"`
	AddressCity     string          `json:"address_city,omitempty" gorm:"type:text"`
	AddressState    string          `json:"address_state,omitempty" gorm:"type:text"`
	AddressZip      string          `json:"address_zip,omitempty" gorm:"type:text"`
	CatalogSettings CatalogSettings `json:"catalog_settings" gorm:"type:jsonb;serializer:json"`
	IsDefault       bool            `json:"is_default" gorm:"not null;default:false"`
	CreatedAt       time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Company) TableName() string { return "companies" }

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidSlug     = errors.New("invalid_slug")
	ErrSlugTaken       = errors.New("slug_taken")
	ErrCompanyNotFound = errors.New("company_not_found")
)

// ValidSlug accepts lowercase letters, digits and inner hyphens; the slug
// is a public URL segment.
func ValidSlug(slug string) bool {
	if len(slug) < 2 || len(slug) > 60 {
		return false
	}
	for i, r := range slug {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
			if i == 0 || i == len(slug)-1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// UpdateRequest patches the company profile and storefront settings.
type UpdateRequest struct {
	Name            *string
	Slug            *string
	Email           *string
	Phone           *string
	Document        *string
	AddressStreet   *string
	AddressCity     *string
	AddressState    *string
	AddressZip      *string
	CatalogSettings *CatalogSettings
}

// StorefrontProfile is the public view of a company resolved by slug.
type StorefrontProfile struct {
	ID       snowflake.ID    `json:"id"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Phone    string          `json:"phone,omitempty"`
	City     string          `json:"city,omitempty"`
	Settings CatalogSettings `json:"settings"`
}

// Service manages the tenant profile.
type Service interface {
	Get(ctx context.Context) (*Company, error)
	Update(ctx context.Context, req UpdateRequest) (*Company, error)
	// GetBySlug resolves the public storefront profile; results are cached
	// briefly since every storefront page load hits it.
	GetBySlug(ctx context.Context, slug string) (*StorefrontProfile, error)
}
