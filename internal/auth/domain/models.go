package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role is a user's role within one company.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
	RoleGerente  Role = "gerente"
	RoleVendedor Role = "vendedor"
	RoleCaixa    Role = "caixa"
	RoleProducao Role = "producao"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleGerente, RoleVendedor, RoleCaixa, RoleProducao:
		return true
	default:
		return false
	}
}

// User is an account that can sign in.
type User struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	Email        string       `json:"email" gorm:"type:text;not null;uniqueIndex"`
	DisplayName  string       `json:"display_name" gorm:"type:text;not null"`
	PasswordHash *string      `json:"-" gorm:"type:text"`
	IsDefault    bool         `json:"is_default" gorm:"not null;default:false"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string { return "users" }

// Session is an opaque-token login session.
type Session struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID    snowflake.ID `json:"user_id" gorm:"not null;index"`
	Token     string       `json:"-" gorm:"type:text;not null;uniqueIndex"`
	ExpiresAt time.Time    `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Session) TableName() string { return "sessions" }

// CompanyMember ties a user to a company with one role.
type CompanyMember struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	CompanyID snowflake.ID `json:"company_id" gorm:"column:company_id;not null;index"`
	UserID    snowflake.ID `json:"user_id" gorm:"not null;index"`
	Role      Role         `json:"role" gorm:"type:text;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CompanyMember) TableName() string { return "company_members" }

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrSessionExpired     = errors.New("session_expired")
	ErrSessionNotFound    = errors.New("session_not_found")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrNotAMember         = errors.New("not_a_member")
)

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse carries the session token and memberships.
type LoginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	User      *User           `json:"user"`
	Companies []CompanyMember `json:"companies"`
}

// Identity is the resolved caller of an authenticated request.
type Identity struct {
	User      *User
	CompanyID snowflake.ID
	Role      Role
}

// Service handles sign-in and session resolution.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context, token string) error
	// Resolve validates the session token and the caller's membership in
	// the requested company.
	Resolve(ctx context.Context, token string, companyID snowflake.ID) (Identity, error)
}
