package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	authdomain "github.com/thiagosouza28/ideart-cloud/internal/auth/domain"
	"github.com/thiagosouza28/ideart-cloud/internal/auth/password"
	companydomain "github.com/thiagosouza28/ideart-cloud/internal/company/domain"
)

const (
	defaultCompanyName   = "IdeArt"
	defaultCompanySlug   = "ideart"
	defaultAdminEmail    = "admin@ideart.cloud"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "IdeArt Admin"
)

// EnsureDefaultCompany seeds the default company for startup bootstrap.
func EnsureDefaultCompany(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureDefaultCompanyTx(ctx, tx, node)
		return err
	})
}

// EnsureDefaultCompanyAndAdmin seeds the default company and admin user for
// single-tenant installs.
func EnsureDefaultCompanyAndAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, err := ensureDefaultCompanyTx(ctx, tx, node)
		if err != nil {
			return err
		}

		var user authdomain.User
		err = tx.WithContext(ctx).
			Where("email = ?", strings.ToLower(defaultAdminEmail)).
			First(&user).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			hashed, err := password.Hash(defaultAdminPassword)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			user = authdomain.User{
				ID:           node.Generate(),
				Email:        strings.ToLower(defaultAdminEmail),
				DisplayName:  defaultAdminDisplay,
				PasswordHash: &hashed,
				IsDefault:    true,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
				return err
			}
		}

		var member authdomain.CompanyMember
		err = tx.WithContext(ctx).
			Where("company_id = ? AND user_id = ?", company.ID, user.ID).
			First(&member).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			member = authdomain.CompanyMember{
				ID:        node.Generate(),
				CompanyID: company.ID,
				UserID:    user.ID,
				Role:      authdomain.RoleOwner,
				CreatedAt: time.Now().UTC(),
			}
			if err := tx.WithContext(ctx).Create(&member).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func ensureDefaultCompanyTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (companydomain.Company, error) {
	var company companydomain.Company
	err := tx.WithContext(ctx).Where("slug = ?", defaultCompanySlug).First(&company).Error
	if err == nil {
		return company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return company, err
	}
	now := time.Now().UTC()
	company = companydomain.Company{
		ID:              node.Generate(),
		Name:            defaultCompanyName,
		Slug:            defaultCompanySlug,
		CatalogSettings: companydomain.DefaultCatalogSettings(),
		IsDefault:       true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.WithContext(ctx).Create(&company).Error; err != nil {
		return company, err
	}
	return company, nil
}
