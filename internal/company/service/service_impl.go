package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/thiagosouza28/ideart-cloud/internal/cache"
	companydomain "github.com/thiagosouza28/ideart-cloud/internal/company/domain"
	"github.com/thiagosouza28/ideart-cloud/internal/companyctx"
	"github.com/thiagosouza28/ideart-cloud/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	profiles    *cache.TTLCache[string, *companydomain.StorefrontProfile]
	settingsTTL time.Duration
}

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Config config.Config
}

func NewService(p ServiceParam) companydomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("company.service"),
		profiles:    cache.NewTTLCache[string, *companydomain.StorefrontProfile](),
		settingsTTL: p.Config.Storefront.SettingsTTL,
	}
}

func (s *Service) Get(ctx context.Context) (*companydomain.Company, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 {
		return nil, companydomain.ErrCompanyNotFound
	}

	var company companydomain.Company
	err := s.db.WithContext(ctx).First(&company, "id = ?", companyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, companydomain.ErrCompanyNotFound
		}
		return nil, err
	}
	company.CatalogSettings = company.CatalogSettings.WithDefaults()
	return &company, nil
}

func (s *Service) Update(ctx context.Context, req companydomain.UpdateRequest) (*companydomain.Company, error) {
	company, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	oldSlug := company.Slug
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, companydomain.ErrInvalidName
		}
		company.Name = name
	}
	if req.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*req.Slug))
		if !companydomain.ValidSlug(slug) {
			return nil, companydomain.ErrInvalidSlug
		}
		if slug != company.Slug {
			var taken int64
			err := s.db.WithContext(ctx).Model(&companydomain.Company{}).
				Where("slug = ? AND id <> ?", slug, company.ID).
				Count(&taken).Error
			if err != nil {
				return nil, err
			}
			if taken > 0 {
				return nil, companydomain.ErrSlugTaken
			}
			company.Slug = slug
		}
	}
	if req.Email != nil {
		company.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		company.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Document != nil {
		company.Document = strings.TrimSpace(*req.Document)
	}
	if req.AddressStreet != nil {
		company.AddressStreet = strings.TrimSpace(*req.AddressStreet)
	}
	if req.AddressCity != nil {
		company.AddressCity = strings.TrimSpace(*req.AddressCity)
	}
	if req.AddressState != nil {
		company.AddressState = strings.TrimSpace(*req.AddressState)
	}
	if req.AddressZip != nil {
		company.AddressZip = strings.TrimSpace(*req.AddressZip)
	}
	if req.CatalogSettings != nil {
		company.CatalogSettings = req.CatalogSettings.WithDefaults()
	}
	company.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(company).Error; err != nil {
		// A concurrent rename can still hit the unique index between the
		// availability check and the save.
		if strings.Contains(err.Error(), "duplicate key value") ||
			strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, companydomain.ErrSlugTaken
		}
		return nil, err
	}

	// Drop the cached public profile so storefront viewers pick up the new
	// presentation on the next load.
	s.profiles.Delete(oldSlug)
	s.profiles.Delete(company.Slug)
	return company, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*companydomain.StorefrontProfile, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, companydomain.ErrInvalidSlug
	}
	if profile, ok := s.profiles.Get(slug); ok {
		return profile, nil
	}

	var company companydomain.Company
	err := s.db.WithContext(ctx).First(&company, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, companydomain.ErrCompanyNotFound
		}
		return nil, err
	}

	profile := &companydomain.StorefrontProfile{
		ID:       company.ID,
		Name:     company.Name,
		Slug:     company.Slug,
		Phone:    company.Phone,
		City:     company.AddressCity,
		Settings: company.CatalogSettings.WithDefaults(),
	}
	s.profiles.Set(slug, profile, s.settingsTTL)
	return profile, nil
}
