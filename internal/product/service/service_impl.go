package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/thiagosouza28/ideart-cloud/internal/companyctx"
	eventsvc "github.com/thiagosouza28/ideart-cloud/internal/events"
	productdomain "github.com/thiagosouza28/ideart-cloud/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	outbox *eventsvc.Outbox
}

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Outbox *eventsvc.Outbox
}

func NewService(p ServiceParam) productdomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("product.service"),
		genID:  p.GenID,
		outbox: p.Outbox,
	}
}

func (s *Service) Create(ctx context.Context, req productdomain.CreateRequest) (*productdomain.Product, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 {
		return nil, productdomain.ErrInvalidID
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, productdomain.ErrInvalidName
	}
	if err := validatePromoWindow(req.PromoStartsAt, req.PromoEndsAt); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &productdomain.Product{
		ID:                s.genID.Generate(),
		CompanyID:         companyID,
		Name:              name,
		SKU:               strings.TrimSpace(req.SKU),
		Barcode:           strings.TrimSpace(req.Barcode),
		Stock:             req.Stock,
		ImageRef:          strings.TrimSpace(req.ImageRef),
		CostCents:         req.CostCents,
		SalePriceCents:    req.SalePriceCents,
		MinOrderQty:       1,
		CatalogPriceCents: req.CatalogPriceCents,
		PromoPriceCents:   req.PromoPriceCents,
		PromoStartsAt:     req.PromoStartsAt,
		PromoEndsAt:       req.PromoEndsAt,
		MarkupBps:         10000,
		Slug:              strings.TrimSpace(req.Slug),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if req.Visible != nil {
		product.SetVisible(*req.Visible)
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.MinOrderQty != nil {
		if *req.MinOrderQty < 1 {
			return nil, productdomain.ErrInvalidMinQty
		}
		product.MinOrderQty = *req.MinOrderQty
	}
	if req.MarkupBps != nil && *req.MarkupBps > 0 {
		product.MarkupBps = *req.MarkupBps
	}
	if req.SortOrder != nil {
		product.SortOrder = *req.SortOrder
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	s.publishCatalogUpdated(ctx, companyID, product.ID)
	return product, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*productdomain.Product, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 || id == 0 {
		return nil, productdomain.ErrInvalidID
	}
	var product productdomain.Product
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, productdomain.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *Service) Update(ctx context.Context, req productdomain.UpdateRequest) (*productdomain.Product, error) {
	product, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, productdomain.ErrInvalidName
		}
		product.Name = name
	}
	if req.SKU != nil {
		product.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.Barcode != nil {
		product.Barcode = strings.TrimSpace(*req.Barcode)
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ImageRef != nil {
		product.ImageRef = strings.TrimSpace(*req.ImageRef)
	}
	if req.CostCents != nil {
		product.CostCents = *req.CostCents
	}
	if req.SalePriceCents != nil {
		product.SalePriceCents = *req.SalePriceCents
	}
	if req.Visible != nil {
		product.SetVisible(*req.Visible)
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}
	if req.MinOrderQty != nil {
		if *req.MinOrderQty < 1 {
			return nil, productdomain.ErrInvalidMinQty
		}
		product.MinOrderQty = *req.MinOrderQty
	}
	if req.CatalogPriceCents != nil {
		product.CatalogPriceCents = req.CatalogPriceCents
	}
	if req.PromoPriceCents != nil {
		product.PromoPriceCents = req.PromoPriceCents
	}
	if req.PromoStartsAt != nil {
		product.PromoStartsAt = req.PromoStartsAt
	}
	if req.PromoEndsAt != nil {
		product.PromoEndsAt = req.PromoEndsAt
	}
	if err := validatePromoWindow(product.PromoStartsAt, product.PromoEndsAt); err != nil {
		return nil, err
	}
	if req.MarkupBps != nil && *req.MarkupBps > 0 {
		product.MarkupBps = *req.MarkupBps
	}
	if req.SortOrder != nil {
		product.SortOrder = *req.SortOrder
	}
	if req.Slug != nil {
		product.Slug = strings.TrimSpace(*req.Slug)
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	s.publishCatalogUpdated(ctx, product.CompanyID, product.ID)
	return product, nil
}

func (s *Service) List(ctx context.Context, req productdomain.ListRequest) ([]productdomain.Product, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 {
		return nil, productdomain.ErrInvalidID
	}

	query := s.db.WithContext(ctx).
		Where("company_id = ?", companyID)
	if name := strings.TrimSpace(req.Name); name != "" {
		query = query.Where("name ILIKE ?", "%"+name+"%")
	}
	if req.VisibleOnly {
		query = query.Where("catalog_enabled OR show_in_catalog")
	}

	var products []productdomain.Product
	err := query.
		Order("sort_order ASC, name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Service) Catalog(ctx context.Context, companyID snowflake.ID, now time.Time) ([]productdomain.CatalogItem, error) {
	if companyID == 0 {
		return nil, productdomain.ErrInvalidID
	}

	var products []productdomain.Product
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("catalog_enabled OR show_in_catalog").
		Order("featured DESC, sort_order ASC, name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	items := make([]productdomain.CatalogItem, 0, len(products))
	for _, p := range products {
		price := productdomain.ResolvePrice(p, now)
		items = append(items, productdomain.CatalogItem{
			ID:          p.ID,
			Name:        p.Name,
			Slug:        p.Slug,
			ImageRef:    p.ImageRef,
			Featured:    p.Featured,
			MinOrderQty: p.MinOrderQty,
			PriceCents:  price.Cents,
			Promo:       price.Promo,
		})
	}
	return items, nil
}

func (s *Service) publishCatalogUpdated(ctx context.Context, companyID, productID snowflake.ID) {
	err := s.outbox.Publish(ctx, eventsvc.Event{
		CompanyID: companyID,
		Type:      eventsvc.EventCatalogUpdated,
		DedupeKey: "catalog:" + productID.String() + ":" + time.Now().UTC().Format(time.RFC3339Nano),
		Payload:   map[string]any{"product_id": productID.String()},
	})
	if err != nil {
		s.log.Warn("publish catalog.updated", zap.Error(err))
	}
}

func validatePromoWindow(starts, ends *time.Time) error {
	if starts != nil && ends != nil && !starts.Before(*ends) {
		return productdomain.ErrInvalidPromo
	}
	return nil
}
