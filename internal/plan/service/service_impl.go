package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	plandomain "github.com/thiagosouza28/ideart-cloud/internal/plan/domain"
	"github.com/thiagosouza28/ideart-cloud/pkg/repository"
)

type Service struct {
	db    *gorm.DB
	plans repository.Repository[plandomain.Plan]
	log   *zap.Logger
	genID *snowflake.Node
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Plans repository.Repository[plandomain.Plan]
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) plandomain.Service {
	return &Service{
		db:    p.DB,
		plans: p.Plans,
		log:   p.Log.Named("plan.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req plandomain.CreateRequest) (*plandomain.Plan, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, plandomain.ErrInvalidName
	}
	interval := strings.TrimSpace(req.BillingInterval)
	if interval == "" {
		interval = "month"
	}
	if !plandomain.ValidInterval(interval) {
		return nil, plandomain.ErrInvalidInterval
	}

	now := time.Now().UTC()
	plan := &plandomain.Plan{
		ID:                s.genID.Generate(),
		Name:              name,
		PriceCents:        req.PriceCents,
		BillingInterval:   interval,
		Features:          toJSONMap(req.Features),
		MaxUsers:          req.MaxUsers,
		ExternalBillingID: strings.TrimSpace(req.ExternalBillingID),
		Active:            true,
		SortOrder:         req.SortOrder,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if plan.MaxUsers < 1 {
		plan.MaxUsers = 1
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*plandomain.Plan, error) {
	if id == 0 {
		return nil, plandomain.ErrInvalidID
	}
	plan, err := s.plans.First(ctx, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, plandomain.ErrNotFound
	}
	return plan, nil
}

func (s *Service) Update(ctx context.Context, req plandomain.UpdateRequest) (*plandomain.Plan, error) {
	plan, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, plandomain.ErrInvalidName
		}
		plan.Name = name
	}
	if req.PriceCents != nil {
		plan.PriceCents = *req.PriceCents
	}
	if req.BillingInterval != nil {
		interval := strings.TrimSpace(*req.BillingInterval)
		if !plandomain.ValidInterval(interval) {
			return nil, plandomain.ErrInvalidInterval
		}
		plan.BillingInterval = interval
	}
	if req.Features != nil {
		plan.Features = toJSONMap(req.Features)
	}
	if req.MaxUsers != nil && *req.MaxUsers >= 1 {
		plan.MaxUsers = *req.MaxUsers
	}
	if req.ExternalBillingID != nil {
		plan.ExternalBillingID = strings.TrimSpace(*req.ExternalBillingID)
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}
	if req.SortOrder != nil {
		plan.SortOrder = *req.SortOrder
	}
	plan.UpdatedAt = time.Now().UTC()

	if err := s.plans.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]plandomain.Plan, error) {
	query := s.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("active = true")
	}
	var plans []plandomain.Plan
	err := query.
		Order("sort_order ASC, price_cents ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func toJSONMap(features map[string]any) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for key, value := range features {
		if strings.TrimSpace(key) == "" {
			continue
		}
		out[key] = value
	}
	return out
}
