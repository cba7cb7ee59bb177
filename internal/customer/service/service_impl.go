package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/thiagosouza28/ideart-cloud/internal/companyctx"
	customerdomain "github.com/thiagosouza28/ideart-cloud/internal/customer/domain"
	"github.com/thiagosouza28/ideart-cloud/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) customerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req customerdomain.CreateRequest) (*customerdomain.Customer, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 {
		return nil, customerdomain.ErrInvalidID
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, customerdomain.ErrInvalidName
	}
	if err := validateContact(req.Phone, req.Document, req.Email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer := &customerdomain.Customer{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		Document:  strings.TrimSpace(req.Document),
		Email:     strings.TrimSpace(req.Email),
		City:      strings.TrimSpace(req.City),
		BirthDate: req.BirthDate,
		PhotoRef:  strings.TrimSpace(req.PhotoRef),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*customerdomain.Customer, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 || id == 0 {
		return nil, customerdomain.ErrInvalidID
	}
	var customer customerdomain.Customer
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customerdomain.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (s *Service) Update(ctx context.Context, req customerdomain.UpdateRequest) (*customerdomain.Customer, error) {
	customer, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, customerdomain.ErrInvalidName
		}
		customer.Name = name
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != "" && !customerdomain.ValidatePhone(phone) {
			return nil, customerdomain.ErrInvalidPhone
		}
		customer.Phone = phone
	}
	if req.Document != nil {
		document := strings.TrimSpace(*req.Document)
		if document != "" && !customerdomain.ValidateCPF(document) {
			return nil, customerdomain.ErrInvalidDocument
		}
		customer.Document = document
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && !customerdomain.ValidateEmail(email) {
			return nil, customerdomain.ErrInvalidEmail
		}
		customer.Email = email
	}
	if req.City != nil {
		customer.City = strings.TrimSpace(*req.City)
	}
	if req.BirthDate != nil {
		customer.BirthDate = req.BirthDate
	}
	if req.PhotoRef != nil {
		customer.PhotoRef = strings.TrimSpace(*req.PhotoRef)
	}
	customer.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) List(ctx context.Context, req customerdomain.ListRequest) (customerdomain.ListResponse, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 {
		return customerdomain.ListResponse{}, customerdomain.ErrInvalidID
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: int(req.PageSize)}
	query := s.db.WithContext(ctx).
		Where("company_id = ?", companyID)
	if name := strings.TrimSpace(req.Name); name != "" {
		query = query.Where("name ILIKE ?", "%"+name+"%")
	}
	if city := strings.TrimSpace(req.City); city != "" {
		query = query.Where("city ILIKE ?", "%"+city+"%")
	}

	var customers []customerdomain.Customer
	err := query.
		Order("name ASC").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&customers).Error
	if err != nil {
		return customerdomain.ListResponse{}, err
	}

	return customerdomain.ListResponse{
		Customers:     customers,
		NextPageToken: page.NextToken(len(customers)),
	}, nil
}

func validateContact(phone, document, email string) error {
	if phone = strings.TrimSpace(phone); phone != "" && !customerdomain.ValidatePhone(phone) {
		return customerdomain.ErrInvalidPhone
	}
	if document = strings.TrimSpace(document); document != "" && !customerdomain.ValidateCPF(document) {
		return customerdomain.ErrInvalidDocument
	}
	if email = strings.TrimSpace(email); email != "" && !customerdomain.ValidateEmail(email) {
		return customerdomain.ErrInvalidEmail
	}
	return nil
}
