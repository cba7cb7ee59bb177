package authorization

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.Enforcer
}

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.Enforcer
}

func NewService(p ServiceParam) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

// Authorize resolves the actor's role within the company and enforces the
// role capability policy. The "system" actor bypasses the check.
func (s *ServiceImpl) Authorize(ctx context.Context, actor string, companyID string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	if actor == "system" {
		return nil
	}

	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	userValue, ok := strings.CutPrefix(actor, "user:")
	if !ok {
		return ErrInvalidActor
	}
	userID, err := snowflake.ParseString(strings.TrimSpace(userValue))
	if err != nil {
		return ErrInvalidActor
	}
	company, err := snowflake.ParseString(strings.TrimSpace(companyID))
	if err != nil {
		return ErrInvalidCompany
	}

	role, err := s.memberRole(ctx, company, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return ErrForbidden
	}

	allowed, err := s.enforcer.Enforce("role:"+role, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("actor", actor),
			zap.String("company_id", companyID),
			zap.String("object", object),
			zap.String("action", action),
			zap.String("role", role),
		)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) memberRole(ctx context.Context, companyID, userID snowflake.ID) (string, error) {
	var role string
	err := s.db.WithContext(ctx).
		Table("company_members").
		Select("role").
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Limit(1).
		Scan(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(role)), nil
}
