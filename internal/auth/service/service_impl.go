package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	authdomain "github.com/thiagosouza28/ideart-cloud/internal/auth/domain"
	"github.com/thiagosouza28/ideart-cloud/internal/auth/password"
	"github.com/thiagosouza28/ideart-cloud/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	ttl   time.Duration
}

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Config config.Config
}

func NewService(p ServiceParam) authdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("auth.service"),
		genID: p.GenID,
		ttl:   p.Config.Session.TTL,
	}
}

func (s *Service) Login(ctx context.Context, req authdomain.LoginRequest) (authdomain.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return authdomain.LoginResponse{}, authdomain.ErrInvalidEmail
	}

	var user authdomain.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authdomain.LoginResponse{}, authdomain.ErrInvalidCredentials
		}
		return authdomain.LoginResponse{}, err
	}
	if user.PasswordHash == nil || !password.Verify(req.Password, *user.PasswordHash) {
		return authdomain.LoginResponse{}, authdomain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	session := authdomain.Session{
		ID:        s.genID.Generate(),
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return authdomain.LoginResponse{}, err
	}

	var memberships []authdomain.CompanyMember
	if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).Find(&memberships).Error; err != nil {
		return authdomain.LoginResponse{}, err
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID.String()))
	return authdomain.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      &user,
		Companies: memberships,
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return authdomain.ErrSessionNotFound
	}
	return s.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&authdomain.Session{}).Error
}

func (s *Service) Resolve(ctx context.Context, token string, companyID snowflake.ID) (authdomain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return authdomain.Identity{}, authdomain.ErrSessionNotFound
	}

	var session authdomain.Session
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authdomain.Identity{}, authdomain.ErrSessionNotFound
		}
		return authdomain.Identity{}, err
	}
	if time.Now().UTC().After(session.ExpiresAt) {
		return authdomain.Identity{}, authdomain.ErrSessionExpired
	}

	var user authdomain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authdomain.Identity{}, authdomain.ErrSessionNotFound
		}
		return authdomain.Identity{}, err
	}

	identity := authdomain.Identity{User: &user}
	if companyID == 0 {
		// No explicit company: users with exactly one membership get it.
		var memberships []authdomain.CompanyMember
		if err := s.db.WithContext(ctx).Where("user_id = ?", user.ID).Find(&memberships).Error; err != nil {
			return authdomain.Identity{}, err
		}
		if len(memberships) == 1 {
			identity.CompanyID = memberships[0].CompanyID
			identity.Role = memberships[0].Role
		}
		return identity, nil
	}

	var member authdomain.CompanyMember
	err = s.db.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, user.ID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authdomain.Identity{}, authdomain.ErrNotAMember
		}
		return authdomain.Identity{}, err
	}

	identity.CompanyID = companyID
	identity.Role = member.Role
	return identity, nil
}
