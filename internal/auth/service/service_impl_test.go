package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authdomain "github.com/thiagosouza28/ideart-cloud/internal/auth/domain"
	"github.com/thiagosouza28/ideart-cloud/internal/auth/password"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	statements := []string{
		`CREATE TABLE users (
			id BIGINT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			password_hash TEXT,
			is_default BOOLEAN NOT NULL DEFAULT false,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE sessions (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			expires_at DATETIME NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE company_members (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			role TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func newAuthTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	node, err := snowflake.NewNode(6)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return &Service{db: db, log: zap.NewNop(), genID: node, ttl: time.Hour}
}

func seedUser(t *testing.T, db *gorm.DB, id int64, email, plaintext string) {
	t.Helper()
	hash, err := password.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	now := time.Now().UTC()
	user := authdomain.User{
		ID:           snowflake.ID(id),
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedMembership(t *testing.T, db *gorm.DB, id, companyID, userID int64, role authdomain.Role) {
	t.Helper()
	member := authdomain.CompanyMember{
		ID:        snowflake.ID(id),
		CompanyID: snowflake.ID(companyID),
		UserID:    snowflake.ID(userID),
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Create(&member).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}
}

func TestLoginAndResolve(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthTestService(t, db)
	ctx := context.Background()

	seedUser(t, db, 100, "dono@ideart.cloud", "senha-secreta")
	seedMembership(t, db, 1, 10, 100, authdomain.RoleOwner)

	resp, err := svc.Login(ctx, authdomain.LoginRequest{Email: " Dono@IdeArt.Cloud ", Password: "senha-secreta"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}
	if len(resp.Companies) != 1 || resp.Companies[0].CompanyID != 10 {
		t.Fatalf("unexpected memberships %+v", resp.Companies)
	}

	identity, err := svc.Resolve(ctx, resp.Token, 10)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.User.ID != 100 || identity.CompanyID != 10 || identity.Role != authdomain.RoleOwner {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthTestService(t, db)
	ctx := context.Background()

	seedUser(t, db, 100, "dono@ideart.cloud", "senha-secreta")

	_, err := svc.Login(ctx, authdomain.LoginRequest{Email: "dono@ideart.cloud", Password: "senha-errada"})
	if !errors.Is(err, authdomain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}

	_, err = svc.Login(ctx, authdomain.LoginRequest{Email: "ninguem@ideart.cloud", Password: "senha-secreta"})
	if !errors.Is(err, authdomain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}

	_, err = svc.Login(ctx, authdomain.LoginRequest{Email: "sem-arroba", Password: "x"})
	if !errors.Is(err, authdomain.ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got %v", err)
	}
}

func TestResolveExpiredSession(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthTestService(t, db)
	ctx := context.Background()

	seedUser(t, db, 100, "dono@ideart.cloud", "senha-secreta")
	session := authdomain.Session{
		ID:        1,
		UserID:    100,
		Token:     "expired-token",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
		CreatedAt: time.Now().UTC().Add(-2 * time.Hour),
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("seed session: %v", err)
	}

	_, err := svc.Resolve(ctx, "expired-token", 10)
	if !errors.Is(err, authdomain.ErrSessionExpired) {
		t.Fatalf("expected expired session, got %v", err)
	}
}

func TestResolveMembership(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthTestService(t, db)
	ctx := context.Background()

	seedUser(t, db, 100, "dono@ideart.cloud", "senha-secreta")
	seedMembership(t, db, 1, 10, 100, authdomain.RoleGerente)

	resp, err := svc.Login(ctx, authdomain.LoginRequest{Email: "dono@ideart.cloud", Password: "senha-secreta"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Sole membership is selected when no company is requested.
	identity, err := svc.Resolve(ctx, resp.Token, 0)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if identity.CompanyID != 10 || identity.Role != authdomain.RoleGerente {
		t.Fatalf("expected sole membership selected, got %+v", identity)
	}

	if _, err := svc.Resolve(ctx, resp.Token, 20); !errors.Is(err, authdomain.ErrNotAMember) {
		t.Fatalf("expected membership error, got %v", err)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	db := setupAuthTestDB(t)
	svc := newAuthTestService(t, db)
	ctx := context.Background()

	seedUser(t, db, 100, "dono@ideart.cloud", "senha-secreta")
	seedMembership(t, db, 1, 10, 100, authdomain.RoleOwner)

	resp, err := svc.Login(ctx, authdomain.LoginRequest{Email: "dono@ideart.cloud", Password: "senha-secreta"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Resolve(ctx, resp.Token, 10); !errors.Is(err, authdomain.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}
