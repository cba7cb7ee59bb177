package authorization

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthzTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.Exec(`CREATE TABLE company_members (
		id BIGINT PRIMARY KEY,
		company_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		role TEXT NOT NULL
	)`).Error
	if err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func newAuthzTestService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	enforcer, err := NewEnforcer(db)
	if err != nil {
		t.Fatalf("new enforcer: %v", err)
	}
	return &ServiceImpl{db: db, log: zap.NewNop(), enforcer: enforcer}
}

func seedMember(t *testing.T, db *gorm.DB, id, companyID, userID int64, role string) {
	t.Helper()
	err := db.Exec(
		"INSERT INTO company_members (id, company_id, user_id, role) VALUES (?, ?, ?, ?)",
		id, companyID, userID, role,
	).Error
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
}

func TestAuthorizeRoleHierarchy(t *testing.T) {
	db := setupAuthzTestDB(t)
	svc := newAuthzTestService(t, db)
	ctx := context.Background()

	seedMember(t, db, 1, 10, 100, "owner")
	seedMember(t, db, 2, 10, 200, "gerente")
	seedMember(t, db, 3, 10, 300, "vendedor")
	seedMember(t, db, 4, 10, 400, "producao")

	tests := []struct {
		name    string
		actor   string
		object  string
		action  string
		wantErr error
	}{
		{name: "owner inherits plan manage", actor: "user:100", object: ObjectPlan, action: ActionManage},
		{name: "owner inherits reactivate", actor: "user:100", object: ObjectOrder, action: ActionReactivate},
		{name: "gerente reactivates", actor: "user:200", object: ObjectOrder, action: ActionReactivate},
		{name: "gerente exports reports", actor: "user:200", object: ObjectReport, action: ActionExport},
		{name: "gerente cannot manage plans", actor: "user:200", object: ObjectPlan, action: ActionManage, wantErr: ErrForbidden},
		{name: "vendedor manages orders", actor: "user:300", object: ObjectOrder, action: ActionManage},
		{name: "vendedor cannot reactivate", actor: "user:300", object: ObjectOrder, action: ActionReactivate, wantErr: ErrForbidden},
		{name: "producao transitions", actor: "user:400", object: ObjectOrder, action: ActionTransition},
		{name: "producao cannot manage customers", actor: "user:400", object: ObjectCustomer, action: ActionManage, wantErr: ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Authorize(ctx, tt.actor, "10", tt.object, tt.action)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("authorize: %v", err)
			}
		})
	}
}

func TestAuthorizeDeniesAcrossCompanies(t *testing.T) {
	db := setupAuthzTestDB(t)
	svc := newAuthzTestService(t, db)

	seedMember(t, db, 1, 10, 100, "owner")

	err := svc.Authorize(context.Background(), "user:100", "20", ObjectOrder, ActionView)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAuthorizeSystemBypass(t *testing.T) {
	db := setupAuthzTestDB(t)
	svc := newAuthzTestService(t, db)

	if err := svc.Authorize(context.Background(), "system", "10", ObjectOrder, ActionReactivate); err != nil {
		t.Fatalf("expected system bypass, got %v", err)
	}
}

func TestAuthorizeRejectsMalformedActor(t *testing.T) {
	db := setupAuthzTestDB(t)
	svc := newAuthzTestService(t, db)
	ctx := context.Background()

	for _, actor := range []string{"", "100", "user:", "user:abc"} {
		err := svc.Authorize(ctx, actor, "10", ObjectOrder, ActionView)
		if !errors.Is(err, ErrInvalidActor) {
			t.Fatalf("actor %q: expected invalid actor, got %v", actor, err)
		}
	}
}
