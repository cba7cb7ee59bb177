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

	"github.com/thiagosouza28/ideart-cloud/internal/companyctx"
	"github.com/thiagosouza28/ideart-cloud/internal/events"
	productdomain "github.com/thiagosouza28/ideart-cloud/internal/product/domain"
)

const productTestCompanyID = snowflake.ID(13)

func setupProductTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	statements := []string{
		`CREATE TABLE products (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			sku TEXT,
			barcode TEXT,
			stock INT NOT NULL DEFAULT 0,
			image_ref TEXT,
			cost_cents BIGINT NOT NULL DEFAULT 0,
			sale_price_cents BIGINT NOT NULL DEFAULT 0,
			catalog_enabled BOOLEAN NOT NULL DEFAULT false,
			show_in_catalog BOOLEAN NOT NULL DEFAULT false,
			featured BOOLEAN NOT NULL DEFAULT false,
			min_order_qty INT NOT NULL DEFAULT 1,
			catalog_price_cents BIGINT,
			promo_price_cents BIGINT,
			promo_starts_at DATETIME,
			promo_ends_at DATETIME,
			markup_bps BIGINT NOT NULL DEFAULT 10000,
			sort_order INT NOT NULL DEFAULT 0,
			slug TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE company_events (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			event_type TEXT NOT NULL,
			payload TEXT NOT NULL DEFAULT '{}',
			dedupe_key TEXT,
			published BOOLEAN NOT NULL DEFAULT false,
			created_at DATETIME NOT NULL,
			published_at DATETIME
		)`,
		`CREATE UNIQUE INDEX ux_company_events_dedupe ON company_events (company_id, dedupe_key)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

func newProductTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	node, err := snowflake.NewNode(5)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return &Service{
		db:     db,
		log:    zap.NewNop(),
		genID:  node,
		outbox: events.NewOutbox(db, node),
	}
}

func productTestCtx() context.Context {
	return companyctx.WithCompanyID(context.Background(), productTestCompanyID)
}

func boolPtr(v bool) *bool    { return &v }
func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func TestCreateProductDefaults(t *testing.T) {
	db := setupProductTestDB(t)
	svc := newProductTestService(t, db)

	product, err := svc.Create(productTestCtx(), productdomain.CreateRequest{
		Name:      " Caneca Personalizada ",
		CostCents: 1000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.Name != "Caneca Personalizada" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if product.MinOrderQty != 1 || product.MarkupBps != 10000 {
		t.Fatalf("unexpected defaults %+v", product)
	}
	if product.Visible() {
		t.Fatal("expected new product hidden by default")
	}
}

func TestCreateProductValidation(t *testing.T) {
	db := setupProductTestDB(t)
	svc := newProductTestService(t, db)
	ctx := productTestCtx()

	if _, err := svc.Create(ctx, productdomain.CreateRequest{Name: "  "}); !errors.Is(err, productdomain.ErrInvalidName) {
		t.Fatalf("expected invalid name, got %v", err)
	}
	if _, err := svc.Create(ctx, productdomain.CreateRequest{Name: "Caneca", MinOrderQty: intPtr(0)}); !errors.Is(err, productdomain.ErrInvalidMinQty) {
		t.Fatalf("expected invalid min qty, got %v", err)
	}

	start := time.Now()
	if _, err := svc.Create(ctx, productdomain.CreateRequest{
		Name:          "Caneca",
		PromoStartsAt: &start,
		PromoEndsAt:   &start,
	}); !errors.Is(err, productdomain.ErrInvalidPromo) {
		t.Fatalf("expected invalid promo window, got %v", err)
	}
}

func TestUpdateProductVisibilityWritesBothFlags(t *testing.T) {
	db := setupProductTestDB(t)
	svc := newProductTestService(t, db)
	ctx := productTestCtx()

	created, err := svc.Create(ctx, productdomain.CreateRequest{Name: "Caneca"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, productdomain.UpdateRequest{ID: created.ID, Visible: boolPtr(true)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.CatalogEnabled || !updated.ShowInCatalog {
		t.Fatalf("expected both flags set, got %v/%v", updated.CatalogEnabled, updated.ShowInCatalog)
	}
}

func TestListVisibleOnlyMatchesEitherFlag(t *testing.T) {
	db := setupProductTestDB(t)
	svc := newProductTestService(t, db)
	ctx := productTestCtx()

	hidden, err := svc.Create(ctx, productdomain.CreateRequest{Name: "Oculto"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	visible, err := svc.Create(ctx, productdomain.CreateRequest{Name: "Visivel", Visible: boolPtr(true)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Legacy rows may carry only one of the two columns.
	legacy, err := svc.Create(ctx, productdomain.CreateRequest{Name: "Antigo"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.Exec("UPDATE products SET show_in_catalog = true WHERE id = ?", legacy.ID).Error; err != nil {
		t.Fatalf("flag legacy row: %v", err)
	}

	products, err := svc.List(ctx, productdomain.ListRequest{VisibleOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 visible products, got %d", len(products))
	}
	seen := map[snowflake.ID]bool{}
	for _, p := range products {
		if p.ID == hidden.ID {
			t.Fatal("hidden product leaked into visible list")
		}
		seen[p.ID] = true
	}
	if !seen[visible.ID] || !seen[legacy.ID] {
		t.Fatalf("expected both flag variants listed, got %v", seen)
	}
}

func TestCatalogOrdersAndResolvesPrices(t *testing.T) {
	db := setupProductTestDB(t)
	svc := newProductTestService(t, db)
	ctx := productTestCtx()
	now := time.Now().UTC()
	promoStart := now.Add(-time.Hour)
	promoEnd := now.Add(time.Hour)

	if _, err := svc.Create(ctx, productdomain.CreateRequest{
		Name:              "Caneca",
		Visible:           boolPtr(true),
		CatalogPriceCents: int64Ptr(2500),
		PromoPriceCents:   int64Ptr(1800),
		PromoStartsAt:     &promoStart,
		PromoEndsAt:       &promoEnd,
		SortOrder:         intPtr(2),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, productdomain.CreateRequest{
		Name:      "Camisa",
		Visible:   boolPtr(true),
		Featured:  boolPtr(true),
		CostCents: 2000,
		SortOrder: intPtr(5),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, productdomain.CreateRequest{Name: "Oculto"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := svc.Catalog(ctx, productTestCompanyID, now)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 catalog items, got %d", len(items))
	}
	if items[0].Name != "Camisa" || !items[0].Featured {
		t.Fatalf("expected featured item first, got %+v", items[0])
	}
	if items[0].PriceCents != 4000 {
		t.Fatalf("expected suggested price 4000, got %d", items[0].PriceCents)
	}
	if items[1].Name != "Caneca" || !items[1].Promo || items[1].PriceCents != 1800 {
		t.Fatalf("expected active promo price, got %+v", items[1])
	}
}

func TestProductsAreTenantScoped(t *testing.T) {
	db := setupProductTestDB(t)
	svc := newProductTestService(t, db)

	created, err := svc.Create(productTestCtx(), productdomain.CreateRequest{Name: "Caneca"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	otherCtx := companyctx.WithCompanyID(context.Background(), snowflake.ID(99))
	if _, err := svc.Get(otherCtx, created.ID); !errors.Is(err, productdomain.ErrNotFound) {
		t.Fatalf("expected not found across tenants, got %v", err)
	}
}
