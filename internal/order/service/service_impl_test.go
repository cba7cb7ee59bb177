package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/thiagosouza28/ideart-cloud/internal/authorization"
	"github.com/thiagosouza28/ideart-cloud/internal/companyctx"
	"github.com/thiagosouza28/ideart-cloud/internal/events"
	orderdomain "github.com/thiagosouza28/ideart-cloud/internal/order/domain"
)

const testCompanyID = snowflake.ID(1)

type allowAllAuthz struct{}

func (allowAllAuthz) Authorize(context.Context, string, string, string, string) error { return nil }

type denyReactivateAuthz struct{}

func (denyReactivateAuthz) Authorize(_ context.Context, _ string, _ string, _ string, action string) error {
	if action == authorization.ActionReactivate {
		return authorization.ErrForbidden
	}
	return nil
}

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	statements := []string{
		`CREATE TABLE orders (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			display_number BIGINT NOT NULL,
			customer_id BIGINT,
			customer_name TEXT,
			status TEXT NOT NULL,
			total_cents BIGINT NOT NULL DEFAULT 0,
			paid_cents BIGINT NOT NULL DEFAULT 0,
			payment_method TEXT,
			version BIGINT NOT NULL DEFAULT 1,
			created_by BIGINT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE order_items (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			order_id BIGINT NOT NULL,
			description TEXT NOT NULL,
			quantity INT NOT NULL DEFAULT 1,
			unit_price_cents BIGINT NOT NULL DEFAULT 0,
			unit_cost_cents BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE order_status_history (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			order_id BIGINT NOT NULL,
			status TEXT NOT NULL,
			changed_by BIGINT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE customers (
			id BIGINT PRIMARY KEY,
			company_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			phone TEXT,
			document TEXT,
			email TEXT,
			city TEXT,
			birth_date DATE,
			photo_ref TEXT,
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
		`CREATE UNIQUE INDEX ux_orders_display ON orders (company_id, display_number)`,
		`CREATE UNIQUE INDEX ux_company_events_dedupe ON company_events (company_id, dedupe_key)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

// Each service gets its own snowflake node number: two nodes sharing a
// number can emit identical IDs within the same millisecond.
var testNodeCounter atomic.Int64

func newOrderTestService(t *testing.T, db *gorm.DB, authz authorization.Service) *Service {
	t.Helper()
	node, err := snowflake.NewNode(testNodeCounter.Add(1) + 1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return &Service{
		db:     db,
		log:    zap.NewNop(),
		genID:  node,
		authz:  authz,
		outbox: events.NewOutbox(db, node),
	}
}

func testCtx() context.Context {
	return companyctx.WithCompanyID(context.Background(), testCompanyID)
}

func createTestOrder(t *testing.T, svc *Service) *orderdomain.Order {
	t.Helper()
	order, err := svc.Create(testCtx(), orderdomain.CreateOrderRequest{
		CustomerName:  "Maria",
		PaymentMethod: "pix",
		Items: []orderdomain.CreateOrderItem{
			{Description: "Caneca personalizada", Quantity: 2, UnitPriceCents: 2500, UnitCostCents: 900},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func moveTo(t *testing.T, svc *Service, order *orderdomain.Order, target orderdomain.Status, decision orderdomain.ArtDecision) *orderdomain.Order {
	t.Helper()
	resp, err := svc.UpdateStatus(testCtx(), orderdomain.UpdateStatusRequest{
		OrderID:     order.ID,
		Target:      target,
		ArtDecision: decision,
	})
	if err != nil {
		t.Fatalf("move to %s: %v", target, err)
	}
	return resp.Order
}

func TestCreateOrderAssignsSequentialDisplayNumbers(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(t, db, allowAllAuthz{})

	first := createTestOrder(t, svc)
	second := createTestOrder(t, svc)

	if first.DisplayNumber != 1 || second.DisplayNumber != 2 {
		t.Fatalf("expected display numbers 1 and 2, got %d and %d", first.DisplayNumber, second.DisplayNumber)
	}
	if first.Status != orderdomain.StatusQuote {
		t.Fatalf("expected new order in orcamento, got %s", first.Status)
	}
	if first.TotalCents != 5000 {
		t.Fatalf("expected total 5000, got %d", first.TotalCents)
	}
}

func TestCreateOrderRetriesOnDisplayNumberCollision(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(t, db, allowAllAuthz{})

	// Sneak a competing order in between the MAX read and the insert,
	// simulating a concurrent create for the same company.
	armed := true
	err := db.Callback().Create().Before("gorm:create").Register("test_display_number_collision", func(tx *gorm.DB) {
		if !armed {
			return
		}
		order, ok := tx.Statement.Dest.(*orderdomain.Order)
		if !ok {
			return
		}
		armed = false
		now := time.Now().UTC()
		competing := tx.Session(&gorm.Session{NewDB: true}).Exec(
			`INSERT INTO orders (id, company_id, display_number, status, total_cents, paid_cents, version, created_at, updated_at)
			 VALUES (?, ?, ?, 'orcamento', 0, 0, 1, ?, ?)`,
			int64(900), int64(testCompanyID), order.DisplayNumber, now, now,
		)
		if competing.Error != nil {
			t.Errorf("competing insert: %v", competing.Error)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	defer db.Callback().Create().Remove("test_display_number_collision")

	order := createTestOrder(t, svc)
	if armed {
		t.Fatal("collision was never provoked")
	}
	if order.DisplayNumber != 1 {
		t.Fatalf("expected display number 1 after retry, got %d", order.DisplayNumber)
	}

	var count int64
	if err := db.Model(&orderdomain.Order{}).Where("company_id = ?", testCompanyID).Count(&count).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single order row, got %d", count)
	}
}

func TestCreateOrderRequiresCustomerAndItems(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(t, db, allowAllAuthz{})

	_, err := svc.Create(testCtx(), orderdomain.CreateOrderRequest{
		Items: []orderdomain.CreateOrderItem{{Description: "Adesivo", Quantity: 1}},
	})
	if !errors.Is(err, orderdomain.ErrInvalidCustomer) {
		t.Fatalf("expected invalid customer, got %v", err)
	}

	_, err = svc.Create(testCtx(), orderdomain.CreateOrderRequest{CustomerName: "Ana"})
	if !errors.Is(err, orderdomain.ErrInvalidItems) {
		t.Fatalf("expected invalid items, got %v", err)
	}
}

func TestUpdateStatusLeavesPendingThroughArtPrompt(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(t, db, allowAllAuthz{})

	order := createTestOrder(t, svc)
	order = moveTo(t, svc, order, orderdomain.StatusPending, orderdomain.ArtDecisionUnanswered)

	_, err := svc.UpdateStatus(testCtx(), orderdomain.UpdateStatusRequest{
		OrderID: order.ID,
		Target:  orderdomain.StatusReady,
	})
	if !errors.Is(err, orderdomain.ErrArtDecisionRequired) {
		t.Fatalf("expected art decision required, got %v", err)
	}

	resp, err := svc.UpdateStatus(testCtx(), orderdomain.UpdateStatusRequest{
		OrderID:     order.ID,
		Target:      orderdomain.StatusReady,
		ArtDecision: orderdomain.ArtDecisionYes,
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if resp.Order.Status != orderdomain.StatusArtInProgress {
		t.Fatalf("expected produzindo_arte, got %s", resp.Order.Status)
	}
	if !resp.Rewritten {
		t.Fatalf("expected rewritten transition")
	}
}

func TestUpdateStatusNoOpKeepsVersion(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(t, db, allowAllAuthz{})

	order := createTestOrder(t, svc)
	resp, err := svc.UpdateStatus(testCtx(), orderdomain.UpdateStatusRequest{
		OrderID: order.ID,
		Target:  orderdomain.StatusQuote,
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if !resp.NoOp {
		t.Fatalf("expected no-op")
	}
	if resp.Order.Version != order.Version {
		t.Fatalf("expected version unchanged, got %d", resp.Order.Version)
	}
}

func TestUpdateStatusBumpsVersionAndAppendsHistory(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(t, db, allowAllAuthz{})

	order := createTestOrder(t, svc)
	updated := moveTo(t, svc, order, orderdomain.StatusPending, orderdomain.ArtDecisionUnanswered)

	if updated.Version != order.Version+1 {
		t.Fatalf("expected version %d, got %d", order.Version+1, updated.Version)
	}

	history, err := svc.History(testCtx(), order.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}
	if history[0].Status != orderdomain.StatusQuote || history[1].Status != orderdomain.StatusPending {
		t.Fatalf("unexpected history order: %s then %s", history[0].Status, history[1].Status)
	}
}

func TestUpdateStatusExpectedVersionConflict(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(t, db, allowAllAuthz{})

	order := createTestOrder(t, svc)
	moveTo(t, svc, order, orderdomain.StatusPending, orderdomain.ArtDecisionUnanswered)

	_, err := svc.UpdateStatus(testCtx(), orderdomain.UpdateStatusRequest{
		OrderID:         order.ID,
		Target:          orderdomain.StatusCanceled,
		ExpectedVersion: order.Version,
	})
	if !errors.Is(err, orderdomain.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}

	// The failed attempt must leave the row as the concurrent move left it.
	after, err := svc.Get(testCtx(), order.ID)
	if err != nil {
		t.Fatalf("get after conflict: %v", err)
	}
	if after.Status != orderdomain.StatusPending {
		t.Fatalf("expected pendente untouched, got %s", after.Status)
	}
	if after.Version != order.Version+1 {
		t.Fatalf("expected version %d untouched, got %d", order.Version+1, after.Version)
	}
}

func TestUpdateStatusRollsBackOnHistoryFailure(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(t, db, allowAllAuthz{})

	order := createTestOrder(t, svc)

	// With the history table gone, the status UPDATE succeeds but the
	// append fails; the whole transaction must roll back.
	if err := db.Exec(`ALTER TABLE order_status_history RENAME TO order_status_history_gone`).Error; err != nil {
		t.Fatalf("rename history table: %v", err)
	}
	_, err := svc.UpdateStatus(testCtx(), orderdomain.UpdateStatusRequest{
		OrderID: order.ID,
		Target:  orderdomain.StatusPending,
	})
	if err == nil {
		t.Fatal("expected history insert failure")
	}
	if err := db.Exec(`ALTER TABLE order_status_history_gone RENAME TO order_status_history`).Error; err != nil {
		t.Fatalf("restore history table: %v", err)
	}

	after, err := svc.Get(testCtx(), order.ID)
	if err != nil {
		t.Fatalf("get after rollback: %v", err)
	}
	if after.Status != orderdomain.StatusQuote {
		t.Fatalf("expected orcamento after rollback, got %s", after.Status)
	}
	if after.Version != order.Version {
		t.Fatalf("expected version %d after rollback, got %d", order.Version, after.Version)
	}
}

func TestUpdateStatusRejectsTerminalMoves(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(t, db, allowAllAuthz{})

	order := createTestOrder(t, svc)
	order = moveTo(t, svc, order, orderdomain.StatusPending, orderdomain.ArtDecisionUnanswered)
	order = moveTo(t, svc, order, orderdomain.StatusInProduction, orderdomain.ArtDecisionNo)
	order = moveTo(t, svc, order, orderdomain.StatusReady, orderdomain.ArtDecisionUnanswered)
	order = moveTo(t, svc, order, orderdomain.StatusDelivered, orderdomain.ArtDecisionUnanswered)

	_, err := svc.UpdateStatus(testCtx(), orderdomain.UpdateStatusRequest{
		OrderID: order.ID,
		Target:  orderdomain.StatusReady,
	})
	if !errors.Is(err, orderdomain.ErrTerminalStatus) {
		t.Fatalf("expected terminal status, got %v", err)
	}
}

func TestReactivationNeedsElevatedRole(t *testing.T) {
	db := setupOrderTestDB(t)
	denied := newOrderTestService(t, db, denyReactivateAuthz{})

	order := createTestOrder(t, denied)
	order = moveTo(t, denied, order, orderdomain.StatusCanceled, orderdomain.ArtDecisionUnanswered)

	_, err := denied.UpdateStatus(testCtx(), orderdomain.UpdateStatusRequest{
		OrderID: order.ID,
		Target:  orderdomain.StatusPending,
	})
	if !errors.Is(err, authorization.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	allowed := newOrderTestService(t, db, allowAllAuthz{})
	resp, err := allowed.UpdateStatus(testCtx(), orderdomain.UpdateStatusRequest{
		OrderID: order.ID,
		Target:  orderdomain.StatusPending,
	})
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if resp.Order.Status != orderdomain.StatusPending {
		t.Fatalf("expected pendente, got %s", resp.Order.Status)
	}
}

func TestBoardGroupsOrdersByStatus(t *testing.T) {
	db := setupOrderTestDB(t)
	svc := newOrderTestService(t, db, allowAllAuthz{})

	first := createTestOrder(t, svc)
	createTestOrder(t, svc)
	moveTo(t, svc, first, orderdomain.StatusPending, orderdomain.ArtDecisionUnanswered)

	board, err := svc.Board(testCtx())
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if len(board.Columns) != len(orderdomain.BoardColumns) {
		t.Fatalf("expected %d columns, got %d", len(orderdomain.BoardColumns), len(board.Columns))
	}

	counts := make(map[orderdomain.Status]int, len(board.Columns))
	for _, column := range board.Columns {
		counts[column.Status] = len(column.Cards)
	}
	if counts[orderdomain.StatusQuote] != 1 || counts[orderdomain.StatusPending] != 1 {
		t.Fatalf("unexpected board distribution: %v", counts)
	}
}
