package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/thiagosouza28/ideart-cloud/internal/authorization"
	"github.com/thiagosouza28/ideart-cloud/internal/companyctx"
	customerdomain "github.com/thiagosouza28/ideart-cloud/internal/customer/domain"
	"github.com/thiagosouza28/ideart-cloud/internal/events"
	orderdomain "github.com/thiagosouza28/ideart-cloud/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	itemsPreviewLimit = 3
	createRetries     = 3
)

// isDuplicateKey matches unique-index violations across the Postgres and
// sqlite drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	authz  authorization.Service
	outbox *events.Outbox
}

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Authz  authorization.Service
	Outbox *events.Outbox
}

func NewService(p ServiceParam) orderdomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("order.service"),
		genID:  p.GenID,
		authz:  p.Authz,
		outbox: p.Outbox,
	}
}

func (s *Service) Create(ctx context.Context, req orderdomain.CreateOrderRequest) (*orderdomain.Order, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 {
		return nil, orderdomain.ErrInvalidID
	}
	if req.CustomerID == nil && strings.TrimSpace(req.CustomerName) == "" {
		return nil, orderdomain.ErrInvalidCustomer
	}
	if len(req.Items) == 0 {
		return nil, orderdomain.ErrInvalidItems
	}

	now := time.Now().UTC()
	order := &orderdomain.Order{
		ID:            s.genID.Generate(),
		CompanyID:     companyID,
		CustomerID:    req.CustomerID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Status:        orderdomain.StatusQuote,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, line := range req.Items {
		description := strings.TrimSpace(line.Description)
		if description == "" || line.Quantity <= 0 {
			return nil, orderdomain.ErrInvalidItems
		}
		order.TotalCents += line.UnitPriceCents * int64(line.Quantity)
	}

	// Two creates for the same company can read the same MAX and race to
	// one display number. The unique index on (company_id, display_number)
	// catches the loser; recompute and retry instead of surfacing a 500.
	var err error
	for attempt := 0; attempt < createRetries; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var lastNumber int64
			if err := tx.Model(&orderdomain.Order{}).
				Where("company_id = ?", companyID).
				Select("COALESCE(MAX(display_number), 0)").
				Scan(&lastNumber).Error; err != nil {
				return err
			}
			order.DisplayNumber = lastNumber + 1

			if err := tx.Create(order).Error; err != nil {
				return err
			}
			for _, line := range req.Items {
				item := orderdomain.OrderItem{
					ID:             s.genID.Generate(),
					CompanyID:      companyID,
					OrderID:        order.ID,
					Description:    strings.TrimSpace(line.Description),
					Quantity:       line.Quantity,
					UnitPriceCents: line.UnitPriceCents,
					UnitCostCents:  line.UnitCostCents,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
			}

			history := orderdomain.StatusHistory{
				ID:        s.genID.Generate(),
				CompanyID: companyID,
				OrderID:   order.ID,
				Status:    order.Status,
				CreatedAt: now,
			}
			if err := tx.Create(&history).Error; err != nil {
				return err
			}

			return s.outbox.PublishTx(ctx, tx, events.Event{
				CompanyID: companyID,
				Type:      events.EventOrderCreated,
				Payload: map[string]any{
					"order_id":       order.ID.String(),
					"display_number": order.DisplayNumber,
					"status":         string(order.Status),
				},
				DedupeKey: fmt.Sprintf("order_created:%s", order.ID),
			})
		})
		if err == nil || !isDuplicateKey(err) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.Int64("display_number", order.DisplayNumber),
	)
	return order, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*orderdomain.Order, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 || id == 0 {
		return nil, orderdomain.ErrInvalidID
	}
	var order orderdomain.Order
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderdomain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Board loads every order for the company, eagerly enriched. The board is a
// working view over the live order set, not a paginated listing.
func (s *Service) Board(ctx context.Context) (orderdomain.BoardResponse, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 {
		return orderdomain.BoardResponse{}, orderdomain.ErrInvalidID
	}

	var orders []orderdomain.Order
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return orderdomain.BoardResponse{}, err
	}

	customers, err := s.loadCustomerSummaries(ctx, companyID, orders)
	if err != nil {
		return orderdomain.BoardResponse{}, err
	}
	previews, err := s.loadItemPreviews(ctx, companyID, orders)
	if err != nil {
		return orderdomain.BoardResponse{}, err
	}

	byStatus := make(map[orderdomain.Status][]orderdomain.BoardCard, len(orderdomain.BoardColumns))
	for _, order := range orders {
		card := orderdomain.BoardCard{
			ID:            order.ID,
			DisplayNumber: order.DisplayNumber,
			CustomerName:  order.CustomerName,
			Status:        order.Status,
			TotalCents:    order.TotalCents,
			PaidCents:     order.PaidCents,
			PaymentMethod: order.PaymentMethod,
			Version:       order.Version,
			ItemsPreview:  previews[order.ID],
			CreatedAt:     order.CreatedAt,
		}
		if order.CustomerID != nil {
			if summary, ok := customers[*order.CustomerID]; ok {
				card.Customer = &summary
				if card.CustomerName == "" {
					card.CustomerName = summary.Name
				}
			}
		}
		byStatus[order.Status] = append(byStatus[order.Status], card)
	}

	resp := orderdomain.BoardResponse{Columns: make([]orderdomain.BoardColumn, 0, len(orderdomain.BoardColumns))}
	for _, status := range orderdomain.BoardColumns {
		cards := byStatus[status]
		if cards == nil {
			cards = []orderdomain.BoardCard{}
		}
		resp.Columns = append(resp.Columns, orderdomain.BoardColumn{Status: status, Cards: cards})
	}
	return resp, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req orderdomain.UpdateStatusRequest) (orderdomain.UpdateStatusResponse, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 || req.OrderID == 0 {
		return orderdomain.UpdateStatusResponse{}, orderdomain.ErrInvalidID
	}

	order, err := s.Get(ctx, req.OrderID)
	if err != nil {
		return orderdomain.UpdateStatusResponse{}, err
	}

	result, err := orderdomain.ResolveTransition(orderdomain.TransitionRequest{
		Current:     order.Status,
		Target:      req.Target,
		ArtDecision: req.ArtDecision,
	})
	if err != nil {
		return orderdomain.UpdateStatusResponse{}, err
	}
	if result.NoOp {
		return orderdomain.UpdateStatusResponse{Order: order, NoOp: true}, nil
	}

	actor := "system"
	if req.ActorID != 0 {
		actor = "user:" + req.ActorID.String()
	}
	action := authorization.ActionTransition
	if result.RequiresReactivate {
		action = authorization.ActionReactivate
	}
	if err := s.authz.Authorize(ctx, actor, companyID.String(), authorization.ObjectOrder, action); err != nil {
		return orderdomain.UpdateStatusResponse{}, err
	}

	previous := order.Status
	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&orderdomain.Order{}).
			Where("company_id = ? AND id = ?", companyID, order.ID)
		if req.ExpectedVersion > 0 {
			update = update.Where("version = ?", req.ExpectedVersion)
		}
		outcome := update.Updates(map[string]any{
			"status":     result.Target,
			"version":    gorm.Expr("version + 1"),
			"updated_at": now,
		})
		if outcome.Error != nil {
			return outcome.Error
		}
		if outcome.RowsAffected == 0 {
			return orderdomain.ErrVersionConflict
		}

		history := orderdomain.StatusHistory{
			ID:        s.genID.Generate(),
			CompanyID: companyID,
			OrderID:   order.ID,
			Status:    result.Target,
			CreatedAt: now,
		}
		if req.ActorID != 0 {
			actorID := req.ActorID
			history.ChangedBy = &actorID
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		payload := events.OrderStatusChangedPayload{
			OrderID:    order.ID.String(),
			FromStatus: string(previous),
			ToStatus:   string(result.Target),
			Version:    order.Version + 1,
		}
		if req.ActorID != 0 {
			payload.ChangedBy = req.ActorID.String()
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			CompanyID: companyID,
			Type:      events.EventOrderStatusChanged,
			Payload:   payload.ToMap(),
			DedupeKey: fmt.Sprintf("order_status:%s:%d", order.ID, order.Version+1),
		})
	})
	if err != nil {
		return orderdomain.UpdateStatusResponse{}, err
	}

	order.Status = result.Target
	order.Version++
	order.UpdatedAt = now

	s.log.Info("order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(result.Target)),
	)
	return orderdomain.UpdateStatusResponse{
		Order:     order,
		Rewritten: result.Target != req.Target,
	}, nil
}

func (s *Service) History(ctx context.Context, orderID snowflake.ID) ([]orderdomain.StatusHistory, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 || orderID == 0 {
		return nil, orderdomain.ErrInvalidID
	}
	var rows []orderdomain.StatusHistory
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND order_id = ?", companyID, orderID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TimeInStatus reconstructs how long the order sat in each status from the
// append-only history. The current status is open-ended and counted up to
// now.
func (s *Service) TimeInStatus(ctx context.Context, orderID snowflake.ID) ([]orderdomain.StatusDuration, error) {
	rows, err := s.History(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	totals := make(map[orderdomain.Status]time.Duration)
	order := make([]orderdomain.Status, 0, len(rows))
	now := time.Now().UTC()
	for i, row := range rows {
		end := now
		if i+1 < len(rows) {
			end = rows[i+1].CreatedAt
		}
		if _, seen := totals[row.Status]; !seen {
			order = append(order, row.Status)
		}
		totals[row.Status] += end.Sub(row.CreatedAt)
	}

	durations := make([]orderdomain.StatusDuration, 0, len(order))
	for _, status := range order {
		durations = append(durations, orderdomain.StatusDuration{
			Status:   status,
			Duration: totals[status],
		})
	}
	return durations, nil
}

func (s *Service) LastDeliveredAt(ctx context.Context) (*time.Time, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 {
		return nil, orderdomain.ErrInvalidID
	}
	var last sql.NullTime
	err := s.db.WithContext(ctx).
		Model(&orderdomain.StatusHistory{}).
		Where("company_id = ? AND status = ?", companyID, orderdomain.StatusDelivered).
		Select("MAX(created_at)").
		Scan(&last).Error
	if err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	t := last.Time.UTC()
	return &t, nil
}

func (s *Service) loadCustomerSummaries(ctx context.Context, companyID snowflake.ID, orders []orderdomain.Order) (map[snowflake.ID]orderdomain.CustomerSummary, error) {
	ids := make([]snowflake.ID, 0, len(orders))
	seen := make(map[snowflake.ID]struct{}, len(orders))
	for _, order := range orders {
		if order.CustomerID == nil {
			continue
		}
		if _, ok := seen[*order.CustomerID]; ok {
			continue
		}
		seen[*order.CustomerID] = struct{}{}
		ids = append(ids, *order.CustomerID)
	}
	if len(ids) == 0 {
		return map[snowflake.ID]orderdomain.CustomerSummary{}, nil
	}

	var customers []customerdomain.Customer
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&customers).Error
	if err != nil {
		return nil, err
	}

	summaries := make(map[snowflake.ID]orderdomain.CustomerSummary, len(customers))
	for _, customer := range customers {
		summaries[customer.ID] = orderdomain.CustomerSummary{
			ID:    customer.ID,
			Name:  customer.Name,
			Phone: customer.Phone,
			City:  customer.City,
		}
	}
	return summaries, nil
}

func (s *Service) loadItemPreviews(ctx context.Context, companyID snowflake.ID, orders []orderdomain.Order) (map[snowflake.ID][]orderdomain.OrderItem, error) {
	if len(orders) == 0 {
		return map[snowflake.ID][]orderdomain.OrderItem{}, nil
	}
	ids := make([]snowflake.ID, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}

	var items []orderdomain.OrderItem
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND order_id IN ?", companyID, ids).
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	previews := make(map[snowflake.ID][]orderdomain.OrderItem)
	for _, item := range items {
		if len(previews[item.OrderID]) >= itemsPreviewLimit {
			continue
		}
		previews[item.OrderID] = append(previews[item.OrderID], item)
	}
	return previews, nil
}
