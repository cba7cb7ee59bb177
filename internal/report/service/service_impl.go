package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thiagosouza28/ideart-cloud/internal/companyctx"
	orderdomain "github.com/thiagosouza28/ideart-cloud/internal/order/domain"
	reportdomain "github.com/thiagosouza28/ideart-cloud/internal/report/domain"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

type ServiceParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

func NewService(p ServiceParam) reportdomain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("report.service"),
	}
}

func (s *Service) Sales(ctx context.Context, req reportdomain.Request) (*reportdomain.Report, error) {
	companyID := companyctx.CompanyIDFromContext(ctx)
	if companyID == 0 {
		return nil, reportdomain.ErrInvalidCompany
	}
	if req.From.IsZero() || req.To.IsZero() || !req.From.Before(req.To) {
		return nil, reportdomain.ErrInvalidRange
	}
	if req.Granularity == "" {
		req.Granularity = reportdomain.ByDay
	}
	if !req.Granularity.Valid() {
		return nil, reportdomain.ErrInvalidGranularity
	}
	for _, status := range req.Statuses {
		if !status.Valid() {
			return nil, reportdomain.ErrInvalidStatus
		}
	}

	query := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("created_at >= ? AND created_at < ?", req.From.UTC(), req.To.UTC())
	if len(req.Statuses) > 0 {
		query = query.Where("status IN ?", req.Statuses)
	} else {
		query = query.Where("status <> ?", orderdomain.StatusCanceled)
	}

	var orders []orderdomain.Order
	if err := query.Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}

	report := &reportdomain.Report{
		Series:          aggregateSeries(orders, req.Granularity),
		ByPaymentMethod: aggregateBy(orders, paymentMethodKey),
		ByCustomer:      aggregateBy(orders, customerKey),
	}
	report.Summary = summarize(orders)

	costs, err := s.costByOrder(ctx, companyID, orders)
	if err != nil {
		return nil, err
	}
	for _, cost := range costs {
		report.Summary.CostCents += cost
	}
	if report.Summary.TotalCents > 0 {
		margin := report.Summary.TotalCents - report.Summary.CostCents
		report.Summary.MarginPercent = float64(margin) / float64(report.Summary.TotalCents) * 100
	}
	return report, nil
}

func (s *Service) costByOrder(ctx context.Context, companyID snowflake.ID, orders []orderdomain.Order) (map[snowflake.ID]int64, error) {
	if len(orders) == 0 {
		return nil, nil
	}
	ids := make([]snowflake.ID, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	var items []orderdomain.OrderItem
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND order_id IN ?", companyID, ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	costs := make(map[snowflake.ID]int64, len(orders))
	for _, item := range items {
		costs[item.OrderID] += item.UnitCostCents * int64(item.Quantity)
	}
	return costs, nil
}

func summarize(orders []orderdomain.Order) reportdomain.Summary {
	summary := reportdomain.Summary{Orders: len(orders)}
	for _, order := range orders {
		summary.TotalCents += order.TotalCents
		summary.PaidCents += order.PaidCents
	}
	if summary.Orders > 0 {
		summary.TicketAverageCents = summary.TotalCents / int64(summary.Orders)
	}
	return summary
}

func aggregateSeries(orders []orderdomain.Order, granularity reportdomain.Granularity) []reportdomain.SeriesPoint {
	buckets := map[string]*reportdomain.SeriesPoint{}
	for _, order := range orders {
		period := bucketKey(order.CreatedAt.UTC(), granularity)
		point, ok := buckets[period]
		if !ok {
			point = &reportdomain.SeriesPoint{Period: period}
			buckets[period] = point
		}
		point.Orders++
		point.TotalCents += order.TotalCents
		point.PaidCents += order.PaidCents
	}
	series := make([]reportdomain.SeriesPoint, 0, len(buckets))
	for _, point := range buckets {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Period < series[j].Period })
	return series
}

func bucketKey(t time.Time, granularity reportdomain.Granularity) string {
	switch granularity {
	case reportdomain.ByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case reportdomain.ByMonth:
		return t.Format("2006-01")
	case reportdomain.ByYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

func aggregateBy(orders []orderdomain.Order, key func(orderdomain.Order) string) []reportdomain.Breakdown {
	buckets := map[string]*reportdomain.Breakdown{}
	for _, order := range orders {
		k := key(order)
		slice, ok := buckets[k]
		if !ok {
			slice = &reportdomain.Breakdown{Key: k}
			buckets[k] = slice
		}
		slice.Orders++
		slice.TotalCents += order.TotalCents
	}
	out := make([]reportdomain.Breakdown, 0, len(buckets))
	for _, slice := range buckets {
		out = append(out, *slice)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalCents != out[j].TotalCents {
			return out[i].TotalCents > out[j].TotalCents
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func paymentMethodKey(order orderdomain.Order) string {
	if order.PaymentMethod == "" {
		return "nao_informado"
	}
	return order.PaymentMethod
}

func customerKey(order orderdomain.Order) string {
	if order.CustomerName != "" {
		return order.CustomerName
	}
	if order.CustomerID != nil {
		return order.CustomerID.String()
	}
	return "sem_cliente"
}
