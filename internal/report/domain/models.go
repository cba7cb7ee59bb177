package domain

import (
	"context"
	"errors"
	"time"

	orderdomain "github.com/thiagosouza28/ideart-cloud/internal/order/domain"
)

// Granularity buckets the sales series.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
	ByYear  Granularity = "year"
)

func (g Granularity) Valid() bool {
	switch g {
	case ByDay, ByWeek, ByMonth, ByYear:
		return true
	}
	return false
}

var (
	ErrInvalidRange       = errors.New("invalid_date_range")
	ErrInvalidGranularity = errors.New("invalid_granularity")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidCompany     = errors.New("invalid_company_id")
)

// Request selects the orders to aggregate. The range is half-open
// [From, To). An empty status list means all non-cancelled statuses.
type Request struct {
	From        time.Time
	To          time.Time
	Granularity Granularity
	Statuses    []orderdomain.Status
}

// SeriesPoint is one bucket of the sales series.
type SeriesPoint struct {
	Period     string `json:"period"`
	Orders     int    `json:"orders"`
	TotalCents int64  `json:"total_cents"`
	PaidCents  int64  `json:"paid_cents"`
}

// Breakdown is one slice of a grouped total.
type Breakdown struct {
	Key        string `json:"key"`
	Orders     int    `json:"orders"`
	TotalCents int64  `json:"total_cents"`
}

// Summary is the aggregate over the whole range.
type Summary struct {
	Orders             int     `json:"orders"`
	TotalCents         int64   `json:"total_cents"`
	PaidCents          int64   `json:"paid_cents"`
	TicketAverageCents int64   `json:"ticket_average_cents"`
	CostCents          int64   `json:"cost_cents"`
	MarginPercent      float64 `json:"margin_percent"`
}

// Report is the full sales report for a range.
type Report struct {
	Summary         Summary       `json:"summary"`
	Series          []SeriesPoint `json:"series"`
	ByPaymentMethod []Breakdown   `json:"by_payment_method"`
	ByCustomer      []Breakdown   `json:"by_customer"`
}

type Service interface {
	Sales(ctx context.Context, req Request) (*Report, error)
}
