package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidID           = errors.New("invalid_id")
	ErrOrderNotFound       = errors.New("order_not_found")
	ErrArtDecisionRequired = errors.New("art_decision_required")
	ErrTerminalStatus      = errors.New("terminal_status")
	ErrVersionConflict     = errors.New("version_conflict")
	ErrInvalidCustomer     = errors.New("invalid_customer")
	ErrInvalidItems        = errors.New("invalid_items")
)

// CustomerSummary is the denormalized customer block on a board card.
type CustomerSummary struct {
	ID    snowflake.ID `json:"id"`
	Name  string       `json:"name"`
	Phone string       `json:"phone,omitempty"`
	City  string       `json:"city,omitempty"`
}

// BoardCard is one order as rendered on the status board.
type BoardCard struct {
	ID            snowflake.ID     `json:"id"`
	DisplayNumber int64            `json:"display_number"`
	CustomerName  string           `json:"customer_name"`
	Customer      *CustomerSummary `json:"customer,omitempty"`
	Status        Status           `json:"status"`
	TotalCents    int64            `json:"total_cents"`
	PaidCents     int64            `json:"paid_cents"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	Version       int64            `json:"version"`
	ItemsPreview  []OrderItem      `json:"items_preview"`
	CreatedAt     time.Time        `json:"created_at"`
}

// BoardColumn is one status column with its cards.
type BoardColumn struct {
	Status Status      `json:"status"`
	Cards  []BoardCard `json:"cards"`
}

// BoardResponse is the full board for a company.
type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
}

// CreateOrderRequest opens a new order in orcamento.
type CreateOrderRequest struct {
	CustomerID    *snowflake.ID
	CustomerName  string
	PaymentMethod string
	Items         []CreateOrderItem
}

type CreateOrderItem struct {
	Description    string
	Quantity       int
	UnitPriceCents int64
	UnitCostCents  int64
}

// UpdateStatusRequest asks for a status transition for one order.
type UpdateStatusRequest struct {
	OrderID snowflake.ID
	Target  Status
	// ArtDecision carries the answer to the art prompt when leaving
	// pendente; unanswered requests are rejected so the client can ask.
	ArtDecision ArtDecision
	// ExpectedVersion rejects the write when another transition landed
	// first. Zero skips the check.
	ExpectedVersion int64
	ActorID         snowflake.ID
}

// UpdateStatusResponse reports the committed transition.
type UpdateStatusResponse struct {
	Order *Order `json:"order"`
	// Rewritten is set when the gate redirected the requested target.
	Rewritten bool `json:"rewritten"`
	// NoOp is set when the order was already in the requested status.
	NoOp bool `json:"no_op"`
}

// StatusDuration is time spent in one status, reconstructed from history.
type StatusDuration struct {
	Status   Status        `json:"status"`
	Duration time.Duration `json:"duration"`
}

// Service is the order board.
type Service interface {
	Create(ctx context.Context, req CreateOrderRequest) (*Order, error)
	Get(ctx context.Context, id snowflake.ID) (*Order, error)
	Board(ctx context.Context) (BoardResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (UpdateStatusResponse, error)
	History(ctx context.Context, orderID snowflake.ID) ([]StatusHistory, error)
	TimeInStatus(ctx context.Context, orderID snowflake.ID) ([]StatusDuration, error)
	LastDeliveredAt(ctx context.Context) (*time.Time, error)
}
