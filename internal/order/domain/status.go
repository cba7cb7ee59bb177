package domain

// Status is an order's position in the production workflow. Wire values are
// the product's pt-BR labels, kept verbatim so existing clients and exports
// keep working.
type Status string

const (
	StatusQuote          Status = "orcamento"
	StatusPending        Status = "pendente"
	StatusArtInProgress  Status = "produzindo_arte"
	StatusArtApproved    Status = "arte_aprovada"
	StatusInProduction   Status = "em_producao"
	StatusReady          Status = "pronto"
	StatusAwaitingPickup Status = "aguardando_retirada"
	StatusDelivered      Status = "entregue"
	StatusCanceled       Status = "cancelado"
)

// BoardColumns is the column order of the status board.
var BoardColumns = []Status{
	StatusQuote,
	StatusPending,
	StatusArtInProgress,
	StatusArtApproved,
	StatusInProduction,
	StatusReady,
	StatusAwaitingPickup,
	StatusDelivered,
	StatusCanceled,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusQuote, StatusPending, StatusArtInProgress, StatusArtApproved,
		StatusInProduction, StatusReady, StatusAwaitingPickup,
		StatusDelivered, StatusCanceled:
		return true
	default:
		return false
	}
}

// Terminal reports whether the board initiates no transitions out of s.
// Reactivating a canceled order is the one gated exception.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// ParseStatus validates a wire value.
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
