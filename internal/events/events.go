package events

// Event types emitted on the company change feed. Clients poll the feed and
// refetch the affected view; the board uses order.status_changed to stay in
// sync across sessions.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventCartUpdated        = "cart.updated"
	EventCatalogUpdated     = "catalog.updated"
	EventCustomerUpdated    = "customer.updated"
	EventCompanyUpdated     = "company.updated"
)

// OrderStatusChangedPayload carries enough for a client to decide whether a
// refetch is newer than its local optimistic state.
type OrderStatusChangedPayload struct {
	OrderID    string `json:"order_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Version    int64  `json:"version"`
	ChangedBy  string `json:"changed_by,omitempty"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p OrderStatusChangedPayload) ToMap() map[string]any {
	payload := map[string]any{
		"order_id":    p.OrderID,
		"from_status": p.FromStatus,
		"to_status":   p.ToStatus,
		"version":     p.Version,
	}
	if p.ChangedBy != "" {
		payload["changed_by"] = p.ChangedBy
	}
	return payload
}

// CartUpdatedPayload notifies other open storefront views of a cart change.
type CartUpdatedPayload struct {
	CartToken string `json:"cart_token"`
	LineCount int    `json:"line_count"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p CartUpdatedPayload) ToMap() map[string]any {
	return map[string]any{
		"cart_token": p.CartToken,
		"line_count": p.LineCount,
	}
}
