package domain

import "time"

// ResolvedPrice is the price a product sells for at a given instant plus
// where that price came from.
type ResolvedPrice struct {
	Cents int64
	Promo bool
}

// ResolvePrice picks the effective storefront price at now.
//
// Precedence: active promo price, then the explicit catalog price, then
// the suggested price derived from cost and markup. The promo window is
// half-open [starts, ends); a promo with no start is active until it
// ends, and one with no end never expires.
func ResolvePrice(p Product, now time.Time) ResolvedPrice {
	if p.PromoPriceCents != nil && promoActive(p, now) {
		return ResolvedPrice{Cents: *p.PromoPriceCents, Promo: true}
	}
	if p.CatalogPriceCents != nil {
		return ResolvedPrice{Cents: *p.CatalogPriceCents}
	}
	return ResolvedPrice{Cents: SuggestedPrice(p.CostCents, p.MarkupBps)}
}

// SuggestedPrice applies a basis-point markup to cost, rounding half up.
func SuggestedPrice(costCents, markupBps int64) int64 {
	if markupBps <= 0 {
		return costCents
	}
	return (costCents*(10000+markupBps) + 5000) / 10000
}

func promoActive(p Product, now time.Time) bool {
	if p.PromoStartsAt != nil && now.Before(*p.PromoStartsAt) {
		return false
	}
	if p.PromoEndsAt != nil && !now.Before(*p.PromoEndsAt) {
		return false
	}
	return true
}
