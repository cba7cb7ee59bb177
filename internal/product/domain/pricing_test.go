package domain

import (
	"testing"
	"time"
)

func int64Ptr(v int64) *int64        { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func TestResolvePricePrefersActivePromo(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	product := Product{
		CostCents:         1000,
		CatalogPriceCents: int64Ptr(2500),
		PromoPriceCents:   int64Ptr(1800),
		PromoStartsAt:     timePtr(now.Add(-time.Hour)),
		PromoEndsAt:       timePtr(now.Add(time.Hour)),
	}

	price := ResolvePrice(product, now)
	if price.Cents != 1800 || !price.Promo {
		t.Fatalf("expected promo price 1800, got %+v", price)
	}
}

func TestResolvePricePromoWindowIsHalfOpen(t *testing.T) {
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	product := Product{
		CatalogPriceCents: int64Ptr(2500),
		PromoPriceCents:   int64Ptr(1800),
		PromoStartsAt:     &start,
		PromoEndsAt:       &end,
	}

	if price := ResolvePrice(product, start); !price.Promo {
		t.Fatalf("expected promo active at window start, got %+v", price)
	}
	if price := ResolvePrice(product, end); price.Promo {
		t.Fatalf("expected promo inactive at window end, got %+v", price)
	}
	if price := ResolvePrice(product, start.Add(-time.Second)); price.Promo {
		t.Fatalf("expected promo inactive before start, got %+v", price)
	}
}

func TestResolvePriceFallsBackToCatalogThenSuggested(t *testing.T) {
	product := Product{
		CostCents:         1000,
		MarkupBps:         10000,
		CatalogPriceCents: int64Ptr(2500),
	}
	if price := ResolvePrice(product, time.Now()); price.Cents != 2500 || price.Promo {
		t.Fatalf("expected catalog price 2500, got %+v", price)
	}

	product.CatalogPriceCents = nil
	if price := ResolvePrice(product, time.Now()); price.Cents != 2000 {
		t.Fatalf("expected suggested price 2000, got %+v", price)
	}
}

func TestSuggestedPriceRounding(t *testing.T) {
	tests := []struct {
		cost   int64
		markup int64
		want   int64
	}{
		{cost: 1000, markup: 10000, want: 2000},
		{cost: 333, markup: 5000, want: 500},
		{cost: 999, markup: 0, want: 999},
		{cost: 100, markup: 2500, want: 125},
	}
	for _, tt := range tests {
		if got := SuggestedPrice(tt.cost, tt.markup); got != tt.want {
			t.Fatalf("SuggestedPrice(%d, %d) = %d, want %d", tt.cost, tt.markup, got, tt.want)
		}
	}
}

func TestVisibilityIsUnionOfLegacyFlags(t *testing.T) {
	tests := []struct {
		enabled bool
		show    bool
		want    bool
	}{
		{enabled: false, show: false, want: false},
		{enabled: true, show: false, want: true},
		{enabled: false, show: true, want: true},
		{enabled: true, show: true, want: true},
	}
	for _, tt := range tests {
		p := Product{CatalogEnabled: tt.enabled, ShowInCatalog: tt.show}
		if p.Visible() != tt.want {
			t.Fatalf("Visible() with %v/%v = %v, want %v", tt.enabled, tt.show, p.Visible(), tt.want)
		}
	}

	var p Product
	p.SetVisible(true)
	if !p.CatalogEnabled || !p.ShowInCatalog {
		t.Fatalf("SetVisible must write both columns, got %v/%v", p.CatalogEnabled, p.ShowInCatalog)
	}
}
