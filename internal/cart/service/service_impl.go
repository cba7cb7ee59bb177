package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thiagosouza28/ideart-cloud/internal/cache"
	cartdomain "github.com/thiagosouza28/ideart-cloud/internal/cart/domain"
	companydomain "github.com/thiagosouza28/ideart-cloud/internal/company/domain"
	"github.com/thiagosouza28/ideart-cloud/internal/config"
	eventsvc "github.com/thiagosouza28/ideart-cloud/internal/events"
	productdomain "github.com/thiagosouza28/ideart-cloud/internal/product/domain"
)

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	products productdomain.Service
	outbox   *eventsvc.Outbox
	carts    *cache.TTLCache[string, *cartdomain.Cart]
	ttl      time.Duration

	// mu serializes cart read-modify-write cycles. Cached carts are
	// treated as immutable; every mutation publishes a fresh clone.
	mu sync.Mutex
}

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Config   config.Config
	Products productdomain.Service
	Outbox   *eventsvc.Outbox
}

func NewService(p ServiceParam) cartdomain.Service {
	ttl := p.Config.Storefront.CartTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("cart.service"),
		products: p.Products,
		outbox:   p.Outbox,
		carts:    cache.NewTTLCache[string, *cartdomain.Cart](),
		ttl:      ttl,
	}
}

// NewToken mints an opaque cart token for a fresh storefront session.
func NewToken() string { return uuid.NewString() }

func cartKey(companyID snowflake.ID, token string) string {
	return companyID.String() + ":" + token
}

func validateKey(companyID snowflake.ID, token string) (string, error) {
	if companyID == 0 {
		return "", cartdomain.ErrInvalidCompany
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", cartdomain.ErrInvalidToken
	}
	return token, nil
}

// loadLocked returns a private clone of the cached cart, creating an
// empty one on a miss. Callers hold s.mu.
func (s *Service) loadLocked(companyID snowflake.ID, token string) *cartdomain.Cart {
	if cart, ok := s.carts.Get(cartKey(companyID, token)); ok {
		return cart.Clone()
	}
	cart := &cartdomain.Cart{
		Token:     token,
		CompanyID: companyID,
		UpdatedAt: time.Now().UTC(),
	}
	s.carts.Set(cartKey(companyID, token), cart, s.ttl)
	return cart.Clone()
}

// storeLocked publishes the clone into the cache. Callers hold s.mu and
// must not touch the cart afterwards except to return it.
func (s *Service) storeLocked(cart *cartdomain.Cart) {
	cart.UpdatedAt = time.Now().UTC()
	s.carts.Set(cartKey(cart.CompanyID, cart.Token), cart, s.ttl)
}

func (s *Service) Get(ctx context.Context, companyID snowflake.ID, token string) (*cartdomain.Cart, error) {
	token, err := validateKey(companyID, token)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	cart := s.loadLocked(companyID, token)
	s.mu.Unlock()
	return cart, nil
}

func (s *Service) SetItem(ctx context.Context, req cartdomain.SetItemRequest) (*cartdomain.Cart, error) {
	if req.Quantity < 0 {
		return nil, cartdomain.ErrInvalidQuantity
	}
	token, err := validateKey(req.CompanyID, req.Token)
	if err != nil {
		return nil, err
	}

	if req.Quantity == 0 {
		s.mu.Lock()
		cart := s.loadLocked(req.CompanyID, token)
		cart.Lines = removeLine(cart.Lines, req.ProductID)
		s.storeLocked(cart)
		s.mu.Unlock()
		s.publishUpdated(ctx, cart.CompanyID, cart.Token, cart.LineCount())
		return cart, nil
	}

	// Resolve the catalog line before taking the lock; the lookup hits
	// the database.
	items, err := s.products.Catalog(ctx, req.CompanyID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	item, ok := findItem(items, req.ProductID)
	if !ok {
		return nil, cartdomain.ErrInvalidProduct
	}

	quantity := req.Quantity
	if quantity < item.MinOrderQty {
		quantity = item.MinOrderQty
	}

	line := cartdomain.Line{
		ProductID:  item.ID,
		Name:       item.Name,
		Quantity:   quantity,
		PriceCents: item.PriceCents,
		Promo:      item.Promo,
		Notes:      strings.TrimSpace(req.Notes),
	}

	s.mu.Lock()
	cart := s.loadLocked(req.CompanyID, token)
	replaced := false
	for i := range cart.Lines {
		if cart.Lines[i].ProductID == item.ID {
			cart.Lines[i] = line
			replaced = true
			break
		}
	}
	if !replaced {
		cart.Lines = append(cart.Lines, line)
	}
	s.storeLocked(cart)
	s.mu.Unlock()

	s.publishUpdated(ctx, cart.CompanyID, cart.Token, cart.LineCount())
	return cart, nil
}

func (s *Service) Merge(ctx context.Context, companyID snowflake.ID, dstToken, srcToken string) (*cartdomain.Cart, error) {
	dstToken, err := validateKey(companyID, dstToken)
	if err != nil {
		return nil, err
	}
	srcToken, err = validateKey(companyID, srcToken)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	dst := s.loadLocked(companyID, dstToken)
	src := s.loadLocked(companyID, srcToken)
	for _, line := range src.Lines {
		merged := false
		for i := range dst.Lines {
			if dst.Lines[i].ProductID == line.ProductID {
				dst.Lines[i].Quantity += line.Quantity
				merged = true
				break
			}
		}
		if !merged {
			dst.Lines = append(dst.Lines, line)
		}
	}
	s.carts.Delete(cartKey(companyID, srcToken))
	s.storeLocked(dst)
	s.mu.Unlock()

	s.publishUpdated(ctx, dst.CompanyID, dst.Token, dst.LineCount())
	return dst, nil
}

func (s *Service) Clear(ctx context.Context, companyID snowflake.ID, token string) error {
	token, err := validateKey(companyID, token)
	if err != nil {
		return err
	}
	s.carts.Delete(cartKey(companyID, token))
	s.publishUpdated(ctx, companyID, token, 0)
	return nil
}

func (s *Service) Checkout(ctx context.Context, companyID snowflake.ID, token string) (*cartdomain.CheckoutSummary, error) {
	cart, err := s.Get(ctx, companyID, token)
	if err != nil {
		return nil, err
	}

	var company companydomain.Company
	err = s.db.WithContext(ctx).First(&company, "id = ?", companyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cartdomain.ErrInvalidCompany
		}
		return nil, err
	}
	settings := company.CatalogSettings.WithDefaults()

	total := cart.TotalCents()
	summary := &cartdomain.CheckoutSummary{
		Cart:         *cart,
		TotalCents:   total,
		MeetsMinimum: total >= settings.MinOrderValueCents,
	}
	if summary.MeetsMinimum && settings.WhatsAppNumber != "" {
		summary.WhatsAppURL = whatsAppURL(settings.WhatsAppNumber, company.Name, cart, total)
	}
	return summary, nil
}

func (s *Service) publishUpdated(ctx context.Context, companyID snowflake.ID, token string, lines int) {
	payload := eventsvc.CartUpdatedPayload{CartToken: token, LineCount: lines}
	err := s.outbox.Publish(ctx, eventsvc.Event{
		CompanyID: companyID,
		Type:      eventsvc.EventCartUpdated,
		Payload:   payload.ToMap(),
	})
	if err != nil {
		s.log.Warn("publish cart.updated", zap.Error(err))
	}
}

func whatsAppURL(number, companyName string, cart *cartdomain.Cart, totalCents int64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá, %s! Gostaria de fazer um pedido:\n", companyName)
	for _, line := range cart.Lines {
		fmt.Fprintf(&b, "- %dx %s (R$ %d,%02d)\n",
			line.Quantity, line.Name, line.PriceCents/100, line.PriceCents%100)
	}
	fmt.Fprintf(&b, "Total: R$ %d,%02d", totalCents/100, totalCents%100)

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(b.String())
}

func removeLine(lines []cartdomain.Line, productID snowflake.ID) []cartdomain.Line {
	out := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			out = append(out, line)
		}
	}
	return out
}

func findItem(items []productdomain.CatalogItem, id snowflake.ID) (productdomain.CatalogItem, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return productdomain.CatalogItem{}, false
}
