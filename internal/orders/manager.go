// Package orders creates orders, assigns their business codes and moves them
// through statuses.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/imrishuroy/trynex-storefront/internal/events"
	"github.com/imrishuroy/trynex-storefront/internal/models"
	"github.com/imrishuroy/trynex-storefront/internal/promos"
	"github.com/imrishuroy/trynex-storefront/internal/validation"
)

// Repository is the order persistence the manager needs.
type Repository interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	OrderByID(ctx context.Context, id uint) (*models.Order, error)
	OrderByCode(ctx context.Context, code string) (*models.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint, status string, at time.Time) (*models.Order, error)
}

// PromoLookup finds a promo by code, returning models.ErrNotFound on a miss.
type PromoLookup interface {
	PromoByCode(ctx context.Context, code string) (*models.Promo, error)
}

// ErrCodeExhausted means every generated order code was already taken.
var ErrCodeExhausted = errors.New("could not allocate a unique order code")

// PromoError reports why a promo code was refused at checkout.
type PromoError struct {
	Code string
	Err  error
}

func (e *PromoError) Error() string { return fmt.Sprintf("promo %s: %v", e.Code, e.Err) }
func (e *PromoError) Unwrap() error { return e.Err }

// List page bounds
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type Manager struct {
	repo      Repository
	promos    PromoLookup
	publisher events.Publisher
	codes     *CodeGenerator
	attempts  int
	nowFunc   func() time.Time
}

// NewManager wires the manager. A nil publisher only logs events.
func NewManager(repo Repository, promoLookup PromoLookup, publisher events.Publisher, codes *CodeGenerator, attempts int) *Manager {
	if publisher == nil {
		publisher = events.LogPublisher{}
	}
	if attempts < 1 {
		attempts = 1
	}
	return &Manager{
		repo:      repo,
		promos:    promoLookup,
		publisher: publisher,
		codes:     codes,
		attempts:  attempts,
		nowFunc:   time.Now,
	}
}

// Create validates the promo (if any), persists a pending order under a fresh
// business code and announces it. Totals are stored exactly as supplied.
func (m *Manager) Create(ctx context.Context, req validation.CreateOrderRequest) (*models.Order, error) {
	now := m.nowFunc()

	promoCode, err := m.checkPromo(ctx, req, now)
	if err != nil {
		return nil, err
	}

	order := newOrder(req, promoCode)
	for attempt := 1; ; attempt++ {
		order.ID = 0
		order.OrderCode = m.codes.Generate(now)
		err := m.repo.CreateOrder(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("create order: %w", err)
		}
		if attempt >= m.attempts {
			return nil, ErrCodeExhausted
		}
		log.Printf("[orders] order code %s taken, retrying (%d/%d)", order.OrderCode, attempt, m.attempts)
	}

	m.publish(ctx, events.NewOrderEvent(events.TypeOrderCreated, order, "", now))
	return order, nil
}

func (m *Manager) checkPromo(ctx context.Context, req validation.CreateOrderRequest, now time.Time) (*string, error) {
	if req.PromoCode == nil || strings.TrimSpace(*req.PromoCode) == "" {
		return nil, nil
	}
	code := promos.Canonical(*req.PromoCode)

	p, err := m.promos.PromoByCode(ctx, code)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &PromoError{Code: code, Err: promos.ErrNotFound}
	}
	if err != nil {
		return nil, fmt.Errorf("lookup promo: %w", err)
	}
	if err := promos.Validate(p, now); err != nil {
		return nil, &PromoError{Code: code, Err: err}
	}
	if err := promos.CheckMinimum(p, req.Subtotal); err != nil {
		return nil, &PromoError{Code: code, Err: err}
	}
	return &code, nil
}

// newOrder snapshots the request into a pending order.
func newOrder(req validation.CreateOrderRequest, promoCode *string) *models.Order {
	items := make([]models.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, models.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Variants:  it.Variants,
		})
	}
	method := req.OrderMethod
	if method == "" {
		method = models.ChannelWhatsApp
	}
	return &models.Order{
		CustomerName:        strings.TrimSpace(req.CustomerName),
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		CustomerAddress:     req.CustomerAddress,
		Items:               items,
		Subtotal:            req.Subtotal,
		DeliveryFee:         req.DeliveryFee,
		Discount:            req.Discount,
		Total:               req.Total,
		PaymentMethod:       req.PaymentMethod,
		DeliveryLocation:    req.DeliveryLocation,
		SpecialInstructions: req.SpecialInstructions,
		PromoCode:           promoCode,
		Status:              models.StatusPending,
		OrderMethod:         method,
	}
}

// GetByCode returns models.ErrNotFound when no order carries code.
func (m *Manager) GetByCode(ctx context.Context, code string) (*models.Order, error) {
	return m.repo.OrderByCode(ctx, strings.TrimSpace(code))
}

func (m *Manager) List(ctx context.Context, limit, offset int) ([]models.Order, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return m.repo.ListOrders(ctx, limit, offset)
}

// UpdateStatus sets any status string; there is no transition table.
func (m *Manager) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	current, err := m.repo.OrderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := m.nowFunc()
	updated, err := m.repo.UpdateOrderStatus(ctx, id, strings.TrimSpace(status), now)
	if err != nil {
		return nil, err
	}
	m.publish(ctx, events.NewOrderEvent(events.TypeOrderStatusChanged, updated, current.Status, now))
	return updated, nil
}

// publish never fails the write that triggered it.
func (m *Manager) publish(ctx context.Context, evt events.OrderEvent) {
	if err := m.publisher.Publish(ctx, evt); err != nil {
		log.Printf("[orders] publish %s for %s failed: %v", evt.Type, evt.OrderCode, err)
	}
}
