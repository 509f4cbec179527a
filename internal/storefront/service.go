// Package storefront serves catalog reads from the primary store and
// substitutes the fallback snapshot whenever the store cannot answer.
package storefront

import (
	"context"
	"errors"
	"log"

	"github.com/imrishuroy/trynex-storefront/internal/catalog"
	"github.com/imrishuroy/trynex-storefront/internal/models"
)

// FallbackRecorder is notified every time a read is answered by the fallback.
type FallbackRecorder interface {
	RecordFallback(ctx context.Context, entity string)
}

// Service is the read façade used by the HTTP layer and the order manager.
type Service struct {
	primary  catalog.Reader
	fallback catalog.Reader
	metrics  FallbackRecorder
}

// NewService wires the two sources. metrics may be nil.
func NewService(primary, fallback catalog.Reader, metrics FallbackRecorder) *Service {
	return &Service{primary: primary, fallback: fallback, metrics: metrics}
}

var _ catalog.Reader = (*Service)(nil)

// degrade reports whether err should be answered from the fallback. Not found
// is an answer, not a failure.
func (s *Service) degrade(ctx context.Context, entity string, err error) bool {
	if err == nil || errors.Is(err, models.ErrNotFound) {
		return false
	}
	log.Printf("[storefront] %s: primary store failed, serving fallback: %v", entity, err)
	if s.metrics != nil {
		s.metrics.RecordFallback(ctx, entity)
	}
	return true
}

func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	out, err := s.primary.Categories(ctx)
	if s.degrade(ctx, "categories", err) {
		return s.fallback.Categories(ctx)
	}
	return out, err
}

func (s *Service) Category(ctx context.Context, id uint) (*models.Category, error) {
	out, err := s.primary.Category(ctx, id)
	if s.degrade(ctx, "category", err) {
		return s.fallback.Category(ctx, id)
	}
	return out, err
}

// Products lists products matching f. Both sources apply the same filter
// semantics, so callers cannot tell which one answered.
func (s *Service) Products(ctx context.Context, f catalog.ProductFilter) ([]models.Product, error) {
	out, err := s.primary.Products(ctx, f)
	if s.degrade(ctx, "products", err) {
		return s.fallback.Products(ctx, f)
	}
	return out, err
}

func (s *Service) Product(ctx context.Context, id uint) (*models.Product, error) {
	out, err := s.primary.Product(ctx, id)
	if s.degrade(ctx, "product", err) {
		return s.fallback.Product(ctx, id)
	}
	return out, err
}

func (s *Service) Promos(ctx context.Context) ([]models.Promo, error) {
	out, err := s.primary.Promos(ctx)
	if s.degrade(ctx, "promos", err) {
		return s.fallback.Promos(ctx)
	}
	return out, err
}

func (s *Service) PromoByCode(ctx context.Context, code string) (*models.Promo, error) {
	out, err := s.primary.PromoByCode(ctx, code)
	if s.degrade(ctx, "promo", err) {
		return s.fallback.PromoByCode(ctx, code)
	}
	return out, err
}

func (s *Service) ApprovedReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	out, err := s.primary.ApprovedReviews(ctx, productID)
	if s.degrade(ctx, "reviews", err) {
		return s.fallback.ApprovedReviews(ctx, productID)
	}
	return out, err
}
