package catalog

import (
	"context"

	"github.com/imrishuroy/trynex-storefront/internal/models"
)

// Reader is the read side of the catalog. The relational store and the
// fallback dataset both implement it; single-entity lookups return
// models.ErrNotFound when nothing matches.
type Reader interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Category(ctx context.Context, id uint) (*models.Category, error)
	Products(ctx context.Context, f ProductFilter) ([]models.Product, error)
	Product(ctx context.Context, id uint) (*models.Product, error)
	Promos(ctx context.Context) ([]models.Promo, error)
	PromoByCode(ctx context.Context, code string) (*models.Promo, error)
	ApprovedReviews(ctx context.Context, productID uint) ([]models.Review, error)
}
