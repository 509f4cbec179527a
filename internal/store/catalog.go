package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/imrishuroy/trynex-storefront/internal/catalog"
	"github.com/imrishuroy/trynex-storefront/internal/models"
	"github.com/imrishuroy/trynex-storefront/internal/promos"
)

var _ catalog.Reader = (*Store)(nil)

func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var out []models.Category
	err := s.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&out).Error
	return out, translate("list categories", err)
}

func (s *Store) Category(ctx context.Context, id uint) (*models.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var c models.Category
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate("get category", err)
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return translate("create category", s.db.WithContext(ctx).Create(c).Error)
}

// ProductFilterScope translates a normalized filter into WHERE clauses. It is
// the SQL twin of catalog.ProductFilter.Matches.
func ProductFilterScope(f catalog.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.CategoryID != nil {
			db = db.Where("category_id = ?", *f.CategoryID)
		}
		if f.MinPrice != nil {
			db = db.Where("price >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			db = db.Where("price <= ?", *f.MaxPrice)
		}
		if f.Featured != nil {
			db = db.Where("featured = ?", *f.Featured)
		}
		if f.InStock != nil {
			db = db.Where("in_stock = ?", *f.InStock)
		}
		if f.Search != "" {
			pattern := catalog.LikePattern(f.Search)
			db = db.Where(`(search_name LIKE ? ESCAPE '\' OR search_description LIKE ? ESCAPE '\')`, pattern, pattern)
		}
		return db
	}
}

func (s *Store) Products(ctx context.Context, f catalog.ProductFilter) ([]models.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	f = f.Normalize()
	out := []models.Product{}
	err := s.db.WithContext(ctx).
		Scopes(ProductFilterScope(f)).
		Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset(f.Offset).
		Find(&out).Error
	return out, translate("list products", err)
}

// AllProducts lists every product regardless of stock, newest first.
func (s *Store) AllProducts(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var out []models.Product
	err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&out).Error
	return out, translate("list all products", err)
}

func (s *Store) Product(ctx context.Context, id uint) (*models.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var p models.Product
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate("get product", err)
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return translate("create product", s.db.WithContext(ctx).Create(p).Error)
}

// UpdateProduct applies column changes and returns the fresh row.
func (s *Store) UpdateProduct(ctx context.Context, id uint, changes map[string]interface{}) (*models.Product, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var p models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return translate("update product", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.ErrNotFound
		}
		if err := tx.First(&p, id).Error; err != nil {
			return translate("reload product", err)
		}
		_, nameChanged := changes["name"]
		_, descChanged := changes["description"]
		if nameChanged || descChanged {
			return refreshSearch(tx, &p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func refreshSearch(tx *gorm.DB, p *models.Product) error {
	p.RefreshSearch()
	err := tx.Model(p).UpdateColumns(map[string]interface{}{
		"search_name":        p.SearchName,
		"search_description": p.SearchDescription,
	}).Error
	return translate("refresh product search", err)
}

func (s *Store) ApprovedReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	out := []models.Review{}
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND approved = ?", productID, true).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	return out, translate("list reviews", err)
}

func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return translate("create review", s.db.WithContext(ctx).Create(r).Error)
}

func (s *Store) ApproveReview(ctx context.Context, id uint) (*models.Review, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Review{}).Where("id = ?", id).Update("approved", true)
	if res.Error != nil {
		return nil, translate("approve review", res.Error)
	}
	var r models.Review
	if err := db.First(&r, id).Error; err != nil {
		return nil, translate("reload review", err)
	}
	return &r, nil
}

func (s *Store) Promos(ctx context.Context) ([]models.Promo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var out []models.Promo
	err := s.db.WithContext(ctx).Where("active = ?", true).Order("id ASC").Find(&out).Error
	return out, translate("list promos", err)
}

func (s *Store) PromoByCode(ctx context.Context, code string) (*models.Promo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var p models.Promo
	if err := s.db.WithContext(ctx).Where("code = ?", promos.Canonical(code)).First(&p).Error; err != nil {
		return nil, translate("get promo", err)
	}
	return &p, nil
}

func (s *Store) CreatePromo(ctx context.Context, p *models.Promo) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return translate("create promo", s.db.WithContext(ctx).Create(p).Error)
}

func (s *Store) UpdatePromo(ctx context.Context, id uint, changes map[string]interface{}) (*models.Promo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Promo{}).Where("id = ?", id).UpdateColumns(changes)
	if res.Error != nil {
		return nil, translate("update promo", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	var p models.Promo
	if err := db.First(&p, id).Error; err != nil {
		return nil, translate("reload promo", err)
	}
	return &p, nil
}
