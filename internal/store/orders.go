package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/imrishuroy/trynex-storefront/internal/models"
	"github.com/imrishuroy/trynex-storefront/internal/promos"
)

// CreateOrder inserts o. A taken order code comes back as models.ErrConflict.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return translate("create order", s.db.WithContext(ctx).Create(o).Error)
}

func (s *Store) OrderByCode(ctx context.Context, code string) (*models.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var o models.Order
	if err := s.db.WithContext(ctx).Where("order_id = ?", code).First(&o).Error; err != nil {
		return nil, translate("get order by code", err)
	}
	return &o, nil
}

func (s *Store) OrderByID(ctx context.Context, id uint) (*models.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	var o models.Order
	if err := s.db.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, translate("get order", err)
	}
	return &o, nil
}

// ListOrders returns orders newest first.
func (s *Store) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	out := []models.Order{}
	err := s.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, translate("list orders", err)
}

// UpdateOrderStatus sets status and updated_at and returns the fresh row.
func (s *Store) UpdateOrderStatus(ctx context.Context, id uint, status string, at time.Time) (*models.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Order{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{"status": status, "updated_at": at})
	if res.Error != nil {
		return nil, translate("update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	var o models.Order
	if err := db.First(&o, id).Error; err != nil {
		return nil, translate("reload order", err)
	}
	return &o, nil
}

// RedeemPromo counts the order's promo against its usage limit exactly once.
// It flips promo_redeemed and increments usage_count in one transaction;
// repeated calls for the same order report false and change nothing.
func (s *Store) RedeemPromo(ctx context.Context, orderID uint) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	redeemed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.First(&o, orderID).Error; err != nil {
			return err
		}
		if o.PromoCode == nil || *o.PromoCode == "" || o.PromoRedeemed {
			return nil
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND promo_redeemed = ?", orderID, false).
			UpdateColumn("promo_redeemed", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		res = tx.Model(&models.Promo{}).
			Where("code = ?", promos.Canonical(*o.PromoCode)).
			UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		redeemed = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, translate("redeem promo", err)
	}
	return redeemed, nil
}
