// Package fallback holds the fixed catalog snapshot served while the database
// is unreachable.
package fallback

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/imrishuroy/trynex-storefront/internal/catalog"
	"github.com/imrishuroy/trynex-storefront/internal/models"
)

// snapshotTime anchors the creation timestamps of the snapshot. Products are
// spaced an hour apart so recency ordering is deterministic.
var snapshotTime = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Dataset serves the snapshot through catalog.Reader. Every call builds fresh
// values, so callers may mutate what they get back.
type Dataset struct {
	nowFunc func() time.Time
}

// New returns a Dataset whose promo expirations are relative to time.Now.
func New() *Dataset {
	return &Dataset{nowFunc: time.Now}
}

// NewWithClock is New with an injected clock.
func NewWithClock(now func() time.Time) *Dataset {
	return &Dataset{nowFunc: now}
}

var _ catalog.Reader = (*Dataset)(nil)

func (d *Dataset) Categories(ctx context.Context) ([]models.Category, error) {
	out := Categories()
	slices.SortStableFunc(out, func(a, b models.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (d *Dataset) Category(ctx context.Context, id uint) (*models.Category, error) {
	for _, c := range Categories() {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (d *Dataset) Products(ctx context.Context, f catalog.ProductFilter) ([]models.Product, error) {
	return catalog.Apply(Products(), f), nil
}

func (d *Dataset) Product(ctx context.Context, id uint) (*models.Product, error) {
	for _, p := range Products() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (d *Dataset) Promos(ctx context.Context) ([]models.Promo, error) {
	var out []models.Promo
	for _, p := range Promos(d.nowFunc()) {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (d *Dataset) PromoByCode(ctx context.Context, code string) (*models.Promo, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, p := range Promos(d.nowFunc()) {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, models.ErrNotFound
}

// ApprovedReviews is always empty: the snapshot carries no reviews.
func (d *Dataset) ApprovedReviews(ctx context.Context, productID uint) ([]models.Review, error) {
	return []models.Review{}, nil
}

func Categories() []models.Category {
	rows := []struct {
		name, nameBn, slug string
	}{
		{"Mugs & Drinkware", "মগ ও পানীয় পাত্র", "mugs-drinkware"},
		{"Clothing", "পোশাক", "clothing"},
		{"Keychains", "কীচেইন", "keychains"},
		{"Bottles & Flasks", "বোতল ও ফ্লাস্ক", "bottles-flasks"},
		{"Accessories", "অ্যাক্সেসরিজ", "accessories"},
		{"Jewelry & Beauty", "গহনা ও সৌন্দর্য", "jewelry-beauty"},
		{"Home Decor", "বাড়ির সাজসজ্জা", "home-decor"},
		{"Baby Items", "শিশু সামগ্রী", "baby-items"},
		{"Couple Items", "কাপল আইটেম", "couple-items"},
		{"Gift Hampers", "গিফট হ্যাম্পার", "gift-hampers"},
		{"Flowers & Chocolates", "ফুল ও চকলেট", "flowers-chocolates"},
	}
	out := make([]models.Category, 0, len(rows))
	for i, r := range rows {
		out = append(out, models.Category{
			ID:        uint(i + 1),
			Name:      r.name,
			NameBn:    r.nameBn,
			Slug:      r.slug,
			CreatedAt: snapshotTime,
		})
	}
	return out
}

func Products() []models.Product {
	return []models.Product{
		product(1, "Premium Bluetooth Headphones", "প্রিমিয়াম ব্লুটুথ হেডফোন",
			"High-quality wireless headphones with noise cancellation",
			"2500", "3000", 1, "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500",
			true, 50, "4.5", 125, []string{"wireless", "bluetooth", "noise-cancellation"}, models.Variants{}),
		product(2, "Stylish Cotton T-Shirt", "স্টাইলিশ কটন টি-শার্ট",
			"Comfortable and fashionable cotton t-shirt",
			"1200", "1500", 2, "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=500",
			true, 100, "4.3", 89, []string{"cotton", "casual", "comfortable"},
			models.Variants{"sizes": {"S", "M", "L", "XL"}, "colors": {"white", "black", "blue"}}),
		product(3, "Smart LED Table Lamp", "স্মার্ট LED টেবিল ল্যাম্প",
			"Energy-efficient LED lamp with smart controls",
			"1800", "2200", 3, "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=500",
			false, 30, "4.7", 45, []string{"LED", "smart", "energy-efficient"}, models.Variants{}),
		product(4, "Yoga Mat Premium", "প্রিমিয়াম যোগ ম্যাট",
			"Non-slip yoga mat for all fitness levels",
			"1500", "1800", 4, "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b?w=500",
			true, 75, "4.6", 67, []string{"yoga", "fitness", "non-slip"},
			models.Variants{"colors": {"purple", "blue", "green"}}),
		product(5, "Programming Fundamentals Book", "প্রোগ্রামিং ফান্ডামেন্টাল বই",
			"Comprehensive guide to programming basics",
			"800", "1000", 5, "https://images.unsplash.com/photo-1544716278-ca5e3f4abd8c?w=500",
			false, 20, "4.8", 34, []string{"programming", "education", "beginner"}, models.Variants{}),
	}
}

func product(id uint, name, nameBn, desc, price, original string, categoryID uint, image string,
	featured bool, stock int, rating string, reviews int, tags []string, variants models.Variants) models.Product {
	created := snapshotTime.Add(time.Duration(id) * time.Hour)
	return models.Product{
		ID:            id,
		Name:          name,
		NameBn:        &nameBn,
		Description:   &desc,
		Price:         decimal.RequireFromString(price),
		OriginalPrice: decimal.NewNullDecimal(decimal.RequireFromString(original)),
		CategoryID:    &categoryID,
		Images:        datatypes.NewJSONSlice([]string{image}),
		InStock:       true,
		StockQuantity: stock,
		Rating:        decimal.RequireFromString(rating),
		ReviewCount:   reviews,
		Variants:      datatypes.NewJSONType(variants),
		Tags:          datatypes.NewJSONSlice(tags),
		Featured:      featured,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

// Promos returns the snapshot promos with expirations relative to now.
func Promos(now time.Time) []models.Promo {
	welcomeLimit, saveLimit := 100, 50
	welcomeExpiry := now.Add(30 * 24 * time.Hour)
	saveExpiry := now.Add(15 * 24 * time.Hour)
	return []models.Promo{
		{
			ID:           1,
			Code:         "WELCOME20",
			Discount:     decimal.NewFromInt(20),
			DiscountType: models.DiscountPercentage,
			Active:       true,
			ExpiresAt:    &welcomeExpiry,
			UsageLimit:   &welcomeLimit,
			UsageCount:   5,
			CreatedAt:    snapshotTime,
		},
		{
			ID:           2,
			Code:         "SAVE100",
			Discount:     decimal.NewFromInt(100),
			DiscountType: models.DiscountFixed,
			Active:       true,
			ExpiresAt:    &saveExpiry,
			UsageLimit:   &saveLimit,
			UsageCount:   12,
			CreatedAt:    snapshotTime,
		},
	}
}
