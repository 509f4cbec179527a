package fallback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/imrishuroy/trynex-storefront/internal/catalog"
	"github.com/imrishuroy/trynex-storefront/internal/models"
)

func TestSnapshotShape(t *testing.T) {
	if got := len(Categories()); got != 11 {
		t.Fatalf("expected 11 categories, got %d", got)
	}
	products := Products()
	if len(products) != 5 {
		t.Fatalf("expected 5 products, got %d", len(products))
	}
	for _, p := range products {
		if !p.InStock {
			t.Fatalf("product %d should be in stock", p.ID)
		}
		if p.CategoryID == nil || *p.CategoryID != p.ID {
			t.Fatalf("product %d has unexpected category", p.ID)
		}
	}
	if products[1].Variants.Data()["sizes"][0] != "S" {
		t.Fatalf("t-shirt sizes missing: %+v", products[1].Variants.Data())
	}
}

func TestCategoriesSortedByName(t *testing.T) {
	cats, err := New().Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	for i := 1; i < len(cats); i++ {
		if cats[i-1].Name > cats[i].Name {
			t.Fatalf("categories out of order at %d: %q > %q", i, cats[i-1].Name, cats[i].Name)
		}
	}
}

func TestPromoExpiryFollowsClock(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	d := NewWithClock(func() time.Time { return now })

	p, err := d.PromoByCode(context.Background(), "welcome20")
	if err != nil {
		t.Fatalf("PromoByCode: %v", err)
	}
	if want := now.Add(30 * 24 * time.Hour); !p.ExpiresAt.Equal(want) {
		t.Fatalf("expected expiry %v, got %v", want, p.ExpiresAt)
	}
	if *p.UsageLimit != 100 || p.UsageCount != 5 {
		t.Fatalf("unexpected usage %d/%d", p.UsageCount, *p.UsageLimit)
	}

	save, err := d.PromoByCode(context.Background(), "SAVE100")
	if err != nil {
		t.Fatalf("PromoByCode: %v", err)
	}
	if save.DiscountType != models.DiscountFixed {
		t.Fatalf("SAVE100 should be fixed, got %s", save.DiscountType)
	}
}

func TestLookupMisses(t *testing.T) {
	d := New()
	ctx := context.Background()
	if _, err := d.Product(ctx, 42); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := d.Category(ctx, 42); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := d.PromoByCode(ctx, "NOPE"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	reviews, err := d.ApprovedReviews(ctx, 1)
	if err != nil || reviews == nil || len(reviews) != 0 {
		t.Fatalf("expected empty reviews, got %v %v", reviews, err)
	}
}

func TestProductsUsesFilter(t *testing.T) {
	got, err := New().Products(context.Background(), catalog.ProductFilter{Search: "yoga"})
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(got) != 1 || got[0].ID != 4 {
		t.Fatalf("expected yoga mat, got %+v", got)
	}
}

func TestCallersMayMutate(t *testing.T) {
	d := New()
	ctx := context.Background()
	p, _ := d.Product(ctx, 1)
	p.Name = "changed"
	again, _ := d.Product(ctx, 1)
	if again.Name == "changed" {
		t.Fatalf("snapshot was mutated through a returned value")
	}
}
