package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imrishuroy/trynex-storefront/internal/catalog"
	"github.com/imrishuroy/trynex-storefront/internal/fallback"
	"github.com/imrishuroy/trynex-storefront/internal/models"
	"github.com/imrishuroy/trynex-storefront/internal/store/storetest"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func flag(b bool) *bool { return &b }

func ids(products []models.Product) []uint {
	out := make([]uint, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func strptr(s string) *string { return &s }

// addNonASCIIProducts stores rows whose names only match a search when
// case folding goes beyond ASCII.
func addNonASCIIProducts(t *testing.T, st interface {
	CreateProduct(context.Context, *models.Product) error
}) {
	t.Helper()
	for _, p := range []*models.Product{
		{Name: "CAFÉ MUG", Description: strptr("Ceramic mug, 350 ml"), Price: decimal.RequireFromString("450"), InStock: true, StockQuantity: 12},
		{Name: "Nakshi Kantha", Description: strptr("HANDMADE ÉDITION"), Price: decimal.RequireFromString("3200"), InStock: true, StockQuantity: 3},
	} {
		require.NoError(t, st.CreateProduct(context.Background(), p))
	}
}

// The SQL filter and the in-memory filter must agree on the same rows.
func TestProductsMatchesInMemoryFilter(t *testing.T) {
	st := storetest.Seeded(t)
	ctx := context.Background()
	addNonASCIIProducts(t, st)
	all, err := st.AllProducts(ctx)
	require.NoError(t, err)
	category := uint(2)

	cases := map[string]catalog.ProductFilter{
		"defaults":           {},
		"price range":        {MinPrice: dec("1000"), MaxPrice: dec("2000")},
		"search lower":       {Search: "cotton"},
		"search upper":       {Search: "COTTON"},
		"search desc":        {Search: "noise"},
		"search wildcard":    {Search: "%"},
		"search accented":    {Search: "café"},
		"search accented up": {Search: "Café MUG"},
		"search accent desc": {Search: "édition"},
		"featured":           {Featured: flag(true)},
		"not featured":       {Featured: flag(false)},
		"category":           {CategoryID: &category},
		"page":               {Limit: 2, Offset: 1},
		"past end":           {Offset: 10},
		"out of stock":       {InStock: flag(false)},
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := st.Products(ctx, f)
			require.NoError(t, err)
			want := catalog.Apply(all, f)
			assert.Equal(t, ids(want), ids(got))
		})
	}

	got, err := st.Products(ctx, catalog.ProductFilter{Search: "café"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CAFÉ MUG", got[0].Name)
}

func TestSearchFollowsProductEdits(t *testing.T) {
	st := storetest.Seeded(t)
	ctx := context.Background()
	addNonASCIIProducts(t, st)

	found, err := st.Products(ctx, catalog.ProductFilter{Search: "café"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = st.UpdateProduct(ctx, found[0].ID, map[string]interface{}{"name": "ÉCLAIR BOX", "description": nil})
	require.NoError(t, err)

	got, err := st.Products(ctx, catalog.ProductFilter{Search: "éclair"})
	require.NoError(t, err)
	assert.Equal(t, []uint{found[0].ID}, ids(got))

	got, err = st.Products(ctx, catalog.ProductFilter{Search: "café"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMigrateBackfillsSearchColumns(t *testing.T) {
	st := storetest.Seeded(t)
	ctx := context.Background()
	require.NoError(t, st.DB().Exec("UPDATE products SET search_name = '', search_description = ''").Error)

	got, err := st.Products(ctx, catalog.ProductFilter{Search: "cotton"})
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, st.Migrate(ctx))
	got, err = st.Products(ctx, catalog.ProductFilter{Search: "cotton"})
	require.NoError(t, err)
	assert.Equal(t, ids(catalog.Apply(fallback.Products(), catalog.ProductFilter{Search: "cotton"})), ids(got))
}

func TestLookupsReturnNotFound(t *testing.T) {
	st := storetest.Seeded(t)
	ctx := context.Background()

	_, err := st.Product(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = st.Category(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = st.PromoByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = st.OrderByCode(ctx, "TXR-20250101-000")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = st.UpdateOrderStatus(ctx, 999, models.StatusShipped, time.Now())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPromoByCodeIsCaseInsensitive(t *testing.T) {
	st := storetest.Seeded(t)

	p, err := st.PromoByCode(context.Background(), " welcome20 ")
	require.NoError(t, err)
	assert.Equal(t, "WELCOME20", p.Code)
	assert.Equal(t, 5, p.UsageCount)
}

func TestSeedIsRepeatable(t *testing.T) {
	st := storetest.Seeded(t)
	ctx := context.Background()

	err := st.Seed(ctx, fallback.Categories(), fallback.Products(), fallback.Promos(time.Now()))
	require.NoError(t, err)

	cats, err := st.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 11)
	assert.Equal(t, "Accessories", cats[0].Name)
}

func newOrder(code string, promo *string) *models.Order {
	return &models.Order{
		OrderCode:        code,
		CustomerName:     "Rahim",
		Items:            []models.LineItem{{ProductID: 1, Name: "Premium Bluetooth Headphones", Price: decimal.NewFromInt(2500), Quantity: 1}},
		Subtotal:         decimal.NewFromInt(2500),
		DeliveryFee:      decimal.NewFromInt(60),
		Discount:         decimal.Zero,
		Total:            decimal.NewFromInt(2560),
		PaymentMethod:    "cod",
		DeliveryLocation: "dhaka",
		PromoCode:        promo,
		Status:           models.StatusPending,
		OrderMethod:      models.ChannelWhatsApp,
	}
}

func TestCreateOrderDuplicateCodeIsConflict(t *testing.T) {
	st := storetest.New(t)
	ctx := context.Background()

	require.NoError(t, st.CreateOrder(ctx, newOrder("TXR-20250101-123", nil)))
	err := st.CreateOrder(ctx, newOrder("TXR-20250101-123", nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrConflict), "got %v", err)
}

func TestOrderRoundTripKeepsTotals(t *testing.T) {
	st := storetest.New(t)
	ctx := context.Background()

	o := newOrder("TXR-20250101-001", nil)
	require.NoError(t, st.CreateOrder(ctx, o))

	got, err := st.OrderByCode(ctx, "TXR-20250101-001")
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(2560)))
	assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(2500)))
	require.Len(t, got.Items, 1)
	assert.Equal(t, uint(1), got.Items[0].ProductID)

	at := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	updated, err := st.UpdateOrderStatus(ctx, o.ID, models.StatusShipped, at)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Status)
	assert.True(t, updated.UpdatedAt.Equal(at))
}

func TestRedeemPromoCountsOnce(t *testing.T) {
	st := storetest.Seeded(t)
	ctx := context.Background()

	code := "save100"
	o := newOrder("TXR-20250101-002", &code)
	require.NoError(t, st.CreateOrder(ctx, o))

	redeemed, err := st.RedeemPromo(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, redeemed)

	redeemed, err = st.RedeemPromo(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, redeemed)

	p, err := st.PromoByCode(ctx, "SAVE100")
	require.NoError(t, err)
	assert.Equal(t, 13, p.UsageCount)
}

func TestRedeemPromoWithoutCode(t *testing.T) {
	st := storetest.Seeded(t)
	ctx := context.Background()

	o := newOrder("TXR-20250101-003", nil)
	require.NoError(t, st.CreateOrder(ctx, o))
	redeemed, err := st.RedeemPromo(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, redeemed)
}

func TestSubscribeTwice(t *testing.T) {
	st := storetest.New(t)
	ctx := context.Background()

	first, err := st.Subscribe(ctx, "Shopper@Example.com")
	require.NoError(t, err)
	second, err := st.Subscribe(ctx, "shopper@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Subscribed)

	subs, err := st.Subscribers(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestBlogPostsPublishedOnly(t *testing.T) {
	st := storetest.New(t)
	ctx := context.Background()

	require.NoError(t, st.CreateBlogPost(ctx, &models.BlogPost{Title: "Gift ideas", Content: "...", Slug: "gift-ideas", Published: true}))
	require.NoError(t, st.CreateBlogPost(ctx, &models.BlogPost{Title: "Draft", Content: "...", Slug: "draft"}))

	published, err := st.BlogPosts(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "gift-ideas", published[0].Slug)

	all, err := st.BlogPosts(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = st.BlogPostBySlug(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateProduct(t *testing.T) {
	st := storetest.Seeded(t)
	ctx := context.Background()

	p, err := st.UpdateProduct(ctx, 3, map[string]interface{}{"in_stock": false})
	require.NoError(t, err)
	assert.False(t, p.InStock)

	listed, err := st.Products(ctx, catalog.ProductFilter{})
	require.NoError(t, err)
	assert.NotContains(t, ids(listed), uint(3))

	_, err = st.UpdateProduct(ctx, 999, map[string]interface{}{"in_stock": false})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
