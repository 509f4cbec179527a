package validation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/trynex-storefront/internal/models"
)

// LineItem is one cart line as the client saw it at checkout.
type LineItem struct {
	ProductID uint              `json:"id" validate:"required"`
	Name      string            `json:"name" validate:"required,max=255"`
	Price     decimal.Decimal   `json:"price"`
	Quantity  int               `json:"quantity" validate:"required,min=1"`
	Variants  map[string]string `json:"variants,omitempty"`
}

// CreateOrderRequest is the payload for POST /api/orders. Money fields are
// decimals; the totals must add up (see createOrderStructValidation).
type CreateOrderRequest struct {
	CustomerName        string          `json:"customerName" validate:"required,max=200"`
	CustomerEmail       *string         `json:"customerEmail,omitempty" validate:"omitempty,email"`
	CustomerPhone       *string         `json:"customerPhone,omitempty" validate:"omitempty,max=30"`
	CustomerAddress     *string         `json:"customerAddress,omitempty"`
	Items               []LineItem      `json:"items" validate:"required,min=1,dive"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DeliveryFee         decimal.Decimal `json:"deliveryFee"`
	Discount            decimal.Decimal `json:"discount"`
	Total               decimal.Decimal `json:"total"`
	PaymentMethod       string          `json:"paymentMethod" validate:"required,max=50"`
	DeliveryLocation    string          `json:"deliveryLocation" validate:"required,max=100"`
	SpecialInstructions *string         `json:"specialInstructions,omitempty"`
	PromoCode           *string         `json:"promoCode,omitempty" validate:"omitempty,max=50"`
	OrderMethod         string          `json:"orderMethod" validate:"omitempty,oneof=whatsapp email direct"`
}

// UpdateStatusRequest accepts any non-empty status; the set is open.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=50"`
}

type CreateReviewRequest struct {
	ProductID     uint    `json:"productId" validate:"required"`
	CustomerName  string  `json:"customerName" validate:"required,max=200"`
	CustomerEmail *string `json:"customerEmail,omitempty" validate:"omitempty,email"`
	Rating        int     `json:"rating" validate:"required,min=1,max=5"`
	Comment       *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type CreatePromoRequest struct {
	Code         string              `json:"code" validate:"required,max=50"`
	Discount     decimal.Decimal     `json:"discount"`
	DiscountType string              `json:"discountType" validate:"required,oneof=percentage fixed"`
	MinAmount    decimal.NullDecimal `json:"minAmount"`
	MaxDiscount  decimal.NullDecimal `json:"maxDiscount"`
	UsageLimit   *int                `json:"usageLimit,omitempty" validate:"omitempty,min=1"`
	Active       *bool               `json:"active,omitempty"`
	ExpiresAt    *time.Time          `json:"expiresAt,omitempty"`
}

// UpdatePromoRequest changes the operational knobs of an existing promo.
type UpdatePromoRequest struct {
	Active     *bool      `json:"active,omitempty"`
	UsageLimit *int       `json:"usageLimit,omitempty" validate:"omitempty,min=1"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

func (r UpdatePromoRequest) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if r.Active != nil {
		changes["active"] = *r.Active
	}
	if r.UsageLimit != nil {
		changes["usage_limit"] = *r.UsageLimit
	}
	if r.ExpiresAt != nil {
		changes["expires_at"] = *r.ExpiresAt
	}
	return changes
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	NameBn      string  `json:"nameBn" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"required,max=100,slug"`
	Description *string `json:"description,omitempty"`
	Emoji       *string `json:"emoji,omitempty" validate:"omitempty,max=16"`
}

type CreateProductRequest struct {
	Name          string              `json:"name" validate:"required,max=255"`
	NameBn        *string             `json:"nameBn,omitempty"`
	Description   *string             `json:"description,omitempty"`
	DescriptionBn *string             `json:"descriptionBn,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"originalPrice"`
	CategoryID    *uint               `json:"categoryId,omitempty"`
	Images        []string            `json:"images,omitempty" validate:"omitempty,dive,url"`
	InStock       *bool               `json:"inStock,omitempty"`
	StockQuantity int                 `json:"stockQuantity" validate:"min=0"`
	Variants      models.Variants     `json:"variants,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	Featured      bool                `json:"featured"`
}

// UpdateProductRequest is a partial update; nil fields are left alone.
type UpdateProductRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=255"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	CategoryID    *uint            `json:"categoryId,omitempty"`
	InStock       *bool            `json:"inStock,omitempty"`
	StockQuantity *int             `json:"stockQuantity,omitempty" validate:"omitempty,min=0"`
	Featured      *bool            `json:"featured,omitempty"`
}

// Changes maps the set fields to their column names.
func (r UpdateProductRequest) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if r.Name != nil {
		changes["name"] = *r.Name
	}
	if r.Description != nil {
		changes["description"] = *r.Description
	}
	if r.Price != nil {
		changes["price"] = *r.Price
	}
	if r.CategoryID != nil {
		changes["category_id"] = *r.CategoryID
	}
	if r.InStock != nil {
		changes["in_stock"] = *r.InStock
	}
	if r.StockQuantity != nil {
		changes["stock_quantity"] = *r.StockQuantity
	}
	if r.Featured != nil {
		changes["featured"] = *r.Featured
	}
	return changes
}

type CreateBlogPostRequest struct {
	Title     string  `json:"title" validate:"required,max=255"`
	TitleBn   *string `json:"titleBn,omitempty"`
	Content   string  `json:"content" validate:"required"`
	ContentBn *string `json:"contentBn,omitempty"`
	Slug      string  `json:"slug" validate:"required,max=255,slug"`
	Excerpt   *string `json:"excerpt,omitempty"`
	ExcerptBn *string `json:"excerptBn,omitempty"`
	Image     *string `json:"image,omitempty" validate:"omitempty,url"`
	Published bool    `json:"published"`
}

// OrderSummary is the client-side order shape used by the notification
// endpoints.
type OrderSummary struct {
	OrderID             string          `json:"orderId" validate:"required"`
	CustomerName        string          `json:"customerName" validate:"required"`
	CustomerPhone       string          `json:"customerPhone"`
	Total               decimal.Decimal `json:"total"`
	Items               []LineItem      `json:"items" validate:"required,min=1,dive"`
	DeliveryLocation    string          `json:"deliveryLocation"`
	PaymentMethod       string          `json:"paymentMethod"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
}

type WhatsAppOrderRequest struct {
	OrderData OrderSummary `json:"orderData"`
}

type SendOrderEmailRequest struct {
	To        string       `json:"to" validate:"required,email"`
	Subject   string       `json:"subject" validate:"required,max=255"`
	OrderData OrderSummary `json:"orderData"`
}
