package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrNotFound means the identifier was valid but no record matched.
	ErrNotFound = errors.New("record not found")
	// ErrConflict means a unique constraint rejected the write.
	ErrConflict = errors.New("unique constraint conflict")
)

// Order statuses. The set is open: any string is accepted on update.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Order channels
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
	ChannelDirect   = "direct"
)

// Promo kinds
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	NameBn      string    `gorm:"column:name_bn;not null" json:"nameBn"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description *string   `json:"description"`
	Emoji       *string   `json:"emoji"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Variants maps a variant axis (size, color, ...) to its option values.
type Variants map[string][]string

type Product struct {
	ID            uint                         `gorm:"primaryKey" json:"id"`
	Name          string                       `gorm:"not null" json:"name"`
	NameBn        *string                      `gorm:"column:name_bn" json:"nameBn"`
	Description   *string                      `json:"description"`
	DescriptionBn *string                      `gorm:"column:description_bn" json:"descriptionBn"`
	Price         decimal.Decimal              `gorm:"type:numeric(10,2);not null" json:"price"`
	OriginalPrice decimal.NullDecimal          `gorm:"type:numeric(10,2)" json:"originalPrice"`
	CategoryID    *uint                        `gorm:"index" json:"categoryId"`
	Images        datatypes.JSONSlice[string]  `json:"images"`
	InStock       bool                         `gorm:"not null" json:"inStock"`
	StockQuantity int                          `gorm:"not null" json:"stockQuantity"`
	Rating        decimal.Decimal              `gorm:"type:numeric(2,1);not null" json:"rating"`
	ReviewCount   int                          `gorm:"not null" json:"reviewCount"`
	Variants      datatypes.JSONType[Variants] `json:"variants"`
	Tags          datatypes.JSONSlice[string]  `json:"tags"`
	Featured      bool                         `gorm:"not null" json:"featured"`
	CreatedAt     time.Time                    `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time                    `json:"updatedAt"`

	// Case-folded copies of Name and Description. Search matches against
	// these so SQL and in-memory filtering fold identically on every database.
	SearchName        string `gorm:"not null;default:''" json:"-"`
	SearchDescription string `gorm:"not null;default:''" json:"-"`
}

// FoldSearch is the case folding used by product search.
func FoldSearch(s string) string {
	return strings.ToLower(s)
}

// RefreshSearch recomputes the folded search columns.
func (p *Product) RefreshSearch() {
	p.SearchName = FoldSearch(p.Name)
	p.SearchDescription = ""
	if p.Description != nil {
		p.SearchDescription = FoldSearch(*p.Description)
	}
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	p.RefreshSearch()
	return nil
}

// LineItem is a snapshot of the product at order time. Later product edits
// never reach it.
type LineItem struct {
	ProductID uint              `json:"id"`
	Name      string            `json:"name"`
	Price     decimal.Decimal   `json:"price"`
	Quantity  int               `json:"quantity"`
	Variants  map[string]string `json:"variants,omitempty"`
}

type Order struct {
	ID                  uint                          `gorm:"primaryKey" json:"id"`
	OrderCode           string                        `gorm:"column:order_id;uniqueIndex;not null" json:"orderId"`
	CustomerName        string                        `gorm:"not null" json:"customerName"`
	CustomerEmail       *string                       `json:"customerEmail"`
	CustomerPhone       *string                       `json:"customerPhone"`
	CustomerAddress     *string                       `json:"customerAddress"`
	Items               datatypes.JSONSlice[LineItem] `gorm:"not null" json:"items"`
	Subtotal            decimal.Decimal               `gorm:"type:numeric(10,2);not null" json:"subtotal"`
	DeliveryFee         decimal.Decimal               `gorm:"type:numeric(10,2);not null" json:"deliveryFee"`
	Discount            decimal.Decimal               `gorm:"type:numeric(10,2);not null" json:"discount"`
	Total               decimal.Decimal               `gorm:"type:numeric(10,2);not null" json:"total"`
	PaymentMethod       string                        `gorm:"not null" json:"paymentMethod"`
	DeliveryLocation    string                        `gorm:"not null" json:"deliveryLocation"`
	SpecialInstructions *string                       `json:"specialInstructions"`
	PromoCode           *string                       `json:"promoCode"`
	PromoRedeemed       bool                          `gorm:"not null" json:"-"`
	Status              string                        `gorm:"not null;index" json:"status"`
	OrderMethod         string                        `gorm:"not null" json:"orderMethod"`
	CreatedAt           time.Time                     `gorm:"index" json:"createdAt"`
	UpdatedAt           time.Time                     `json:"updatedAt"`
}

type Promo struct {
	ID           uint                `gorm:"primaryKey" json:"id"`
	Code         string              `gorm:"uniqueIndex;not null" json:"code"`
	Discount     decimal.Decimal     `gorm:"type:numeric(10,2);not null" json:"discount"`
	DiscountType string              `gorm:"not null" json:"discountType"`
	MinAmount    decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"minAmount"`
	MaxDiscount  decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"maxDiscount"`
	UsageLimit   *int                `json:"usageLimit"`
	UsageCount   int                 `gorm:"not null" json:"usageCount"`
	Active       bool                `gorm:"not null" json:"active"`
	ExpiresAt    *time.Time          `json:"expiresAt"`
	CreatedAt    time.Time           `json:"createdAt"`
}

// BeforeSave stores codes in canonical upper-case form.
func (p *Promo) BeforeSave(tx *gorm.DB) error {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	return nil
}

type Review struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductID     uint      `gorm:"index;not null" json:"productId"`
	CustomerName  string    `gorm:"not null" json:"customerName"`
	CustomerEmail *string   `json:"customerEmail"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comment       *string   `json:"comment"`
	Approved      bool      `gorm:"not null" json:"approved"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Subscription struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Subscribed bool      `gorm:"not null" json:"subscribed"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Subscription) TableName() string { return "newsletter" }

type BlogPost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	TitleBn   *string   `gorm:"column:title_bn" json:"titleBn"`
	Content   string    `gorm:"not null" json:"content"`
	ContentBn *string   `gorm:"column:content_bn" json:"contentBn"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt   *string   `json:"excerpt"`
	ExcerptBn *string   `gorm:"column:excerpt_bn" json:"excerptBn"`
	Image     *string   `json:"image"`
	Published bool      `gorm:"not null;index" json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// All lists every table for migrations.
func All() []interface{} {
	return []interface{}{
		&Category{}, &Product{}, &Order{}, &Promo{}, &Review{}, &Subscription{}, &BlogPost{},
	}
}
