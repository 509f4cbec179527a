package validation

import (
	"fmt"
	"regexp"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/trynex-storefront/internal/models"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// New returns a configured validator with the custom tags and struct-level
// rules registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	_ = v.RegisterValidation("slug", func(fl validatorv10.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(createOrderStructValidation, CreateOrderRequest{})
	v.RegisterStructValidation(lineItemStructValidation, LineItem{})
	v.RegisterStructValidation(createPromoStructValidation, CreatePromoRequest{})
	v.RegisterStructValidation(createProductStructValidation, CreateProductRequest{})
	v.RegisterStructValidation(updateProductStructValidation, UpdateProductRequest{})

	return v
}

// createOrderStructValidation checks that the money adds up: the subtotal is
// the sum of price*quantity over the items and the total is
// subtotal + deliveryFee - discount. Decimal arithmetic is exact, so the
// comparison needs no tolerance.
func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateOrderRequest)

	for name, amount := range map[string]decimal.Decimal{
		"subtotal":    req.Subtotal,
		"deliveryFee": req.DeliveryFee,
		"discount":    req.Discount,
		"total":       req.Total,
	} {
		if amount.IsNegative() {
			sl.ReportError(amount, name, name, "non_negative", "")
		}
	}

	sum := decimal.Zero
	for _, it := range req.Items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if !sum.Equal(req.Subtotal) {
		sl.ReportError(req.Subtotal, "subtotal", "Subtotal", "subtotal_match_items",
			fmt.Sprintf("items sum %s != subtotal %s", sum.StringFixed(2), req.Subtotal.StringFixed(2)))
	}

	want := req.Subtotal.Add(req.DeliveryFee).Sub(req.Discount)
	if !want.Equal(req.Total) {
		sl.ReportError(req.Total, "total", "Total", "total_match_breakdown",
			fmt.Sprintf("subtotal + deliveryFee - discount %s != total %s", want.StringFixed(2), req.Total.StringFixed(2)))
	}
}

func lineItemStructValidation(sl validatorv10.StructLevel) {
	it := sl.Current().Interface().(LineItem)
	if it.Price.IsNegative() {
		sl.ReportError(it.Price, "price", "Price", "non_negative", "")
	}
}

func createPromoStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreatePromoRequest)
	if !req.Discount.IsPositive() {
		sl.ReportError(req.Discount, "discount", "Discount", "positive", "")
	}
	if req.DiscountType == models.DiscountPercentage && req.Discount.GreaterThan(decimal.NewFromInt(100)) {
		sl.ReportError(req.Discount, "discount", "Discount", "max_percentage", "")
	}
	if req.MinAmount.Valid && req.MinAmount.Decimal.IsNegative() {
		sl.ReportError(req.MinAmount, "minAmount", "MinAmount", "non_negative", "")
	}
	if req.MaxDiscount.Valid && !req.MaxDiscount.Decimal.IsPositive() {
		sl.ReportError(req.MaxDiscount, "maxDiscount", "MaxDiscount", "positive", "")
	}
}

func createProductStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateProductRequest)
	if !req.Price.IsPositive() {
		sl.ReportError(req.Price, "price", "Price", "positive", "")
	}
	if req.OriginalPrice.Valid && req.OriginalPrice.Decimal.IsNegative() {
		sl.ReportError(req.OriginalPrice, "originalPrice", "OriginalPrice", "non_negative", "")
	}
}

func updateProductStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(UpdateProductRequest)
	if req.Price != nil && !req.Price.IsPositive() {
		sl.ReportError(*req.Price, "price", "Price", "positive", "")
	}
	if len(req.Changes()) == 0 {
		sl.ReportError(req, "UpdateProductRequest", "", "no_changes", "")
	}
}
