package promos

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/trynex-storefront/internal/models"
)

// Rule failures, in the order Validate checks them.
var (
	ErrNotFound          = errors.New("promo not found")
	ErrInactive          = errors.New("promo inactive")
	ErrExpired           = errors.New("promo expired")
	ErrUsageLimitReached = errors.New("usage limit reached")
	ErrMinimumNotMet     = errors.New("minimum order amount not met")
)

// Canonical returns the stored form of a promo code.
func Canonical(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate returns the first failing rule for p at time now, or nil when the
// promo is applicable. A nil promo is reported as not found.
func Validate(p *models.Promo, now time.Time) error {
	if p == nil {
		return ErrNotFound
	}
	if !p.Active {
		return ErrInactive
	}
	if p.ExpiresAt != nil && now.After(*p.ExpiresAt) {
		return ErrExpired
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return ErrUsageLimitReached
	}
	return nil
}

// CheckMinimum enforces the promo's minimum order amount against subtotal.
// It is a checkout rule only; the public promo lookup does not apply it.
func CheckMinimum(p *models.Promo, subtotal decimal.Decimal) error {
	if p.MinAmount.Valid && subtotal.LessThan(p.MinAmount.Decimal) {
		return ErrMinimumNotMet
	}
	return nil
}

// Message maps rule failures to the text shown to shoppers.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "Promo code not found"
	case errors.Is(err, ErrInactive):
		return "Promo code is not active"
	case errors.Is(err, ErrExpired):
		return "Promo code has expired"
	case errors.Is(err, ErrUsageLimitReached):
		return "Promo code usage limit reached"
	case errors.Is(err, ErrMinimumNotMet):
		return "Order does not meet the promo minimum amount"
	}
	return "Promo code is not valid"
}
