// services/pricing.go
package services

import (
	"errors"
	"time"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/shopspring/decimal"
)

// Recognized discount kinds for a menu promotion.
const (
	DiscountPercentage  = "percentage"
	DiscountFixedAmount = "fixed_amount"
)

// Promotion authoring errors. These are raised when a promotion is created
// or updated; price reads never fail, a bad promotion just yields the base
// price.
var (
	ErrInvalidDiscountType  = errors.New("discount type must be percentage or fixed_amount")
	ErrInvalidDiscountValue = errors.New("discount value must be greater than zero")
	ErrInvalidPercentage    = errors.New("percentage discount must be less than 100")
	ErrInvalidFixedAmount   = errors.New("fixed discount must be less than the base price")
)

var hundred = decimal.NewFromInt(100)

// Promotion is the discount descriptor attached to a menu item. Nil window
// bounds mean unbounded in that direction.
type Promotion struct {
	DiscountType  string
	DiscountValue decimal.Decimal
	ValidFrom     *time.Time
	ValidUntil    *time.Time
}

// PromotionOf extracts the promotion descriptor from a menu item, or nil
// when the item carries none.
func PromotionOf(m *entity.Menu) *Promotion {
	if m == nil || m.DiscountType == "" || !m.DiscountValue.Valid {
		return nil
	}
	return &Promotion{
		DiscountType:  m.DiscountType,
		DiscountValue: m.DiscountValue.Decimal,
		ValidFrom:     m.PromoStartAt,
		ValidUntil:    m.PromoEndAt,
	}
}

// ActiveAt reports whether the promotion applies at the given instant.
// Malformed descriptors (unknown type, non-positive value) count as
// inactive rather than erroring.
func (p *Promotion) ActiveAt(asOf time.Time) bool {
	if p == nil {
		return false
	}
	if p.DiscountType != DiscountPercentage && p.DiscountType != DiscountFixedAmount {
		return false
	}
	if p.DiscountValue.Sign() <= 0 {
		return false
	}
	if p.ValidFrom != nil && p.ValidFrom.After(asOf) {
		return false
	}
	if p.ValidUntil != nil && p.ValidUntil.Before(asOf) {
		return false
	}
	return true
}

// EffectivePrice computes the customer-facing price of an item at asOf.
// Rounding happens once, after the arithmetic, half-up to two decimals.
// An inactive, expired or malformed promotion yields the base price; a
// promotion that would drive the price to zero or below is likewise
// ignored, so this never returns less than a satang on a positive base.
func EffectivePrice(basePrice decimal.Decimal, p *Promotion, asOf time.Time) decimal.Decimal {
	if !p.ActiveAt(asOf) {
		return basePrice
	}
	var eff decimal.Decimal
	switch p.DiscountType {
	case DiscountPercentage:
		eff = basePrice.Mul(hundred.Sub(p.DiscountValue)).Div(hundred).Round(2)
	case DiscountFixedAmount:
		eff = basePrice.Sub(p.DiscountValue).Round(2)
	}
	if eff.Sign() <= 0 {
		return basePrice
	}
	return eff
}

// PriceQuote is what menu listings show: the effective price plus how much
// the promotion saves.
type PriceQuote struct {
	BasePrice      decimal.Decimal `json:"basePrice"`
	EffectivePrice decimal.Decimal `json:"effectivePrice"`
	Savings        decimal.Decimal `json:"savings"`
	SavingsPercent int64           `json:"savingsPercent"`
	PromoActive    bool            `json:"promoActive"`
}

// QuotePrice evaluates a promotion against a base price at asOf.
func QuotePrice(basePrice decimal.Decimal, p *Promotion, asOf time.Time) PriceQuote {
	eff := EffectivePrice(basePrice, p, asOf)
	savings := basePrice.Sub(eff)
	var pct int64
	if basePrice.Sign() > 0 {
		pct = savings.Div(basePrice).Mul(hundred).Round(0).IntPart()
	}
	return PriceQuote{
		BasePrice:      basePrice,
		EffectivePrice: eff,
		Savings:        savings,
		SavingsPercent: pct,
		PromoActive:    savings.Sign() > 0,
	}
}

// ValidatePromotion guards promotion creation and update. The returned
// errors are surfaced verbatim to the authoring endpoint.
func ValidatePromotion(basePrice decimal.Decimal, discountType string, discountValue decimal.Decimal) error {
	if discountType != DiscountPercentage && discountType != DiscountFixedAmount {
		return ErrInvalidDiscountType
	}
	if discountValue.Sign() <= 0 {
		return ErrInvalidDiscountValue
	}
	if discountType == DiscountPercentage && discountValue.GreaterThanOrEqual(hundred) {
		return ErrInvalidPercentage
	}
	if discountType == DiscountFixedAmount && discountValue.GreaterThanOrEqual(basePrice) {
		return ErrInvalidFixedAmount
	}
	return nil
}
