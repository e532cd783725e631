package services

import (
	"testing"
	"time"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestEffectivePricePercentage(t *testing.T) {
	now := time.Now()
	promo := &Promotion{DiscountType: DiscountPercentage, DiscountValue: d("20")}

	got := EffectivePrice(d("3000"), promo, now)
	require.True(t, got.Equal(d("2400")), "got %s", got)

	q := QuotePrice(d("3000"), promo, now)
	assert.True(t, q.EffectivePrice.Equal(d("2400")))
	assert.True(t, q.Savings.Equal(d("600")))
	assert.EqualValues(t, 20, q.SavingsPercent)
	assert.True(t, q.PromoActive)
}

func TestEffectivePriceFixedAmount(t *testing.T) {
	now := time.Now()
	promo := &Promotion{DiscountType: DiscountFixedAmount, DiscountValue: d("300")}

	got := EffectivePrice(d("1500"), promo, now)
	require.True(t, got.Equal(d("1200")), "got %s", got)

	q := QuotePrice(d("1500"), promo, now)
	assert.True(t, q.Savings.Equal(d("300")))
	assert.EqualValues(t, 20, q.SavingsPercent)
}

func TestEffectivePriceRoundsOnceHalfUp(t *testing.T) {
	now := time.Now()

	// 9.99 * 0.85 = 8.4915 -> 8.49
	got := EffectivePrice(d("9.99"), &Promotion{DiscountType: DiscountPercentage, DiscountValue: d("15")}, now)
	assert.True(t, got.Equal(d("8.49")), "got %s", got)

	// 10.01 * 0.50 = 5.005 -> 5.01 (half rounds up)
	got = EffectivePrice(d("10.01"), &Promotion{DiscountType: DiscountPercentage, DiscountValue: d("50")}, now)
	assert.True(t, got.Equal(d("5.01")), "got %s", got)
}

func TestEffectivePriceWindow(t *testing.T) {
	now := time.Now()
	base := d("500")

	tests := []struct {
		name  string
		promo *Promotion
		want  decimal.Decimal
	}{
		{"no promotion", nil, base},
		{"expired", &Promotion{
			DiscountType: DiscountPercentage, DiscountValue: d("50"),
			ValidUntil: timePtr(now.Add(-time.Hour)),
		}, base},
		{"not started", &Promotion{
			DiscountType: DiscountPercentage, DiscountValue: d("50"),
			ValidFrom: timePtr(now.Add(time.Hour)),
		}, base},
		{"open window", &Promotion{
			DiscountType: DiscountPercentage, DiscountValue: d("50"),
		}, d("250")},
		{"inside window", &Promotion{
			DiscountType: DiscountPercentage, DiscountValue: d("50"),
			ValidFrom:  timePtr(now.Add(-time.Hour)),
			ValidUntil: timePtr(now.Add(time.Hour)),
		}, d("250")},
		{"unknown type degrades", &Promotion{
			DiscountType: "bogo", DiscountValue: d("50"),
		}, base},
		{"non-positive value degrades", &Promotion{
			DiscountType: DiscountPercentage, DiscountValue: d("0"),
		}, base},
		{"fixed amount swallowing the price degrades", &Promotion{
			DiscountType: DiscountFixedAmount, DiscountValue: d("500"),
		}, base},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectivePrice(base, tt.promo, now)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestActivePercentageAlwaysBelowBase(t *testing.T) {
	now := time.Now()
	for _, base := range []string{"0.01", "1", "9.99", "150", "3000"} {
		for _, pct := range []string{"1", "10", "33", "50", "99"} {
			promo := &Promotion{DiscountType: DiscountPercentage, DiscountValue: d(pct)}
			got := EffectivePrice(d(base), promo, now)
			assert.True(t, got.LessThanOrEqual(d(base)),
				"base=%s pct=%s got %s", base, pct, got)
		}
	}
}

func TestPromotionOf(t *testing.T) {
	m := &entity.Menu{Price: d("100")}
	assert.Nil(t, PromotionOf(m))

	m.DiscountType = DiscountPercentage
	assert.Nil(t, PromotionOf(m), "value missing")

	m.DiscountValue = decimal.NewNullDecimal(d("25"))
	p := PromotionOf(m)
	require.NotNil(t, p)
	assert.Equal(t, DiscountPercentage, p.DiscountType)
	assert.True(t, p.DiscountValue.Equal(d("25")))
}

func TestValidatePromotion(t *testing.T) {
	base := d("100")

	assert.NoError(t, ValidatePromotion(base, DiscountPercentage, d("20")))
	assert.NoError(t, ValidatePromotion(base, DiscountFixedAmount, d("99.99")))

	assert.ErrorIs(t, ValidatePromotion(base, "coupon", d("20")), ErrInvalidDiscountType)
	assert.ErrorIs(t, ValidatePromotion(base, DiscountPercentage, d("0")), ErrInvalidDiscountValue)
	assert.ErrorIs(t, ValidatePromotion(base, DiscountFixedAmount, d("-5")), ErrInvalidDiscountValue)
	assert.ErrorIs(t, ValidatePromotion(base, DiscountPercentage, d("100")), ErrInvalidPercentage)
	assert.ErrorIs(t, ValidatePromotion(base, DiscountPercentage, d("250")), ErrInvalidPercentage)
	assert.ErrorIs(t, ValidatePromotion(base, DiscountFixedAmount, d("100")), ErrInvalidFixedAmount)
	assert.ErrorIs(t, ValidatePromotion(base, DiscountFixedAmount, d("140")), ErrInvalidFixedAmount)
}
