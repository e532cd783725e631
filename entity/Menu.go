package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Menu struct {
	gorm.Model
	Name      string          `json:"name"`
	Detail    string          `json:"detail"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Available bool            `gorm:"default:true" json:"available"`

	// Promotion descriptor. Empty DiscountType means no promotion.
	// An expired window is not eagerly cleared; reads evaluate the window
	// against the current instant instead of trusting the stored fields.
	DiscountType  string              `gorm:"size:20" json:"discountType"`
	DiscountValue decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"discountValue"`
	PromoStartAt  *time.Time          `json:"promoStartAt,omitempty"`
	PromoEndAt    *time.Time          `json:"promoEndAt,omitempty"`

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"` // preload only when needed

	OrderItems []OrderItem `json:"-"`
}
