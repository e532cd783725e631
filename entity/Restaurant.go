package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Restaurant struct {
	gorm.Model
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
	Open        bool   `gorm:"default:true" json:"open"`

	// Platform commission percentage charged on this restaurant's orders.
	// Null means the platform default applies. An order-level override,
	// when present, wins over this value.
	CommissionRate decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"commissionRate"`

	UserID uint `json:"userId"` // owner (users.id)
	User   User `json:"-"`

	Menus  []Menu  `json:"-"`
	Orders []Order `json:"-"`
}
