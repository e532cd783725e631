package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is an immutable snapshot taken at order placement: the menu
// name and the unit price as charged (promotion already applied) never
// change afterwards. A wrong aggregate is corrected by recomputing from
// line items, never by editing a line item.
type OrderItem struct {
	gorm.Model
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"unitPrice"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	Note      string          `json:"note"`

	OrderID uint  `json:"orderId"`
	Order   Order `json:"-"`

	MenuID uint `json:"menuId"`
	Menu   Menu `json:"-"` // preload only when the menu detail is wanted
}
