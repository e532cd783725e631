package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	Status OrderStatus `gorm:"size:20;index" json:"status"`

	// Subtotal and Commission are persisted caches. The authoritative
	// figures are always recomputed from the line items (see
	// services.Reconcile); these fields are refreshed best-effort and may
	// legitimately drift.
	Subtotal   decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	Commission decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"commission"`

	// CommissionRate, when set, overrides the restaurant's rate for this
	// order. Set by admins, e.g. to honour the rate in force when the
	// order was placed.
	CommissionRate decimal.NullDecimal `gorm:"type:decimal(5,2)" json:"commissionRate"`

	DeliveryFee decimal.Decimal `gorm:"type:decimal(12,2)" json:"deliveryFee"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	Address     string          `json:"address"`

	UserID uint `json:"userId"`
	User   User `json:"-"` // preload only for customer detail

	RestaurantID uint       `json:"restaurantId"`
	Restaurant   Restaurant `json:"-"`

	CourierID *uint    `json:"courierId,omitempty"`
	Courier   *Courier `json:"-"`

	// Milestone timestamps, stamped once on first entry into each state.
	AcceptedAt   *time.Time `json:"acceptedAt,omitempty"`
	PreparingAt  *time.Time `json:"preparingAt,omitempty"`
	ReadyAt      *time.Time `json:"readyAt,omitempty"`
	AssignedAt   *time.Time `json:"assignedAt,omitempty"`
	PickedUpAt   *time.Time `json:"pickedUpAt,omitempty"`
	DeliveringAt *time.Time `json:"deliveringAt,omitempty"`
	DeliveredAt  *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	RefusedAt    *time.Time `json:"refusedAt,omitempty"`

	Items []OrderItem `json:"-"` // preload for detail / reconciliation
}
