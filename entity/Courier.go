package entity

import (
	"gorm.io/gorm"
)

type Courier struct {
	gorm.Model
	VehiclePlate string `json:"vehiclePlate"`
	Available    bool   `gorm:"default:true" json:"available"`

	UserID uint `json:"userId"`
	User   User `json:"-"`

	Orders []Order `json:"-"`
}
