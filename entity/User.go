package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `gorm:"size:20;default:customer" json:"role"` // customer | owner | courier | admin

	Restaurants []Restaurant `json:"-"`
	Orders      []Order      `json:"-"`
}
