package repository

import (
	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RestaurantRepository struct {
	DB *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

func (r *RestaurantRepository) Create(rest *entity.Restaurant) error {
	return r.DB.Create(rest).Error
}

func (r *RestaurantRepository) FindByID(id uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := r.DB.First(&rest, id).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepository) List(limit int) ([]entity.Restaurant, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []entity.Restaurant
	err := r.DB.Where("open = ?", true).Order("id ASC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *RestaurantRepository) FindByOwner(userID uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := r.DB.Where("user_id = ?", userID).First(&rest).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepository) IsOwnedBy(restID, userID uint) (bool, error) {
	var cnt int64
	err := r.DB.Model(&entity.Restaurant{}).
		Where("id = ? AND user_id = ?", restID, userID).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// GetCommissionRate loads only the restaurant's fallback commission rate.
// Null means the platform default applies.
func (r *RestaurantRepository) GetCommissionRate(restID uint) (decimal.NullDecimal, error) {
	var row struct {
		CommissionRate decimal.NullDecimal
	}
	err := r.DB.Model(&entity.Restaurant{}).
		Select("commission_rate").Where("id = ?", restID).
		First(&row).Error
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return row.CommissionRate, nil
}

func (r *RestaurantRepository) SetCommissionRate(restID uint, rate decimal.NullDecimal) error {
	return r.DB.Model(&entity.Restaurant{}).
		Where("id = ?", restID).
		Update("commission_rate", rate).Error
}
