package repository

import (
	"time"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

func (r *MenuRepository) Create(m *entity.Menu) error {
	return r.DB.Create(m).Error
}

func (r *MenuRepository) FindByID(id uint) (*entity.Menu, error) {
	var m entity.Menu
	if err := r.DB.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepository) FindByRestaurant(restID uint, availableOnly bool) ([]entity.Menu, error) {
	q := r.DB.Where("restaurant_id = ?", restID)
	if availableOnly {
		q = q.Where("available = ?", true)
	}
	var out []entity.Menu
	err := q.Order("id ASC").Find(&out).Error
	return out, err
}

func (r *MenuRepository) Update(m *entity.Menu) error {
	return r.DB.Save(m).Error
}

func (r *MenuRepository) SetAvailability(id uint, available bool) error {
	return r.DB.Model(&entity.Menu{}).
		Where("id = ?", id).
		Update("available", available).Error
}

// SetPromotion writes the promotion descriptor. Validation happens in the
// service before this is called.
func (r *MenuRepository) SetPromotion(id uint, discountType string, value decimal.Decimal, startAt, endAt *time.Time) error {
	return r.DB.Model(&entity.Menu{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"discount_type":  discountType,
			"discount_value": decimal.NewNullDecimal(value),
			"promo_start_at": startAt,
			"promo_end_at":   endAt,
		}).Error
}

func (r *MenuRepository) ClearPromotion(id uint) error {
	return r.DB.Model(&entity.Menu{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"discount_type":  "",
			"discount_value": decimal.NullDecimal{},
			"promo_start_at": nil,
			"promo_end_at":   nil,
		}).Error
}

// MenusBelongToRestaurant checks that every id in menuIDs is a menu of
// the given restaurant.
func (r *MenuRepository) MenusBelongToRestaurant(menuIDs []uint, restID uint) (bool, error) {
	if len(menuIDs) == 0 {
		return true, nil
	}
	var cnt int64
	err := r.DB.Model(&entity.Menu{}).
		Where("id IN ? AND restaurant_id = ?", menuIDs, restID).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt == int64(len(menuIDs)), nil
}
