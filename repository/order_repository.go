package repository

import (
	"errors"
	"time"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrVersionConflict is returned by UpdateStatusGuard when the order moved
// away from the expected status between read and write. Callers retry the
// whole read-transition-persist sequence once, then give up.
var ErrVersionConflict = errors.New("order status changed concurrently")

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

// GetOrderWithItems loads an order together with its line items, which is
// what reconciliation needs.
func (r *OrderRepository) GetOrderWithItems(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.Preload("Items").First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderForUser(userID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetOrderForRestaurant(restID, orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Preload("Items").
		Where("id = ? AND restaurant_id = ?", orderID, restID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type OrderSummary struct {
	ID           uint               `json:"id"`
	RestaurantID uint               `json:"restaurantId"`
	Total        decimal.Decimal    `json:"total"`
	Status       entity.OrderStatus `json:"status"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func (r *OrderRepository) ListOrdersForUser(userID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []OrderSummary
	err := r.DB.Model(&entity.Order{}).
		Select("id, restaurant_id, total, status, created_at").
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

// ListOrdersForRestaurant pages through a restaurant's orders, newest
// first, with line items preloaded so callers can reconcile each one.
func (r *OrderRepository) ListOrdersForRestaurant(restID uint, status *entity.OrderStatus, page, limit int) ([]entity.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	offset := (page - 1) * limit

	q := r.DB.Model(&entity.Order{}).Where("restaurant_id = ?", restID)
	if status != nil && *status != "" {
		q = q.Where("status = ?", *status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []entity.Order
	err := q.Preload("Items").
		Order("id DESC").Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

// ListOrdersForRestaurantBetween returns a restaurant's orders placed in
// [from, to), items preloaded, for statistics and earnings views. An empty
// statuses slice means all statuses.
func (r *OrderRepository) ListOrdersForRestaurantBetween(restID uint, from, to time.Time, statuses []entity.OrderStatus) ([]entity.Order, error) {
	q := r.DB.Preload("Items").
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restID, from, to)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var orders []entity.Order
	err := q.Order("id ASC").Find(&orders).Error
	return orders, err
}

// ListReadyForPickup returns orders a courier can claim.
func (r *OrderRepository) ListReadyForPickup(limit int) ([]entity.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var orders []entity.Order
	err := r.DB.Where("status = ?", entity.StatusReady).
		Order("id ASC").Limit(limit).
		Find(&orders).Error
	return orders, err
}

// ListRecentWithItems feeds the admin drift audit.
func (r *OrderRepository) ListRecentWithItems(limit int) ([]entity.Order, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var orders []entity.Order
	err := r.DB.Preload("Items").
		Order("id DESC").Limit(limit).
		Find(&orders).Error
	return orders, err
}

// ---------------- Status ----------------

// UpdateStatusGuard persists a status change atomically against the
// status the caller read: the UPDATE only matches while the order is
// still in `from`, which is the optimistic version check. extra carries
// milestone stamps and any additional columns (e.g. courier_id on
// assignment). Returns ErrVersionConflict when another request won the
// race.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from, to entity.OrderStatus, extra map[string]any) error {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// SaveReconciledAggregates refreshes the persisted subtotal/commission
// caches. Best effort: correctness never depends on these fields.
func (r *OrderRepository) SaveReconciledAggregates(orderID uint, subtotal, commission decimal.Decimal) error {
	return r.DB.Model(&entity.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{"subtotal": subtotal, "commission": commission}).Error
}

// ---------------- Order Items ----------------

// CreateOrderItem is the only write path for line items; snapshots are
// immutable once persisted.
func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

func (r *OrderRepository) GetOrderItems(orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.DB.Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

// ---------------- Helpers ----------------

func (r *OrderRepository) RestaurantExists(id uint) (bool, error) {
	var cnt int64
	if err := r.DB.Model(&entity.Restaurant{}).Where("id = ?", id).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}
