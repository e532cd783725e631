package services

import (
	"errors"
	"time"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/BBKML/BaibebaloProjets-sub005/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrOrderChanged is returned after the retry on a concurrent status
// change also lost the race. The caller shows "order changed, please
// retry" and does not retry further.
var ErrOrderChanged = errors.New("order changed, please retry")

var (
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("order not found")
)

// Flat delivery fee charged per order.
var deliveryFee = decimal.NewFromInt(20)

// OrderStatusEvent is pushed to the restaurant's websocket feed after a
// successful transition.
type OrderStatusEvent struct {
	OrderID      uint               `json:"orderId"`
	RestaurantID uint               `json:"restaurantId"`
	Status       entity.OrderStatus `json:"status"`
	At           time.Time          `json:"at"`
}

// OrderEventPublisher decouples the service from the websocket hub.
type OrderEventPublisher interface {
	PublishStatus(ev OrderStatusEvent)
}

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	MenuRepo *repository.MenuRepository
	RestRepo *repository.RestaurantRepository
	UserRepo *repository.UserRepository

	Drift  DriftObserver       // nil-safe; defaults to logging in New
	Events OrderEventPublisher // optional
}

func NewOrderService(db *gorm.DB, repo *repository.OrderRepository, menuRepo *repository.MenuRepository, restRepo *repository.RestaurantRepository, userRepo *repository.UserRepository) *OrderService {
	return &OrderService{
		DB:       db,
		Repo:     repo,
		MenuRepo: menuRepo,
		RestRepo: restRepo,
		UserRepo: userRepo,
		Drift:    LogDriftObserver{},
	}
}

// ----- DTOs from Controller -----

type OrderItemIn struct {
	MenuID uint   `json:"menuId" binding:"required"`
	Qty    int    `json:"qty" binding:"required,min=1"`
	Note   string `json:"note"`
}

type CreateOrderReq struct {
	RestaurantID uint          `json:"restaurantId" binding:"required"`
	Address      string        `json:"address" binding:"required"`
	Items        []OrderItemIn `json:"items" binding:"required,min=1"`
}

type CreateOrderRes struct {
	ID       uint            `json:"id"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

// ----- Create -----

// Create places an order. Unit prices are snapshotted from the menu at
// this instant with the promotion applied; from here on the line items are
// immutable and every money figure derives from them.
func (s *OrderService) Create(userID uint, req *CreateOrderReq) (*CreateOrderRes, error) {
	ok, err := s.Repo.RestaurantExists(req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("restaurant not found")
	}

	menuIDs := make([]uint, 0, len(req.Items))
	for _, it := range req.Items {
		menuIDs = append(menuIDs, it.MenuID)
	}
	ok, err = s.MenuRepo.MenusBelongToRestaurant(menuIDs, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("menu not in this restaurant")
	}

	now := time.Now()
	subtotal := decimal.Zero
	items := make([]entity.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		m, err := s.MenuRepo.FindByID(it.MenuID)
		if err != nil {
			return nil, errors.New("menu not found")
		}
		if !m.Available {
			return nil, errors.New("menu not available")
		}
		unit := EffectivePrice(m.Price, PromotionOf(m), now)
		lineTotal := unit.Mul(decimal.NewFromInt(int64(it.Qty))).Round(2)
		subtotal = subtotal.Add(lineTotal)
		items = append(items, entity.OrderItem{
			Name:      m.Name,
			Qty:       it.Qty,
			UnitPrice: unit,
			Total:     lineTotal,
			Note:      it.Note,
			MenuID:    m.ID,
		})
	}

	total := subtotal.Add(deliveryFee)

	var out CreateOrderRes
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		order := entity.Order{
			Status:       entity.StatusPending,
			Subtotal:     decimal.NewNullDecimal(subtotal),
			DeliveryFee:  deliveryFee,
			Total:        total,
			Address:      req.Address,
			UserID:       userID,
			RestaurantID: req.RestaurantID,
		}
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := s.Repo.CreateOrderItem(tx, &items[i]); err != nil {
				return err
			}
		}
		out = CreateOrderRes{ID: order.ID, Subtotal: subtotal, Total: total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ----- List & Detail -----

type OrderDetail struct {
	ID          uint               `json:"id"`
	Status      entity.OrderStatus `json:"status"`
	Address     string             `json:"address"`
	DeliveryFee decimal.Decimal    `json:"deliveryFee"`
	CreatedAt   time.Time          `json:"createdAt"`
	Items       []entity.OrderItem `json:"items"`
	Money       Reconciliation     `json:"money"`

	AcceptedAt  *time.Time `json:"acceptedAt,omitempty"`
	ReadyAt     *time.Time `json:"readyAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
}

// reconciled computes the order's authoritative figures, reports drift and
// refreshes the persisted caches when they were stale. The refresh is best
// effort; a failed write never surfaces to the reader.
func (s *OrderService) reconciled(o *entity.Order) Reconciliation {
	rate, err := s.RestRepo.GetCommissionRate(o.RestaurantID)
	if err != nil {
		rate = decimal.NullDecimal{}
	}
	rec, ev := Reconcile(o, rate)
	if ev != nil {
		if s.Drift != nil {
			s.Drift.DriftDetected(*ev)
		}
		_ = s.Repo.SaveReconciledAggregates(o.ID, rec.Subtotal, rec.Commission)
	}
	return rec
}

func (s *OrderService) detail(o *entity.Order) *OrderDetail {
	return &OrderDetail{
		ID:          o.ID,
		Status:      o.Status,
		Address:     o.Address,
		DeliveryFee: o.DeliveryFee,
		CreatedAt:   o.CreatedAt,
		Items:       o.Items,
		Money:       s.reconciled(o),
		AcceptedAt:  o.AcceptedAt,
		ReadyAt:     o.ReadyAt,
		DeliveredAt: o.DeliveredAt,
	}
}

func (s *OrderService) ListForUser(userID uint, limit int) ([]repository.OrderSummary, error) {
	return s.Repo.ListOrdersForUser(userID, limit)
}

func (s *OrderService) DetailForUser(userID, orderID uint) (*OrderDetail, error) {
	o, err := s.Repo.GetOrderForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	return s.detail(o), nil
}

type OwnerOrderListOut struct {
	Items []*OrderDetail `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

func (s *OrderService) ListForRestaurant(userID, restID uint, status *entity.OrderStatus, page, limit int) (*OwnerOrderListOut, error) {
	ok, err := s.RestRepo.IsOwnedBy(restID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	orders, total, err := s.Repo.ListOrdersForRestaurant(restID, status, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]*OrderDetail, 0, len(orders))
	for i := range orders {
		items = append(items, s.detail(&orders[i]))
	}
	return &OwnerOrderListOut{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *OrderService) DetailForRestaurant(userID, restID, orderID uint) (*OrderDetail, error) {
	ok, err := s.RestRepo.IsOwnedBy(restID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	o, err := s.Repo.GetOrderForRestaurant(restID, orderID)
	if err != nil {
		return nil, err
	}
	return s.detail(o), nil
}

// ----- Status transitions -----

// changeStatus runs the read-transition-persist sequence under the
// optimistic status guard, retrying once on conflict. extra is merged into
// the guarded UPDATE (e.g. courier assignment).
func (s *OrderService) changeStatus(orderID uint, requested entity.OrderStatus, actor ActorRole, extra map[string]any) (*entity.Order, error) {
	for attempt := 0; attempt < 2; attempt++ {
		o, err := s.Repo.GetOrderWithItems(orderID)
		if err != nil {
			return nil, err
		}
		res, err := Transition(o, requested, actor, time.Now())
		if err != nil {
			return nil, err
		}

		updates := make(map[string]any, len(res.Stamps)+len(extra))
		for col, at := range res.Stamps {
			updates[col] = at
		}
		for k, v := range extra {
			updates[k] = v
		}

		err = s.Repo.UpdateStatusGuard(s.DB, o.ID, o.Status, res.Status, updates)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if s.Events != nil {
			s.Events.PublishStatus(OrderStatusEvent{
				OrderID:      o.ID,
				RestaurantID: o.RestaurantID,
				Status:       res.Status,
				At:           time.Now(),
			})
		}
		return s.Repo.GetOrderWithItems(o.ID)
	}
	return nil, ErrOrderChanged
}

// OwnerUpdateStatus lets the owning restaurant move an order (accept,
// refuse, start preparing, mark ready, cancel).
func (s *OrderService) OwnerUpdateStatus(ownerID, orderID uint, requested entity.OrderStatus) (*entity.Order, error) {
	o, err := s.Repo.GetOrderWithItems(orderID)
	if err != nil {
		return nil, err
	}
	ok, err := s.RestRepo.IsOwnedBy(o.RestaurantID, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}
	return s.changeStatus(orderID, requested, RoleRestaurant, nil)
}

// CustomerCancel lets the customer back out while the order is still
// pending; past acceptance the lifecycle rejects it.
func (s *OrderService) CustomerCancel(userID, orderID uint) (*entity.Order, error) {
	if _, err := s.Repo.GetOrderForUser(userID, orderID); err != nil {
		return nil, ErrNotFound
	}
	return s.changeStatus(orderID, entity.StatusCancelled, RoleCustomer, nil)
}

// CourierClaim moves a ready order to assigned and records the courier.
func (s *OrderService) CourierClaim(courierUserID, orderID uint) (*entity.Order, error) {
	courier, err := s.UserRepo.FindCourierByUser(courierUserID)
	if err != nil {
		return nil, ErrForbidden
	}
	return s.changeStatus(orderID, entity.StatusAssigned, RoleCourier, map[string]any{"courier_id": courier.ID})
}

// CourierUpdateStatus advances an assigned order (picked_up, delivering,
// delivered) and only for the courier the order belongs to.
func (s *OrderService) CourierUpdateStatus(courierUserID, orderID uint, requested entity.OrderStatus) (*entity.Order, error) {
	courier, err := s.UserRepo.FindCourierByUser(courierUserID)
	if err != nil {
		return nil, ErrForbidden
	}
	o, err := s.Repo.GetOrderWithItems(orderID)
	if err != nil {
		return nil, err
	}
	if o.CourierID == nil || *o.CourierID != courier.ID {
		return nil, ErrForbidden
	}
	return s.changeStatus(orderID, requested, RoleCourier, nil)
}

// AdminUpdateStatus is unrestricted by ownership; the lifecycle rules
// still apply.
func (s *OrderService) AdminUpdateStatus(orderID uint, requested entity.OrderStatus) (*entity.Order, error) {
	return s.changeStatus(orderID, requested, RoleAdmin, nil)
}
