// services/menu_service.go
package services

import (
	"time"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/BBKML/BaibebaloProjets-sub005/repository"
	"github.com/shopspring/decimal"
)

type MenuService struct {
	Repo     *repository.MenuRepository
	RestRepo *repository.RestaurantRepository
}

func NewMenuService(repo *repository.MenuRepository, restRepo *repository.RestaurantRepository) *MenuService {
	return &MenuService{Repo: repo, RestRepo: restRepo}
}

// MenuView is a menu item with its current price quote, as shown to
// customers.
type MenuView struct {
	ID     uint       `json:"id"`
	Name   string     `json:"name"`
	Detail string     `json:"detail"`
	Quote  PriceQuote `json:"quote"`
}

// ListForCustomer returns the available items of a restaurant priced at
// asOf. Expired promotions degrade to the base price here without ever
// touching the stored descriptor.
func (s *MenuService) ListForCustomer(restID uint, asOf time.Time) ([]MenuView, error) {
	menus, err := s.Repo.FindByRestaurant(restID, true)
	if err != nil {
		return nil, err
	}
	out := make([]MenuView, 0, len(menus))
	for i := range menus {
		m := &menus[i]
		out = append(out, MenuView{
			ID:     m.ID,
			Name:   m.Name,
			Detail: m.Detail,
			Quote:  QuotePrice(m.Price, PromotionOf(m), asOf),
		})
	}
	return out, nil
}

func (s *MenuService) ListForOwner(ownerID, restID uint) ([]entity.Menu, error) {
	if err := s.requireOwner(ownerID, restID); err != nil {
		return nil, err
	}
	return s.Repo.FindByRestaurant(restID, false)
}

func (s *MenuService) Create(ownerID uint, m *entity.Menu) error {
	if err := s.requireOwner(ownerID, m.RestaurantID); err != nil {
		return err
	}
	return s.Repo.Create(m)
}

func (s *MenuService) Update(ownerID uint, m *entity.Menu) error {
	if err := s.requireOwner(ownerID, m.RestaurantID); err != nil {
		return err
	}
	return s.Repo.Update(m)
}

func (s *MenuService) SetAvailability(ownerID, menuID uint, available bool) error {
	m, err := s.Repo.FindByID(menuID)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ownerID, m.RestaurantID); err != nil {
		return err
	}
	return s.Repo.SetAvailability(menuID, available)
}

// SetPromotion validates and stores a promotion descriptor. The
// validation errors are returned verbatim so the endpoint can surface
// the exact kind to the caller.
func (s *MenuService) SetPromotion(ownerID, menuID uint, discountType string, value decimal.Decimal, startAt, endAt *time.Time) error {
	m, err := s.Repo.FindByID(menuID)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ownerID, m.RestaurantID); err != nil {
		return err
	}
	if err := ValidatePromotion(m.Price, discountType, value); err != nil {
		return err
	}
	return s.Repo.SetPromotion(menuID, discountType, value, startAt, endAt)
}

func (s *MenuService) ClearPromotion(ownerID, menuID uint) error {
	m, err := s.Repo.FindByID(menuID)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ownerID, m.RestaurantID); err != nil {
		return err
	}
	return s.Repo.ClearPromotion(menuID)
}

func (s *MenuService) requireOwner(ownerID, restID uint) error {
	ok, err := s.RestRepo.IsOwnedBy(restID, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
