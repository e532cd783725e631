package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/BBKML/BaibebaloProjets-sub005/pkg/resp"
	"github.com/BBKML/BaibebaloProjets-sub005/services"
	"github.com/BBKML/BaibebaloProjets-sub005/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type MenuController struct {
	Service *services.MenuService
}

func NewMenuController(s *services.MenuService) *MenuController {
	return &MenuController{Service: s}
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		resp.BadRequest(c, "bad "+name)
		return 0, false
	}
	return uint(v), true
}

// GET /restaurants/:id/menu: customer view with current price quotes.
func (mc *MenuController) ListForCustomer(c *gin.Context) {
	restID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	views, err := mc.Service.ListForCustomer(restID, time.Now())
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, views)
}

// GET /partner/restaurant/:id/menu
func (mc *MenuController) ListForOwner(c *gin.Context) {
	restID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	menus, err := mc.Service.ListForOwner(utils.CurrentUserID(c), restID)
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, menus)
}

type menuIn struct {
	Name   string          `json:"name" binding:"required"`
	Detail string          `json:"detail"`
	Price  decimal.Decimal `json:"price" binding:"required"`
}

// POST /partner/restaurant/:id/menu
func (mc *MenuController) Create(c *gin.Context) {
	restID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req menuIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if req.Price.Sign() <= 0 {
		resp.BadRequest(c, "price must be positive")
		return
	}
	m := &entity.Menu{
		Name:         req.Name,
		Detail:       req.Detail,
		Price:        req.Price,
		Available:    true,
		RestaurantID: restID,
	}
	if err := mc.Service.Create(utils.CurrentUserID(c), m); err != nil {
		respServiceError(c, err)
		return
	}
	resp.Created(c, m)
}

// PUT /partner/restaurant/:id/menu/:mid
func (mc *MenuController) Update(c *gin.Context) {
	menuID, ok := paramUint(c, "mid")
	if !ok {
		return
	}
	var req menuIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if req.Price.Sign() <= 0 {
		resp.BadRequest(c, "price must be positive")
		return
	}
	m, err := mc.Service.Repo.FindByID(menuID)
	if err != nil {
		respServiceError(c, err)
		return
	}
	m.Name = req.Name
	m.Detail = req.Detail
	m.Price = req.Price
	if err := mc.Service.Update(utils.CurrentUserID(c), m); err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, m)
}

type availabilityIn struct {
	Available *bool `json:"available" binding:"required"`
}

// PATCH /partner/restaurant/:id/menu/:mid/availability
func (mc *MenuController) SetAvailability(c *gin.Context) {
	menuID, ok := paramUint(c, "mid")
	if !ok {
		return
	}
	var req availabilityIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := mc.Service.SetAvailability(utils.CurrentUserID(c), menuID, *req.Available); err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": menuID, "available": *req.Available})
}

type promotionIn struct {
	DiscountType  string          `json:"discountType" binding:"required"`
	DiscountValue decimal.Decimal `json:"discountValue" binding:"required"`
	StartAt       *time.Time      `json:"startAt"`
	EndAt         *time.Time      `json:"endAt"`
}

// PUT /partner/restaurant/:id/menu/:mid/promotion
//
// The four validation error kinds from the pricing engine are surfaced
// verbatim.
func (mc *MenuController) SetPromotion(c *gin.Context) {
	menuID, ok := paramUint(c, "mid")
	if !ok {
		return
	}
	var req promotionIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	err := mc.Service.SetPromotion(utils.CurrentUserID(c), menuID, req.DiscountType, req.DiscountValue, req.StartAt, req.EndAt)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDiscountType),
			errors.Is(err, services.ErrInvalidDiscountValue),
			errors.Is(err, services.ErrInvalidPercentage),
			errors.Is(err, services.ErrInvalidFixedAmount):
			resp.BadRequest(c, err.Error())
		default:
			respServiceError(c, err)
		}
		return
	}
	resp.OK(c, gin.H{"id": menuID})
}

// DELETE /partner/restaurant/:id/menu/:mid/promotion
func (mc *MenuController) ClearPromotion(c *gin.Context) {
	menuID, ok := paramUint(c, "mid")
	if !ok {
		return
	}
	if err := mc.Service.ClearPromotion(utils.CurrentUserID(c), menuID); err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": menuID})
}
