package controllers

import (
	"strconv"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/BBKML/BaibebaloProjets-sub005/pkg/resp"
	"github.com/BBKML/BaibebaloProjets-sub005/repository"
	"github.com/BBKML/BaibebaloProjets-sub005/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminController: status overrides, commission-rate management and the
// drift audit.
type AdminController struct {
	Orders   *services.OrderService
	Stats    *services.StatsService
	RestRepo *repository.RestaurantRepository
}

func NewAdminController(orders *services.OrderService, stats *services.StatsService, restRepo *repository.RestaurantRepository) *AdminController {
	return &AdminController{Orders: orders, Stats: stats, RestRepo: restRepo}
}

// PATCH /admin/orders/:oid/status. Lifecycle rules still apply, but the
// admin role may cancel at any non-terminal stage.
func (ac *AdminController) UpdateStatus(c *gin.Context) {
	orderID, ok := paramUint(c, "oid")
	if !ok {
		return
	}
	var req statusIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	o, err := ac.Orders.AdminUpdateStatus(orderID, req.Status)
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": o.ID, "status": o.Status})
}

type rateIn struct {
	// Null clears the override so the platform default applies again.
	CommissionRate *decimal.Decimal `json:"commissionRate"`
}

// PATCH /admin/restaurants/:id/commission-rate
func (ac *AdminController) SetRestaurantRate(c *gin.Context) {
	restID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req rateIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	var rate decimal.NullDecimal
	if req.CommissionRate != nil {
		if req.CommissionRate.Sign() < 0 || req.CommissionRate.GreaterThan(decimal.NewFromInt(100)) {
			resp.BadRequest(c, "commission rate must be between 0 and 100")
			return
		}
		rate = decimal.NewNullDecimal(*req.CommissionRate)
	}
	if err := ac.RestRepo.SetCommissionRate(restID, rate); err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": restID, "commissionRate": rate})
}

// PATCH /admin/orders/:oid/commission-rate, a per-order override, e.g. to
// freeze the rate that was in force when the order was placed.
func (ac *AdminController) SetOrderRate(c *gin.Context) {
	orderID, ok := paramUint(c, "oid")
	if !ok {
		return
	}
	var req rateIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	var rate decimal.NullDecimal
	if req.CommissionRate != nil {
		if req.CommissionRate.Sign() < 0 || req.CommissionRate.GreaterThan(decimal.NewFromInt(100)) {
			resp.BadRequest(c, "commission rate must be between 0 and 100")
			return
		}
		rate = decimal.NewNullDecimal(*req.CommissionRate)
	}
	err := ac.Orders.Repo.DB.Model(&entity.Order{}).
		Where("id = ?", orderID).
		Update("commission_rate", rate).Error
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": orderID, "commissionRate": rate})
}

// GET /admin/drift?limit= lists orders whose persisted aggregates disagree
// with their line items.
func (ac *AdminController) DriftAudit(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	events, err := ac.Stats.AuditDrift(limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, events)
}
