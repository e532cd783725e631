package controllers

import (
	"strconv"
	"time"

	"github.com/BBKML/BaibebaloProjets-sub005/entity"
	"github.com/BBKML/BaibebaloProjets-sub005/pkg/resp"
	"github.com/BBKML/BaibebaloProjets-sub005/services"
	"github.com/BBKML/BaibebaloProjets-sub005/utils"

	"github.com/gin-gonic/gin"
)

// OwnerOrderController serves the restaurant side: order queue, detail,
// status changes, statistics and earnings.
type OwnerOrderController struct {
	Orders *services.OrderService
	Stats  *services.StatsService
}

func NewOwnerOrderController(orders *services.OrderService, stats *services.StatsService) *OwnerOrderController {
	return &OwnerOrderController{Orders: orders, Stats: stats}
}

// GET /partner/restaurant/:id/orders?status=&page=&limit=
func (oc *OwnerOrderController) List(c *gin.Context) {
	restID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var status *entity.OrderStatus
	if s := c.Query("status"); s != "" {
		st := entity.OrderStatus(s)
		status = &st
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	out, err := oc.Orders.ListForRestaurant(utils.CurrentUserID(c), restID, status, page, limit)
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /partner/restaurant/:id/orders/:oid
func (oc *OwnerOrderController) Detail(c *gin.Context) {
	restID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	orderID, ok := paramUint(c, "oid")
	if !ok {
		return
	}
	out, err := oc.Orders.DetailForRestaurant(utils.CurrentUserID(c), restID, orderID)
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, out)
}

type statusIn struct {
	Status entity.OrderStatus `json:"status" binding:"required"`
}

// PATCH /partner/restaurant/:id/orders/:oid/status
func (oc *OwnerOrderController) UpdateStatus(c *gin.Context) {
	orderID, ok := paramUint(c, "oid")
	if !ok {
		return
	}
	var req statusIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	o, err := oc.Orders.OwnerUpdateStatus(utils.CurrentUserID(c), orderID, req.Status)
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": o.ID, "status": o.Status})
}

// dateRange reads ?from=YYYY-MM-DD&to=YYYY-MM-DD, defaulting to the last
// 30 days. `to` is exclusive.
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
	to := now
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			resp.BadRequest(c, "bad from date")
			return from, to, false
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			resp.BadRequest(c, "bad to date")
			return from, to, false
		}
		to = t.AddDate(0, 0, 1)
	}
	return from, to, true
}

// GET /partner/restaurant/:id/earnings
func (oc *OwnerOrderController) Earnings(c *gin.Context) {
	restID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	out, err := oc.Stats.Earnings(utils.CurrentUserID(c), restID, from, to)
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /partner/restaurant/:id/stats
func (oc *OwnerOrderController) DailyStats(c *gin.Context) {
	restID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	out, err := oc.Stats.DailyOrders(utils.CurrentUserID(c), restID, from, to)
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, out)
}
