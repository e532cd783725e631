package controllers

import (
	"strconv"

	"github.com/BBKML/BaibebaloProjets-sub005/pkg/resp"
	"github.com/BBKML/BaibebaloProjets-sub005/services"
	"github.com/BBKML/BaibebaloProjets-sub005/utils"

	"github.com/gin-gonic/gin"
)

// OrderController serves the customer-facing order endpoints.
type OrderController struct {
	Service *services.OrderService
}

func NewOrderController(s *services.OrderService) *OrderController {
	return &OrderController{Service: s}
}

// POST /orders
func (oc *OrderController) Create(c *gin.Context) {
	uid := utils.CurrentUserID(c)

	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := oc.Service.Create(uid, &req)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.Created(c, out)
}

// GET /profile/orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := oc.Service.ListForUser(uid, limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, items)
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	orderID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	out, err := oc.Service.DetailForUser(uid, orderID)
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, out)
}

// POST /orders/:id/cancel, allowed while the order is still pending.
func (oc *OrderController) Cancel(c *gin.Context) {
	uid := utils.CurrentUserID(c)
	orderID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	o, err := oc.Service.CustomerCancel(uid, orderID)
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": o.ID, "status": o.Status})
}
