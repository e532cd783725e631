package controllers

import (
	"strconv"

	"github.com/BBKML/BaibebaloProjets-sub005/pkg/resp"
	"github.com/BBKML/BaibebaloProjets-sub005/repository"
	"github.com/BBKML/BaibebaloProjets-sub005/services"
	"github.com/BBKML/BaibebaloProjets-sub005/utils"

	"github.com/gin-gonic/gin"
)

// CourierController serves the delivery side: available jobs, claiming an
// order, and advancing it to delivered.
type CourierController struct {
	Orders *services.OrderService
	Repo   *repository.OrderRepository
}

func NewCourierController(orders *services.OrderService, repo *repository.OrderRepository) *CourierController {
	return &CourierController{Orders: orders, Repo: repo}
}

// GET /partner/courier/jobs: orders ready for pickup.
func (cc *CourierController) Jobs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	orders, err := cc.Repo.ListReadyForPickup(limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, orders)
}

// POST /partner/courier/jobs/:oid/claim, ready → assigned.
func (cc *CourierController) Claim(c *gin.Context) {
	orderID, ok := paramUint(c, "oid")
	if !ok {
		return
	}
	o, err := cc.Orders.CourierClaim(utils.CurrentUserID(c), orderID)
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": o.ID, "status": o.Status})
}

// PATCH /partner/courier/jobs/:oid/status: picked_up / delivering /
// delivered, only for the courier holding the job.
func (cc *CourierController) UpdateStatus(c *gin.Context) {
	orderID, ok := paramUint(c, "oid")
	if !ok {
		return
	}
	var req statusIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	o, err := cc.Orders.CourierUpdateStatus(utils.CurrentUserID(c), orderID, req.Status)
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": o.ID, "status": o.Status})
}
