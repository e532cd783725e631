package controllers

import (
	"strconv"

	"github.com/BBKML/BaibebaloProjets-sub005/pkg/resp"
	"github.com/BBKML/BaibebaloProjets-sub005/repository"

	"github.com/gin-gonic/gin"
)

type RestaurantController struct {
	Repo *repository.RestaurantRepository
}

func NewRestaurantController(repo *repository.RestaurantRepository) *RestaurantController {
	return &RestaurantController{Repo: repo}
}

// GET /restaurants
func (rc *RestaurantController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	out, err := rc.Repo.List(limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, out)
}

// GET /restaurants/:id
func (rc *RestaurantController) Detail(c *gin.Context) {
	restID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	out, err := rc.Repo.FindByID(restID)
	if err != nil {
		respServiceError(c, err)
		return
	}
	resp.OK(c, out)
}
