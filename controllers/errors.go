package controllers

import (
	"errors"

	"github.com/BBKML/BaibebaloProjets-sub005/pkg/resp"
	"github.com/BBKML/BaibebaloProjets-sub005/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respServiceError maps service errors onto the JSON envelope. Lifecycle
// violations are client mistakes; a lost optimistic race is a conflict the
// client may retry once more by hand.
func respServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrCancelForbidden):
		resp.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		resp.NotFound(c, "not found")
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrTerminalState):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrOrderChanged):
		resp.Conflict(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}
