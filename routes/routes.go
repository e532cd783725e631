package routes

import (
	"github.com/BBKML/BaibebaloProjets-sub005/configs"
	"github.com/BBKML/BaibebaloProjets-sub005/controllers"
	"github.com/BBKML/BaibebaloProjets-sub005/middlewares"
	"github.com/BBKML/BaibebaloProjets-sub005/repository"
	"github.com/BBKML/BaibebaloProjets-sub005/services"
	"github.com/BBKML/BaibebaloProjets-sub005/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	userRepo := repository.NewUserRepository(db)
	restRepo := repository.NewRestaurantRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	// Services
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	menuSvc := services.NewMenuService(menuRepo, restRepo)
	orderSvc := services.NewOrderService(db, orderRepo, menuRepo, restRepo, userRepo)
	statsSvc := services.NewStatsService(orderRepo, restRepo)

	// WebSocket hub for restaurant order feeds
	hub := ws.NewOrderEventHub(restRepo)
	orderSvc.Events = hub
	go hub.Run()

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	restCtrl := controllers.NewRestaurantController(restRepo)
	menuCtrl := controllers.NewMenuController(menuSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	ownerCtrl := controllers.NewOwnerOrderController(orderSvc, statsSvc)
	courierCtrl := controllers.NewCourierController(orderSvc, orderRepo)
	adminCtrl := controllers.NewAdminController(orderSvc, statsSvc, restRepo)

	auth := func(roles ...string) gin.HandlerFunc {
		return middlewares.AuthMiddleware(cfg.JWTSecret, roles...)
	}

	// Auth
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
		a.GET("/me", auth(), authCtrl.Me)
	}

	// Public browsing
	r.GET("/restaurants", restCtrl.List)
	r.GET("/restaurants/:id", restCtrl.Detail)
	r.GET("/restaurants/:id/menu", menuCtrl.ListForCustomer)

	// Orders (customer)
	u := r.Group("/", auth())
	{
		u.POST("/orders", orderCtrl.Create)
		u.GET("/orders/:id", orderCtrl.Detail)
		u.POST("/orders/:id/cancel", orderCtrl.Cancel)
	}
	r.GET("/profile/orders", auth(), orderCtrl.ListForMe)

	// Partner Restaurant (owner/admin)
	partnerRest := r.Group("/partner/restaurant", auth("owner", "admin"))
	{
		partnerRest.GET("/:id/orders", ownerCtrl.List)
		partnerRest.GET("/:id/orders/:oid", ownerCtrl.Detail)
		partnerRest.PATCH("/:id/orders/:oid/status", ownerCtrl.UpdateStatus)
		partnerRest.GET("/:id/earnings", ownerCtrl.Earnings)
		partnerRest.GET("/:id/stats", ownerCtrl.DailyStats)

		partnerRest.GET("/:id/menu", menuCtrl.ListForOwner)
		partnerRest.POST("/:id/menu", menuCtrl.Create)
		partnerRest.PUT("/:id/menu/:mid", menuCtrl.Update)
		partnerRest.PATCH("/:id/menu/:mid/availability", menuCtrl.SetAvailability)
		partnerRest.PUT("/:id/menu/:mid/promotion", menuCtrl.SetPromotion)
		partnerRest.DELETE("/:id/menu/:mid/promotion", menuCtrl.ClearPromotion)
	}

	// Partner Courier (courier/admin)
	partnerCourier := r.Group("/partner/courier", auth("courier", "admin"))
	{
		partnerCourier.GET("/jobs", courierCtrl.Jobs)
		partnerCourier.POST("/jobs/:oid/claim", courierCtrl.Claim)
		partnerCourier.PATCH("/jobs/:oid/status", courierCtrl.UpdateStatus)
	}

	// Admin
	admin := r.Group("/admin", auth("admin"))
	{
		admin.PATCH("/orders/:oid/status", adminCtrl.UpdateStatus)
		admin.PATCH("/orders/:oid/commission-rate", adminCtrl.SetOrderRate)
		admin.PATCH("/restaurants/:id/commission-rate", adminCtrl.SetRestaurantRate)
		admin.GET("/drift", adminCtrl.DriftAudit)
	}

	// WebSocket order feed (owner/admin)
	r.GET("/ws/restaurants/:id/orders", auth("owner", "admin"), hub.HandleWebSocket)
}
