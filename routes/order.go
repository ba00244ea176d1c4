package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/config"
	orderControllers "github.com/Pravindgholap/fashion-store/controllers/order"
	"github.com/Pravindgholap/fashion-store/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		// Create a new order from the current cart
		orders.POST("/create", orderControllers.CreateOrderHandler(db, cfg.Pricing))

		orders.GET("/", orderControllers.ListOrdersHandler(db))
		orders.GET("/track/:order_number", orderControllers.TrackOrderHandler(db))
		orders.GET("/:order_id", orderControllers.GetOrderHandler(db))
	}
}
