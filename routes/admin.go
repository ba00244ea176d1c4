package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/config"
	orderControllers "github.com/Pravindgholap/fashion-store/controllers/order"
	productcontroller "github.com/Pravindgholap/fashion-store/controllers/product"
	"github.com/Pravindgholap/fashion-store/middleware"
	"github.com/Pravindgholap/fashion-store/pkg/cache"
)

// SetupAdminRoutes registers all "/admin/*" endpoints behind the API key.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, store *cache.Cache) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateAPIKey(cfg.AdminAPIKey))
	{
		orders := admin.Group("/orders")
		{
			orders.GET("/", orderControllers.ListAllOrdersHandler(db))
			orders.GET("/feed", orderControllers.OrderFeedHandler)
			orders.GET("/export", orderControllers.ExportOrdersToExcel(db))
			orders.PUT("/:order_id/status", orderControllers.UpdateOrderStatusHandler(db))
		}

		products := admin.Group("/products")
		{
			products.POST("/", productcontroller.CreateProduct(db, store))
			products.PUT("/:id", productcontroller.UpdateProduct(db, store))
			products.DELETE("/:id", productcontroller.DeleteProduct(db, store))
		}

		admin.PUT("/variants/:id/stock", productcontroller.UpdateVariantStock(db))

		categories := admin.Group("/categories")
		{
			categories.POST("/", productcontroller.CreateCategory(db))
			categories.PUT("/:id", productcontroller.UpdateCategory(db))
			categories.DELETE("/:id", productcontroller.DeleteCategory(db))
		}
	}
}
