package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/config"
	cartControllers "github.com/Pravindgholap/fashion-store/controllers/cart"
	userControllers "github.com/Pravindgholap/fashion-store/controllers/user"
	"github.com/Pravindgholap/fashion-store/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		userGroup.GET("/profile", userControllers.GetProfile(db))
		userGroup.PUT("/profile", userControllers.UpdateProfile(db))

		userGroup.GET("/addresses", userControllers.ListAddresses(db))
		userGroup.POST("/addresses", userControllers.CreateAddress(db))
		userGroup.PUT("/addresses/:address_id", userControllers.UpdateAddress(db))
		userGroup.DELETE("/addresses/:address_id", userControllers.DeleteAddress(db))

		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetCart(db))
			cartGroup.POST("/add", cartControllers.AddToCart(db))
			cartGroup.PUT("/items/:item_id", cartControllers.UpdateCartItem(db))
			cartGroup.DELETE("/items/:item_id", cartControllers.RemoveCartItem(db))
			cartGroup.DELETE("/clear", cartControllers.ClearCart(db))
			cartGroup.POST("/apply-discount", cartControllers.ApplyDiscount(db))
		}
	}
}
