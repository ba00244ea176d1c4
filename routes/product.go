package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/config"
	productcontroller "github.com/Pravindgholap/fashion-store/controllers/product"
	"github.com/Pravindgholap/fashion-store/middleware"
	"github.com/Pravindgholap/fashion-store/pkg/cache"
)

// SetupProductRoutes registers the public "/products/*" endpoints. Only the
// review endpoint requires authentication.
func SetupProductRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, store *cache.Cache) {
	products := r.Group("/products")
	{
		products.GET("/categories", productcontroller.GetCategories(db))
		products.GET("/featured", productcontroller.GetFeaturedProducts(db, store))
		products.GET("/trending", productcontroller.GetTrendingProducts(db, store))
		products.GET("/", productcontroller.GetProducts(db))
		products.GET("/:id", productcontroller.GetProductByID(db))
		products.GET("/:id/outfit-suggestions", productcontroller.GetOutfitSuggestions(db))

		products.POST("/:id/reviews",
			middleware.ValidateToken(cfg.JWTSecret),
			productcontroller.AddReview(db))
	}
}
