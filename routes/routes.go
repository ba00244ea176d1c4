package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/config"
	"github.com/Pravindgholap/fashion-store/pkg/cache"
)

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, store *cache.Cache) {
	// Public catalog routes
	SetupProductRoutes(r, db, cfg, store)

	// User routes (JWT-protected): profile, addresses, cart
	SetupUserRoutes(r, db, cfg)

	// Order routes (JWT-protected)
	SetupOrderRoutes(r, db, cfg)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, db, cfg, store)
}
