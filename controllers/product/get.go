package productcontroller

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/errs"
	"github.com/Pravindgholap/fashion-store/models"
	"github.com/Pravindgholap/fashion-store/pkg/cache"
	"github.com/Pravindgholap/fashion-store/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GET /products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		categoryID := c.Query("category_id")
		gender := c.Query("gender")
		brand := c.Query("brand")
		size := c.Query("size")
		color := c.Query("color")
		sortBy := c.DefaultQuery("sort_by", "created_at")
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}

		query := db.Model(&models.Product{}).
			Where("products.is_active = ?", true).
			Preload("Category").
			Preload("Images").
			Preload("Reviews")

		if search != "" {
			like := "%" + strings.ToLower(search) + "%"
			query = query.Where(
				"LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.brand) LIKE ?",
				like, like, like,
			)
		}
		if categoryID != "" {
			query = query.Where("products.category_id = ?", categoryID)
		}
		if gender != "" {
			query = query.Where("products.gender = ?", gender)
		}
		if brand != "" {
			query = query.Where("products.brand = ?", brand)
		}
		if minPrice := c.Query("min_price"); minPrice != "" {
			mp, err := decimal.NewFromString(minPrice)
			if err != nil {
				errs.Abort(c, errs.Validation("Invalid min_price"))
				return
			}
			query = query.Where("products.price >= ?", mp)
		}
		if maxPrice := c.Query("max_price"); maxPrice != "" {
			mp, err := decimal.NewFromString(maxPrice)
			if err != nil {
				errs.Abort(c, errs.Validation("Invalid max_price"))
				return
			}
			query = query.Where("products.price <= ?", mp)
		}
		if size != "" || color != "" {
			variants := db.Model(&models.ProductVariant{}).Select("product_id")
			if size != "" {
				variants = variants.Where("size = ?", size)
			}
			if color != "" {
				variants = variants.Where("color = ?", color)
			}
			query = query.Where("products.id IN (?)", variants)
		}

		switch sortBy {
		case "price", "created_at", "name":
		default:
			sortBy = "created_at"
		}
		query = query.Order("products." + sortBy + " " + sortOrder)

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
		if pageSize < 1 || pageSize > maxPageSize {
			pageSize = defaultPageSize
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		var products []models.Product
		if err := query.Limit(pageSize).Offset((page - 1) * pageSize).Find(&products).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		c.JSON(200, gin.H{
			"count":     total,
			"page":      page,
			"page_size": pageSize,
			"results":   serializeProductList(products),
		})
	}
}

// GET /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		err := db.
			Preload("Category").
			Preload("Images").
			Preload("Variants").
			Preload("Reviews").
			Preload("Reviews.User").
			Where("is_active = ?", true).
			First(&product, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Abort(c, errs.NotFound("Product not found"))
			return
		}
		if err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		c.JSON(200, serializeProductDetail(product))
	}
}

// GET /products/featured
func GetFeaturedProducts(db *gorm.DB, store *cache.Cache) gin.HandlerFunc {
	return cachedProductList(db, store, "products:featured", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_featured = ? AND is_active = ?", true, true).Limit(8)
	})
}

// GET /products/trending
func GetTrendingProducts(db *gorm.DB, store *cache.Cache) gin.HandlerFunc {
	return cachedProductList(db, store, "products:trending", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).Order("created_at DESC").Limit(8)
	})
}

func cachedProductList(db *gorm.DB, store *cache.Cache, key string, scope func(*gorm.DB) *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cached []productListResponse
		hit, err := store.GetJSON(c.Request.Context(), key, &cached)
		if err != nil {
			logger.Debug().Err(err).Str("key", key).Msg("cache read failed, falling through")
		}
		if hit {
			c.JSON(200, cached)
			return
		}

		var products []models.Product
		if err := scope(db.Preload("Category").Preload("Images").Preload("Reviews")).
			Find(&products).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		out := serializeProductList(products)
		if err := store.SetJSON(c.Request.Context(), key, out, productListTTL); err != nil {
			logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
		}
		c.JSON(200, out)
	}
}

// GET /products/:id/outfit-suggestions
func GetOutfitSuggestions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		err := db.First(&product, "id = ?", c.Param("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Abort(c, errs.NotFound("Product not found"))
			return
		}
		if err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		var suggestions []models.Product
		if err := db.
			Preload("Category").
			Preload("Images").
			Preload("Reviews").
			Where("category_id = ? AND gender = ? AND is_active = ? AND id <> ?",
				product.CategoryID, product.Gender, true, product.ID).
			Limit(4).
			Find(&suggestions).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		c.JSON(200, serializeProductList(suggestions))
	}
}
