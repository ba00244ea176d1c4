package productcontroller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/errs"
	"github.com/Pravindgholap/fashion-store/models"
	"github.com/Pravindgholap/fashion-store/pkg/cache"
)

type UpdateProductInput struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	CategoryID    *uint            `json:"category_id"`
	Price         *decimal.Decimal `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Gender        *string          `json:"gender"`
	Brand         *string          `json:"brand"`
	Material      *string          `json:"material"`
	IsActive      *bool            `json:"is_active"`
	IsFeatured    *bool            `json:"is_featured"`
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB, store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}

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

		updates := map[string]interface{}{}
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.CategoryID != nil {
			var category models.Category
			if err := db.First(&category, *input.CategoryID).Error; err != nil {
				errs.Abort(c, errs.Validation("Category does not exist"))
				return
			}
			updates["category_id"] = *input.CategoryID
		}
		if input.Price != nil {
			updates["price"] = *input.Price
		}
		if input.DiscountPrice != nil {
			updates["discount_price"] = *input.DiscountPrice
		}
		if input.Gender != nil {
			switch models.Gender(*input.Gender) {
			case models.GenderMen, models.GenderWomen, models.GenderKids, models.GenderUnisex:
				updates["gender"] = *input.Gender
			default:
				errs.Abort(c, errs.Validation("Invalid gender"))
				return
			}
		}
		if input.Brand != nil {
			updates["brand"] = *input.Brand
		}
		if input.Material != nil {
			updates["material"] = *input.Material
		}
		if input.IsActive != nil {
			updates["is_active"] = *input.IsActive
		}
		if input.IsFeatured != nil {
			updates["is_featured"] = *input.IsFeatured
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				errs.Abort(c, errs.Unexpected(err))
				return
			}
		}

		if err := db.Preload("Category").Preload("Images").Preload("Variants").Preload("Reviews").
			First(&product, product.ID).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		invalidateProductCache(c, store)
		c.JSON(200, serializeProductDetail(product))
	}
}

type UpdateVariantStockInput struct {
	StockQuantity int `json:"stock_quantity" binding:"min=0"`
}

// PUT /admin/variants/:id/stock
func UpdateVariantStock(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateVariantStockInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}

		res := db.Model(&models.ProductVariant{}).
			Where("id = ?", c.Param("id")).
			Update("stock_quantity", input.StockQuantity)
		if res.Error != nil {
			errs.Abort(c, errs.Unexpected(res.Error))
			return
		}
		if res.RowsAffected == 0 {
			errs.Abort(c, errs.NotFound("Product variant not found"))
			return
		}
		c.JSON(200, gin.H{"message": "Stock updated"})
	}
}
