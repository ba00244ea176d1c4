package productcontroller

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/errs"
	"github.com/Pravindgholap/fashion-store/models"
	"github.com/Pravindgholap/fashion-store/pkg/cache"
	"github.com/Pravindgholap/fashion-store/pkg/logger"
)

type VariantInput struct {
	Size          string `json:"size" binding:"required,max=10"`
	Color         string `json:"color" binding:"required,max=50"`
	StockQuantity int    `json:"stock_quantity" binding:"min=0"`
	SKU           string `json:"sku" binding:"required,max=50"`
}

type ImageInput struct {
	Image     string `json:"image" binding:"required"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
}

type CreateProductInput struct {
	Name          string           `json:"name" binding:"required,max=200"`
	Description   string           `json:"description" binding:"required"`
	CategoryID    uint             `json:"category_id" binding:"required"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Gender        string           `json:"gender" binding:"required,oneof=men women kids unisex"`
	Brand         string           `json:"brand"`
	Material      string           `json:"material"`
	IsActive      *bool            `json:"is_active"`
	IsFeatured    bool             `json:"is_featured"`
	Variants      []VariantInput   `json:"variants" binding:"dive"`
	Images        []ImageInput     `json:"images" binding:"dive"`
}

// POST /admin/products
func CreateProduct(db *gorm.DB, store *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}

		var category models.Category
		if err := db.First(&category, input.CategoryID).Error; err != nil {
			errs.Abort(c, errs.Validation("Category does not exist"))
			return
		}

		product := models.Product{
			Name:        input.Name,
			Description: input.Description,
			CategoryID:  input.CategoryID,
			Price:       input.Price,
			Gender:      models.Gender(input.Gender),
			Brand:       input.Brand,
			Material:    input.Material,
			IsActive:    true,
			IsFeatured:  input.IsFeatured,
		}
		if input.IsActive != nil {
			product.IsActive = *input.IsActive
		}
		if input.DiscountPrice != nil {
			product.DiscountPrice = decimal.NullDecimal{Decimal: *input.DiscountPrice, Valid: true}
		}
		for _, v := range input.Variants {
			product.Variants = append(product.Variants, models.ProductVariant{
				Size:          v.Size,
				Color:         v.Color,
				StockQuantity: v.StockQuantity,
				SKU:           v.SKU,
			})
		}
		for _, img := range input.Images {
			product.Images = append(product.Images, models.ProductImage{
				Image:     img.Image,
				AltText:   img.AltText,
				IsPrimary: img.IsPrimary,
			})
		}

		if err := db.Create(&product).Error; err != nil {
			errs.Abort(c, errs.Conflict(err, "Failed to create product"))
			return
		}

		invalidateProductCache(c, store)
		c.JSON(201, serializeProductDetail(product))
	}
}

func invalidateProductCache(c *gin.Context, store *cache.Cache) {
	if err := store.Delete(c.Request.Context(), "products:featured", "products:trending"); err != nil {
		logger.Debug().Err(err).Msg("cache invalidation failed")
	}
}
