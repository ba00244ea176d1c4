package cartControllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Pravindgholap/fashion-store/errs"
	"github.com/Pravindgholap/fashion-store/middleware"
	"github.com/Pravindgholap/fashion-store/models"
)

type AddToCartInput struct {
	ProductVariantID uint `json:"product_variant_id" binding:"required"`
	Quantity         int  `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemInput struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GetOrCreateCart fetches the caller's cart, creating it on first use. The
// create is an upsert against the unique user_id index, retried once when a
// concurrent request wins the race.
func GetOrCreateCart(db *gorm.DB, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return cart, errs.Unexpected(err)
	}

	cart = models.Cart{UserID: userID}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error; err != nil {
		return cart, errs.Conflict(err, "Failed to create cart")
	}
	if cart.ID != 0 {
		return cart, nil
	}

	// Lost the race; the row exists now.
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return cart, errs.Unexpected(err)
	}
	return cart, nil
}

// loadCart reloads a cart with items, variants and product data.
func loadCart(db *gorm.DB, cartID uint) (models.Cart, error) {
	var cart models.Cart
	err := db.
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("cart_items.id") }).
		Preload("Items.ProductVariant").
		Preload("Items.ProductVariant.Product").
		Preload("Items.ProductVariant.Product.Images").
		First(&cart, cartID).Error
	if err != nil {
		return cart, errs.Unexpected(err)
	}
	return cart, nil
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		cart, err := GetOrCreateCart(db, userID)
		if err != nil {
			errs.Abort(c, err)
			return
		}
		cart, err = loadCart(db, cart.ID)
		if err != nil {
			errs.Abort(c, err)
			return
		}
		c.JSON(200, serializeCart(cart))
	}
}

// POST /cart/add
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}

		var variant models.ProductVariant
		if err := db.Preload("Product").First(&variant, input.ProductVariantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errs.Abort(c, errs.NotFound("Product variant not found"))
				return
			}
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		cart, err := GetOrCreateCart(db, userID)
		if err != nil {
			errs.Abort(c, err)
			return
		}

		// Merge with an existing line for the same variant.
		quantity := input.Quantity
		var existing models.CartItem
		err = db.Where("cart_id = ? AND product_variant_id = ?", cart.ID, variant.ID).First(&existing).Error
		if err == nil {
			quantity += existing.Quantity
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		if variant.StockQuantity < quantity {
			errs.Abort(c, errs.InsufficientStock(variant.Product.Name))
			return
		}

		item := models.CartItem{
			CartID:           cart.ID,
			ProductVariantID: variant.ID,
			Quantity:         quantity,
			AddedAt:          time.Now(),
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_variant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "added_at"}),
		}).Create(&item).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		cart, err = loadCart(db, cart.ID)
		if err != nil {
			errs.Abort(c, err)
			return
		}
		c.JSON(201, serializeCart(cart))
	}
}

// PUT /cart/items/:item_id
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		itemID := c.Param("item_id")

		var input UpdateCartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}

		item, err := findUserCartItem(db, userID, itemID)
		if err != nil {
			errs.Abort(c, err)
			return
		}

		if item.ProductVariant.StockQuantity < input.Quantity {
			errs.Abort(c, errs.InsufficientStock(item.ProductVariant.Product.Name))
			return
		}

		if err := db.Model(&item).Update("quantity", input.Quantity).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		cart, err := loadCart(db, item.CartID)
		if err != nil {
			errs.Abort(c, err)
			return
		}
		c.JSON(200, serializeCart(cart))
	}
}

// DELETE /cart/items/:item_id
func RemoveCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)
		itemID := c.Param("item_id")

		item, err := findUserCartItem(db, userID, itemID)
		if err != nil {
			errs.Abort(c, err)
			return
		}

		if err := db.Delete(&models.CartItem{}, item.ID).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		cart, err := loadCart(db, item.CartID)
		if err != nil {
			errs.Abort(c, err)
			return
		}
		c.JSON(200, serializeCart(cart))
	}
}

// DELETE /cart/clear
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(200, gin.H{"message": "Cart is already empty"})
				return
			}
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		cart, err := loadCart(db, cart.ID)
		if err != nil {
			errs.Abort(c, err)
			return
		}
		c.JSON(200, serializeCart(cart))
	}
}

func findUserCartItem(db *gorm.DB, userID uint, itemID string) (models.CartItem, error) {
	var item models.CartItem
	err := db.
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		Preload("ProductVariant").
		Preload("ProductVariant.Product").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return item, errs.NotFound("Cart item not found")
	}
	if err != nil {
		return item, errs.Unexpected(err)
	}
	return item, nil
}

type cartItemResponse struct {
	ID               uint            `json:"id"`
	ProductVariantID uint            `json:"product_variant_id"`
	ProductName      string          `json:"product_name"`
	ProductPrice     decimal.Decimal `json:"product_price"`
	ProductImage     string          `json:"product_image"`
	Size             string          `json:"size"`
	Color            string          `json:"color"`
	Quantity         int             `json:"quantity"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

type cartResponse struct {
	ID         uint               `json:"id"`
	Items      []cartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func serializeCart(cart models.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		product := item.ProductVariant.Product
		image := ""
		for _, img := range product.Images {
			if image == "" || img.IsPrimary {
				image = img.Image
			}
			if img.IsPrimary {
				break
			}
		}
		items = append(items, cartItemResponse{
			ID:               item.ID,
			ProductVariantID: item.ProductVariantID,
			ProductName:      product.Name,
			ProductPrice:     product.CurrentPrice(),
			ProductImage:     image,
			Size:             item.ProductVariant.Size,
			Color:            item.ProductVariant.Color,
			Quantity:         item.Quantity,
			Subtotal:         item.Subtotal(),
		})
	}
	return cartResponse{
		ID:         cart.ID,
		Items:      items,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
		UpdatedAt:  cart.UpdatedAt,
	}
}
