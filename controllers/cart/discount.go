package cartControllers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Pravindgholap/fashion-store/errs"
	"github.com/Pravindgholap/fashion-store/middleware"
	"github.com/Pravindgholap/fashion-store/models"
)

type ApplyDiscountInput struct {
	DiscountCode string `json:"discount_code" binding:"required,max=50"`
}

type discountPreviewResponse struct {
	DiscountCode   string          `json:"discount_code"`
	OriginalAmount decimal.Decimal `json:"original_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	FinalAmount    decimal.Decimal `json:"final_amount"`
}

// POST /cart/apply-discount
//
// Previews a discount against the current cart. Unlike order creation,
// every failed check is a hard error here.
func ApplyDiscount(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.UserID(c)

		var input ApplyDiscountInput
		if err := c.ShouldBindJSON(&input); err != nil {
			errs.Abort(c, errs.Validation("Invalid input: "+err.Error()))
			return
		}

		var discount models.DiscountCode
		if err := db.Where("code = ?", input.DiscountCode).First(&discount).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errs.Abort(c, errs.InvalidDiscount("Invalid discount code"))
				return
			}
			errs.Abort(c, errs.Unexpected(err))
			return
		}
		if !discount.IsValidAt(time.Now()) {
			errs.Abort(c, errs.InvalidDiscount("Discount code is expired or inactive"))
			return
		}

		var cart models.Cart
		err := db.
			Preload("Items.ProductVariant.Product").
			Where("user_id = ?", userID).First(&cart).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				errs.Abort(c, errs.EmptyCart())
				return
			}
			errs.Abort(c, errs.Unexpected(err))
			return
		}

		subtotal := cart.TotalPrice()
		if subtotal.LessThan(discount.MinOrderAmount) {
			errs.Abort(c, errs.InvalidDiscount("Minimum order amount is "+discount.MinOrderAmount.String()))
			return
		}

		discountAmount := discount.CalculateDiscount(subtotal)
		c.JSON(200, discountPreviewResponse{
			DiscountCode:   discount.Code,
			OriginalAmount: subtotal,
			DiscountAmount: discountAmount,
			FinalAmount:    subtotal.Sub(discountAmount),
		})
	}
}
